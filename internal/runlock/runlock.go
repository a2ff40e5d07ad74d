// Package runlock keeps two loads from running in the same workspace at once.
//
// The pipeline assumes exclusive access to its target paths for a run; the
// lock makes a second concurrent invocation fail fast instead of racing on
// partially written files.
package runlock

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"demoload/internal/fileutil"
)

// FileName is the lock file created under the work root.
const FileName = ".demoload.lock"

// ErrLocked reports that another process holds the workspace lock.
var ErrLocked = errors.New("another demoload run is using this workspace")

// Lock is a held workspace lock.
type Lock struct {
	path string
	lock *flock.Flock
}

// Path returns the lock file location for root.
func Path(root string) string {
	return filepath.Join(root, FileName)
}

// Acquire takes the workspace lock without blocking.
func Acquire(root string) (*Lock, error) {
	path := Path(root)
	if err := fileutil.EnsureParent(path); err != nil {
		return nil, err
	}
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock file %s)", ErrLocked, path)
	}
	return &Lock{path: path, lock: fl}, nil
}

// Held reports whether a running process holds the lock for root. The lock
// file outlives every run, so only a failed lock attempt counts.
func Held(root string) (bool, error) {
	path := Path(root)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return false, fmt.Errorf("check lock: %w", err)
	}
	if !ok {
		return true, nil
	}
	if err := fl.Unlock(); err != nil {
		return false, fmt.Errorf("release lock check: %w", err)
	}
	return false, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Release drops the lock. It is safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
