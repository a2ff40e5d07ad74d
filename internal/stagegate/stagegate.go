// Package stagegate decides whether a stage's output already exists.
//
// The check is existence-only: a partially written or stale artifact still
// counts as done and must be removed by hand before a re-run regenerates it.
package stagegate

import (
	"errors"
	"io/fs"
	"os"
	"syscall"
)

// IsDone reports whether a filesystem entry exists at path. Directories count.
func IsDone(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	if err == nil {
		return true
	}
	// A file where a parent directory should be means nothing exists below it.
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
		return false
	}
	// Permission errors still prove the entry is there.
	return true
}
