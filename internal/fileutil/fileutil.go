package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DirMode is used for every directory the pipeline creates.
const DirMode os.FileMode = 0o777

// EnsureParent creates the parent directory of path (recursively).
func EnsureParent(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirMode); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}

// WriteFrom streams r into dst, truncating any existing file, and returns
// the number of bytes written. dst is written in place.
func WriteFrom(dst string, r io.Reader, mode os.FileMode) (int64, error) {
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return 0, err
	}
	written, err := io.Copy(out, r)
	if err != nil {
		_ = out.Close()
		return written, err
	}
	return written, out.Close()
}

// Size returns the size of the regular file or directory entry at path and
// whether it exists.
func Size(path string) (int64, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, false
	}
	return info.Size(), true
}
