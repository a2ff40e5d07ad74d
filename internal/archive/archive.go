// Package archive pulls single members out of zip archives that are supplied
// out-of-band.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"demoload/internal/fileutil"
	"demoload/internal/services"
)

// Extractor is the default zip-backed member extractor.
type Extractor struct{}

// ExtractMember implements the pipeline extractor contract.
func (Extractor) ExtractMember(archivePath, destDir, member string) (string, error) {
	return ExtractMember(archivePath, destDir, member)
}

// ExtractMember writes the archive member named member into destDir and
// returns the written path. Existing files are overwritten. A missing archive
// is reported as services.ErrPreconditionMissing; every other failure is
// services.ErrExtract.
func ExtractMember(archivePath, destDir, member string) (string, error) {
	member = strings.TrimSpace(member)
	if member == "" {
		return "", services.Wrap(services.ErrExtract, "extract", "select member", "member name is empty", nil)
	}
	if _, err := os.Stat(archivePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", services.Wrap(services.ErrPreconditionMissing, "extract", "locate archive",
				fmt.Sprintf("archive %s is missing; it must be supplied manually", archivePath), err)
		}
		return "", services.Wrap(services.ErrExtract, "extract", "locate archive", archivePath, err)
	}

	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", services.Wrap(services.ErrExtract, "extract", "open archive", archivePath, err)
	}
	defer zr.Close()

	var entry *zip.File
	for _, f := range zr.File {
		if f.Name == member {
			entry = f
			break
		}
	}
	if entry == nil {
		return "", services.Wrap(services.ErrExtract, "extract", "select member",
			fmt.Sprintf("%s not found in %s", member, archivePath), nil)
	}
	if entry.FileInfo().IsDir() {
		return "", services.Wrap(services.ErrExtract, "extract", "select member",
			fmt.Sprintf("%s in %s is a directory", member, archivePath), nil)
	}

	dest, err := memberPath(destDir, entry.Name)
	if err != nil {
		return "", services.Wrap(services.ErrExtract, "extract", "resolve destination", member, err)
	}
	if err := fileutil.EnsureParent(dest); err != nil {
		return "", services.Wrap(services.ErrExtract, "extract", "prepare destination", destDir, err)
	}

	rc, err := entry.Open()
	if err != nil {
		return "", services.Wrap(services.ErrExtract, "extract", "read member", member, err)
	}
	defer rc.Close()

	if _, err := fileutil.WriteFrom(dest, rc, 0o644); err != nil {
		return "", services.Wrap(services.ErrExtract, "extract", "write member", dest, err)
	}
	return dest, nil
}

// memberPath joins name onto destDir, refusing names that would land outside it.
func memberPath(destDir, name string) (string, error) {
	clean := path.Clean(strings.ReplaceAll(name, "\\", "/"))
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("member %q escapes destination", name)
	}
	return filepath.Join(destDir, filepath.FromSlash(clean)), nil
}
