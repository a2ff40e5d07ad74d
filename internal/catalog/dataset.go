package catalog

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ArchiveSource describes a raw file that is shipped inside an archive which is
// supplied out-of-band (never fetched).
type ArchiveSource struct {
	Path   string `yaml:"path"`
	Member string `yaml:"member"`
}

// Dataset describes one catalog entry. Values are immutable once the catalog
// is built; every path is relative to the working root.
type Dataset struct {
	Code string `yaml:"code"`
	// Name is the display name, also passed to the converter as its tag.
	Name string `yaml:"name"`
	// SourceURL is empty when the raw file is produced out-of-band.
	SourceURL     string        `yaml:"url,omitempty"`
	LocalTarget   string        `yaml:"target"`
	ConvertedPath string        `yaml:"converted,omitempty"`
	Archive       ArchiveSource `yaml:"archive,omitempty"`
}

// HasSource reports whether the raw file can be downloaded.
func (d Dataset) HasSource() bool {
	return strings.TrimSpace(d.SourceURL) != ""
}

// ArchiveSourced reports whether the raw file must be extracted from an archive
// when it is missing.
func (d Dataset) ArchiveSourced() bool {
	return strings.TrimSpace(d.Archive.Path) != ""
}

// Converted returns the intermediate output path, deriving "<target>.jsonl"
// (extension replaced) when none was declared.
func (d Dataset) Converted() string {
	if d.ConvertedPath != "" {
		return d.ConvertedPath
	}
	return strings.TrimSuffix(d.LocalTarget, filepath.Ext(d.LocalTarget)) + ".jsonl"
}

// EntityKind is the importer entity name: the code with its first letter
// upper-cased ("car" -> "Car").
func (d Dataset) EntityKind() string {
	return EntityKind(d.Code)
}

// EntityKind upper-cases the first rune of code and leaves the rest untouched.
// The rune count never changes: runes without a single-rune upper case
// mapping, such as 'ß', are kept as they are.
func EntityKind(code string) string {
	r, size := utf8.DecodeRuneInString(code)
	if r == utf8.RuneError {
		return code
	}
	return string(unicode.ToUpper(r)) + code[size:]
}

// Resolve returns a copy with every path joined onto root. Absolute paths are
// kept as-is.
func (d Dataset) Resolve(root string) Dataset {
	out := d
	out.LocalTarget = under(root, d.LocalTarget)
	out.ConvertedPath = under(root, d.Converted())
	if d.ArchiveSourced() {
		out.Archive.Path = under(root, d.Archive.Path)
	}
	return out
}

func under(root, path string) string {
	if path == "" || root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, filepath.FromSlash(path))
}
