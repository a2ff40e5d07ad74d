package archive_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"demoload/internal/archive"
	"demoload/internal/services"
	"demoload/internal/testsupport"
)

func TestExtractMemberWritesOnlyNamedMember(t *testing.T) {
	dir := t.TempDir()
	zipPath := testsupport.WriteZip(t, filepath.Join(dir, "zip", "wam.zip"), map[string]string{
		"wam-dywer.csv": "id,title\n1,Shell\n",
		"readme.txt":    "ignore me",
	})
	dest := filepath.Join(dir, "data")

	written, err := archive.ExtractMember(zipPath, dest, "wam-dywer.csv")
	if err != nil {
		t.Fatalf("ExtractMember: %v", err)
	}
	if written != filepath.Join(dest, "wam-dywer.csv") {
		t.Fatalf("unexpected path %q", written)
	}
	got, err := os.ReadFile(written)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "id,title\n1,Shell\n" {
		t.Fatalf("unexpected content %q", got)
	}
	if _, err := os.Stat(filepath.Join(dest, "readme.txt")); !os.IsNotExist(err) {
		t.Fatalf("only the named member should be extracted, stat err=%v", err)
	}
}

func TestExtractMemberOverwrites(t *testing.T) {
	dir := t.TempDir()
	zipPath := testsupport.WriteZip(t, filepath.Join(dir, "a.zip"), map[string]string{"m.csv": "fresh"})
	dest := filepath.Join(dir, "out")
	testsupport.WriteFile(t, filepath.Join(dest, "m.csv"), "stale content that is longer")

	if _, err := archive.ExtractMember(zipPath, dest, "m.csv"); err != nil {
		t.Fatalf("ExtractMember: %v", err)
	}
	got, _ := os.ReadFile(filepath.Join(dest, "m.csv"))
	if string(got) != "fresh" {
		t.Fatalf("expected overwrite, got %q", got)
	}
}

func TestExtractMemberMissingArchiveIsPrecondition(t *testing.T) {
	dir := t.TempDir()
	_, err := archive.ExtractMember(filepath.Join(dir, "zip", "wam.zip"), filepath.Join(dir, "data"), "wam-dywer.csv")
	if !errors.Is(err, services.ErrPreconditionMissing) {
		t.Fatalf("expected ErrPreconditionMissing, got %v", err)
	}
	if errors.Is(err, services.ErrExtract) {
		t.Fatal("missing archive must not be classified as an extract error")
	}
	if _, statErr := os.Stat(filepath.Join(dir, "data")); !os.IsNotExist(statErr) {
		t.Fatal("destination must not be created when the archive is missing")
	}
}

func TestExtractMemberCorruptArchive(t *testing.T) {
	dir := t.TempDir()
	bad := testsupport.WriteFile(t, filepath.Join(dir, "bad.zip"), "not a zip file")
	_, err := archive.ExtractMember(bad, dir, "x.csv")
	if !errors.Is(err, services.ErrExtract) {
		t.Fatalf("expected ErrExtract, got %v", err)
	}
}

func TestExtractMemberUnknownMember(t *testing.T) {
	dir := t.TempDir()
	zipPath := testsupport.WriteZip(t, filepath.Join(dir, "a.zip"), map[string]string{"present.csv": "x"})
	_, err := archive.Extractor{}.ExtractMember(zipPath, dir, "absent.csv")
	if !errors.Is(err, services.ErrExtract) {
		t.Fatalf("expected ErrExtract, got %v", err)
	}
}

func TestExtractMemberRejectsEscapingNames(t *testing.T) {
	dir := t.TempDir()
	zipPath := testsupport.WriteZip(t, filepath.Join(dir, "evil.zip"), map[string]string{"../escape.csv": "x"})
	_, err := archive.ExtractMember(zipPath, filepath.Join(dir, "out"), "../escape.csv")
	if !errors.Is(err, services.ErrExtract) {
		t.Fatalf("expected ErrExtract, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "escape.csv")); !os.IsNotExist(statErr) {
		t.Fatal("member escaped the destination directory")
	}
}
