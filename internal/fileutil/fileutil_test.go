package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEnsureParentCreatesNestedDirectories(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a", "b", "c", "file.csv")

	if err := EnsureParent(target); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(filepath.Dir(target))
	if err != nil {
		t.Fatal(err)
	}
	if !info.IsDir() {
		t.Fatalf("expected directory at %s", filepath.Dir(target))
	}
	if err := EnsureParent(target); err != nil {
		t.Fatalf("second call should be a no-op: %v", err)
	}
}

func TestWriteFromTruncates(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.txt")
	if err := os.WriteFile(dst, []byte("a much longer previous payload"), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := WriteFrom(dst, strings.NewReader("short"), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Fatalf("written = %d, want 5", n)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "short" {
		t.Fatalf("content mismatch: got %q", got)
	}
}

func TestSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.bin")
	if _, ok := Size(path); ok {
		t.Fatal("expected missing file")
	}
	if err := os.WriteFile(path, []byte("1234"), 0o644); err != nil {
		t.Fatal(err)
	}
	size, ok := Size(path)
	if !ok || size != 4 {
		t.Fatalf("Size = %d, %v", size, ok)
	}
}
