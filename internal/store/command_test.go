package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"demoload/internal/services"
	"demoload/internal/store"
	"demoload/internal/testsupport"
)

type recordingRunner struct {
	command string
	extra   []string
	err     error
}

func (r *recordingRunner) Run(ctx context.Context, command string, extra ...string) error {
	r.command = command
	r.extra = append([]string(nil), extra...)
	return r.err
}

func TestCommandImporterArguments(t *testing.T) {
	path := testsupport.WriteFile(t, filepath.Join(t.TempDir(), "data", "cars.jsonl"), carsJSONL)
	runner := &recordingRunner{}
	imp := store.NewCommandImporter(runner, "bin/console import:entities", `App\Entity\`)

	n, err := imp.Import(context.Background(), "Car", path, intPtr(10))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if runner.command != "bin/console import:entities" {
		t.Fatalf("unexpected command %q", runner.command)
	}
	want := []string{`App\Entity\Car`, path, "--limit=10"}
	if !reflect.DeepEqual(runner.extra, want) {
		t.Fatalf("unexpected args %v", runner.extra)
	}
	if n != 3 {
		t.Fatalf("imported %d, want 3", n)
	}

	if _, err := imp.Import(context.Background(), "Car", path, intPtr(2)); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if got := imp.Args("Car", path, nil); len(got) != 2 {
		t.Fatalf("expected no limit flag without a limit, got %v", got)
	}
}

func TestCommandImporterFailure(t *testing.T) {
	imp := store.NewCommandImporter(&recordingRunner{err: errors.New("exit status 1")}, "bin/console import:entities", `App\Entity\`)
	_, err := imp.Import(context.Background(), "Car", "data/cars.jsonl", nil)
	if !errors.Is(err, services.ErrImport) {
		t.Fatalf("expected ErrImport, got %v", err)
	}
}
