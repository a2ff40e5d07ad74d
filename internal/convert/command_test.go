package convert_test

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"demoload/internal/convert"
	"demoload/internal/services"
	"demoload/internal/testsupport"
)

type recordingRunner struct {
	commands []string
	extras   [][]string
	err      error
	effect   func(extra []string)
}

func (r *recordingRunner) Run(ctx context.Context, command string, extra ...string) error {
	r.commands = append(r.commands, command)
	r.extras = append(r.extras, append([]string(nil), extra...))
	if r.effect != nil {
		r.effect(extra)
	}
	return r.err
}

func TestCommandConverterBuildsConsoleInvocation(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "data", "cars.jsonl")
	runner := &recordingRunner{effect: func(extra []string) {
		target := strings.TrimPrefix(extra[1], "--output=")
		testsupport.WriteFile(t, target, "{\"a\":1}\n{\"a\":2}\n")
		testsupport.WriteFile(t, convert.ProfilePath(target), "{}")
	}}

	res, err := convert.NewCommand(runner, "bin/console import:convert").
		Convert(context.Background(), "data/cars.csv", out, "car")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if runner.commands[0] != "bin/console import:convert" {
		t.Fatalf("unexpected command %q", runner.commands[0])
	}
	want := []string{"data/cars.csv", "--output=" + out, "--tag=car"}
	if !reflect.DeepEqual(runner.extras[0], want) {
		t.Fatalf("unexpected args %v", runner.extras[0])
	}
	if res.Records != 2 || res.ProfilePath != filepath.Join(dir, "data", "cars.profile.json") {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestCommandConverterSurfacesFailure(t *testing.T) {
	runner := &recordingRunner{err: errors.New("exit status 255")}
	_, err := convert.NewCommand(runner, "bin/console import:convert").
		Convert(context.Background(), "a.csv", filepath.Join(t.TempDir(), "a.jsonl"), "a")
	if !errors.Is(err, services.ErrConversion) {
		t.Fatalf("expected ErrConversion, got %v", err)
	}
	if !strings.Contains(err.Error(), "exit status 255") {
		t.Fatalf("expected collaborator error verbatim, got %v", err)
	}
}

func TestCommandConverterRequiresOutput(t *testing.T) {
	_, err := convert.NewCommand(&recordingRunner{}, "bin/console import:convert").
		Convert(context.Background(), "a.csv", filepath.Join(t.TempDir(), "a.jsonl"), "a")
	if !errors.Is(err, services.ErrConversion) {
		t.Fatalf("expected ErrConversion when no output produced, got %v", err)
	}
}

func TestProfilePath(t *testing.T) {
	if got := convert.ProfilePath("data/marvel.jsonl"); got != "data/marvel.profile.json" {
		t.Fatalf("ProfilePath = %q", got)
	}
}
