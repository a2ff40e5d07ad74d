package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"demoload/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrFetch, "fetch", "download", "single attempt failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrFetch) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"fetch", "download", "single attempt failed", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := services.Wrap(services.ErrPreconditionMissing, "extract", "", "archive not found at zip/wam.zip", nil)
	if got := err.Error(); got != "precondition missing: extract: archive not found at zip/wam.zip" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestKindPrefersPipelineMarker(t *testing.T) {
	tool := services.Wrap(services.ErrExternalTool, "console", "run", "exit status 1", nil)
	err := services.Wrap(services.ErrImport, "import", "entities", "", tool)
	if kind := services.Kind(err); kind != "import" {
		t.Fatalf("expected import kind, got %q", kind)
	}
	if kind := services.Kind(fmt.Errorf("plain")); kind != "unknown" {
		t.Fatalf("expected unknown kind, got %q", kind)
	}
	if kind := services.Kind(nil); kind != "" {
		t.Fatalf("expected empty kind for nil, got %q", kind)
	}
}

func TestDetailsStripsMarker(t *testing.T) {
	err := services.Wrap(services.ErrConversion, "convert", "csv", "header row missing", nil)
	details := services.Details(err)
	if details.Kind != "conversion" {
		t.Fatalf("unexpected kind %q", details.Kind)
	}
	if details.Message != "convert: csv: header row missing" {
		t.Fatalf("unexpected message %q", details.Message)
	}
}
