package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"demoload/internal/config"
	"demoload/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckStore_OK(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	result := CheckStore(context.Background(), cfg)
	if !result.Passed {
		t.Fatalf("expected store check to pass, got: %s", result.Detail)
	}
}

func TestCheckStore_Unwritable(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	blocker := testsupport.WriteFile(t, filepath.Join(cfg.Paths.WorkRoot, "blocker"), "x")
	cfg.Paths.StorePath = filepath.Join(blocker, "demoload.db")
	result := CheckStore(context.Background(), cfg)
	if result.Passed {
		t.Fatal("expected failure when the store directory is a file")
	}
}

func TestCheckCatalog(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if r := CheckCatalog(cfg); !r.Passed {
		t.Fatalf("built-in catalog should pass: %s", r.Detail)
	}

	cfg.Catalog.Path = testsupport.WriteFile(t, filepath.Join(cfg.Paths.WorkRoot, "datasets.yaml"),
		"datasets:\n  - code: birds\n    target: data/birds.csv\n")
	if r := CheckCatalog(cfg); !r.Passed {
		t.Fatalf("valid catalog file should pass: %s", r.Detail)
	}

	cfg.Catalog.Path = filepath.Join(cfg.Paths.WorkRoot, "missing.yaml")
	if r := CheckCatalog(cfg); r.Passed {
		t.Fatal("missing catalog file should fail")
	}
}

func TestCheckSystemDeps_BuiltinNeedsNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if got := CheckSystemDeps(cfg); len(got) != 0 {
		t.Fatalf("expected no requirements in builtin mode, got %#v", got)
	}
}

func TestCheckSystemDeps_CommandMode(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithCommandMode("bin/console import:convert", "bin/console import:entities"),
		testsupport.WithDetailsCommands("bin/console mess:stats"),
	)
	got := CheckSystemDeps(cfg)
	if len(got) != 1 {
		t.Fatalf("expected one deduplicated console requirement, got %#v", got)
	}
	if got[0].Available {
		t.Fatal("console should be missing before it is stubbed")
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCommandMode("bin/console import:convert", "bin/console import:entities"))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	failed := Failed(RunAll(context.Background(), cfg))
	if len(failed) != 1 || failed[0].Name != "Converter console" {
		t.Fatalf("expected only the missing console to fail, got %#v", failed)
	}

	stubbed := testsupport.NewConfig(t,
		testsupport.WithCommandMode("bin/console import:convert", "bin/console import:entities"),
		testsupport.WithStubbedConsole(""),
	)
	if err := stubbed.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	if failed := Failed(RunAll(context.Background(), stubbed)); len(failed) != 0 {
		t.Fatalf("expected all checks to pass, got %#v", failed)
	}

	builtin := testsupport.NewConfig(t)
	builtin.Import.Mode = config.ModeBuiltin
	if err := builtin.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	if failed := Failed(RunAll(context.Background(), builtin)); len(failed) != 0 {
		t.Fatalf("expected builtin workspace to pass, got %#v", failed)
	}
}
