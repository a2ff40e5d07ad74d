package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"demoload/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a unique temp directory per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.WorkRoot = base
	cfgVal.Paths.LogDir = filepath.Join(base, "var", "log")
	cfgVal.Paths.StorePath = filepath.Join(base, "var", "demoload.db")
	cfgVal.Details.Commands = nil

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithCommandMode switches both collaborators to their console commands.
func WithCommandMode(convertCommand, importCommand string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Convert.Mode = config.ModeCommand
		b.cfg.Convert.Command = convertCommand
		b.cfg.Import.Mode = config.ModeCommand
		b.cfg.Import.Command = importCommand
	}
}

// WithDetailsCommands overrides the demo-details command list.
func WithDetailsCommands(commands ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Details.Commands = append([]string(nil), commands...)
	}
}

// WithStubbedConsole writes an executable shell script at bin/console under
// the work root. The script body receives the original arguments as "$@".
// An empty body writes a script that exits 0.
func WithStubbedConsole(body string) ConfigOption {
	return func(b *configBuilder) {
		if body == "" {
			body = "exit 0"
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\n" + body + "\n")
		if err := os.WriteFile(filepath.Join(binDir, "console"), script, 0o755); err != nil {
			b.t.Fatalf("write console stub: %v", err)
		}
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return cfg.Paths.WorkRoot
}
