package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"demoload/internal/config"
	"demoload/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	root       string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	root := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(root, "home"))

	configPath := filepath.Join(root, "demoload.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, root: root}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	quoted := make([]string, 0, len(cfg.Details.Commands))
	for _, c := range cfg.Details.Commands {
		quoted = append(quoted, fmt.Sprintf("%q", c))
	}
	content := fmt.Sprintf(`[paths]
work_root = %q
log_dir = %q
store_path = %q

[catalog]
path = %q

[convert]
mode = %q
command = %q

[import]
mode = %q
command = %q

[details]
commands = [%s]
`,
		cfg.Paths.WorkRoot,
		cfg.Paths.LogDir,
		cfg.Paths.StorePath,
		cfg.Catalog.Path,
		cfg.Convert.Mode,
		cfg.Convert.Command,
		cfg.Import.Mode,
		cfg.Import.Command,
		strings.Join(quoted, ", "),
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
