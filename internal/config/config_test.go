package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"demoload/internal/config"
)

func TestLoadDefaultConfigUsesEnvAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	workRoot := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("DEMOLOAD_WORK_ROOT", workRoot)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if cfg.Paths.WorkRoot != workRoot {
		t.Fatalf("unexpected work root: got %q want %q", cfg.Paths.WorkRoot, workRoot)
	}
	wantLogDir := filepath.Join(tempHome, ".local", "share", "demoload", "logs")
	if cfg.Paths.LogDir != wantLogDir {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogDir)
	}
	wantStore := filepath.Join(workRoot, "var", "demoload.db")
	if cfg.Paths.StorePath != wantStore {
		t.Fatalf("unexpected store path: got %q want %q", cfg.Paths.StorePath, wantStore)
	}
	if cfg.Convert.Mode != config.ModeBuiltin || cfg.Import.Mode != config.ModeBuiltin {
		t.Fatalf("expected builtin collaborators by default, got %q/%q", cfg.Convert.Mode, cfg.Import.Mode)
	}
	if cfg.Import.EntityNamespace != `App\Entity\` {
		t.Fatalf("unexpected entity namespace: %q", cfg.Import.EntityNamespace)
	}
	if len(cfg.Details.Commands) != 2 || !strings.Contains(cfg.Details.Commands[0], "--transition=fetch_wiki") {
		t.Fatalf("unexpected details commands: %v", cfg.Details.Commands)
	}
	if cfg.Fetch.TimeoutSeconds != 0 {
		t.Fatalf("expected no download timeout by default, got %d", cfg.Fetch.TimeoutSeconds)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.WorkRoot, cfg.Paths.LogDir, filepath.Dir(cfg.Paths.StorePath)} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(tempDir, "demoload.toml")

	type payload struct {
		Paths struct {
			WorkRoot  string `toml:"work_root"`
			StorePath string `toml:"store_path"`
		} `toml:"paths"`
		Catalog struct {
			Path string `toml:"path"`
		} `toml:"catalog"`
		Convert struct {
			Mode string `toml:"mode"`
		} `toml:"convert"`
		Fetch struct {
			TimeoutSeconds int `toml:"timeout_seconds"`
		} `toml:"fetch"`
	}
	custom := payload{}
	custom.Paths.WorkRoot = filepath.Join(tempDir, "workspace")
	custom.Paths.StorePath = "db/records.db"
	custom.Catalog.Path = "datasets.yaml"
	custom.Convert.Mode = "Command"
	custom.Fetch.TimeoutSeconds = 30
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	root := filepath.Join(tempDir, "workspace")
	if cfg.Paths.StorePath != filepath.Join(root, "db", "records.db") {
		t.Fatalf("expected store path under work root, got %q", cfg.Paths.StorePath)
	}
	if cfg.Catalog.Path != filepath.Join(root, "datasets.yaml") {
		t.Fatalf("expected catalog path under work root, got %q", cfg.Catalog.Path)
	}
	if cfg.Convert.Mode != config.ModeCommand {
		t.Fatalf("expected convert mode to be normalized, got %q", cfg.Convert.Mode)
	}
	if cfg.Fetch.TimeoutSeconds != 30 {
		t.Fatalf("unexpected timeout: %d", cfg.Fetch.TimeoutSeconds)
	}
	if !cfg.UsesConsole() {
		t.Fatal("expected command mode to require the console")
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "demoload.toml")
	if err := os.WriteFile(configPath, []byte("[paths]\nstaging_dir = \"x\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestEnvOverridesFileValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	configPath := filepath.Join(dir, "demoload.toml")
	content := "[paths]\nwork_root = \"" + filepath.ToSlash(dir) + "\"\n[import]\nmode = \"command\"\n[logging]\nlevel = \"warn\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("DEMOLOAD_IMPORT_MODE", "builtin")
	t.Setenv("DEMOLOAD_LOG_LEVEL", "debug")
	t.Setenv("DEMOLOAD_FETCH_TIMEOUT_SECONDS", "45")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Import.Mode != config.ModeBuiltin {
		t.Fatalf("expected env to override import mode, got %q", cfg.Import.Mode)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected env to override log level, got %q", cfg.Logging.Level)
	}
	if cfg.Fetch.TimeoutSeconds != 45 {
		t.Fatalf("expected env to override timeout, got %d", cfg.Fetch.TimeoutSeconds)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"convert mode", func(c *config.Config) { c.Convert.Mode = "magic" }, "convert.mode"},
		{"import command", func(c *config.Config) {
			c.Import.Mode = config.ModeCommand
			c.Import.Command = ""
		}, "import.command"},
		{"timeout", func(c *config.Config) { c.Fetch.TimeoutSeconds = -1 }, "fetch.timeout_seconds"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"log level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in %v", tc.want, err)
			}
		})
	}
}

func TestCreateSampleProducesLoadableConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Import.EntityNamespace != `App\Entity\` {
		t.Fatalf("unexpected namespace from sample: %q", cfg.Import.EntityNamespace)
	}
}
