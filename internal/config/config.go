package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the workspace layout.
type Paths struct {
	// WorkRoot is the fixed root every catalog path is relative to.
	WorkRoot  string `toml:"work_root"`
	LogDir    string `toml:"log_dir"`
	StorePath string `toml:"store_path"`
}

// Catalog points at an optional YAML dataset catalog replacing the built-in demo table.
type Catalog struct {
	Path string `toml:"path"`
}

// Fetch contains download settings.
type Fetch struct {
	// TimeoutSeconds bounds a single download. Zero disables the timeout.
	TimeoutSeconds int    `toml:"timeout_seconds"`
	UserAgent      string `toml:"user_agent"`
}

// Convert selects the converter collaborator.
type Convert struct {
	Mode    string `toml:"mode"`
	Command string `toml:"command"`
}

// Import selects the importer collaborator.
type Import struct {
	Mode            string `toml:"mode"`
	Command         string `toml:"command"`
	EntityNamespace string `toml:"entity_namespace"`
}

// Details lists the console commands run by demo-details, in order.
type Details struct {
	Commands []string `toml:"commands"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for demoload.
//
// Configuration sections by subsystem:
//   - Paths: working root, log directory, record store location
//   - Catalog: optional dataset catalog file
//   - Fetch: download timeout and user agent
//   - Convert / Import: builtin collaborators or external console commands
//   - Details: commands behind demo-details
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Catalog Catalog `toml:"catalog"`
	Fetch   Fetch   `toml:"fetch"`
	Convert Convert `toml:"convert"`
	Import  Import  `toml:"import"`
	Details Details `toml:"details"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/demoload/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("demoload.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the working root, the log directory and the
// directory holding the record store.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.WorkRoot, c.Paths.LogDir}
	if c.Paths.StorePath != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.StorePath))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// UsesConsole reports whether any collaborator shells out to the console binary.
func (c *Config) UsesConsole() bool {
	return c.Convert.Mode == ModeCommand || c.Import.Mode == ModeCommand || len(c.Details.Commands) > 0
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// expandUnder resolves pathValue against root unless it is absolute or home-relative.
func expandUnder(root, pathValue string) (string, error) {
	pathValue = strings.TrimSpace(pathValue)
	if pathValue == "" {
		return "", nil
	}
	if filepath.IsAbs(pathValue) || strings.HasPrefix(pathValue, "~") {
		return expandPath(pathValue)
	}
	return expandPath(filepath.Join(root, pathValue))
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
