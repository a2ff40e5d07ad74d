package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// envOverrides mirrors the settings that may be overridden from the
// environment. Every variable carries the DEMOLOAD_ prefix.
type envOverrides struct {
	WorkRoot     string `envconfig:"WORK_ROOT"`
	LogDir       string `envconfig:"LOG_DIR"`
	StorePath    string `envconfig:"STORE_PATH"`
	CatalogPath  string `envconfig:"CATALOG_PATH"`
	ConvertMode  string `envconfig:"CONVERT_MODE"`
	ImportMode   string `envconfig:"IMPORT_MODE"`
	LogLevel     string `envconfig:"LOG_LEVEL"`
	LogFormat    string `envconfig:"LOG_FORMAT"`
	FetchTimeout *int   `envconfig:"FETCH_TIMEOUT_SECONDS"`
}

const envPrefix = "demoload"

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return fmt.Errorf("read environment overrides: %w", err)
	}
	override(&c.Paths.WorkRoot, env.WorkRoot)
	override(&c.Paths.LogDir, env.LogDir)
	override(&c.Paths.StorePath, env.StorePath)
	override(&c.Catalog.Path, env.CatalogPath)
	override(&c.Convert.Mode, env.ConvertMode)
	override(&c.Import.Mode, env.ImportMode)
	override(&c.Logging.Level, env.LogLevel)
	override(&c.Logging.Format, env.LogFormat)
	if env.FetchTimeout != nil {
		c.Fetch.TimeoutSeconds = *env.FetchTimeout
	}
	return nil
}

func override(dst *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*dst = value
	}
}
