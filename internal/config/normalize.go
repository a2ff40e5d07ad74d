package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCollaborators()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkRoot) == "" {
		c.Paths.WorkRoot = defaultWorkRoot
	}
	if c.Paths.WorkRoot, err = expandPath(c.Paths.WorkRoot); err != nil {
		return fmt.Errorf("paths.work_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandUnder(c.Paths.WorkRoot, c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StorePath) == "" {
		c.Paths.StorePath = filepath.FromSlash(defaultStoreFile)
	}
	if c.Paths.StorePath, err = expandUnder(c.Paths.WorkRoot, c.Paths.StorePath); err != nil {
		return fmt.Errorf("paths.store_path: %w", err)
	}
	if c.Catalog.Path, err = expandUnder(c.Paths.WorkRoot, c.Catalog.Path); err != nil {
		return fmt.Errorf("catalog.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeCollaborators() {
	c.Convert.Mode = strings.ToLower(strings.TrimSpace(c.Convert.Mode))
	if c.Convert.Mode == "" {
		c.Convert.Mode = ModeBuiltin
	}
	c.Convert.Command = strings.TrimSpace(c.Convert.Command)

	c.Import.Mode = strings.ToLower(strings.TrimSpace(c.Import.Mode))
	if c.Import.Mode == "" {
		c.Import.Mode = ModeBuiltin
	}
	c.Import.Command = strings.TrimSpace(c.Import.Command)
	c.Import.EntityNamespace = strings.TrimSpace(c.Import.EntityNamespace)

	commands := c.Details.Commands[:0]
	for _, command := range c.Details.Commands {
		if trimmed := strings.TrimSpace(command); trimmed != "" {
			commands = append(commands, trimmed)
		}
	}
	c.Details.Commands = commands
	c.Fetch.UserAgent = strings.TrimSpace(c.Fetch.UserAgent)
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch format {
	case "", "console", "text":
		c.Logging.Format = "console"
	default:
		c.Logging.Format = format
	}
	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level
}
