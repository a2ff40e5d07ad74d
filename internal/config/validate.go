package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCollaborators(); err != nil {
		return err
	}
	if c.Fetch.TimeoutSeconds < 0 {
		return errors.New("fetch.timeout_seconds must be >= 0")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateCollaborators() error {
	if err := validateMode("convert.mode", c.Convert.Mode); err != nil {
		return err
	}
	if c.Convert.Mode == ModeCommand && c.Convert.Command == "" {
		return errors.New("convert.command must be set when convert.mode is command")
	}
	if err := validateMode("import.mode", c.Import.Mode); err != nil {
		return err
	}
	if c.Import.Mode == ModeCommand && c.Import.Command == "" {
		return errors.New("import.command must be set when import.mode is command")
	}
	return nil
}

func validateMode(key, mode string) error {
	switch mode {
	case ModeBuiltin, ModeCommand:
		return nil
	default:
		return fmt.Errorf("%s must be %s or %s, got %q", key, ModeBuiltin, ModeCommand, mode)
	}
}
