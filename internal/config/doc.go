// Package config loads, normalizes, and validates demoload configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours DEMOLOAD_* environment overrides.
// Paths other than the working root are resolved against it, so a single
// work_root relocates the data/, zip/ and var/ trees together.
package config
