// Package logging assembles structured slog loggers and formatting helpers used
// across demoload.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so stage code can tag log lines
// with run IDs, dataset codes, and stage names. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
package logging
