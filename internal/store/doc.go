// Package store is the builtin importer: it persists converted dataset
// records in SQLite, one row per JSONL line, grouped by entity kind.
//
// Every import replaces the kind's previous rows inside a single transaction
// and is logged in the imports table, so re-running a load never duplicates
// records. The database is a local working copy; schema changes bump the
// version in schema.go and users delete the file to adopt them.
//
// CommandImporter is the alternative that delegates to the application
// console instead of writing to SQLite.
package store
