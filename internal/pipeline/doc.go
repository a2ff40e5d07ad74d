// Package pipeline sequences a dataset load: resolve the code, fetch the raw
// file, extract it from an out-of-band archive when needed, convert it to
// records and import them.
//
// The filesystem is the only checkpoint. Fetch and extract are skipped when
// their output already exists; convert and import run on every load. Any
// stage error ends the run in StateFailed without touching artifacts written
// by earlier stages, so recovery is deleting the bad artifact and re-running.
package pipeline
