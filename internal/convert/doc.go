// Package convert turns raw dataset files into JSONL records plus a field
// profile.
//
// Native handles CSV (header row), JSON (top-level array, or an object with a
// single array member), JSONL and ZIP archives of those formats. Command hands
// the work to the application console instead. Both overwrite earlier output,
// so conversion can be re-run freely to refresh the profile.
package convert
