package convert

import (
	"context"
	"path/filepath"
	"strings"
)

// Result describes the artifacts of one conversion.
type Result struct {
	// ProfilePath is empty when the converter produced no profile.
	ProfilePath string
	Records     int
}

// Converter normalizes a raw dataset file into JSONL records at outputPath.
// Re-invocation overwrites earlier output.
type Converter interface {
	Convert(ctx context.Context, rawPath, outputPath, tag string) (Result, error)
}

// ProfilePath derives the profile location for a JSONL output path:
// data/cars.jsonl -> data/cars.profile.json.
func ProfilePath(outputPath string) string {
	return strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".profile.json"
}
