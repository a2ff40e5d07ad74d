package convert

import (
	"path/filepath"
	"strings"
)

type format int

const (
	formatUnknown format = iota
	formatCSV
	formatJSON
	formatJSONL
	formatZIP
)

func (f format) String() string {
	switch f {
	case formatCSV:
		return "csv"
	case formatJSON:
		return "json"
	case formatJSONL:
		return "jsonl"
	case formatZIP:
		return "zip"
	default:
		return "unknown"
	}
}

func detectFormat(name string) format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return formatCSV
	case ".json":
		return formatJSON
	case ".jsonl", ".ndjson":
		return formatJSONL
	case ".zip":
		return formatZIP
	default:
		return formatUnknown
	}
}
