package convert

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxSamples      = 5
	maxSampleLength = 80
	maxDistinct     = 1000
)

// Profile summarizes a converted dataset.
type Profile struct {
	Tag         string         `json:"tag"`
	Source      string         `json:"source"`
	Format      string         `json:"format"`
	Records     int            `json:"records"`
	GeneratedAt time.Time      `json:"generated_at"`
	Fields      []FieldProfile `json:"fields"`
}

// FieldProfile describes one field across every record.
type FieldProfile struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Present int    `json:"present"`
	Empty   int    `json:"empty"`
	// Distinct stops counting at maxDistinct; DistinctCapped reports when it did.
	Distinct       int      `json:"distinct"`
	DistinctCapped bool     `json:"distinct_capped,omitempty"`
	Samples        []string `json:"samples,omitempty"`
}

// ReadProfile loads a profile written by the builtin converter.
func ReadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return &p, nil
}

type fieldStats struct {
	name     string
	types    map[string]struct{}
	present  int
	empty    int
	distinct map[string]struct{}
	capped   bool
	samples  []string
}

type profiler struct {
	order  []string
	fields map[string]*fieldStats
}

func newProfiler() *profiler {
	return &profiler{fields: make(map[string]*fieldStats)}
}

func (p *profiler) observe(r record) {
	for _, f := range r {
		st, ok := p.fields[f.Name]
		if !ok {
			st = &fieldStats{
				name:     f.Name,
				types:    make(map[string]struct{}),
				distinct: make(map[string]struct{}),
			}
			p.fields[f.Name] = st
			p.order = append(p.order, f.Name)
		}
		st.present++
		kind := valueType(f.Value)
		if kind == "null" || isBlank(f.Value) {
			st.empty++
			continue
		}
		st.types[kind] = struct{}{}
		text := sampleText(f.Value)
		if _, seen := st.distinct[text]; seen {
			continue
		}
		if len(st.distinct) >= maxDistinct {
			st.capped = true
			continue
		}
		st.distinct[text] = struct{}{}
		if len(st.samples) < maxSamples {
			st.samples = append(st.samples, truncate(text))
		}
	}
}

func (p *profiler) fieldProfiles() []FieldProfile {
	out := make([]FieldProfile, 0, len(p.order))
	for _, name := range p.order {
		st := p.fields[name]
		out = append(out, FieldProfile{
			Name:           name,
			Type:           mergeTypes(st.types),
			Present:        st.present,
			Empty:          st.empty,
			Distinct:       len(st.distinct),
			DistinctCapped: st.capped,
			Samples:        st.samples,
		})
	}
	return out
}

func mergeTypes(types map[string]struct{}) string {
	switch len(types) {
	case 0:
		return "empty"
	case 1:
		for t := range types {
			return t
		}
	}
	_, hasInt := types["integer"]
	_, hasNum := types["number"]
	if len(types) == 2 && hasInt && hasNum {
		return "number"
	}
	names := make([]string, 0, len(types))
	for t := range types {
		names = append(names, t)
	}
	sort.Strings(names)
	return "mixed(" + strings.Join(names, ",") + ")"
}

// valueType classifies a decoded value. CSV cells arrive as strings and are
// classified by what they parse as.
func valueType(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number:
		if _, err := val.Int64(); err == nil {
			return "integer"
		}
		return "number"
	case string:
		return stringType(val)
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "string"
	}
}

func stringType(s string) string {
	s = strings.TrimSpace(s)
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return "integer"
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return "number"
	}
	switch strings.ToLower(s) {
	case "true", "false":
		return "boolean"
	}
	return "string"
}

func isBlank(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func sampleText(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	default:
		b, err := marshalNoEscape(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxSampleLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxSampleLength]) + "…"
}
