package convert

import (
	"archive/zip"
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"demoload/internal/fileutil"
	"demoload/internal/logging"
	"demoload/internal/services"
)

// Native converts CSV, JSON, JSONL and ZIP inputs in-process and writes a
// field profile next to the JSONL output.
type Native struct {
	logger *slog.Logger
	now    func() time.Time
}

// NativeOption configures a Native converter.
type NativeOption func(*Native)

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) NativeOption {
	return func(n *Native) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// WithClock overrides the profile timestamp source.
func WithClock(now func() time.Time) NativeOption {
	return func(n *Native) {
		if now != nil {
			n.now = now
		}
	}
}

// NewNative constructs the builtin converter.
func NewNative(opts ...NativeOption) *Native {
	n := &Native{
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

type emitFunc func(record) error

// Convert implements Converter.
func (n *Native) Convert(ctx context.Context, rawPath, outputPath, tag string) (Result, error) {
	kind := detectFormat(rawPath)
	if kind == formatUnknown {
		return Result{}, services.Wrap(services.ErrConversion, "convert", "detect format",
			fmt.Sprintf("unsupported input %s", rawPath), nil)
	}
	if err := fileutil.EnsureParent(outputPath); err != nil {
		return Result{}, services.Wrap(services.ErrConversion, "convert", "prepare output", outputPath, err)
	}

	out, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return Result{}, services.Wrap(services.ErrConversion, "convert", "open output", outputPath, err)
	}
	w := bufio.NewWriter(out)
	prof := newProfiler()
	count := 0

	emit := func(r record) error {
		if count%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		line, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode record %d: %w", count+1, err)
		}
		if _, err := w.Write(line); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
		prof.observe(r)
		count++
		return nil
	}

	convErr := convertFile(rawPath, kind, emit)
	if convErr == nil {
		convErr = w.Flush()
	}
	if closeErr := out.Close(); convErr == nil {
		convErr = closeErr
	}
	if convErr != nil {
		return Result{}, services.Wrap(services.ErrConversion, "convert", "write records",
			fmt.Sprintf("%s -> %s", rawPath, outputPath), convErr)
	}

	profile := Profile{
		Tag:         tag,
		Source:      rawPath,
		Format:      kind.String(),
		Records:     count,
		GeneratedAt: n.now().UTC(),
		Fields:      prof.fieldProfiles(),
	}
	profilePath := ProfilePath(outputPath)
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return Result{}, services.Wrap(services.ErrConversion, "convert", "encode profile", profilePath, err)
	}
	if err := os.WriteFile(profilePath, append(data, '\n'), 0o644); err != nil {
		return Result{}, services.Wrap(services.ErrConversion, "convert", "write profile", profilePath, err)
	}

	n.logger.Debug("dataset converted",
		logging.String("source", rawPath),
		logging.String("output", outputPath),
		logging.String("format", kind.String()),
		logging.Int("records", count),
		logging.Int("fields", len(profile.Fields)),
	)
	return Result{ProfilePath: profilePath, Records: count}, nil
}

func convertFile(path string, kind format, emit emitFunc) error {
	if kind == formatZIP {
		return convertZip(path, emit)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return convertStream(f, kind, emit)
}

func convertStream(r io.Reader, kind format, emit emitFunc) error {
	switch kind {
	case formatCSV:
		return convertCSV(r, emit)
	case formatJSON:
		return convertJSON(r, emit)
	case formatJSONL:
		return convertJSONL(r, emit)
	default:
		return fmt.Errorf("unsupported format %s", kind)
	}
}

// convertCSV emits one record per data row keyed by the header row.
// A leading UTF-8 BOM is dropped; blank header cells become column_N.
func convertCSV(r io.Reader, emit emitFunc) error {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && bytes.Equal(bom, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = br.Discard(3)
	}
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read csv header: %w", err)
	}
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		} else {
			seen[name] = 1
		}
		names[i] = name
	}

	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read csv row %d: %w", line, err)
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		rec := make(record, len(names))
		for i, name := range names {
			var v string
			if i < len(row) {
				v = row[i]
			}
			rec[i] = field{Name: name, Value: v}
		}
		if err := emit(rec); err != nil {
			return err
		}
	}
}

// convertJSON accepts a top-level array, or an object whose only array-valued
// member holds the records. A lone object is a single record.
func convertJSON(r io.Reader, emit emitFunc) error {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read json: %w", err)
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return errors.New("json input must be an array or an object")
	}
	if delim == '[' {
		return emitArray(dec, emit)
	}

	// Object: buffer members to find the record array.
	var arrays []json.RawMessage
	var whole record
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("read json: %w", err)
		}
		key, _ := keyTok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("read json member %q: %w", key, err)
		}
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			arrays = append(arrays, raw)
		}
		var v any
		if err := decodeValue(raw, &v); err != nil {
			return err
		}
		whole = append(whole, field{Name: key, Value: v})
	}
	if len(arrays) == 1 {
		inner := json.NewDecoder(bytes.NewReader(arrays[0]))
		if _, err := inner.Token(); err != nil {
			return err
		}
		return emitArray(inner, emit)
	}
	return emit(whole)
}

func emitArray(dec *json.Decoder, emit emitFunc) error {
	for i := 1; dec.More(); i++ {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("read json element %d: %w", i, err)
		}
		rec, err := recordFromJSON(raw)
		if err != nil {
			return fmt.Errorf("read json element %d: %w", i, err)
		}
		if err := emit(rec); err != nil {
			return err
		}
	}
	_, err := dec.Token()
	return err
}

func convertJSONL(r io.Reader, emit emitFunc) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for line := 1; scanner.Scan(); line++ {
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		if !json.Valid(text) {
			return fmt.Errorf("jsonl line %d is not valid json", line)
		}
		rec, err := recordFromJSON(json.RawMessage(text))
		if err != nil {
			return fmt.Errorf("jsonl line %d: %w", line, err)
		}
		if err := emit(rec); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// convertZip converts every supported member in name order. Directories,
// unsupported extensions and nested archives are skipped.
func convertZip(path string, emit emitFunc) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	members := make([]*zip.File, 0, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		switch detectFormat(f.Name) {
		case formatCSV, formatJSON, formatJSONL:
			members = append(members, f)
		}
	}
	if len(members) == 0 {
		return errors.New("archive holds no csv, json or jsonl members")
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })

	for _, f := range members {
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("open member %s: %w", f.Name, err)
		}
		err = convertStream(rc, detectFormat(f.Name), emit)
		rc.Close()
		if err != nil {
			return fmt.Errorf("member %s: %w", f.Name, err)
		}
	}
	return nil
}
