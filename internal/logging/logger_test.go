package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"demoload/internal/config"
	"demoload/internal/logging"
	"demoload/internal/services"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.Level = "info"

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("written to file")

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "demoload.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "written to file") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")

	if strings.Contains(buf.String(), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", buf.String())
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with caller")

	if !strings.Contains(buf.String(), "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", buf.String())
	}
}

func TestConsoleLoggerPrefixesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "pipeline").Info("stage completed", logging.String("stage", "fetch"), logging.String("target", "data/cars.csv"))

	line := buf.String()
	if !strings.Contains(line, "INFO [pipeline] fetch – stage completed") {
		t.Fatalf("expected component and stage header, got %q", line)
	}
	for _, folded := range []string{"component=", "stage="} {
		if strings.Contains(line, folded) {
			t.Fatalf("expected %q to be folded into the header, got %q", folded, line)
		}
	}
	if !strings.HasSuffix(line, " target=data/cars.csv\n") {
		t.Fatalf("expected remaining attributes as key=value, got %q", line)
	}
}

func TestConsoleLoggerCollapsesRepeatedKeys(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.With(logging.String("target", "old.csv")).Info("converted", logging.String("target", "new.csv"), logging.Int("records", 3))

	line := buf.String()
	if strings.Count(line, "target=") != 1 {
		t.Fatalf("expected a single target attribute, got %q", line)
	}
	if !strings.Contains(line, "target=new.csv records=3") {
		t.Fatalf("expected the record value to win, got %q", line)
	}
}

func TestJSONLoggerUsesShortKeys(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Warn("slow download", logging.Int("bytes", 42))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if payload["level"] != "warn" || payload["msg"] != "slow download" {
		t.Fatalf("unexpected payload: %v", payload)
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", payload)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml", Writer: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAddsRunFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := services.WithRunID(context.Background(), "run-7")
	ctx = services.WithDataset(ctx, "car")
	ctx = services.WithStage(ctx, "convert")

	logging.WithContext(ctx, logger).Info("hello")

	line := buf.String()
	if !strings.Contains(line, "INFO car · convert (run run-7) – hello") {
		t.Fatalf("expected run header, got %q", line)
	}
	for _, folded := range []string{"run_id=", "dataset=", "stage="} {
		if strings.Contains(line, folded) {
			t.Fatalf("expected %q to be folded into the header, got %q", folded, line)
		}
	}
}

func TestConsoleLoggerShortensRunID(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := services.WithRunID(context.Background(), "1a2b3c4d-5e6f-7081-92a3-b4c5d6e7f809")

	logging.WithContext(ctx, logger).Info("run started")

	line := buf.String()
	if !strings.Contains(line, "(run 1a2b3c4d) – run started") {
		t.Fatalf("expected shortened run id, got %q", line)
	}
	if strings.Contains(line, "5e6f") {
		t.Fatalf("expected the run id tail to be dropped, got %q", line)
	}
}

func TestErrorWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.ErrorWithContext(logger, "stage failed", "stage_failure", logging.Error(errors.New("boom")))

	line := buf.String()
	for _, fragment := range []string{"event_type=stage_failure", "error_hint=\"check logs for details\"", "error=boom"} {
		if !strings.Contains(line, fragment) {
			t.Fatalf("expected %q in %q", fragment, line)
		}
	}
}

func TestLimitAttr(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	three := 3
	logger.Info("import", logging.Limit(nil))
	logger.Info("import", logging.Limit(&three), logging.Event("stage_complete"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two lines, got %q", buf.String())
	}
	if !strings.HasSuffix(lines[0], " limit=all") {
		t.Fatalf("nil limit should log as all, got %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], " limit=3 event_type=stage_complete") {
		t.Fatalf("unexpected attributes %q", lines[1])
	}
}
