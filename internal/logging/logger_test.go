package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestConsoleHandlerIncludesComponentPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	NewComponentLogger(logger, "episodelog").Info("appended episode", Int(FieldEpisode, 3))

	line := buf.String()
	if !strings.Contains(line, "episodelog: appended episode") {
		t.Errorf("expected component prefix in output, got %q", line)
	}
	if !strings.Contains(line, "episode=3") {
		t.Errorf("expected flattened attr in output, got %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("topic selected", String(FieldTerm, "Short Selling"))

	if !strings.Contains(buf.String(), `term="Short Selling"`) {
		t.Errorf("expected quoted value, got %q", buf.String())
	}
}

func TestJSONHandlerFieldNames(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("run complete", String(FieldRunID, "abc"))

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["msg"] != "run complete" {
		t.Errorf("msg field mismatch: %v", decoded["msg"])
	}
	if decoded["level"] != "info" {
		t.Errorf("level field mismatch: %v", decoded["level"])
	}
	if decoded["run_id"] != "abc" {
		t.Errorf("run_id field mismatch: %v", decoded["run_id"])
	}
	if _, ok := decoded["ts"]; !ok {
		t.Error("expected ts field in JSON output")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("should be hidden")
	logger.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be hidden") {
		t.Error("info line should be filtered at warn level")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("warn line missing")
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	// Must not panic and must report disabled at every level.
	logger.Info("discarded")
	if logger.Enabled(context.Background(), 0) {
		t.Error("nop logger should be disabled")
	}
}
