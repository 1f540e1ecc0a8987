package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLoggerTraceID(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelInfo, "stockcount", func(context.Context) string { return "abc123" })
	log.Debug(context.Background(), "hidden")
	log.Info(context.Background(), "item upserted", "ean", "789")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %s", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec["msg"] != "item upserted" || rec["service"] != "stockcount" || rec["trace_id"] != "abc123" || rec["ean"] != "789" {
		t.Fatalf("unexpected record %v", rec)
	}
}

func TestNewWithFormat(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithFormat(&buf, LevelDebug, "cli", "text", nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	log.Debug(context.Background(), "scan started")
	if !strings.Contains(buf.String(), "msg=\"scan started\"") {
		t.Fatalf("unexpected output %q", buf.String())
	}
	if _, err := NewWithFormat(&buf, LevelDebug, "cli", "xml", nil); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"": LevelInfo, "DEBUG": LevelDebug, "warning": LevelWarn, "error": LevelError} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error")
	}
}
