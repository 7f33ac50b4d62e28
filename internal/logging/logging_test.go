package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoggerWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Debug).With(F("component", "workspace"))
	log.Info("notes loaded", F("count", 2), F("took", 15*time.Millisecond), Err(errors.New("boom")))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "notes loaded" {
		t.Fatalf("unexpected message: %#v", entry["message"])
	}
	if entry["level"] != "info" {
		t.Fatalf("unexpected level: %#v", entry["level"])
	}
	if entry["component"] != "workspace" {
		t.Fatalf("expected inherited field, got %#v", entry)
	}
	if entry["count"] != float64(2) {
		t.Fatalf("unexpected count: %#v", entry["count"])
	}
	if entry["error"] != "boom" {
		t.Fatalf("unexpected error field: %#v", entry["error"])
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Warn)
	log.Debug("hidden")
	log.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected nothing below warn, got %q", buf.String())
	}
	if log.Enabled(Info) {
		t.Fatalf("info should be disabled at warn")
	}
	if !log.Enabled(Error) {
		t.Fatalf("error should be enabled at warn")
	}
	log.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected warn line, got %q", buf.String())
	}
}

func TestNewFileCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "scribe.log")
	log, closer, err := NewFile(FileOptions{Path: path, MaxSizeMB: 1}, Info)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	log.Info("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Fatalf("expected log line in file, got %q", string(data))
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   Debug,
		" WARN ":  Warn,
		"warning": Warn,
		"error":   Error,
		"":        Info,
		"other":   Info,
	}
	for raw, want := range cases {
		if got := ParseLevel(raw); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestNopLoggerIsSilent(t *testing.T) {
	log := Nop()
	if log.Enabled(Error) {
		t.Fatalf("nop logger should report disabled")
	}
	log.Error("ignored")
}
