package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func isolateConfigEnv(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "data")
	t.Setenv(dataDirEnv, dir)
	t.Setenv(EnvBackendURL, "")
	t.Setenv(EnvLogLevel, "")
	t.Chdir(t.TempDir())
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolateConfigEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BackendURL() != "http://127.0.0.1:8000" {
		t.Fatalf("unexpected backend url: %q", cfg.BackendURL())
	}
	if cfg.RequestTimeout() != 10*time.Second {
		t.Fatalf("unexpected request timeout: %v", cfg.RequestTimeout())
	}
	if cfg.ChatTimeout() != 2*time.Minute {
		t.Fatalf("unexpected chat timeout: %v", cfg.ChatTimeout())
	}
	if !cfg.MarkdownEnabled() {
		t.Fatalf("expected markdown enabled by default")
	}
	if cfg.DateFormat() != "2006-01-02" {
		t.Fatalf("unexpected date format: %q", cfg.DateFormat())
	}
}

func TestLoadFromTOML(t *testing.T) {
	dir := isolateConfigEnv(t)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	content := []byte(`[backend]
url = "notes.internal:9000/"
chat_timeout = "45s"

[ui]
markdown = false

[issue]
default_repo = "acme/meetings"
`)
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), content, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BackendURL() != "http://notes.internal:9000" {
		t.Fatalf("unexpected backend url: %q", cfg.BackendURL())
	}
	if cfg.ChatTimeout() != 45*time.Second {
		t.Fatalf("unexpected chat timeout: %v", cfg.ChatTimeout())
	}
	if cfg.MarkdownEnabled() {
		t.Fatalf("expected markdown disabled")
	}
	if cfg.DefaultIssueRepo() != "acme/meetings" {
		t.Fatalf("unexpected default repo: %q", cfg.DefaultIssueRepo())
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv(EnvBackendURL, "https://scribe.example.com")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BackendURL() != "https://scribe.example.com" {
		t.Fatalf("unexpected backend url: %q", cfg.BackendURL())
	}
	if cfg.LogLevel() != "debug" {
		t.Fatalf("unexpected log level: %q", cfg.LogLevel())
	}
}

func TestLoadRejectsInvalidDuration(t *testing.T) {
	dir := isolateConfigEnv(t)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	content := []byte("[backend]\nrequest_timeout = \"soon\"\n")
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), content, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "request_timeout") {
		t.Fatalf("expected request_timeout validation error, got %v", err)
	}
}

func TestLoadRejectsUnknownLogLevel(t *testing.T) {
	dir := isolateConfigEnv(t)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	content := []byte("[logging]\nlevel = \"loud\"\n")
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), content, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(); err == nil {
		t.Fatalf("expected validation error for log level")
	}
}

func TestResolveLogPathRelativeToDataDir(t *testing.T) {
	dir := isolateConfigEnv(t)
	cfg := DefaultConfig()
	cfg.Logging.File = "logs/ui.log"
	path, err := cfg.ResolveLogPath()
	if err != nil {
		t.Fatalf("ResolveLogPath: %v", err)
	}
	if want := filepath.Join(dir, "logs", "ui.log"); path != want {
		t.Fatalf("unexpected log path: got=%q want=%q", path, want)
	}
}
