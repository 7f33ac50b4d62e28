package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	defaultBackendURL     = "http://127.0.0.1:8000"
	defaultRequestTimeout = 10 * time.Second
	defaultChatTimeout    = 2 * time.Minute
	defaultIngestTimeout  = 10 * time.Minute
	defaultDateFormat     = "2006-01-02"
	defaultLogMaxSizeMB   = 10
	defaultLogMaxBackups  = 3
)

const (
	EnvBackendURL = "SCRIBE_BACKEND_URL"
	EnvLogLevel   = "SCRIBE_LOG_LEVEL"
)

type Config struct {
	Backend BackendConfig `toml:"backend"`
	Logging LoggingConfig `toml:"logging"`
	UI      UIConfig      `toml:"ui"`
	Issue   IssueConfig   `toml:"issue"`
}

type BackendConfig struct {
	URL            string `toml:"url" validate:"required,url"`
	RequestTimeout string `toml:"request_timeout"`
	ChatTimeout    string `toml:"chat_timeout"`
	IngestTimeout  string `toml:"ingest_timeout"`
}

type LoggingConfig struct {
	Level      string `toml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `toml:"max_backups" validate:"gte=0"`
}

type UIConfig struct {
	Markdown   *bool  `toml:"markdown"`
	DateFormat string `toml:"date_format"`
}

type IssueConfig struct {
	DefaultRepo string `toml:"default_repo"`
}

func DefaultConfig() Config {
	return Config{
		Backend: BackendConfig{
			URL:            defaultBackendURL,
			RequestTimeout: defaultRequestTimeout.String(),
			ChatTimeout:    defaultChatTimeout.String(),
			IngestTimeout:  defaultIngestTimeout.String(),
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
		},
		UI: UIConfig{
			DateFormat: defaultDateFormat,
		},
	}
}

// Load reads the default config file, applies .env and environment overrides
// and validates the result.
func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	return LoadFromPath(path)
}

func LoadFromPath(path string) (Config, error) {
	// A missing .env is the common case.
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if err := readTOML(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var configValidator = validator.New()

func (c Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	for name, raw := range map[string]string{
		"backend.request_timeout": c.Backend.RequestTimeout,
		"backend.chat_timeout":    c.Backend.ChatTimeout,
		"backend.ingest_timeout":  c.Backend.IngestTimeout,
	} {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if _, err := time.ParseDuration(strings.TrimSpace(raw)); err != nil {
			return fmt.Errorf("invalid config: %s: %w", name, err)
		}
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvBackendURL)); v != "" {
		c.Backend.URL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Logging.Level = v
	}
}

func (c Config) BackendURL() string {
	url := strings.TrimSpace(c.Backend.URL)
	if url == "" {
		return defaultBackendURL
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}
	return strings.TrimRight(url, "/")
}

func (c Config) RequestTimeout() time.Duration {
	return parseDurationOr(c.Backend.RequestTimeout, defaultRequestTimeout)
}

func (c Config) ChatTimeout() time.Duration {
	return parseDurationOr(c.Backend.ChatTimeout, defaultChatTimeout)
}

func (c Config) IngestTimeout() time.Duration {
	return parseDurationOr(c.Backend.IngestTimeout, defaultIngestTimeout)
}

func (c Config) LogLevel() string {
	level := strings.TrimSpace(c.Logging.Level)
	if level == "" {
		return "info"
	}
	return level
}

func (c Config) ResolveLogPath() (string, error) {
	path := strings.TrimSpace(c.Logging.File)
	if path == "" {
		return LogPath()
	}
	return resolveConfigPath(path)
}

func (c Config) LogMaxSizeMB() int {
	if c.Logging.MaxSizeMB <= 0 {
		return defaultLogMaxSizeMB
	}
	return c.Logging.MaxSizeMB
}

func (c Config) LogMaxBackups() int {
	if c.Logging.MaxBackups < 0 {
		return 0
	}
	return c.Logging.MaxBackups
}

func (c Config) MarkdownEnabled() bool {
	if c.UI.Markdown == nil {
		return true
	}
	return *c.UI.Markdown
}

func (c Config) DateFormat() string {
	format := strings.TrimSpace(c.UI.DateFormat)
	if format == "" {
		return defaultDateFormat
	}
	return format
}

func (c Config) DefaultIssueRepo() string {
	return strings.TrimSpace(c.Issue.DefaultRepo)
}

func Encode(c Config) ([]byte, error) {
	return toml.Marshal(c)
}

func parseDurationOr(raw string, fallback time.Duration) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func readTOML(path string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return toml.Unmarshal(data, out)
}

func resolveConfigPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("path is required")
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	}
	if filepath.IsAbs(path) {
		return path, nil
	}
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, path), nil
}
