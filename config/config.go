// Package config resolves the scraper settings from defaults, the YAML
// config file and environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment variables that override the config file.
const (
	EnvBaseURL    = "TIOANIME_BASE_URL"
	EnvTimeout    = "TIOANIME_TIMEOUT"
	EnvLibraryDSN = "TIOANIME_LIBRARY_DSN"
	EnvAPIAddr    = "TIOANIME_API_ADDR"
	EnvLogLevel   = "TIOANIME_LOG_LEVEL"
)

// Defaults
const (
	DefaultBaseURL  = "https://tioanime.com"
	DefaultTimeout  = 10 * time.Second
	DefaultAPIAddr  = ":8080"
	DefaultLogLevel = "info"
)

// Config is the resolved configuration.
type Config struct {
	BaseURL    string        `json:"base_url"`
	Timeout    time.Duration `json:"timeout"`
	UserAgent  string        `json:"user_agent,omitempty"`
	LibraryDSN string        `json:"library_dsn"`
	APIAddr    string        `json:"api_addr"`
	LogLevel   string        `json:"log_level"`
}

// Default returns the built-in configuration. The library lives next to
// the config file when the home directory is known.
func Default() *Config {
	libraryDSN := "tioanime.db"
	if dir, err := Dir(); err == nil {
		libraryDSN = filepath.Join(dir, "library.db")
	}

	return &Config{
		BaseURL:    DefaultBaseURL,
		Timeout:    DefaultTimeout,
		LibraryDSN: libraryDSN,
		APIAddr:    DefaultAPIAddr,
		LogLevel:   DefaultLogLevel,
	}
}

// Load returns the defaults overlaid with ~/.tioanime/config.yaml and the
// environment.
func Load() (*Config, error) {
	cfg := Default()

	file, err := LoadConfigFile()
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyFile(file); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyFile overlays the non-empty values of file. A nil file is a no-op.
func (c *Config) ApplyFile(file *FileConfig) error {
	if file == nil {
		return nil
	}

	if file.Site.BaseURL != "" {
		c.BaseURL = file.Site.BaseURL
	}
	if file.Site.Timeout != "" {
		timeout, err := time.ParseDuration(file.Site.Timeout)
		if err != nil {
			return fmt.Errorf("invalid site.timeout %q: %w", file.Site.Timeout, err)
		}
		c.Timeout = timeout
	}
	if file.Site.UserAgent != "" {
		c.UserAgent = file.Site.UserAgent
	}
	if file.Storage.Library.Type != "" && file.Storage.Library.Type != "sqlite" {
		return fmt.Errorf("unsupported library storage type: %s", file.Storage.Library.Type)
	}
	if file.Storage.Library.DSN != "" {
		c.LibraryDSN = file.Storage.Library.DSN
	}
	if file.API.Addr != "" {
		c.APIAddr = file.API.Addr
	}
	if file.Log.Level != "" {
		c.LogLevel = file.Log.Level
	}

	return nil
}

// ApplyEnv overlays the TIOANIME_* variables found through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if value, ok := lookup(EnvBaseURL); ok && value != "" {
		c.BaseURL = value
	}
	if value, ok := lookup(EnvTimeout); ok && value != "" {
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvTimeout, value, err)
		}
		c.Timeout = timeout
	}
	if value, ok := lookup(EnvLibraryDSN); ok && value != "" {
		c.LibraryDSN = value
	}
	if value, ok := lookup(EnvAPIAddr); ok && value != "" {
		c.APIAddr = value
	}
	if value, ok := lookup(EnvLogLevel); ok && value != "" {
		c.LogLevel = value
	}

	return nil
}

// Logger builds a zap logger at the configured level. Development mode
// writes human-readable console output.
func (c *Config) Logger(development bool) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}

	zcfg := zap.NewProductionConfig()
	if development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// EnsureLibraryDir creates the directory holding the library database.
func (c *Config) EnsureLibraryDir() error {
	dir := filepath.Dir(c.LibraryDSN)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create library directory: %w", err)
	}
	return nil
}
