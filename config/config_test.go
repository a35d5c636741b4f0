package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: an environment lookup backed by a map
func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}
}

func TestDefault(t *testing.T) {
	home := withHome(t, "")

	cfg := Default()
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, filepath.Join(home, ".tioanime", "library.db"), cfg.LibraryDSN)
	assert.Equal(t, ":8080", cfg.APIAddr)
	assert.Equal(t, "info", cfg.LogLevel)
}

// TestApplyFile verifies only non-empty file values override defaults
func TestApplyFile(t *testing.T) {
	withHome(t, "")

	cfg := Default()
	file := &FileConfig{}
	file.Site.Timeout = "45s"
	file.Storage.Library.DSN = "/tmp/lib.db"

	require.NoError(t, cfg.ApplyFile(file))
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, "/tmp/lib.db", cfg.LibraryDSN)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL, "unset values keep defaults")

	require.NoError(t, cfg.ApplyFile(nil))
}

func TestApplyFile_Invalid(t *testing.T) {
	cfg := &Config{}

	bad := &FileConfig{}
	bad.Site.Timeout = "soon"
	assert.Error(t, cfg.ApplyFile(bad))

	postgres := &FileConfig{}
	postgres.Storage.Library.Type = "postgres"
	err := cfg.ApplyFile(postgres)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported library storage type")
}

// TestApplyEnv verifies the environment overrides file values
func TestApplyEnv(t *testing.T) {
	cfg := &Config{BaseURL: "https://from-file.example.com", Timeout: time.Second}

	err := cfg.ApplyEnv(lookupFrom(map[string]string{
		EnvBaseURL:    "https://from-env.example.com",
		EnvTimeout:    "2m",
		EnvLibraryDSN: "/env/library.db",
		EnvAPIAddr:    "127.0.0.1:9000",
		EnvLogLevel:   "warn",
	}))
	require.NoError(t, err)

	assert.Equal(t, "https://from-env.example.com", cfg.BaseURL)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.Equal(t, "/env/library.db", cfg.LibraryDSN)
	assert.Equal(t, "127.0.0.1:9000", cfg.APIAddr)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestApplyEnv_EmptyValuesIgnored(t *testing.T) {
	cfg := &Config{BaseURL: "https://kept.example.com"}

	require.NoError(t, cfg.ApplyEnv(lookupFrom(map[string]string{EnvBaseURL: ""})))
	assert.Equal(t, "https://kept.example.com", cfg.BaseURL)
}

func TestApplyEnv_InvalidTimeout(t *testing.T) {
	cfg := &Config{}

	err := cfg.ApplyEnv(lookupFrom(map[string]string{EnvTimeout: "ten"}))
	assert.Error(t, err)
}

// TestLoad verifies the precedence defaults < file < environment
func TestLoad(t *testing.T) {
	withHome(t, `site:
  base_url: "https://from-file.example.com"
  timeout: "20s"
api:
  addr: ":9090"
`)
	t.Setenv(EnvAPIAddr, ":7070")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://from-file.example.com", cfg.BaseURL)
	assert.Equal(t, 20*time.Second, cfg.Timeout)
	assert.Equal(t, ":7070", cfg.APIAddr)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

func TestLogger(t *testing.T) {
	cfg := &Config{LogLevel: "DEBUG"}

	logger, err := cfg.Logger(true)
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.True(t, logger.Core().Enabled(-1), "debug should be enabled")

	cfg.LogLevel = "loud"
	_, err = cfg.Logger(false)
	assert.Error(t, err)
}

func TestEnsureLibraryDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dir")
	cfg := &Config{LibraryDSN: filepath.Join(dir, "library.db")}

	require.NoError(t, cfg.EnsureLibraryDir())
	assert.DirExists(t, dir)
}
