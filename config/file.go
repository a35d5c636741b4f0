package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SiteConfig represents the scraping target section of the config file.
type SiteConfig struct {
	BaseURL   string `yaml:"base_url"`
	Timeout   string `yaml:"timeout"`
	UserAgent string `yaml:"user_agent"`
}

// StorageConfig represents storage configuration from config file.
type StorageConfig struct {
	Library struct {
		Type string `yaml:"type"`
		DSN  string `yaml:"dsn"`
	} `yaml:"library"`
}

// FileConfig represents the structure of ~/.tioanime/config.yaml.
type FileConfig struct {
	Site    SiteConfig    `yaml:"site"`
	Storage StorageConfig `yaml:"storage"`
	API     struct {
		Addr string `yaml:"addr"`
	} `yaml:"api"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Dir returns ~/.tioanime.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".tioanime"), nil
}

// LoadConfigFile loads configuration from ~/.tioanime/config.yaml. Returns
// nil if the file doesn't exist (not an error). Returns error if the file
// exists but cannot be parsed.
func LoadConfigFile() (*FileConfig, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return LoadConfigFileFrom(filepath.Join(dir, "config.yaml"))
}

// LoadConfigFileFrom loads configuration from path with the same rules as
// LoadConfigFile.
func LoadConfigFileFrom(path string) (*FileConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}
