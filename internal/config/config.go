// Package config loads forge's optional configuration file. Flags and
// environment variables always win; the file only supplies defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the file-supplied defaults for the CLI.
type Config struct {
	URL          string `yaml:"url"`
	Token        string `yaml:"token"`
	LogLevel     string `yaml:"log_level"`
	History      string `yaml:"history"`
	HistoryRedis string `yaml:"history_redis"`
}

// DefaultPath returns the conventional config location, ~/.forge.yaml.
// Empty when the home directory cannot be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".forge.yaml")
}

// Load reads the config file at path. A missing file is not an error: forge
// runs fine on flags and environment alone.
func Load(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}
