// Package config reads and writes the yarmtl config file. The file is JSON
// with comments and trailing commas tolerated, so a hand-edited config
// does not break loading.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

const (
	xdgAppName = "yarmtl"
	configFile = "config.json"
)

// Config holds the persistent settings.
type Config struct {
	// TasksDir is the directory containing tasks.md and the sync index.
	// Empty means the current working directory.
	TasksDir string `json:"tasks_dir,omitempty"`
}

// Path returns the config file location (~/.config/yarmtl/config.json).
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName, configFile), nil
}

// Load reads the config file. A missing file yields the defaults.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(content)
	if err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes the config file, creating the directory if needed.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	content, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(content, '\n'), 0o600); err != nil {
		return fmt.Errorf("cannot write config file %s: %w", path, err)
	}
	return nil
}

// TasksFile returns the task file path inside a working directory.
func TasksFile(dir string) string {
	return filepath.Join(dir, "tasks.md")
}

// IndexFile returns the sync index path inside a working directory.
func IndexFile(dir string) string {
	return filepath.Join(dir, ".sync_metadata.json")
}
