// Package config provides configuration loading for dpx.
//
// Configuration is assembled from hardcoded defaults, an optional YAML file
// and DPX_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the complete dpx configuration.
type Config struct {
	Root     RootConfig     `koanf:"root"`
	Lock     LockConfig     `koanf:"lock"`
	Platform PlatformConfig `koanf:"platform"`
	Download DownloadConfig `koanf:"download"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// RootConfig locates the registry root holding every group.
type RootConfig struct {
	Path string `koanf:"path"`
}

// LockConfig controls the timed unlock window.
type LockConfig struct {
	Window Duration `koanf:"window"`
}

// PlatformConfig configures the hosted dataset platform (Kaggle API compatible).
type PlatformConfig struct {
	Host            string `koanf:"host"`
	BaseURL         string `koanf:"base_url"`
	Username        string `koanf:"username"`
	Key             Secret `koanf:"key"`
	CredentialsFile string `koanf:"credentials_file"`
}

// DownloadConfig configures direct downloads.
type DownloadConfig struct {
	Timeout    Duration `koanf:"timeout"`
	Extensions []string `koanf:"extensions"`
}

// LoggingConfig holds the subset of logging settings exposed to users.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Root.Path == "" {
		cfg.Root.Path = "~/data-projects/dp-projects"
	}
	if cfg.Lock.Window == 0 {
		cfg.Lock.Window = Duration(10 * time.Second)
	}

	if cfg.Platform.Host == "" {
		cfg.Platform.Host = "www.kaggle.com"
	}
	if cfg.Platform.BaseURL == "" {
		cfg.Platform.BaseURL = "https://www.kaggle.com/api/v1"
	}
	if cfg.Platform.CredentialsFile == "" {
		cfg.Platform.CredentialsFile = "~/.kaggle/kaggle.json"
	}

	if cfg.Download.Timeout == 0 {
		cfg.Download.Timeout = Duration(5 * time.Minute)
	}
	if len(cfg.Download.Extensions) == 0 {
		cfg.Download.Extensions = []string{".csv", ".tsv"}
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "warn"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Root.Path) == "" {
		return errors.New("root path cannot be empty")
	}
	if c.Lock.Window.Duration() <= 0 {
		return fmt.Errorf("lock window must be positive, got %s", c.Lock.Window.Duration())
	}
	if c.Download.Timeout.Duration() <= 0 {
		return fmt.Errorf("download timeout must be positive, got %s", c.Download.Timeout.Duration())
	}
	for _, ext := range c.Download.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("invalid download extension %q (must look like .csv)", ext)
		}
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging format must be 'json' or 'console', got %q", c.Logging.Format)
	}
	return nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// RootPath returns the expanded, absolute registry root.
func (c *Config) RootPath() (string, error) {
	path, err := ExpandHome(c.Root.Path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(path)
}
