// Package config loads and saves paperlessctl settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	URL   string
	Token string

	// DryRun builds mutating requests without sending them.
	DryRun bool

	// MaxPages caps collection walks. 0 keeps the client default, negative disables the cap.
	MaxPages int

	// NextScheme, when set, forces pagination links onto this scheme (e.g. "https").
	NextScheme string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over config file values.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		v.AddConfigPath(filepath.Join(homeDir, ".config", "paperlessctl"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetDefault("log_level", "warn")

	v.SetEnvPrefix("PAPERLESS")
	for _, key := range []string{"url", "token", "dry_run", "max_pages", "next_scheme", "log_level"} {
		_ = v.BindEnv(key)
	}

	// A missing file is fine; required fields are validated below
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := &Config{
		URL:        v.GetString("url"),
		Token:      v.GetString("token"),
		DryRun:     v.GetBool("dry_run"),
		MaxPages:   v.GetInt("max_pages"),
		NextScheme: v.GetString("next_scheme"),
		LogLevel:   v.GetString("log_level"),
	}

	if cfg.URL == "" || cfg.Token == "" {
		return cfg, ErrNotConfigured
	}

	return cfg, nil
}

// ErrNotConfigured is returned by Load when the URL or token is missing.
// The partially loaded Config is still returned so flags can complete it.
var ErrNotConfigured = errors.New("no configuration found. Run 'paperlessctl config init' to set up")

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "paperlessctl", "config.yaml"), nil
}

// Save writes configuration to the specified path
func Save(cfg *Config, configPath string) error {
	// Owner-only: the file holds the API token
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.Set("url", cfg.URL)
	v.Set("token", cfg.Token)
	if cfg.DryRun {
		v.Set("dry_run", true)
	}
	if cfg.MaxPages != 0 {
		v.Set("max_pages", cfg.MaxPages)
	}
	if cfg.NextScheme != "" {
		v.Set("next_scheme", cfg.NextScheme)
	}
	if cfg.LogLevel != "" {
		v.Set("log_level", cfg.LogLevel)
	}

	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if err := os.Chmod(configPath, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	return nil
}
