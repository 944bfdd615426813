// Package config handles tracelink configuration loading and validation.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for tracelink.
type Config struct {
	Tracker TrackerConfig `yaml:"tracker"`
	Log     LogConfig     `yaml:"log"`
	History HistoryConfig `yaml:"history"`
	GitHub  GitHubConfig  `yaml:"github"`
}

// TrackerConfig defines how ticket links are detected and rendered.
type TrackerConfig struct {
	BaseURL string `yaml:"base_url"`
	Pattern string `yaml:"pattern"` // empty = built-in default rule
	Style   string `yaml:"style"`   // "inline" or "newline"
	Verbose bool   `yaml:"verbose"`
}

// LogConfig defines logging settings.
type LogConfig struct {
	Level     string `yaml:"level"`
	File      string `yaml:"file"`
	SentryDSN string `yaml:"sentry_dsn"`
}

// HistoryConfig defines the annotation-history database.
type HistoryConfig struct {
	Database string `yaml:"database"` // empty = history disabled
}

// GitHubConfig defines credentials for the PR-override commands. Token auth
// and App auth are alternatives; the token wins when both are set.
type GitHubConfig struct {
	Repository     string `yaml:"repository"` // "owner/repo" or a remote URL
	Token          string `yaml:"token"`
	AppID          string `yaml:"app_id"`
	InstallationID string `yaml:"installation_id"`
	PrivateKeyPath string `yaml:"private_key_path"`
}

// HasApp reports whether GitHub App credentials are configured.
func (g GitHubConfig) HasApp() bool {
	return g.AppID != "" && g.InstallationID != "" && g.PrivateKeyPath != ""
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Tracker: TrackerConfig{
			Style: "inline",
		},
		Log: LogConfig{
			Level: "info",
		},
		History: HistoryConfig{
			Database: filepath.Join(homeDir, ".local/share/tracelink/history.db"),
		},
	}
}

// Load reads configuration from the default path, falling back to defaults
// when no file exists.
func Load() (*Config, error) {
	configPath := DefaultConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.expandEnvVars()
	return cfg, nil
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	if p := os.Getenv("TRACELINK_CONFIG"); p != "" {
		return p
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config/tracelink/config.yaml")
}

func (c *Config) expandEnvVars() {
	c.GitHub.Token = os.ExpandEnv(c.GitHub.Token)
	c.Log.SentryDSN = os.ExpandEnv(c.Log.SentryDSN)
}
