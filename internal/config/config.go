package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds everything the process needs at startup. It is read once;
// nothing is reloaded while serving.
type Config struct {
	APIToken string
	BaseURL  string
	Timeout  time.Duration
	LogLevel string
}

const defaultTimeout = 30 * time.Second

// fileConfig is the optional YAML config file shape. The credential is
// deliberately not accepted from the file; it comes from the environment.
type fileConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	LogLevel       string `yaml:"log_level"`
}

// Load assembles the startup configuration: an optional .env file, then the
// optional YAML config file, then environment overrides. A missing
// TODOIST_API_TOKEN is fatal to the caller; the process must exit before
// accepting any requests.
func Load() (*Config, error) {
	_ = godotenv.Load() // a missing .env is fine

	cfg := &Config{
		Timeout:  defaultTimeout,
		LogLevel: "info",
	}

	if path, err := defaultFilePath(); err == nil {
		if err := cfg.applyFile(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if v := os.Getenv("TODOIST_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("TODOIST_TIMEOUT_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("invalid TODOIST_TIMEOUT_SECONDS value %q", v)
		}
		cfg.Timeout = time.Duration(secs) * time.Second
	}
	if v := os.Getenv("TODOIST_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	cfg.APIToken = os.Getenv("TODOIST_API_TOKEN")
	if cfg.APIToken == "" {
		return nil, fmt.Errorf("TODOIST_API_TOKEN environment variable is required")
	}

	return cfg, nil
}

func defaultFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "todoistmcp", "config.yaml"), nil
}

// applyFile merges an optional YAML config file into cfg. A missing file is
// reported via os.IsNotExist so the caller can ignore it.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if fc.BaseURL != "" {
		c.BaseURL = fc.BaseURL
	}
	if fc.TimeoutSeconds > 0 {
		c.Timeout = time.Duration(fc.TimeoutSeconds) * time.Second
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	return nil
}
