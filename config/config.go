package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the checkout terminal settings.
type Config struct {
	// BackendURL is the base URL of the store backend, including the
	// /database prefix its routes hang off.
	BackendURL string `toml:"BackendURL"`
	// RequestTimeoutSeconds bounds each backend round trip.
	RequestTimeoutSeconds int `toml:"RequestTimeoutSeconds"`
	// TerminalName identifies this lane in logs.
	TerminalName string `toml:"TerminalName"`
	Environment  string `toml:"Environment"`
	// MetricsAddress exposes prometheus metrics when non-empty, e.g.
	// ":9464".
	MetricsAddress string `toml:"MetricsAddress"`
	// PointsNotifyPerMinute caps outbound fuel point notifications. Zero
	// leaves them uncapped.
	PointsNotifyPerMinute float64 `toml:"PointsNotifyPerMinute"`
}

func defaults() *Config {
	return &Config{
		BackendURL:            "http://localhost:8080/database",
		RequestTimeoutSeconds: 10,
		TerminalName:          "lane-1",
		Environment:           "local",
	}
}

// Load reads the configuration from the given path. A missing file is
// created with defaults so a fresh terminal comes up pointed at a local
// backend.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func createDefault(path string) (*Config, error) {
	cfg := defaults()
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := defaults()
	if strings.TrimSpace(c.BackendURL) == "" {
		c.BackendURL = d.BackendURL
	}
	if c.RequestTimeoutSeconds <= 0 {
		c.RequestTimeoutSeconds = d.RequestTimeoutSeconds
	}
	if strings.TrimSpace(c.TerminalName) == "" {
		c.TerminalName = d.TerminalName
	}
	if strings.TrimSpace(c.Environment) == "" {
		c.Environment = d.Environment
	}
}

// Validate performs static validation of the configuration.
func (c *Config) Validate() error {
	parsed, err := url.Parse(c.BackendURL)
	if err != nil {
		return fmt.Errorf("BackendURL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("BackendURL: unsupported scheme %q", parsed.Scheme)
	}
	if c.PointsNotifyPerMinute < 0 {
		return fmt.Errorf("PointsNotifyPerMinute must not be negative")
	}
	return nil
}

// RequestTimeout returns the per-request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}
