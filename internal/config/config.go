package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Config holds all dashboard configuration
type Config struct {
	// API configuration
	API APIConfig `yaml:"api"`

	// Refresh loop configuration
	Refresh RefreshConfig `yaml:"refresh"`

	// View defaults
	View ViewConfig `yaml:"view"`

	// Export configuration
	Export ExportConfig `yaml:"export"`

	// Logging configuration
	Log LogConfig `yaml:"log"`
}

// APIConfig describes the tracker API the dashboard polls
type APIConfig struct {
	BaseURL        string        `yaml:"base_url"`        // Fixed origin, e.g. http://localhost:8787
	RequestTimeout time.Duration `yaml:"request_timeout"` // Per-request timeout
}

// RefreshConfig controls the two repeating timers
type RefreshConfig struct {
	Interval       time.Duration `yaml:"interval"`        // Time between refresh cycles
	CountdownStart int           `yaml:"countdown_start"` // Value the cosmetic countdown restarts from
}

// ViewConfig holds initial UI state
type ViewConfig struct {
	Grouped bool `yaml:"grouped"` // Start in grouped-by-application mode
}

// ExportConfig holds export download settings
type ExportConfig struct {
	Dir string `yaml:"dir"` // Directory downloads are written to
}

// LogConfig holds logging settings
type LogConfig struct {
	File  string `yaml:"file"`  // Log destination while the TUI owns the terminal
	Debug bool   `yaml:"debug"` // Enable debug level
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:8787",
			RequestTimeout: 10 * time.Second,
		},
		Refresh: RefreshConfig{
			Interval:       5 * time.Second,
			CountdownStart: 5,
		},
		View: ViewConfig{
			Grouped: true,
		},
		Export: ExportConfig{
			Dir: ".",
		},
		Log: LogConfig{
			File: filepath.Join(os.TempDir(), "trackdash.log"),
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid API base URL %q: %w", c.API.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API base URL must be http or https, got %q", c.API.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("API base URL has no host: %q", c.API.BaseURL)
	}

	if c.API.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %v", c.API.RequestTimeout)
	}

	if c.Refresh.Interval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %v", c.Refresh.Interval)
	}

	if c.Refresh.CountdownStart < 1 {
		return fmt.Errorf("countdown start must be at least 1, got %d", c.Refresh.CountdownStart)
	}

	if c.Export.Dir == "" {
		return fmt.Errorf("export directory cannot be empty")
	}

	return nil
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf(`Configuration:
  API:
    Base URL: %s
    Request Timeout: %v
  Refresh:
    Interval: %v
    Countdown Start: %d
  View:
    Grouped: %v
  Export:
    Dir: %s
  Log:
    File: %s
    Debug: %v`,
		c.API.BaseURL,
		c.API.RequestTimeout,
		c.Refresh.Interval,
		c.Refresh.CountdownStart,
		c.View.Grouped,
		c.Export.Dir,
		c.Log.File,
		c.Log.Debug,
	)
}
