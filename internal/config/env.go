package config

import (
	"os"
	"strconv"
	"time"
)

// LoadFromEnv loads configuration from environment variables
// Environment variables override file and default values
func LoadFromEnv(cfg *Config) {
	if baseURL := os.Getenv("TRACKDASH_API"); baseURL != "" {
		cfg.API.BaseURL = baseURL
	}

	if timeout := os.Getenv("TRACKDASH_REQUEST_TIMEOUT"); timeout != "" {
		if seconds, err := strconv.Atoi(timeout); err == nil && seconds > 0 {
			cfg.API.RequestTimeout = time.Duration(seconds) * time.Second
		}
	}

	if interval := os.Getenv("TRACKDASH_REFRESH_INTERVAL"); interval != "" {
		if seconds, err := strconv.Atoi(interval); err == nil && seconds > 0 {
			cfg.Refresh.Interval = time.Duration(seconds) * time.Second
		}
	}

	if grouped := os.Getenv("TRACKDASH_GROUPED"); grouped != "" {
		if val, err := strconv.ParseBool(grouped); err == nil {
			cfg.View.Grouped = val
		}
	}

	if dir := os.Getenv("TRACKDASH_EXPORT_DIR"); dir != "" {
		cfg.Export.Dir = dir
	}

	if logFile := os.Getenv("TRACKDASH_LOG_FILE"); logFile != "" {
		cfg.Log.File = logFile
	}

	if debug := os.Getenv("TRACKDASH_DEBUG"); debug != "" {
		if val, err := strconv.ParseBool(debug); err == nil {
			cfg.Log.Debug = val
		}
	}
}

// New creates a Config from defaults, the config file at path (if any) and the environment
func New(path string) (*Config, error) {
	cfg := Default()
	if err := LoadFile(cfg, path); err != nil {
		return nil, err
	}
	LoadFromEnv(cfg)
	return cfg, nil
}
