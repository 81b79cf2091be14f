// Package config defines runtime configuration for the model tools.
//
// Values are layered from defaults, an optional YAML file and MOJO_
// environment variables; see Load.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LoadConcurrency bounds parallel tree blob reads during a model load.
	LoadConcurrency int `koanf:"load_concurrency"`

	// MetricsEnabled turns Prometheus collection on.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// RedisAddr selects the Redis blob store for "redis:<prefix>" model references.
	RedisAddr   string `koanf:"redis_addr"`
	RedisDB     int    `koanf:"redis_db"`
	RedisPrefix string `koanf:"redis_prefix"`
}

// New returns a Config holding the defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		LoadConcurrency: 8,
		MetricsEnabled:  false,
		RedisAddr:       "localhost:6379",
		RedisDB:         0,
		RedisPrefix:     "mojo",
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.LoadConcurrency < 1 {
		return fmt.Errorf("%w: load_concurrency must be at least 1, got %d", ErrInvalidConfig, c.LoadConcurrency)
	}
	if c.RedisDB < 0 {
		return fmt.Errorf("%w: redis_db must not be negative, got %d", ErrInvalidConfig, c.RedisDB)
	}
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

// Level returns the slog level for LogLevel.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
