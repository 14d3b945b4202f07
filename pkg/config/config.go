package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values can use the standard
// Go syntax ("30s", "5m", "1h30m").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the full configuration tree.
type Config struct {
	API    APIConfig    `yaml:"api"`
	Cache  CacheConfig  `yaml:"cache"`
	Warmup WarmupConfig `yaml:"warmup"`
	Redis  RedisConfig  `yaml:"redis"`
	Sentry SentryConfig `yaml:"sentry"`
}

// APIConfig points at the backend REST API.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
}

// CacheConfig tunes the in-memory store.
type CacheConfig struct {
	DefaultTTL      Duration `yaml:"default_ttl"`
	MaxEntries      int      `yaml:"max_entries"`
	CleanupInterval Duration `yaml:"cleanup_interval"`
	JournalSize     int      `yaml:"journal_size"`
}

// WarmupConfig tunes the cache warmer.
type WarmupConfig struct {
	Concurrency int `yaml:"concurrency"`
	// Schedule is a cron expression for periodic re-warming.
	// Empty disables the scheduler.
	Schedule string `yaml:"schedule"`
}

// RedisConfig configures the monitoring event channel.
// An empty URL disables Redis publishing.
type RedisConfig struct {
	URL     string `yaml:"url"`
	Channel string `yaml:"channel"`
}

// SentryConfig configures error reporting.
// An empty DSN disables Sentry.
type SentryConfig struct {
	DSN         string `yaml:"dsn"`
	Environment string `yaml:"environment"`
}

// Default returns the configuration used when no file is provided.
func Default() Config {
	return Config{
		Cache: CacheConfig{
			DefaultTTL:      Duration(5 * time.Minute),
			MaxEntries:      1000,
			CleanupInterval: Duration(time.Minute),
			JournalSize:     1000,
		},
		Warmup: WarmupConfig{
			Concurrency: 4,
		},
		Redis: RedisConfig{
			Channel: "monitoring:cache",
		},
		Sentry: SentryConfig{
			Environment: "production",
		},
	}
}

// Load reads a YAML file on top of the defaults. Environment
// variables in the file are expanded before parsing.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Join(ErrReadFailed, err)
	}

	expanded := os.ExpandEnv(string(raw))
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return cfg, errors.Join(ErrParseFailed, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the rest of the
// system cannot work with.
func (c Config) Validate() error {
	if c.Cache.MaxEntries < 0 {
		return errors.Join(ErrInvalid, fmt.Errorf("cache.max_entries must not be negative, got %d", c.Cache.MaxEntries))
	}
	if c.Cache.JournalSize < 0 {
		return errors.Join(ErrInvalid, fmt.Errorf("cache.journal_size must not be negative, got %d", c.Cache.JournalSize))
	}
	if c.Cache.DefaultTTL < 0 {
		return errors.Join(ErrInvalid, fmt.Errorf("cache.default_ttl must not be negative, got %s", c.Cache.DefaultTTL.Std()))
	}
	if c.Warmup.Concurrency < 0 {
		return errors.Join(ErrInvalid, fmt.Errorf("warmup.concurrency must not be negative, got %d", c.Warmup.Concurrency))
	}
	return nil
}
