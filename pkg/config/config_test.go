package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stillpoint/haven/pkg/config"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "haven.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	require.Equal(t, 5*time.Minute, cfg.Cache.DefaultTTL.Std())
	require.Equal(t, 1000, cfg.Cache.MaxEntries)
	require.Equal(t, time.Minute, cfg.Cache.CleanupInterval.Std())
	require.Equal(t, 4, cfg.Warmup.Concurrency)
	require.Equal(t, "monitoring:cache", cfg.Redis.Channel)
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("overrides defaults", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, `
api:
  base_url: https://api.example.com
cache:
  default_ttl: 2m
  max_entries: 50
warmup:
  concurrency: 8
  schedule: "0 * * * *"
`)

		cfg, err := config.Load(path)
		require.NoError(t, err)
		require.Equal(t, "https://api.example.com", cfg.API.BaseURL)
		require.Equal(t, 2*time.Minute, cfg.Cache.DefaultTTL.Std())
		require.Equal(t, 50, cfg.Cache.MaxEntries)
		require.Equal(t, 8, cfg.Warmup.Concurrency)
		require.Equal(t, "0 * * * *", cfg.Warmup.Schedule)

		// Untouched keys keep their defaults.
		require.Equal(t, time.Minute, cfg.Cache.CleanupInterval.Std())
		require.Equal(t, 1000, cfg.Cache.JournalSize)
	})

	t.Run("expands environment variables", func(t *testing.T) {
		t.Setenv("HAVEN_TEST_DSN", "https://key@sentry.example.com/1")

		path := writeFile(t, `
sentry:
  dsn: ${HAVEN_TEST_DSN}
`)

		cfg, err := config.Load(path)
		require.NoError(t, err)
		require.Equal(t, "https://key@sentry.example.com/1", cfg.Sentry.DSN)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.ErrorIs(t, err, config.ErrReadFailed)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "cache: [not a map")

		_, err := config.Load(path)
		require.ErrorIs(t, err, config.ErrParseFailed)
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, `
cache:
  default_ttl: five minutes
`)

		_, err := config.Load(path)
		require.ErrorIs(t, err, config.ErrParseFailed)
	})

	t.Run("negative max entries rejected", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, `
cache:
  max_entries: -1
`)

		_, err := config.Load(path)
		require.ErrorIs(t, err, config.ErrInvalid)
	})
}
