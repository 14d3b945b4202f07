package haven_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stillpoint/haven"
	"github.com/stillpoint/haven/pkg/apiclient"
	"github.com/stillpoint/haven/pkg/cache"
	"github.com/stillpoint/haven/pkg/config"
	"github.com/stillpoint/haven/pkg/logger"
	"github.com/stillpoint/haven/pkg/warmup"
)

func newBackend(t *testing.T) (*httptest.Server, *atomic.Int64) {
	t.Helper()

	var profileCalls atomic.Int64

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/users/{id}/profile", func(w http.ResponseWriter, r *http.Request) {
		profileCalls.Add(1)
		json.NewEncoder(w).Encode(apiclient.Profile{ID: r.PathValue("id"), DisplayName: "River"})
	})
	mux.HandleFunc("GET /api/v1/meditation/schedules", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode([]apiclient.Schedule{})
	})
	mux.HandleFunc("GET /api/v1/meditation/sessions", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode([]apiclient.Session{})
	})
	mux.HandleFunc("GET /api/v1/chat/conversations", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode([]apiclient.Conversation{})
	})
	mux.HandleFunc("GET /api/v1/health", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(apiclient.HealthStatus{Status: "ok"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &profileCalls
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("empty API base URL", func(t *testing.T) {
		t.Parallel()

		_, err := haven.New(t.Context(), config.Default(), nil)
		require.ErrorIs(t, err, apiclient.ErrEmptyBaseURL)
	})

	t.Run("bad redis URL fails setup", func(t *testing.T) {
		t.Parallel()

		cfg := config.Default()
		cfg.API.BaseURL = "http://example.com"
		cfg.Redis.URL = "http://not-redis"

		_, err := haven.New(t.Context(), cfg, nil)
		require.Error(t, err)
	})

	t.Run("bad warm schedule fails setup", func(t *testing.T) {
		t.Parallel()

		srv, _ := newBackend(t)
		cfg := config.Default()
		cfg.API.BaseURL = srv.URL
		cfg.Warmup.Schedule = "not a cron line"

		_, err := haven.New(t.Context(), cfg, nil,
			haven.WithLogger(logger.NewNope()),
			haven.WithScheduledUsers(func(context.Context) []string { return nil }),
		)
		require.ErrorIs(t, err, warmup.ErrBadSchedule)
	})

	t.Run("schedule without a user provider is ignored", func(t *testing.T) {
		t.Parallel()

		srv, _ := newBackend(t)
		cfg := config.Default()
		cfg.API.BaseURL = srv.URL
		cfg.Warmup.Schedule = "not a cron line"

		client, err := haven.New(t.Context(), cfg, nil, haven.WithLogger(logger.NewNope()))
		require.NoError(t, err)
		require.NoError(t, client.Close())
	})
}

func TestClient(t *testing.T) {
	t.Parallel()

	newClient := func(t *testing.T) (*haven.Client, *atomic.Int64) {
		t.Helper()

		srv, profileCalls := newBackend(t)
		cfg := config.Default()
		cfg.API.BaseURL = srv.URL

		client, err := haven.New(t.Context(), cfg, haven.StaticTokenProvider("tok"),
			haven.WithLogger(logger.NewNope()),
		)
		require.NoError(t, err)
		t.Cleanup(func() { client.Close() })
		return client, profileCalls
	}

	t.Run("warm pass makes following reads cache hits", func(t *testing.T) {
		t.Parallel()

		client, profileCalls := newClient(t)

		require.NoError(t, client.WarmUser(t.Context(), "u1"))
		require.Equal(t, int64(1), profileCalls.Load())

		profile, err := client.Stores().Profile.Get(t.Context(), "u1")
		require.NoError(t, err)
		require.Equal(t, "River", profile.DisplayName)
		require.Equal(t, int64(1), profileCalls.Load())
	})

	t.Run("generic fetch through the facade", func(t *testing.T) {
		t.Parallel()

		client, _ := newClient(t)

		v, err := haven.Fetch(t.Context(), client, "answer", func(context.Context) (int, error) {
			return 42, nil
		})
		require.NoError(t, err)
		require.Equal(t, 42, v)
		require.True(t, client.Cache().Has("answer"))
	})

	t.Run("monitor handler serves stats", func(t *testing.T) {
		t.Parallel()

		client, _ := newClient(t)
		require.NoError(t, client.Cache().Set("k", "v", 0, 1))

		srv := httptest.NewServer(client.MonitorHandler())
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/stats")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var stats cache.Stats
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
		require.Equal(t, 1, stats.TotalEntries)
	})

	t.Run("health handler reports backend", func(t *testing.T) {
		t.Parallel()

		client, _ := newClient(t)

		srv := httptest.NewServer(client.HealthHandler())
		defer srv.Close()

		resp, err := http.Get(srv.URL)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
