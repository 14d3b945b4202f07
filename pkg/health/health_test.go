package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stillpoint/haven/pkg/health"
)

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("empty checks are healthy", func(t *testing.T) {
		t.Parallel()

		resp := health.Run(t.Context(), nil)
		require.Equal(t, health.StatusHealthy, resp.Status)
	})

	t.Run("all passing", func(t *testing.T) {
		t.Parallel()

		resp := health.Run(t.Context(), health.Checks{
			"backend": func(context.Context) error { return nil },
			"redis":   func(context.Context) error { return nil },
		})
		require.Equal(t, health.StatusHealthy, resp.Status)
		require.Len(t, resp.Checks, 2)
	})

	t.Run("one failure marks the run unhealthy", func(t *testing.T) {
		t.Parallel()

		resp := health.Run(t.Context(), health.Checks{
			"backend": func(context.Context) error { return nil },
			"redis":   func(context.Context) error { return errors.New("connection refused") },
		})
		require.Equal(t, health.StatusUnhealthy, resp.Status)
		require.Equal(t, health.StatusUnhealthy, resp.Checks["redis"].Status)
		require.Contains(t, resp.Checks["redis"].Error, "connection refused")
		require.Equal(t, health.StatusHealthy, resp.Checks["backend"].Status)
	})

	t.Run("timeout cancels slow checks", func(t *testing.T) {
		t.Parallel()

		resp := health.Run(t.Context(), health.Checks{
			"slow": func(ctx context.Context) error {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(time.Second):
					return nil
				}
			},
		}, health.WithTimeout(20*time.Millisecond))
		require.Equal(t, health.StatusUnhealthy, resp.Status)
	})
}

func TestHandlerFunc(t *testing.T) {
	t.Parallel()

	t.Run("healthy returns 200", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(health.HandlerFunc(health.Checks{
			"ok": func(context.Context) error { return nil },
		}))
		defer srv.Close()

		resp, err := http.Get(srv.URL)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body health.Response
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Equal(t, health.StatusHealthy, body.Status)
	})

	t.Run("unhealthy returns 503", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(health.HandlerFunc(health.Checks{
			"down": func(context.Context) error { return errors.New("down") },
		}))
		defer srv.Close()

		resp, err := http.Get(srv.URL)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}
