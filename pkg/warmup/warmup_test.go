package warmup_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stillpoint/haven/pkg/cache"
	"github.com/stillpoint/haven/pkg/warmup"
)

func newStore(t *testing.T) *cache.Store {
	t.Helper()
	c := cache.New(cache.WithCleanupInterval(0))
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func value(v any) func(context.Context) (any, error) {
	return func(context.Context) (any, error) { return v, nil }
}

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("populates the store", func(t *testing.T) {
		t.Parallel()

		c := newStore(t)
		results := warmup.Run(context.Background(), c, []warmup.Task{
			{Key: "a", TTL: time.Minute, Fetch: value(1)},
			{Key: "b", TTL: time.Minute, Fetch: value(2)},
		})

		require.Len(t, results, 2)
		require.Zero(t, warmup.Failed(results))
		require.True(t, c.Has("a"))
		require.True(t, c.Has("b"))
	})

	t.Run("one failing task does not abort the others", func(t *testing.T) {
		t.Parallel()

		c := newStore(t)
		boom := errors.New("fetch failed")

		results := warmup.Run(context.Background(), c, []warmup.Task{
			{Key: "first", TTL: time.Minute, Priority: 3, Fetch: value("one")},
			{Key: "second", TTL: time.Minute, Priority: 2, Fetch: func(context.Context) (any, error) {
				return nil, boom
			}},
			{Key: "third", TTL: time.Minute, Priority: 1, Fetch: value("three")},
		})

		require.Len(t, results, 3)
		require.Equal(t, 1, warmup.Failed(results))
		require.ErrorIs(t, results[1].Err, boom)

		require.True(t, c.Has("first"))
		require.False(t, c.Has("second"))
		require.True(t, c.Has("third"))
	})

	t.Run("issues tasks by descending priority", func(t *testing.T) {
		t.Parallel()

		c := newStore(t)
		var mu sync.Mutex
		var order []string

		record := func(key string) func(context.Context) (any, error) {
			return func(context.Context) (any, error) {
				mu.Lock()
				order = append(order, key)
				mu.Unlock()
				return key, nil
			}
		}

		// Concurrency 1 serializes execution so issue order is observable.
		warmup.Run(context.Background(), c, []warmup.Task{
			{Key: "low", Priority: 1, Fetch: record("low")},
			{Key: "high", Priority: 10, Fetch: record("high")},
			{Key: "mid-a", Priority: 5, Fetch: record("mid-a")},
			{Key: "mid-b", Priority: 5, Fetch: record("mid-b")},
		}, warmup.WithConcurrency(1))

		require.Equal(t, []string{"high", "mid-a", "mid-b", "low"}, order,
			"descending priority, ties in original order")
	})

	t.Run("task without fetch function is reported", func(t *testing.T) {
		t.Parallel()

		c := newStore(t)
		results := warmup.Run(context.Background(), c, []warmup.Task{{Key: "a"}})
		require.Equal(t, 1, warmup.Failed(results))
	})
}

func TestOrchestrator(t *testing.T) {
	t.Parallel()

	t.Run("warms every registered domain", func(t *testing.T) {
		t.Parallel()

		c := newStore(t)
		o := warmup.NewOrchestrator(c)
		o.Register("profile", func(_ context.Context, userID string) []warmup.Task {
			return []warmup.Task{{Key: "user:" + userID + ":profile", Fetch: value("p")}}
		})
		o.Register("chat", func(_ context.Context, userID string) []warmup.Task {
			return []warmup.Task{{Key: "chat:conversations:" + userID, Fetch: value("c")}}
		})

		require.NoError(t, o.WarmUser(context.Background(), "u1"))
		require.True(t, c.Has("user:u1:profile"))
		require.True(t, c.Has("chat:conversations:u1"))
	})

	t.Run("one domain failing does not block another", func(t *testing.T) {
		t.Parallel()

		c := newStore(t)
		o := warmup.NewOrchestrator(c)
		o.Register("broken", func(context.Context, string) []warmup.Task {
			return []warmup.Task{{Key: "broken", Fetch: func(context.Context) (any, error) {
				return nil, errors.New("down")
			}}}
		})
		o.Register("healthy", func(context.Context, string) []warmup.Task {
			return []warmup.Task{{Key: "healthy", Fetch: value("ok")}}
		})

		require.NoError(t, o.WarmUser(context.Background(), "u1"))
		require.True(t, c.Has("healthy"))
		require.False(t, c.Has("broken"))
	})

	t.Run("concurrent passes for one user share a flight", func(t *testing.T) {
		t.Parallel()

		c := newStore(t)
		var passes atomic.Int64

		o := warmup.NewOrchestrator(c)
		o.Register("slow", func(context.Context, string) []warmup.Task {
			passes.Add(1)
			return []warmup.Task{{Key: "slow", Fetch: func(context.Context) (any, error) {
				time.Sleep(20 * time.Millisecond)
				return "v", nil
			}}}
		})

		var wg sync.WaitGroup
		for range 5 {
			wg.Go(func() {
				require.NoError(t, o.WarmUser(context.Background(), "u1"))
			})
		}
		wg.Wait()

		require.LessOrEqual(t, passes.Load(), int64(2),
			"concurrent warm calls must join the in-flight pass")

		// A later call starts a fresh pass.
		before := passes.Load()
		require.NoError(t, o.WarmUser(context.Background(), "u1"))
		require.Equal(t, before+1, passes.Load())
	})
}

func TestNewScheduler(t *testing.T) {
	t.Parallel()

	t.Run("rejects a bad cron expression", func(t *testing.T) {
		t.Parallel()

		o := warmup.NewOrchestrator(newStore(t))
		_, err := warmup.NewScheduler(o, "not a schedule", func(context.Context) []string { return nil })
		require.ErrorIs(t, err, warmup.ErrBadSchedule)
	})

	t.Run("start and stop are idempotent", func(t *testing.T) {
		t.Parallel()

		o := warmup.NewOrchestrator(newStore(t))
		s, err := warmup.NewScheduler(o, "*/15 * * * *", func(context.Context) []string { return []string{"u1"} })
		require.NoError(t, err)

		s.Start()
		s.Start()
		s.Stop()
		s.Stop()
	})
}
