package stores

import (
	"context"
	"log/slog"

	"github.com/stillpoint/haven/pkg/apiclient"
	"github.com/stillpoint/haven/pkg/cache"
	"github.com/stillpoint/haven/pkg/health"
	"github.com/stillpoint/haven/pkg/warmup"
)

const systemHealthKey = "system:health"

// System caches the backend's self-reported health and runs any local
// checks configured on the composite.
type System struct {
	api    *apiclient.Client
	cache  *cache.Store
	log    *slog.Logger
	checks health.Checks
}

// BackendHealth returns the backend's health report, cached for a few
// seconds so status widgets do not hammer the API.
func (s *System) BackendHealth(ctx context.Context) (apiclient.HealthStatus, error) {
	return cache.Fetch(ctx, s.cache, systemHealthKey, func(ctx context.Context) (apiclient.HealthStatus, error) {
		return s.api.Health(ctx)
	}, cache.WithTTL(healthTTL))
}

// Check runs the local checks. Results are never cached; a health
// probe must see the current state.
func (s *System) Check(ctx context.Context) health.Response {
	return health.Run(ctx, s.checks, health.WithLogger(s.log))
}

// WarmupTasks warms the backend health snapshot at the lowest priority.
func (s *System) WarmupTasks(context.Context, string) []warmup.Task {
	return []warmup.Task{
		{
			Key:      systemHealthKey,
			TTL:      healthTTL,
			Priority: warmPrioritySystem,
			Fetch: func(ctx context.Context) (any, error) {
				return s.api.Health(ctx)
			},
		},
	}
}
