package stores

import (
	"context"
	"log/slog"

	"github.com/stillpoint/haven/pkg/apiclient"
	"github.com/stillpoint/haven/pkg/cache"
	"github.com/stillpoint/haven/pkg/warmup"
)

// Meditation caches schedules and sessions in front of the API.
type Meditation struct {
	api   *apiclient.Client
	cache *cache.Store
	log   *slog.Logger
}

func scheduleKey(userID string) string { return "meditation:schedules:" + userID }
func sessionKey(userID string) string  { return "meditation:sessions:" + userID }

// Schedules returns the user's schedules, cached for a few minutes.
func (m *Meditation) Schedules(ctx context.Context, userID string) ([]apiclient.Schedule, error) {
	return cache.Fetch(ctx, m.cache, scheduleKey(userID), func(ctx context.Context) ([]apiclient.Schedule, error) {
		return m.api.Schedules(ctx, userID)
	}, cache.WithTTL(scheduleTTL))
}

// Sessions returns the user's sitting history, cached.
func (m *Meditation) Sessions(ctx context.Context, userID string) ([]apiclient.Session, error) {
	return cache.Fetch(ctx, m.cache, sessionKey(userID), func(ctx context.Context) ([]apiclient.Session, error) {
		return m.api.Sessions(ctx, userID)
	}, cache.WithTTL(sessionTTL))
}

// CreateSchedule writes through to the API and drops the user's cached
// meditation data.
func (m *Meditation) CreateSchedule(ctx context.Context, s apiclient.Schedule) (apiclient.Schedule, error) {
	created, err := m.api.CreateSchedule(ctx, s)
	if err != nil {
		return apiclient.Schedule{}, err
	}
	m.invalidate(ctx, s.UserID)
	return created, nil
}

// UpdateSchedule writes through to the API and drops the user's cached
// meditation data.
func (m *Meditation) UpdateSchedule(ctx context.Context, s apiclient.Schedule) (apiclient.Schedule, error) {
	updated, err := m.api.UpdateSchedule(ctx, s)
	if err != nil {
		return apiclient.Schedule{}, err
	}
	m.invalidate(ctx, s.UserID)
	return updated, nil
}

// DeleteSchedule removes a schedule and drops the user's cached
// meditation data.
func (m *Meditation) DeleteSchedule(ctx context.Context, userID, scheduleID string) error {
	if err := m.api.DeleteSchedule(ctx, scheduleID); err != nil {
		return err
	}
	m.invalidate(ctx, userID)
	return nil
}

func (m *Meditation) invalidate(ctx context.Context, userID string) {
	removed := m.cache.Invalidate(
		scheduleKey(userID)+"*",
		sessionKey(userID)+"*",
	)
	m.log.DebugContext(ctx, "stores: meditation cache invalidated",
		slog.String("user_id", userID),
		slog.Int("removed", removed),
	)
}

// WarmupTasks describes the user's meditation data as warm tasks.
func (m *Meditation) WarmupTasks(_ context.Context, userID string) []warmup.Task {
	return []warmup.Task{
		{
			Key:      scheduleKey(userID),
			TTL:      scheduleTTL,
			Priority: warmPriorityMeditation,
			Fetch: func(ctx context.Context) (any, error) {
				return m.api.Schedules(ctx, userID)
			},
		},
		{
			Key:      sessionKey(userID),
			TTL:      sessionTTL,
			Priority: warmPriorityMeditation,
			Fetch: func(ctx context.Context) (any, error) {
				return m.api.Sessions(ctx, userID)
			},
		},
	}
}
