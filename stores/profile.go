package stores

import (
	"context"
	"log/slog"

	"github.com/stillpoint/haven/pkg/apiclient"
	"github.com/stillpoint/haven/pkg/cache"
	"github.com/stillpoint/haven/pkg/warmup"
)

// Profile caches the user's account record.
type Profile struct {
	api   *apiclient.Client
	cache *cache.Store
	log   *slog.Logger
}

func profileKey(userID string) string { return "user:" + userID + ":profile" }

// Get returns the user's profile, cached for several minutes.
func (p *Profile) Get(ctx context.Context, userID string) (apiclient.Profile, error) {
	return cache.Fetch(ctx, p.cache, profileKey(userID), func(ctx context.Context) (apiclient.Profile, error) {
		return p.api.Profile(ctx, userID)
	}, cache.WithTTL(profileTTL))
}

// Update writes through to the API and drops everything cached under
// the user's namespace, not just the profile.
func (p *Profile) Update(ctx context.Context, profile apiclient.Profile) (apiclient.Profile, error) {
	updated, err := p.api.UpdateProfile(ctx, profile)
	if err != nil {
		return apiclient.Profile{}, err
	}

	removed := p.cache.Invalidate("user:" + profile.ID + ":*")
	p.log.DebugContext(ctx, "stores: user namespace invalidated",
		slog.String("user_id", profile.ID),
		slog.Int("removed", removed),
	)
	return updated, nil
}

// WarmupTasks warms the profile first; it gates the first screen.
func (p *Profile) WarmupTasks(_ context.Context, userID string) []warmup.Task {
	return []warmup.Task{
		{
			Key:      profileKey(userID),
			TTL:      profileTTL,
			Priority: warmPriorityProfile,
			Fetch: func(ctx context.Context) (any, error) {
				return p.api.Profile(ctx, userID)
			},
		},
	}
}
