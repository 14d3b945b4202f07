package stores

import (
	"io"
	"log/slog"
	"time"

	"github.com/stillpoint/haven/pkg/apiclient"
	"github.com/stillpoint/haven/pkg/cache"
	"github.com/stillpoint/haven/pkg/health"
	"github.com/stillpoint/haven/pkg/warmup"
)

// Per-domain freshness windows. Profiles change rarely, chat churns.
const (
	scheduleTTL     = 5 * time.Minute
	sessionTTL      = 5 * time.Minute
	conversationTTL = 2 * time.Minute
	messageTTL      = 2 * time.Minute
	profileTTL      = 10 * time.Minute
	healthTTL       = 30 * time.Second
)

// Warm priorities. The profile is needed on the first screen, health is
// background noise.
const (
	warmPriorityProfile    = 100
	warmPriorityMeditation = 80
	warmPriorityChat       = 60
	warmPrioritySystem     = 10
)

// Option configures the composite.
type Option func(*config)

type config struct {
	logger *slog.Logger
	checks health.Checks
}

// WithLogger sets the logger shared by all stores.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithHealthChecks adds local checks (redis, backend reachability) to
// the system store on top of the backend's self-reported health.
func WithHealthChecks(checks health.Checks) Option {
	return func(c *config) {
		c.checks = checks
	}
}

// Stores bundles the domain stores over one API client and one cache.
type Stores struct {
	Meditation *Meditation
	Chat       *Chat
	Profile    *Profile
	System     *System

	cache *cache.Store
}

// New builds the composite. All stores share the cache, so one
// invalidation pattern can cross domains when needed.
func New(api *apiclient.Client, store *cache.Store, opts ...Option) *Stores {
	cfg := &config{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Stores{
		Meditation: &Meditation{api: api, cache: store, log: cfg.logger},
		Chat:       &Chat{api: api, cache: store, log: cfg.logger},
		Profile:    &Profile{api: api, cache: store, log: cfg.logger},
		System:     &System{api: api, cache: store, log: cfg.logger, checks: cfg.checks},
		cache:      store,
	}
}

// Warmer builds an orchestrator with all four domains registered.
// Options are passed through to the warming passes.
func (s *Stores) Warmer(opts ...warmup.Option) *warmup.Orchestrator {
	orch := warmup.NewOrchestrator(s.cache, opts...)
	orch.Register("profile", s.Profile.WarmupTasks)
	orch.Register("meditation", s.Meditation.WarmupTasks)
	orch.Register("chat", s.Chat.WarmupTasks)
	orch.Register("system", s.System.WarmupTasks)
	return orch
}
