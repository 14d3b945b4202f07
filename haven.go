package haven

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	goredis "github.com/redis/go-redis/v9"

	"github.com/stillpoint/haven/pkg/apiclient"
	"github.com/stillpoint/haven/pkg/cache"
	"github.com/stillpoint/haven/pkg/config"
	"github.com/stillpoint/haven/pkg/health"
	"github.com/stillpoint/haven/pkg/logger"
	"github.com/stillpoint/haven/pkg/monitor"
	"github.com/stillpoint/haven/pkg/redis"
	"github.com/stillpoint/haven/pkg/warmup"
	"github.com/stillpoint/haven/stores"
)

// Client is the assembled caching layer: store, domain stores, warmer
// and monitoring, wired from one config. Create it with New and tear
// it down with Close.
type Client struct {
	log    *slog.Logger
	cache  *cache.Store
	api    *apiclient.Client
	stores *stores.Stores
	warmer *warmup.Orchestrator
	sched  *warmup.Scheduler
	redis  goredis.UniversalClient
	checks health.Checks
}

// New assembles a Client. The context bounds only the setup work
// (the Redis connection attempt); it does not control the client's
// lifetime.
func New(ctx context.Context, cfg config.Config, tokens apiclient.TokenProvider, opts ...Option) (*Client, error) {
	o := &clientOptions{}
	for _, opt := range opts {
		opt(o)
	}

	log := o.logger
	if log == nil {
		log = logger.NewWithSentry(logger.SentryConfig{
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		})
	}

	checks := health.Checks{}
	for name, fn := range o.checks {
		checks[name] = fn
	}

	sinks := monitor.MultiSink{monitor.NewSlogSink(log)}
	sinks = append(sinks, o.sinks...)

	var redisClient goredis.UniversalClient
	if cfg.Redis.URL != "" {
		client, err := redis.Open(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		redisClient = client
		sinks = append(sinks, monitor.NewRedisSink(client, cfg.Redis.Channel))
		checks["redis"] = redis.Healthcheck(client)
	}

	cacheOpts := []cache.Option{
		cache.WithDefaultTTL(cfg.Cache.DefaultTTL.Std()),
		cache.WithCleanupInterval(cfg.Cache.CleanupInterval.Std()),
		cache.WithMaxEntries(cfg.Cache.MaxEntries),
		cache.WithJournalSize(cfg.Cache.JournalSize),
		cache.WithLogger(log),
	}
	if !o.noObserver {
		observer := monitor.NewCacheObserver(sinks, monitor.WithObserverLogger(log))
		cacheOpts = append(cacheOpts, cache.WithObserver(observer))
	}
	store := cache.New(cacheOpts...)

	api, err := apiclient.New(cfg.API.BaseURL, tokens)
	if err != nil {
		store.Close()
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil, err
	}
	checks["backend"] = func(ctx context.Context) error {
		_, err := api.Health(ctx)
		return err
	}

	all := stores.New(api, store,
		stores.WithLogger(log),
		stores.WithHealthChecks(checks),
	)

	warmer := all.Warmer(
		warmup.WithLogger(log),
		warmup.WithConcurrency(cfg.Warmup.Concurrency),
	)

	c := &Client{
		log:    log,
		cache:  store,
		api:    api,
		stores: all,
		warmer: warmer,
		redis:  redisClient,
		checks: checks,
	}

	if cfg.Warmup.Schedule != "" && o.warmUsers != nil {
		sched, err := warmup.NewScheduler(warmer, cfg.Warmup.Schedule, o.warmUsers, warmup.WithLogger(log))
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		sched.Start()
		c.sched = sched
	}

	return c, nil
}

// Stores returns the domain stores.
func (c *Client) Stores() *stores.Stores { return c.stores }

// Cache returns the underlying store for direct Set/Invalidate/stats
// access.
func (c *Client) Cache() *cache.Store { return c.cache }

// API returns the raw backend client, bypassing the cache.
func (c *Client) API() *apiclient.Client { return c.api }

// WarmUser runs one warming pass over every domain for the user.
func (c *Client) WarmUser(ctx context.Context, userID string) error {
	return c.warmer.WarmUser(ctx, userID)
}

// MonitorHandler returns the debug HTTP handler exposing stats,
// metrics and the journal. Mount it behind auth; it leaks cache keys.
func (c *Client) MonitorHandler() http.Handler {
	return monitor.Handler(c.cache)
}

// HealthHandler returns an HTTP probe running the local checks.
func (c *Client) HealthHandler() http.Handler {
	return health.HandlerFunc(c.checks)
}

// Close stops the scheduler, the cache janitor and the Redis
// connection. The client must not be used afterwards.
func (c *Client) Close() error {
	if c.sched != nil {
		c.sched.Stop()
	}
	c.cache.Close()

	var errs []error
	if c.redis != nil {
		errs = append(errs, c.redis.Close())
	}
	return errors.Join(errs...)
}
