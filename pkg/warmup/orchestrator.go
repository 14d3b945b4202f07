package warmup

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/stillpoint/haven/pkg/cache"
)

// Provider builds the warm tasks for one domain (meditation data, chat
// history, user profile, system health) for a given user.
type Provider func(ctx context.Context, userID string) []Task

type domain struct {
	name     string
	provider Provider
}

// Orchestrator fans a warming pass out over independently registered
// domains. Domains run concurrently and are joined all-settled, so one
// domain's failure never blocks another.
type Orchestrator struct {
	store   *cache.Store
	cfg     *config
	flights singleflight.Group

	mu      sync.Mutex
	domains []domain
}

// NewOrchestrator creates an Orchestrator warming the given store.
func NewOrchestrator(store *cache.Store, opts ...Option) *Orchestrator {
	return &Orchestrator{
		store: store,
		cfg:   newConfig(opts...),
	}
}

// Register adds a named domain provider. Registration order is
// preserved for reporting; it does not affect scheduling.
func (o *Orchestrator) Register(name string, p Provider) {
	if p == nil {
		return
	}
	o.mu.Lock()
	o.domains = append(o.domains, domain{name: name, provider: p})
	o.mu.Unlock()
}

// WarmUser runs every registered domain for the user and returns once
// all of them have settled. A second call for the same user while a
// pass is in flight joins that pass instead of starting a duplicate.
// WarmUser never reports domain failures as an error; they are logged
// per task.
func (o *Orchestrator) WarmUser(ctx context.Context, userID string) error {
	_, err, _ := o.flights.Do("user:"+userID, func() (any, error) {
		o.warm(ctx, userID)
		return nil, nil
	})
	return err
}

func (o *Orchestrator) warm(ctx context.Context, userID string) {
	o.mu.Lock()
	domains := make([]domain, len(o.domains))
	copy(domains, o.domains)
	o.mu.Unlock()

	start := time.Now()
	var wg sync.WaitGroup

	for _, d := range domains {
		wg.Add(1)
		go func(d domain) {
			defer wg.Done()

			tasks := d.provider(ctx, userID)
			results := Run(ctx, o.store, tasks, WithLogger(o.cfg.logger), WithConcurrency(int(o.cfg.concurrency)))

			o.cfg.logger.InfoContext(ctx, "warmup: domain settled",
				slog.String("domain", d.name),
				slog.String("user_id", userID),
				slog.Int("tasks", len(results)),
				slog.Int("failed", Failed(results)),
			)
		}(d)
	}
	wg.Wait()

	o.cfg.logger.InfoContext(ctx, "warmup: pass complete",
		slog.String("user_id", userID),
		slog.Int("domains", len(domains)),
		slog.Duration("elapsed", time.Since(start)),
	)
}
