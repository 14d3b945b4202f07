package warmup

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/stillpoint/haven/pkg/cache"
)

// Task names one cache key to warm and the fetch function producing its
// value. Higher priority tasks are issued first; ties keep their
// original order.
type Task struct {
	Key      string
	TTL      time.Duration
	Priority int
	Fetch    func(ctx context.Context) (any, error)
}

// Result reports the outcome of a single warmed task.
type Result struct {
	Key      string
	Duration time.Duration
	Err      error
}

// Option configures a warming pass or an Orchestrator.
type Option func(*config)

type config struct {
	logger      *slog.Logger
	concurrency int64
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithLogger sets the logger for per-task failures and pass summaries.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithConcurrency bounds how many fetches run at once. Zero or negative
// means unbounded.
func WithConcurrency(n int) Option {
	return func(c *config) {
		c.concurrency = int64(n)
	}
}

// Run executes a warming pass against the store and returns one Result
// per task, in issue order. Run never fails as a whole: per-task errors
// (including fetch failures and tasks without a fetch function) are
// captured in the results and logged.
func Run(ctx context.Context, store *cache.Store, tasks []Task, opts ...Option) []Result {
	cfg := newConfig(opts...)

	ordered := make([]Task, len(tasks))
	copy(ordered, tasks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})

	var sem *semaphore.Weighted
	if cfg.concurrency > 0 {
		sem = semaphore.NewWeighted(cfg.concurrency)
	}

	results := make([]Result, len(ordered))
	var wg sync.WaitGroup

	for i, task := range ordered {
		wg.Add(1)
		go func(i int, task Task) {
			defer wg.Done()
			results[i] = runTask(ctx, store, task, sem, cfg.logger)
		}(i, task)
	}
	wg.Wait()

	return results
}

func runTask(ctx context.Context, store *cache.Store, task Task, sem *semaphore.Weighted, log *slog.Logger) Result {
	start := time.Now()

	if task.Fetch == nil {
		log.WarnContext(ctx, "warmup: task has no fetch function", slog.String("key", task.Key))
		return Result{Key: task.Key, Err: cache.ErrNilFetch}
	}

	if sem != nil {
		if err := sem.Acquire(ctx, 1); err != nil {
			return Result{Key: task.Key, Duration: time.Since(start), Err: err}
		}
		defer sem.Release(1)
	}

	_, err := cache.Fetch(ctx, store, task.Key, task.Fetch, cache.WithTTL(task.TTL))
	if err != nil {
		log.WarnContext(ctx, "warmup: task failed",
			slog.String("key", task.Key),
			slog.Any("error", err),
		)
	}

	return Result{Key: task.Key, Duration: time.Since(start), Err: err}
}

// Failed counts the results that carry an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
