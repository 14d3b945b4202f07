package warmup

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrBadSchedule is returned when a cron expression cannot be parsed.
var ErrBadSchedule = errors.New("warmup: invalid cron schedule")

// scheduledRunTimeout bounds one scheduled re-warm pass.
const scheduledRunTimeout = 2 * time.Minute

// Scheduler re-runs an Orchestrator on a cron schedule for the users
// reported by a provider, keeping long-lived sessions warm between
// logins.
type Scheduler struct {
	orch  *Orchestrator
	cron  *cron.Cron
	users func(ctx context.Context) []string
	log   *slog.Logger

	mu      sync.Mutex
	started bool
}

// NewScheduler creates a Scheduler firing on the standard 5-field cron
// expression (e.g. "*/15 * * * *").
func NewScheduler(orch *Orchestrator, schedule string, users func(ctx context.Context) []string, opts ...Option) (*Scheduler, error) {
	cfg := newConfig(opts...)

	s := &Scheduler{
		orch:  orch,
		cron:  cron.New(),
		users: users,
		log:   cfg.logger,
	}

	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, errors.Join(ErrBadSchedule, err)
	}

	return s, nil
}

// Start begins firing scheduled passes. Start is idempotent.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true
	s.cron.Start()
}

// Stop halts the schedule and waits for an in-flight pass to settle.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	<-s.cron.Stop().Done()
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), scheduledRunTimeout)
	defer cancel()

	users := s.users(ctx)
	for _, id := range users {
		if err := s.orch.WarmUser(ctx, id); err != nil {
			s.log.WarnContext(ctx, "warmup: scheduled pass failed",
				slog.String("user_id", id),
				slog.Any("error", err),
			)
		}
	}

	s.log.InfoContext(ctx, "warmup: scheduled pass complete", slog.Int("users", len(users)))
}
