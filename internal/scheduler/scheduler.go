package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"star_crawler/internal/domain"
)

// Runner runs crawls. The first scheduled run calls Crawl so an interrupted
// checkpoint is picked up; later ticks call Refresh for a fresh pass.
type Runner interface {
	Crawl(ctx context.Context) (*domain.CrawlStats, error)
	Refresh(ctx context.Context) (*domain.CrawlStats, error)
}

type Scheduler struct {
	runner   Runner
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a scheduler. A zero timeout lets each run take as
// long as it needs.
func NewScheduler(runner Runner, interval, timeout time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		timeout:  timeout,
		logger:   logger.With("component", "scheduler"),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	s.run(ctx, s.runner.Crawl)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.run(ctx, s.runner.Refresh)
		}
	}
}

func (s *Scheduler) run(ctx context.Context, crawl func(context.Context) (*domain.CrawlStats, error)) {
	runCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if _, err := crawl(runCtx); err != nil {
		if errors.Is(err, domain.ErrInterrupted) {
			s.logger.Warn("scheduled crawl interrupted", "error", err)
			return
		}
		s.logger.Error("scheduled crawl failed", "error", err)
	}
}
