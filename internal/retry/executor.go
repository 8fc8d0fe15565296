// Package retry runs upstream calls with exponential backoff. Quota
// exhaustion is handled on a separate path that waits for the reported
// reset time and never consumes the retry budget.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"star_crawler/internal/clock"
	"star_crawler/internal/domain"
	"star_crawler/internal/metrics"
)

type Config struct {
	MaxRetries  int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
	QuotaBuffer time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxRetries:  5,
		BaseDelay:   2 * time.Second,
		MaxDelay:    120 * time.Second,
		Multiplier:  2.0,
		QuotaBuffer: time.Second,
	}
}

// Executor is the backoff executor. It is safe to reuse across calls but a
// single call never runs attempts concurrently.
type Executor struct {
	cfg    Config
	clock  clock.Clock
	logger *slog.Logger
}

func NewExecutor(cfg Config, clk clock.Clock, logger *slog.Logger) *Executor {
	if cfg.Multiplier < 1 {
		cfg.Multiplier = 1
	}
	if cfg.QuotaBuffer <= 0 {
		cfg.QuotaBuffer = time.Second
	}
	return &Executor{
		cfg:    cfg,
		clock:  clk,
		logger: logger.With("component", "retry"),
	}
}

// Execute runs op under the retry policy. See Do.
func (e *Executor) Execute(ctx context.Context, name string, op func(ctx context.Context) error) error {
	_, err := Do(ctx, e, name, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// Do runs op for attempts 0..MaxRetries. A *domain.QuotaExceededError makes
// it sleep until the reset time plus QuotaBuffer and retry the same attempt.
// Any other failure sleeps min(BaseDelay*Multiplier^attempt, MaxDelay) and
// consumes an attempt; the last failure is returned unchanged. Context
// cancellation and backoff.Permanent errors are returned immediately.
func Do[T any](ctx context.Context, e *Executor, name string, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	schedule := e.newSchedule()
	attempt := 0

	for {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}

		var quota *domain.QuotaExceededError
		if errors.As(err, &quota) {
			wait := quota.ResetAt.Sub(e.clock.Now())
			if wait < 0 {
				wait = 0
			}
			wait += e.cfg.QuotaBuffer

			e.logger.Warn("rate limit exceeded, waiting for reset",
				"operation", name,
				"reset_at", quota.ResetAt,
				"wait", wait,
			)
			metrics.ObserveQuotaWait(wait)

			if err := e.clock.Sleep(ctx, wait); err != nil {
				return zero, err
			}
			continue
		}

		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			return zero, permanent.Err
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return zero, err
		}

		if attempt >= e.cfg.MaxRetries {
			e.logger.Error("max retries reached",
				"operation", name,
				"max_retries", e.cfg.MaxRetries,
				"error", err,
			)
			return zero, err
		}

		delay := schedule.NextBackOff()
		if delay > e.cfg.MaxDelay {
			delay = e.cfg.MaxDelay
		}

		e.logger.Warn("request failed, retrying",
			"operation", name,
			"attempt", attempt+1,
			"max_retries", e.cfg.MaxRetries,
			"backoff", delay,
			"error", err,
		)
		metrics.IncRetries(name)

		if err := e.clock.Sleep(ctx, delay); err != nil {
			return zero, err
		}
		attempt++
	}
}

// newSchedule returns a jitter-free exponential schedule with no elapsed
// time limit; the attempt budget is enforced by Do.
func (e *Executor) newSchedule() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = e.cfg.BaseDelay
	b.Multiplier = e.cfg.Multiplier
	b.MaxInterval = e.cfg.MaxDelay
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}
