// Package ratelimit implements the rate governor that paces requests
// against the upstream quota.
package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"star_crawler/internal/clock"
	"star_crawler/internal/domain"
	"star_crawler/internal/metrics"
)

// Config holds the two pacing policies. Both suspend through the same
// pause path and are independent of each other:
//   - LowWatermark: when the upstream reports fewer remaining requests,
//     wait until the reported reset time plus ResetBuffer.
//   - PacingInterval: every PacingInterval local requests, pause for
//     PacingPause. The local counter restarts after Window or after a
//     low-watermark wait.
type Config struct {
	LowWatermark   int
	PacingInterval int
	PacingPause    time.Duration
	Window         time.Duration
	ResetBuffer    time.Duration
}

func DefaultConfig() Config {
	return Config{
		LowWatermark:   100,
		PacingInterval: 100,
		PacingPause:    500 * time.Millisecond,
		Window:         time.Hour,
		ResetBuffer:    time.Second,
	}
}

// Governor tracks the latest quota signal and local request pacing. It is
// owned by one crawl and injected into the fetcher.
type Governor struct {
	cfg    Config
	clock  clock.Clock
	logger *slog.Logger

	mu          sync.Mutex
	remaining   int
	resetAt     *time.Time
	requests    int
	windowStart time.Time
}

func NewGovernor(cfg Config, clk clock.Clock, logger *slog.Logger) *Governor {
	return &Governor{
		cfg:         cfg,
		clock:       clk,
		logger:      logger.With("component", "rate_governor"),
		remaining:   domain.DefaultRateLimitRemaining,
		windowStart: clk.Now(),
	}
}

// RecordRequest counts one upstream request and inserts the fixed pacing
// pause on every PacingInterval-th request.
func (g *Governor) RecordRequest(ctx context.Context) error {
	g.mu.Lock()
	now := g.clock.Now()
	if g.cfg.Window > 0 && now.Sub(g.windowStart) > g.cfg.Window {
		g.requests = 0
		g.windowStart = now
	}
	g.requests++
	pace := g.cfg.PacingInterval > 0 && g.requests%g.cfg.PacingInterval == 0
	requests := g.requests
	g.mu.Unlock()

	if !pace {
		return nil
	}
	g.logger.Debug("pacing pause", "requests", requests, "pause", g.cfg.PacingPause)
	return g.pause(ctx, g.cfg.PacingPause)
}

// UpdateFromSignal records the quota reported by the latest response.
func (g *Governor) UpdateFromSignal(sig domain.RateSignal) {
	g.mu.Lock()
	g.remaining = sig.Remaining
	if sig.ResetAt != nil {
		resetAt := *sig.ResetAt
		g.resetAt = &resetAt
	}
	g.mu.Unlock()

	metrics.SetRateLimitRemaining(sig.Remaining)
	if sig.Remaining < 5*g.cfg.LowWatermark {
		g.logger.Info("rate limit status", "remaining", sig.Remaining, "reset_at", sig.ResetAt)
	}
}

// WaitIfNeeded suspends until the known reset time plus ResetBuffer when
// remaining is below LowWatermark, then restarts local pacing.
func (g *Governor) WaitIfNeeded(ctx context.Context, remaining int) error {
	g.mu.Lock()
	resetAt := g.resetAt
	g.mu.Unlock()

	if remaining >= g.cfg.LowWatermark || resetAt == nil {
		return nil
	}

	wait := resetAt.Sub(g.clock.Now())
	if wait <= 0 {
		return nil
	}
	wait += g.cfg.ResetBuffer

	g.logger.Warn("approaching rate limit, waiting for reset",
		"remaining", remaining,
		"reset_at", *resetAt,
		"wait", wait,
	)
	if err := g.pause(ctx, wait); err != nil {
		return err
	}

	g.mu.Lock()
	g.requests = 0
	g.windowStart = g.clock.Now()
	g.mu.Unlock()
	return nil
}

// Snapshot returns the last recorded quota signal.
func (g *Governor) Snapshot() domain.RateSignal {
	g.mu.Lock()
	defer g.mu.Unlock()

	sig := domain.RateSignal{Remaining: g.remaining}
	if g.resetAt != nil {
		resetAt := *g.resetAt
		sig.ResetAt = &resetAt
	}
	return sig
}

func (g *Governor) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	metrics.ObservePacingWait(d)
	return g.clock.Sleep(ctx, d)
}
