package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"star_crawler/internal/clock"
	"star_crawler/internal/domain"
)

var epoch = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestExecutor(cfg Config) (*Executor, *clock.Fake) {
	fake := clock.NewFake(epoch)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewExecutor(cfg, fake, logger), fake
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	exec, fake := newTestExecutor(DefaultConfig())

	calls := 0
	got, err := Do(context.Background(), exec, "search", func(context.Context) (string, error) {
		calls++
		return "page", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "page", got)
	assert.Equal(t, 1, calls)
	assert.Empty(t, fake.Sleeps())
}

func TestDo_BackoffGrowthIsCapped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRetries = 8
	exec, fake := newTestExecutor(cfg)

	failure := errors.New("bad gateway")
	calls := 0
	_, err := Do(context.Background(), exec, "search", func(context.Context) (int, error) {
		calls++
		return 0, failure
	})

	assert.Equal(t, failure, err)
	assert.Equal(t, 9, calls)
	assert.Equal(t, []time.Duration{
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		32 * time.Second,
		64 * time.Second,
		120 * time.Second,
		120 * time.Second,
	}, fake.Sleeps())
}

func TestDo_RecoversAfterTransientFailures(t *testing.T) {
	exec, fake := newTestExecutor(DefaultConfig())

	calls := 0
	got, err := Do(context.Background(), exec, "search", func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("timeout")
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, fake.Sleeps())
}

func TestDo_QuotaExceededDoesNotConsumeRetries(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRetries = 0
	exec, fake := newTestExecutor(cfg)

	calls := 0
	err := exec.Execute(context.Background(), "search", func(context.Context) error {
		calls++
		if calls <= 3 {
			return &domain.QuotaExceededError{ResetAt: fake.Now().Add(5 * time.Second)}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 4, calls)
	assert.Equal(t, []time.Duration{6 * time.Second, 6 * time.Second, 6 * time.Second}, fake.Sleeps())
}

func TestDo_QuotaResetInPastStillSleepsBuffer(t *testing.T) {
	exec, fake := newTestExecutor(DefaultConfig())

	calls := 0
	err := exec.Execute(context.Background(), "search", func(context.Context) error {
		calls++
		if calls == 1 {
			return &domain.QuotaExceededError{ResetAt: fake.Now().Add(-time.Minute)}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []time.Duration{time.Second}, fake.Sleeps())
}

func TestDo_QuotaThenFailuresKeepAttemptIndex(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRetries = 1
	exec, fake := newTestExecutor(cfg)

	failure := errors.New("boom")
	calls := 0
	err := exec.Execute(context.Background(), "search", func(context.Context) error {
		calls++
		if calls == 2 {
			return &domain.QuotaExceededError{ResetAt: fake.Now()}
		}
		return failure
	})

	assert.Equal(t, failure, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{2 * time.Second, time.Second}, fake.Sleeps())
}

func TestDo_PermanentErrorIsNotRetried(t *testing.T) {
	exec, fake := newTestExecutor(DefaultConfig())

	cause := errors.New("bad credentials")
	calls := 0
	err := exec.Execute(context.Background(), "search", func(context.Context) error {
		calls++
		return backoff.Permanent(cause)
	})

	assert.Equal(t, cause, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, fake.Sleeps())
}

func TestDo_ContextCancelledDuringWait(t *testing.T) {
	exec, _ := newTestExecutor(DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := exec.Execute(ctx, "search", func(context.Context) error {
		calls++
		cancel()
		return &domain.QuotaExceededError{ResetAt: epoch.Add(time.Hour)}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextErrorFromOperationIsReturned(t *testing.T) {
	exec, fake := newTestExecutor(DefaultConfig())

	err := exec.Execute(context.Background(), "search", func(context.Context) error {
		return context.DeadlineExceeded
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, fake.Sleeps())
}

func TestDo_BaseDelayAboveMaxIsClamped(t *testing.T) {
	cfg := Config{MaxRetries: 2, BaseDelay: 10 * time.Second, MaxDelay: 3 * time.Second, Multiplier: 2}
	exec, fake := newTestExecutor(cfg)

	_ = exec.Execute(context.Background(), "search", func(context.Context) error {
		return errors.New("nope")
	})

	assert.Equal(t, []time.Duration{3 * time.Second, 3 * time.Second}, fake.Sleeps())
}
