package clock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystem_SleepHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := New().Sleep(ctx, time.Hour)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSystem_SleepElapses(t *testing.T) {
	start := time.Now()
	require.NoError(t, New().Sleep(context.Background(), 10*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	assert.Equal(t, time.UTC, New().Now().Location())
}

func TestFake(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	fake := NewFake(start)

	require.NoError(t, fake.Sleep(context.Background(), 2*time.Second))
	fake.Advance(time.Minute)
	require.NoError(t, fake.Sleep(context.Background(), 0))

	assert.Equal(t, start.Add(time.Minute+2*time.Second), fake.Now())
	assert.Equal(t, []time.Duration{2 * time.Second, 0}, fake.Sleeps())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, fake.Sleep(ctx, time.Second), context.Canceled)
	assert.Len(t, fake.Sleeps(), 2)
}
