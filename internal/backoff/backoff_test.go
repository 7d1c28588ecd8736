package backoff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vkozyrev/teamscout/internal/metrics"
)

func TestDoSucceedsAfterFailures(t *testing.T) {
	t.Parallel()
	exec := New(time.Millisecond, zap.NewNop())

	attempts := 0
	value, err := Get(context.Background(), exec, "flaky", 3, func(context.Context) (string, error) {
		attempts++
		if attempts <= 2 {
			return "", errors.New("transient")
		}
		return "done", nil
	})
	require.NoError(t, err)
	require.Equal(t, "done", value)
	require.Equal(t, 3, attempts)
}

func TestDoExhaustsAttempts(t *testing.T) {
	t.Parallel()
	exec := New(time.Millisecond, zap.NewNop())

	attempts := 0
	boom := errors.New("boom")
	err := exec.Do(context.Background(), "always-fails", 3, func(context.Context) error {
		attempts++
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 3, attempts)
}

func TestDoCountsRetries(t *testing.T) {
	t.Parallel()
	exec := New(time.Millisecond, zap.NewNop())

	before := testutil.ToFloat64(metrics.Retries)
	attempts := 0
	err := exec.Do(context.Background(), "flaky", 3, func(context.Context) error {
		attempts++
		if attempts <= 2 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	// Two failed attempts means two retries counted. Parallel tests may
	// add their own, so only a lower bound is asserted.
	require.GreaterOrEqual(t, testutil.ToFloat64(metrics.Retries)-before, 2.0)
}

func TestDoBackoffIsLinear(t *testing.T) {
	t.Parallel()
	base := 20 * time.Millisecond
	exec := New(base, zap.NewNop())

	start := time.Now()
	err := exec.Do(context.Background(), "timed", 3, func(context.Context) error {
		return errors.New("nope")
	})
	require.Error(t, err)
	// Two waits: 1*base + 2*base.
	require.GreaterOrEqual(t, time.Since(start), 3*base)
}

func TestDoHonorsContext(t *testing.T) {
	t.Parallel()
	exec := New(time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := exec.Do(ctx, "canceled", 3, func(context.Context) error {
		return errors.New("nope")
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Less(t, time.Since(start), time.Second)
}
