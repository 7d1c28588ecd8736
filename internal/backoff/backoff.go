// Package backoff wraps fallible operations with bounded, linearly
// increasing retries.
package backoff

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vkozyrev/teamscout/internal/metrics"
)

// Executor retries operations with a linear backoff: the wait before
// attempt n+1 is n*baseDelay. It holds no per-call state, so a single
// Executor may be shared by concurrent callers.
type Executor struct {
	baseDelay time.Duration
	logger    *zap.Logger
}

// New creates an Executor. Jitter is deliberately absent here; randomized
// pacing lives in the politeness governor.
func New(baseDelay time.Duration, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{baseDelay: baseDelay, logger: logger}
}

// Do runs op up to maxAttempts times. On failure it waits attempt*baseDelay
// before the next try and logs the attempt number and reason. The last
// error is returned once attempts are exhausted.
func (e *Executor) Do(ctx context.Context, name string, maxAttempts int, op func(context.Context) error) error {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == maxAttempts {
			break
		}
		wait := time.Duration(attempt) * e.baseDelay
		metrics.Retries.Inc()
		e.logger.Warn("operation failed, retrying",
			zap.String("op", name),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxAttempts),
			zap.Duration("wait", wait),
			zap.Error(lastErr),
		)
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
	return fmt.Errorf("%s: %d attempts exhausted: %w", name, maxAttempts, lastErr)
}

// Get is the value-returning variant of Executor.Do.
func Get[T any](ctx context.Context, e *Executor, name string, maxAttempts int, op func(context.Context) (T, error)) (T, error) {
	var out T
	err := e.Do(ctx, name, maxAttempts, func(ctx context.Context) error {
		var opErr error
		out, opErr = op(ctx)
		return opErr
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("backoff interrupted: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
