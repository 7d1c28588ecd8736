// Package scheduler triggers crawl passes on a fixed interval, gated on
// the persisted checkpoint so restarts do not re-crawl fresh data.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"github.com/vkozyrev/teamscout/internal/metrics"
	"github.com/vkozyrev/teamscout/internal/store"
)

// checkpointKey gates the whole pass on the team-list resource.
const checkpointKey = "team-list"

// PassRunner executes one crawl pass.
type PassRunner interface {
	RunPass(ctx context.Context) error
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// Scheduler runs passes every interval. At most one pass runs at a time;
// a trigger that finds a pass in flight or a fresh checkpoint is dropped.
type Scheduler struct {
	runner      PassRunner
	checkpoints store.CheckpointStore
	clock       Clock
	interval    time.Duration
	logger      *zap.Logger

	mu      sync.Mutex
	running bool

	cron gocron.Scheduler
}

// New builds a Scheduler.
func New(runner PassRunner, checkpoints store.CheckpointStore, clock Clock, interval time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		runner:      runner,
		checkpoints: checkpoints,
		clock:       clock,
		interval:    interval,
		logger:      logger,
	}
}

// Start schedules recurring passes, firing the first one immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	cron, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	_, err = cron.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			if err := s.Trigger(ctx); err != nil {
				s.logger.Error("scheduled pass failed", zap.Error(err))
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("schedule pass job: %w", err)
	}
	cron.Start()
	s.cron = cron
	s.logger.Info("scheduler started", zap.Duration("interval", s.interval))
	return nil
}

// Stop shuts the underlying scheduler down. A pass already in flight
// finishes on its own context.
func (s *Scheduler) Stop() error {
	if s.cron == nil {
		return nil
	}
	return s.cron.Shutdown()
}

// Trigger runs one gated pass. It returns nil when the trigger is dropped
// because a pass is already running or the checkpoint is still fresh.
func (s *Scheduler) Trigger(ctx context.Context) error {
	if !s.tryAcquire() {
		metrics.PassesSkipped.Inc()
		s.logger.Info("pass already running, trigger dropped")
		return nil
	}
	defer s.release()

	now := s.clock.Now()
	last, err := s.checkpoints.LastChecked(ctx, checkpointKey)
	switch {
	case err == nil:
		if age := now.Sub(last); age < s.interval {
			metrics.PassesSkipped.Inc()
			s.logger.Info("checkpoint still fresh, trigger dropped",
				zap.Time("last_checked", last),
				zap.Duration("age", age),
			)
			return nil
		}
	case errors.Is(err, store.ErrNotFound):
		// First ever pass.
	default:
		return fmt.Errorf("read checkpoint: %w", err)
	}

	if err := s.runner.RunPass(ctx); err != nil {
		return err
	}
	if err := s.checkpoints.MarkChecked(ctx, checkpointKey, s.clock.Now()); err != nil {
		return fmt.Errorf("mark checkpoint: %w", err)
	}
	return nil
}

func (s *Scheduler) tryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

func (s *Scheduler) release() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}
