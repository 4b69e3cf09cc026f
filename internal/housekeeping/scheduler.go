// Package housekeeping purges expired token rows on a cron schedule.
package housekeeping

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dtroode/sessionkeeper/internal/logger"
)

// Sweeper deletes token rows past their lifetime and reports how many went.
type Sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

// Scheduler runs a Sweeper on a cron schedule. Runs never overlap.
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	timeout time.Duration
	logger  *logger.Logger
}

// NewScheduler creates a Scheduler. Each run is bounded by timeout when it is positive.
func NewScheduler(sweeper Sweeper, timeout time.Duration, logger *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		sweeper: sweeper,
		timeout: timeout,
		logger:  logger,
	}
}

// Start registers the sweep on spec and starts the scheduler.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("failed to schedule token sweep: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Housekeeping: scheduler started",
		"schedule", spec)

	return nil
}

// Stop stops the scheduler and waits for a running sweep until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()

	select {
	case <-done.Done():
		s.logger.Info("Housekeeping: scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("sweep still running: %w", ctx.Err())
	}
}

// RunOnce performs a single sweep.
func (s *Scheduler) RunOnce(ctx context.Context) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	purged, err := s.sweeper.Sweep(ctx)
	if err != nil {
		s.logger.Error("Housekeeping: token sweep failed",
			"error", err.Error())
		return
	}

	s.logger.Info("Housekeeping: token sweep finished",
		"purged", purged)
}
