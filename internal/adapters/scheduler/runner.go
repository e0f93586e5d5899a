// Package scheduler provides the adapter for running the periodic metrics
// scheduler on a cron cadence.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/meridianlabs/thesisflow/config"
	"github.com/meridianlabs/thesisflow/internal/service"
)

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	Scheduler *service.SchedulerService // Required
	Config    config.SchedulerConfig
	Logger    *slog.Logger
}

// Runner drives SchedulerService ticks from a cron schedule.
type Runner struct {
	scheduler *service.SchedulerService
	schedule  string
	logger    *slog.Logger
}

// NewRunner creates a new scheduler runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Scheduler == nil {
		return nil, errors.New("SchedulerService is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	schedule := opts.Config.MetricsSchedule
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("parse metrics schedule %q: %w", schedule, err)
	}

	return &Runner{
		scheduler: opts.Scheduler,
		schedule:  schedule,
		logger:    logger.With("component", "scheduler_runner"),
	}, nil
}

// Run starts the cron loop and blocks until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting scheduler runner", "schedule", r.schedule)

	c := cron.New()
	_, err := c.AddFunc(r.schedule, func() {
		if _, tickErr := r.scheduler.EnqueueMetricsRuns(ctx); tickErr != nil {
			r.logger.ErrorContext(ctx, "metrics scheduling tick failed", "error", tickErr)
		}
	})
	if err != nil {
		return fmt.Errorf("register metrics schedule: %w", err)
	}

	c.Start()
	<-ctx.Done()

	// Stop returns a context that is done once in-flight ticks finish.
	<-c.Stop().Done()

	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}
