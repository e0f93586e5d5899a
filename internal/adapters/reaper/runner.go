// Package reaper provides the adapter for running the lease reaper loop.
package reaper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/meridianlabs/thesisflow/config"
	"github.com/meridianlabs/thesisflow/internal/data"
	"github.com/meridianlabs/thesisflow/internal/service"
)

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	DB     *sql.DB
	Config config.ReaperConfig
	Logger *slog.Logger

	// Optional dependency injection for testing/decoupling
	Requeuer service.ExpiredRequeuer
	Pruner   service.ProgressPruner
}

// Runner provides a simple adapter to run the reaper loop.
type Runner struct {
	reaper *service.ReaperService
	logger *slog.Logger
}

// NewRunner creates a new reaper runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.DB == nil && (opts.Requeuer == nil || opts.Pruner == nil) {
		return nil, errors.New("either DB or both Requeuer and Pruner must be provided")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	requeuer := opts.Requeuer
	if requeuer == nil {
		requeuer = data.NewWorkItemRepo(opts.DB, data.RepoConfig{Logger: logger})
	}
	pruner := opts.Pruner
	if pruner == nil {
		pruner = data.NewProgressRepo(opts.DB, nil, logger)
	}

	reaper, err := service.NewReaperService(service.ReaperServiceOptions{
		Requeuer: requeuer,
		Pruner:   pruner,
		Config:   opts.Config,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("wire reaper service: %w", err)
	}

	return &Runner{reaper: reaper, logger: logger}, nil
}

// Run starts the reaper loop and runs until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting reaper runner")
	return r.reaper.Run(ctx)
}
