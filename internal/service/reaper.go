package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/meridianlabs/thesisflow/config"
	"github.com/meridianlabs/thesisflow/internal/domain/model"
)

// ExpiredRequeuer returns expired-lease work items to the queue and fails
// pending items nothing ever claimed.
type ExpiredRequeuer interface {
	RequeueExpired(ctx context.Context, kind model.WorkKind) (int64, error)
	FailStalePending(ctx context.Context, maxAge time.Duration) (int64, error)
}

// ProgressPruner removes old progress events of settled work items.
type ProgressPruner interface {
	PruneBefore(ctx context.Context, cutoffDays int) (int64, error)
}

// ReaperServiceOptions groups dependencies for ReaperService.
type ReaperServiceOptions struct {
	Requeuer ExpiredRequeuer     // Required
	Pruner   ProgressPruner      // Required
	Config   config.ReaperConfig // Required
	Logger   *slog.Logger        // Optional
}

// ReaperService keeps the queue healthy over time. It returns work items
// whose lease expired mid-flight back to pending (or fails them once the
// retry budget is spent) and prunes the durable progress tail of long-settled
// items.
type ReaperService struct {
	requeuer ExpiredRequeuer
	pruner   ProgressPruner
	config   config.ReaperConfig
	logger   *slog.Logger
}

// NewReaperService constructs a new ReaperService.
func NewReaperService(opts ReaperServiceOptions) (*ReaperService, error) {
	if opts.Requeuer == nil {
		return nil, errors.New("ExpiredRequeuer is required")
	}
	if opts.Pruner == nil {
		return nil, errors.New("ProgressPruner is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "reaper_service")
		logger.Debug("ReaperService initialized",
			"interval", opts.Config.Interval,
			"progress_max_age_days", opts.Config.ProgressMaxAgeDays,
		)
	}

	return &ReaperService{
		requeuer: opts.Requeuer,
		pruner:   opts.Pruner,
		config:   opts.Config,
		logger:   logger,
	}, nil
}

// Run starts the reaper loop and runs until the context is cancelled.
// Returns nil on graceful shutdown (context.Canceled), error otherwise.
func (s *ReaperService) Run(ctx context.Context) error {
	if s.logger != nil {
		s.logger.InfoContext(ctx, "starting reaper service", "interval", s.config.Interval)
	}

	// Jitter prevents thundering herd when multiple instances start together.
	s.waitWithJitter(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	if err := s.runSweep(ctx); err != nil {
		s.logSweepError(err, "initial sweep")
	}

	for {
		select {
		case <-ctx.Done():
			if s.logger != nil {
				s.logger.InfoContext(ctx, "reaper service stopping", "reason", ctx.Err())
			}
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()

		case <-ticker.C:
			if err := s.runSweep(ctx); err != nil {
				s.logSweepError(err, "sweep")
				// Continue running despite errors
			}
		}
	}
}

// waitWithJitter adds a random delay up to 10% of the interval.
func (s *ReaperService) waitWithJitter(ctx context.Context) {
	maxJitter := int64(s.config.Interval / 10)
	if maxJitter <= 0 {
		return
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// If crypto/rand fails, skip jitter rather than failing startup
		if s.logger != nil {
			s.logger.WarnContext(ctx, "failed to generate jitter, skipping", "error", err)
		}
		return
	}

	jitterNanos := binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter)
	jitter := time.Duration(int64(jitterNanos)) // #nosec G115 - bounded by maxJitter which is int64

	select {
	case <-time.After(jitter):
	case <-ctx.Done():
	}
}

// runSweep performs one pass of all maintenance operations.
func (s *ReaperService) runSweep(ctx context.Context) error {
	var errs []error

	for _, kind := range model.WorkKinds() {
		count, err := s.requeuer.RequeueExpired(ctx, kind)
		if err != nil {
			errs = append(errs, fmt.Errorf("requeue expired %s: %w", kind, err))
			continue
		}
		if count > 0 && s.logger != nil {
			s.logger.InfoContext(ctx, "requeued expired work items", "kind", kind, "count", count)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	stale, err := s.requeuer.FailStalePending(ctx, s.config.PendingMaxAge)
	if err != nil {
		errs = append(errs, fmt.Errorf("fail stale pending: %w", err))
	} else if stale > 0 && s.logger != nil {
		s.logger.InfoContext(ctx, "failed stale pending work items",
			"count", stale, "max_age", s.config.PendingMaxAge)
	}

	pruned, err := s.pruner.PruneBefore(ctx, s.config.ProgressMaxAgeDays)
	if err != nil {
		errs = append(errs, fmt.Errorf("prune progress events: %w", err))
	} else if pruned > 0 && s.logger != nil {
		s.logger.InfoContext(ctx, "pruned old progress events",
			"count", pruned, "max_age_days", s.config.ProgressMaxAgeDays)
	}

	if len(errs) > 0 {
		joined := errors.Join(errs...)
		if isContextCancellation(joined) {
			return context.Canceled
		}
		return fmt.Errorf("sweep failed: %w", joined)
	}
	return nil
}

func (s *ReaperService) logSweepError(err error, label string) {
	if err == nil || s.logger == nil {
		return
	}

	if isContextCancellation(err) {
		s.logger.Debug(label+" cancelled by context", "error", err)
		return
	}

	s.logger.Error(label+" failed", "error", err)
}

func isContextCancellation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
