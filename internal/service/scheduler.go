package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/meridianlabs/thesisflow/internal/core"
	"github.com/meridianlabs/thesisflow/internal/domain/model"
)

// SchedulerServiceOptions groups dependencies for SchedulerService.
type SchedulerServiceOptions struct {
	Engagements core.EngagementRepository // Required
	WorkItems   *WorkItemService          // Required
	Logger      *slog.Logger              // Optional
}

// SchedulerService enqueues periodic metrics recomputation runs for active
// engagements. An engagement with a metrics item already pending or running
// is skipped so overlapping ticks never pile up duplicate work.
type SchedulerService struct {
	engagements core.EngagementRepository
	workItems   *WorkItemService
	logger      *slog.Logger
}

// NewSchedulerService constructs a new SchedulerService.
func NewSchedulerService(opts SchedulerServiceOptions) (*SchedulerService, error) {
	if opts.Engagements == nil {
		return nil, errors.New("EngagementRepository is required")
	}
	if opts.WorkItems == nil {
		return nil, errors.New("WorkItemService is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "scheduler_service")
	}

	return &SchedulerService{
		engagements: opts.Engagements,
		workItems:   opts.WorkItems,
		logger:      logger,
	}, nil
}

// EnqueueMetricsRuns enqueues one metrics work item per active engagement
// that does not already have one in flight. It returns the number enqueued.
func (s *SchedulerService) EnqueueMetricsRuns(ctx context.Context) (int, error) {
	engagements, err := s.engagements.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("list active engagements: %w", err)
	}

	kind := model.WorkKindMetrics
	enqueued := 0
	var errs []error

	for _, eng := range engagements {
		stats, statsErr := s.workItems.Stats(ctx, eng.ID, &kind)
		if statsErr != nil {
			errs = append(errs, fmt.Errorf("stats for %s: %w", eng.ID, statsErr))
			continue
		}
		if stats.Pending > 0 || stats.Running > 0 {
			continue
		}

		if _, enqErr := s.workItems.Enqueue(ctx, &model.CreateWorkItemRequest{
			EngagementID: eng.ID,
			Kind:         kind,
			Parameters:   []byte(`{}`),
		}); enqErr != nil {
			errs = append(errs, fmt.Errorf("enqueue for %s: %w", eng.ID, enqErr))
			continue
		}
		enqueued++
	}

	if s.logger != nil && enqueued > 0 {
		s.logger.InfoContext(ctx, "scheduled metrics runs", "enqueued", enqueued)
	}

	if len(errs) > 0 {
		return enqueued, errors.Join(errs...)
	}
	return enqueued, nil
}
