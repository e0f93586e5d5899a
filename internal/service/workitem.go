// Package service contains the business logic layer between HTTP transport
// and the data repositories.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/meridianlabs/thesisflow/internal/core"
	"github.com/meridianlabs/thesisflow/internal/data"
	"github.com/meridianlabs/thesisflow/internal/domain/model"
	domainwork "github.com/meridianlabs/thesisflow/internal/domain/work"
	apperrors "github.com/meridianlabs/thesisflow/internal/errors"
)

// WorkItemServiceOptions groups dependencies for WorkItemService.
type WorkItemServiceOptions struct {
	Repo            core.WorkItemRepository    // Required: work item repository
	DefaultLease    time.Duration              // Required: default lease duration
	Logger          *slog.Logger               // Optional: structured logger
	LeasePolicy     *domainwork.LeasePolicy    // Optional: override default lease policy
	Notifier        domainwork.Notifier        // Optional: custom availability notifier
	NotifierOptions domainwork.NotifierOptions // Optional: configure default notifier behaviour
}

// WorkItemService provides the queue and status-store operations for
// asynchronous work: enqueue, claim, heartbeat, completion, and status reads.
// It also owns the pub/sub notifier that wakes workers when items arrive.
type WorkItemService struct {
	repo        core.WorkItemRepository
	leasePolicy *domainwork.LeasePolicy
	notifier    domainwork.Notifier
	logger      *slog.Logger
}

// NewWorkItemService constructs a new WorkItemService.
func NewWorkItemService(opts WorkItemServiceOptions) (*WorkItemService, error) {
	if opts.Repo == nil {
		return nil, errors.New("WorkItemRepository is required")
	}

	var leasePolicy *domainwork.LeasePolicy
	switch {
	case opts.LeasePolicy != nil:
		leasePolicy = opts.LeasePolicy
	case opts.DefaultLease > 0:
		var err error
		leasePolicy, err = domainwork.NewLeasePolicy(opts.DefaultLease)
		if err != nil {
			return nil, fmt.Errorf("create lease policy: %w", err)
		}
	default:
		return nil, errors.New("DefaultLease must be positive")
	}

	notifier := opts.Notifier
	if notifier == nil {
		options := opts.NotifierOptions
		if options.Waiter == nil {
			options.Waiter = opts.Repo
		}
		var err error
		notifier, err = domainwork.NewNotifier(options)
		if err != nil {
			return nil, fmt.Errorf("create work notifier: %w", err)
		}
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "work_item_service")
	}

	return &WorkItemService{
		repo:        opts.Repo,
		leasePolicy: leasePolicy,
		notifier:    notifier,
		logger:      logger,
	}, nil
}

// MustNewWorkItemService constructs a new WorkItemService and panics on error.
// Use this when you're certain the options are valid (e.g., in bootstrap).
func MustNewWorkItemService(opts WorkItemServiceOptions) *WorkItemService {
	svc, err := NewWorkItemService(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create WorkItemService: %v", err))
	}
	return svc
}

// Enqueue validates and persists a new pending work item. The item becomes
// visible to workers once its scheduled time passes.
func (s *WorkItemService) Enqueue(ctx context.Context, req *model.CreateWorkItemRequest) (*model.WorkItem, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	item, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("enqueue work item: %w", err)
	}

	if s.logger != nil {
		s.logger.DebugContext(ctx, "work item enqueued",
			"id", item.ID, "kind", item.Kind, "engagement_id", item.EngagementID)
	}
	return item, nil
}

// ReserveNext claims the next due work item of the given kind. Returns
// model.ErrNoWorkAvailable when the queue is empty.
func (s *WorkItemService) ReserveNext(ctx context.Context, kind model.WorkKind, lease time.Duration) (*model.WorkItem, error) {
	decision := s.leasePolicy.Resolve(lease)
	if decision.Clamped() && s.logger != nil {
		s.logger.DebugContext(ctx, "raised lease to minimum duration",
			"requested", decision.Requested, "kind", kind)
	}

	item, err := s.repo.ReserveNext(ctx, kind, decision.Lease)
	if err != nil {
		if errors.Is(err, model.ErrNoWorkAvailable) {
			return nil, err
		}
		return nil, fmt.Errorf("reserve next work item: %w", err)
	}

	if s.logger != nil {
		s.logger.DebugContext(ctx, "work item reserved",
			"id", item.ID, "kind", kind, "lease", decision.Lease, "attempt", item.RetryCount)
	}
	return item, nil
}

// Subscribe registers for availability notifications for a work kind.
func (s *WorkItemService) Subscribe(kind model.WorkKind) (func(), <-chan struct{}) {
	return s.notifier.Subscribe(kind)
}

// StopListeners shuts down the availability notifier.
func (s *WorkItemService) StopListeners() {
	s.notifier.StopAll()
}

// Heartbeat extends the lease of a running work item.
func (s *WorkItemService) Heartbeat(ctx context.Context, id string, lease time.Duration) (bool, error) {
	decision := s.leasePolicy.Resolve(lease)
	ok, err := s.repo.Heartbeat(ctx, id, decision.Lease)
	if err != nil {
		return false, fmt.Errorf("heartbeat work item: %w", err)
	}
	if !ok && s.logger != nil {
		s.logger.WarnContext(ctx, "heartbeat lost lease", "id", id)
	}
	return ok, nil
}

// UpdateProgress records the current progress percentage of a running item.
func (s *WorkItemService) UpdateProgress(ctx context.Context, id string, progress int) (bool, error) {
	ok, err := s.repo.UpdateProgress(ctx, id, progress)
	if err != nil {
		return false, fmt.Errorf("update work item progress: %w", err)
	}
	return ok, nil
}

// Complete marks a running work item completed with its result payload. A
// false return means the item was no longer running (lease lost).
func (s *WorkItemService) Complete(ctx context.Context, id string, result json.RawMessage) (bool, error) {
	ok, err := s.repo.Complete(ctx, id, result)
	if err != nil {
		return false, fmt.Errorf("complete work item: %w", err)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "work item completed", "id", id, "applied", ok)
	}
	return ok, nil
}

// Fail records a failed attempt. The repository decides between requeue and
// the terminal failed status based on the retry budget.
func (s *WorkItemService) Fail(ctx context.Context, id, errMsg string) (bool, error) {
	ok, err := s.repo.Fail(ctx, id, errMsg)
	if err != nil {
		return false, fmt.Errorf("fail work item: %w", err)
	}
	if s.logger != nil {
		s.logger.WarnContext(ctx, "work item attempt failed", "id", id, "applied", ok, "error_message", errMsg)
	}
	return ok, nil
}

// Get fetches a work item scoped to an engagement.
func (s *WorkItemService) Get(ctx context.Context, engagementID, id string) (*model.WorkItem, error) {
	item, err := s.repo.GetForEngagement(ctx, engagementID, id)
	if err != nil {
		if errors.Is(err, data.ErrWorkItemNotFound) {
			return nil, apperrors.NotFound("work item not found")
		}
		return nil, fmt.Errorf("get work item: %w", err)
	}
	return item, nil
}

// GetStatus returns the polling view of a work item: status, progress, and
// terminal details only.
func (s *WorkItemService) GetStatus(ctx context.Context, engagementID, id string) (*model.WorkItemStatusResponse, error) {
	item, err := s.Get(ctx, engagementID, id)
	if err != nil {
		return nil, err
	}
	return &model.WorkItemStatusResponse{
		Status:       item.Status,
		Progress:     item.Progress,
		CompletedAt:  item.CompletedAt,
		ErrorMessage: item.ErrorMessage,
	}, nil
}

// List returns work items for an engagement with optional filters.
func (s *WorkItemService) List(ctx context.Context, opts model.WorkItemListOptions) ([]*model.WorkItem, error) {
	items, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list work items: %w", err)
	}
	return items, nil
}

// Delete removes a non-running work item from an engagement.
func (s *WorkItemService) Delete(ctx context.Context, engagementID, id string) error {
	err := s.repo.Delete(ctx, engagementID, id)
	switch {
	case errors.Is(err, data.ErrWorkItemNotFound):
		return apperrors.NotFound("work item not found")
	case errors.Is(err, data.ErrWorkItemRunning):
		return apperrors.Conflict("work item is running; wait for it to finish")
	case err != nil:
		return fmt.Errorf("delete work item: %w", err)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "work item deleted", "id", id, "engagement_id", engagementID)
	}
	return nil
}

// RequeueExpired sweeps expired leases for one kind back to pending.
func (s *WorkItemService) RequeueExpired(ctx context.Context, kind model.WorkKind) (int64, error) {
	return s.repo.RequeueExpired(ctx, kind)
}

// Stats returns per-status counts for an engagement.
func (s *WorkItemService) Stats(ctx context.Context, engagementID string, kind *model.WorkKind) (*model.WorkItemStats, error) {
	stats, err := s.repo.Stats(ctx, engagementID, kind)
	if err != nil {
		return nil, fmt.Errorf("work item stats: %w", err)
	}
	return stats, nil
}
