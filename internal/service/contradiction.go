package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/meridianlabs/thesisflow/internal/core"
	"github.com/meridianlabs/thesisflow/internal/data"
	"github.com/meridianlabs/thesisflow/internal/domain/model"
	apperrors "github.com/meridianlabs/thesisflow/internal/errors"
)

// ContradictionServiceOptions groups dependencies for ContradictionService.
type ContradictionServiceOptions struct {
	Repo   core.ContradictionRepository // Required
	Logger *slog.Logger                 // Optional
}

// ContradictionService manages the resolution workflow for detected
// conflicts: resolve with audited notes, or escalate to critical.
type ContradictionService struct {
	repo   core.ContradictionRepository
	logger *slog.Logger
}

// NewContradictionService constructs a new ContradictionService.
func NewContradictionService(opts ContradictionServiceOptions) (*ContradictionService, error) {
	if opts.Repo == nil {
		return nil, errors.New("ContradictionRepository is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "contradiction_service")
	}
	return &ContradictionService{repo: opts.Repo, logger: logger}, nil
}

// MustNewContradictionService constructs a new ContradictionService and panics on error.
func MustNewContradictionService(opts ContradictionServiceOptions) *ContradictionService {
	svc, err := NewContradictionService(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create ContradictionService: %v", err))
	}
	return svc
}

// List returns contradictions for an engagement with an optional status filter.
func (s *ContradictionService) List(ctx context.Context, engagementID string, status *model.ContradictionStatus) ([]*model.Contradiction, error) {
	if status != nil && !status.Valid() {
		return nil, apperrors.Validation("invalid contradiction status filter")
	}
	items, err := s.repo.List(ctx, engagementID, status)
	if err != nil {
		return nil, fmt.Errorf("list contradictions: %w", err)
	}
	return items, nil
}

// Get fetches a contradiction scoped to an engagement.
func (s *ContradictionService) Get(ctx context.Context, engagementID, id string) (*model.Contradiction, error) {
	c, err := s.repo.GetForEngagement(ctx, engagementID, id)
	if err != nil {
		if errors.Is(err, data.ErrContradictionNotFound) {
			return nil, apperrors.NotFound("contradiction not found")
		}
		return nil, fmt.Errorf("get contradiction: %w", err)
	}
	return c, nil
}

// Resolve moves an open contradiction to explained or dismissed with audit
// notes. Resolved contradictions are immutable to further resolve calls.
func (s *ContradictionService) Resolve(ctx context.Context, engagementID, id string, req *model.ResolveContradictionRequest) (*model.Contradiction, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	c, err := s.repo.Resolve(ctx, engagementID, id, req.Action, req.Notes)
	switch {
	case errors.Is(err, data.ErrContradictionNotFound):
		return nil, apperrors.NotFound("contradiction not found")
	case errors.Is(err, data.ErrContradictionResolved):
		return nil, apperrors.Conflict("contradiction is already resolved")
	case err != nil:
		return nil, fmt.Errorf("resolve contradiction: %w", err)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "contradiction resolved",
			"id", id, "engagement_id", engagementID, "action", req.Action)
	}
	return c, nil
}

// Escalate raises an unresolved contradiction to critical.
func (s *ContradictionService) Escalate(ctx context.Context, engagementID, id string) (*model.Contradiction, error) {
	c, err := s.repo.Escalate(ctx, engagementID, id)
	switch {
	case errors.Is(err, data.ErrContradictionNotFound):
		return nil, apperrors.NotFound("contradiction not found")
	case errors.Is(err, data.ErrContradictionResolved):
		return nil, apperrors.Conflict("only unresolved contradictions can be escalated")
	case err != nil:
		return nil, fmt.Errorf("escalate contradiction: %w", err)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "contradiction escalated", "id", id, "engagement_id", engagementID)
	}
	return c, nil
}
