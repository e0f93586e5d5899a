// Package pipeline contains the per-kind processing logic executed by
// workers against claimed work items.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/meridianlabs/thesisflow/internal/domain/model"
)

// Pipeline processes one claimed work item and returns its result payload.
// A returned error is recorded on the item by the worker; it must never be
// allowed to kill the worker loop.
type Pipeline interface {
	Kind() model.WorkKind
	Run(ctx context.Context, item *model.WorkItem) (json.RawMessage, error)
}

// ProgressPublisher fans one progress event out to subscribers and the
// durable tail.
type ProgressPublisher interface {
	Publish(ctx context.Context, workItemID, message string, progress *int) (*model.ProgressEvent, error)
}

// ProgressUpdater records the numeric progress of a running item.
type ProgressUpdater interface {
	UpdateProgress(ctx context.Context, id string, progress int) (bool, error)
}

// Reporter is how pipelines emit progress. Progress is a best-effort detail
// channel: reporting failures are logged and swallowed so they never fail
// the pipeline itself.
type Reporter struct {
	Publisher ProgressPublisher
	Status    ProgressUpdater
	Logger    *slog.Logger
}

// Stage emits a stage-boundary event without changing numeric progress.
func (r *Reporter) Stage(ctx context.Context, itemID, message string) {
	if r == nil || r.Publisher == nil {
		return
	}
	if _, err := r.Publisher.Publish(ctx, itemID, message, nil); err != nil && r.Logger != nil {
		r.Logger.WarnContext(ctx, "progress publish failed", "id", itemID, "error", err)
	}
}

// Progress records the numeric progress and emits a matching event.
func (r *Reporter) Progress(ctx context.Context, itemID string, pct int, message string) {
	if r == nil {
		return
	}
	if r.Status != nil {
		if _, err := r.Status.UpdateProgress(ctx, itemID, pct); err != nil && r.Logger != nil {
			r.Logger.WarnContext(ctx, "progress update failed", "id", itemID, "error", err)
		}
	}
	if r.Publisher != nil {
		if _, err := r.Publisher.Publish(ctx, itemID, message, &pct); err != nil && r.Logger != nil {
			r.Logger.WarnContext(ctx, "progress publish failed", "id", itemID, "error", err)
		}
	}
}

// Registry maps work kinds to their pipelines.
type Registry struct {
	pipelines map[model.WorkKind]Pipeline
}

// NewRegistry builds a registry from the given pipelines. Duplicate kinds
// are a wiring bug and rejected.
func NewRegistry(pipelines ...Pipeline) (*Registry, error) {
	reg := &Registry{pipelines: make(map[model.WorkKind]Pipeline, len(pipelines))}
	for _, p := range pipelines {
		if _, dup := reg.pipelines[p.Kind()]; dup {
			return nil, fmt.Errorf("duplicate pipeline for kind %s", p.Kind())
		}
		reg.pipelines[p.Kind()] = p
	}
	return reg, nil
}

// Get returns the pipeline for a kind.
func (r *Registry) Get(kind model.WorkKind) (Pipeline, bool) {
	p, ok := r.pipelines[kind]
	return p, ok
}

// Kinds lists the registered kinds.
func (r *Registry) Kinds() []model.WorkKind {
	kinds := make([]model.WorkKind, 0, len(r.pipelines))
	for k := range r.pipelines {
		kinds = append(kinds, k)
	}
	return kinds
}
