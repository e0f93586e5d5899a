// Package core defines the repository contracts between the service layer
// and the data layer.
package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/meridianlabs/thesisflow/internal/data"
	"github.com/meridianlabs/thesisflow/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// Service implementations should depend on these interfaces, not concrete implementations.

// WorkItemRepository defines the contract for the work item status store and
// queue claim operations.
type WorkItemRepository interface {
	Create(ctx context.Context, req *model.CreateWorkItemRequest) (*model.WorkItem, error)
	GetByID(ctx context.Context, id string) (*model.WorkItem, error)
	GetForEngagement(ctx context.Context, engagementID, id string) (*model.WorkItem, error)
	List(ctx context.Context, opts model.WorkItemListOptions) ([]*model.WorkItem, error)
	ReserveNext(ctx context.Context, kind model.WorkKind, lease time.Duration) (*model.WorkItem, error)
	WaitForNotification(ctx context.Context, kind model.WorkKind) error
	Heartbeat(ctx context.Context, id string, lease time.Duration) (bool, error)
	UpdateProgress(ctx context.Context, id string, progress int) (bool, error)
	Complete(ctx context.Context, id string, result json.RawMessage) (bool, error)
	Fail(ctx context.Context, id string, errMsg string) (bool, error)
	Delete(ctx context.Context, engagementID, id string) error
	RequeueExpired(ctx context.Context, kind model.WorkKind) (int64, error)
	FailStalePending(ctx context.Context, maxAge time.Duration) (int64, error)
	Stats(ctx context.Context, engagementID string, kind *model.WorkKind) (*model.WorkItemStats, error)
	StressTestStats(ctx context.Context, engagementID string) (*model.StressTestStats, error)
}

// ProgressRepository defines the contract for the durable progress event tail.
type ProgressRepository interface {
	Append(ctx context.Context, ev *model.ProgressEvent) error
	ListAfter(ctx context.Context, workItemID string, afterSeq int64, limit int) ([]*model.ProgressEvent, error)
	MaxSeq(ctx context.Context, workItemID string) (int64, error)
	PruneBefore(ctx context.Context, cutoffDays int) (int64, error)
}

// MetricRepository defines the contract for the metric time series.
type MetricRepository interface {
	Record(ctx context.Context, req *model.RecordMetricRequest) (*model.Metric, error)
	Latest(ctx context.Context, engagementID string) (map[model.MetricType]*model.Metric, error)
	History(ctx context.Context, opts model.MetricHistoryOptions) ([]*model.Metric, error)
}

// EvidenceRepository defines the contract for evidence storage and the
// aggregates metric calculations read.
type EvidenceRepository interface {
	Create(ctx context.Context, req *model.CreateEvidenceRequest) (*model.Evidence, error)
	ListByHypothesis(ctx context.Context, hypothesisID string) ([]*model.Evidence, error)
	Snapshot(ctx context.Context, engagementID string) (*data.EvidenceSnapshot, error)
}

// HypothesisRepository defines the contract for hypothesis storage.
type HypothesisRepository interface {
	Create(ctx context.Context, engagementID, statement string) (*model.Hypothesis, error)
	GetForEngagement(ctx context.Context, engagementID, id string) (*model.Hypothesis, error)
	List(ctx context.Context, engagementID string) ([]*model.Hypothesis, error)
	SetOutcome(ctx context.Context, id string, status model.HypothesisStatus, confidence float64) error
	Snapshot(ctx context.Context, engagementID string) (*data.HypothesisSnapshot, error)
}

// ContradictionRepository defines the contract for contradiction storage and
// the guarded resolve/escalate transitions.
type ContradictionRepository interface {
	Create(ctx context.Context, engagementID string, hypothesisID *string, description string, severity model.ContradictionSeverity) (*model.Contradiction, error)
	GetForEngagement(ctx context.Context, engagementID, id string) (*model.Contradiction, error)
	List(ctx context.Context, engagementID string, status *model.ContradictionStatus) ([]*model.Contradiction, error)
	Resolve(ctx context.Context, engagementID, id string, action model.ContradictionStatus, notes string) (*model.Contradiction, error)
	Escalate(ctx context.Context, engagementID, id string) (*model.Contradiction, error)
	Snapshot(ctx context.Context, engagementID string) (*data.ContradictionSnapshot, error)
}

// EngagementRepository defines the contract for engagement storage.
type EngagementRepository interface {
	Create(ctx context.Context, name string) (*model.Engagement, error)
	GetByID(ctx context.Context, id string) (*model.Engagement, error)
	ListActive(ctx context.Context) ([]*model.Engagement, error)
}

// CacheRepository defines the contract for the JSON value cache backing the
// stats endpoints.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
