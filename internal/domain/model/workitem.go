// Package model defines the core data types and structures used throughout the thesisflow job system.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// WorkKind identifies which pipeline governs a work item.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type WorkKind string

// WorkStatus represents the current status of a work item.
type WorkStatus string

const (
	// WorkKindDocument represents a document ingestion job.
	WorkKindDocument WorkKind = "document"
	// WorkKindStressTest represents an adversarial stress-test run.
	WorkKindStressTest WorkKind = "stress_test"
	// WorkKindExpertCallBatch represents a transcript batch-processing job.
	WorkKindExpertCallBatch WorkKind = "expert_call_batch"
	// WorkKindResearch represents a long-running research investigation.
	WorkKindResearch WorkKind = "research"
	// WorkKindMetrics represents a metrics recomputation job.
	WorkKindMetrics WorkKind = "metrics"

	// WorkStatusPending indicates an item is waiting to be processed.
	WorkStatusPending WorkStatus = "pending"
	// WorkStatusRunning indicates an item is currently being processed.
	WorkStatusRunning WorkStatus = "running"
	// WorkStatusCompleted indicates an item has finished successfully.
	WorkStatusCompleted WorkStatus = "completed"
	// WorkStatusFailed indicates an item has failed to complete.
	WorkStatusFailed WorkStatus = "failed"
)

// DefaultMaxRetries is the number of processing attempts a work item gets
// when the caller does not ask for a different budget.
const DefaultMaxRetries = 3

// ErrNoWorkAvailable is returned when no work items are available for reservation.
var ErrNoWorkAvailable = errors.New("no work available")

// UnmarshalText implements encoding.TextUnmarshaler for WorkKind to allow env parsing.
func (k *WorkKind) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	wk := WorkKind(v)
	if wk.Valid() {
		*k = wk
		return nil
	}
	return fmt.Errorf("invalid WorkKind: %q", v)
}

// WorkKinds returns all valid work kinds.
func WorkKinds() []WorkKind {
	return []WorkKind{
		WorkKindDocument,
		WorkKindStressTest,
		WorkKindExpertCallBatch,
		WorkKindResearch,
		WorkKindMetrics,
	}
}

// Valid returns true if the WorkKind is valid.
func (k WorkKind) Valid() bool {
	switch k {
	case WorkKindDocument, WorkKindStressTest, WorkKindExpertCallBatch, WorkKindResearch, WorkKindMetrics:
		return true
	default:
		return false
	}
}

// Valid returns true if the WorkStatus is valid.
func (s WorkStatus) Valid() bool {
	return s == WorkStatusPending || s == WorkStatusRunning || s == WorkStatusCompleted ||
		s == WorkStatusFailed
}

// Terminal returns true if the status is a terminal state.
func (s WorkStatus) Terminal() bool {
	return s == WorkStatusCompleted || s == WorkStatusFailed
}

// WorkItem is the durable record of one unit of queued asynchronous work.
type WorkItem struct {
	ID             string          `json:"id"                         db:"id"`
	EngagementID   string          `json:"engagement_id"              db:"engagement_id"`
	Kind           WorkKind        `json:"kind"                       db:"kind"`
	Status         WorkStatus      `json:"status"                     db:"status"`
	Progress       int             `json:"progress"                   db:"progress"`
	Parameters     json.RawMessage `json:"parameters"                 db:"parameters"`
	Result         json.RawMessage `json:"result,omitempty"           db:"result"`
	ErrorMessage   *string         `json:"error_message,omitempty"    db:"error_message"`
	RetryCount     int             `json:"retry_count"                db:"retry_count"`
	MaxRetries     int             `json:"max_retries"                db:"max_retries"`
	ScheduledAt    time.Time       `json:"scheduled_at"               db:"scheduled_at"`
	StartedAt      *time.Time      `json:"started_at,omitempty"       db:"started_at"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"     db:"completed_at"`
	LeaseExpiresAt *time.Time      `json:"lease_expires_at,omitempty" db:"lease_expires_at"`
	CreatedAt      time.Time       `json:"created_at"                 db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"                 db:"updated_at"`
}

// CreateWorkItemRequest represents a request to create a new work item.
type CreateWorkItemRequest struct {
	EngagementID string          `json:"engagement_id"`
	Kind         WorkKind        `json:"kind"`
	Parameters   json.RawMessage `json:"parameters"`
	ScheduledAt  *time.Time      `json:"scheduled_at,omitempty"`
	MaxRetries   int             `json:"max_retries,omitempty"`
}

// Validate validates the CreateWorkItemRequest fields.
func (r *CreateWorkItemRequest) Validate() error {
	if r.EngagementID == "" {
		return errors.New("engagement id is required")
	}
	if !r.Kind.Valid() {
		return errors.New("invalid work kind")
	}
	if len(r.Parameters) == 0 {
		return errors.New("parameters are required")
	}
	if r.MaxRetries < 0 {
		return errors.New("max retries must be >= 0")
	}
	return nil
}

// WorkItemStats represents counts of work items in each state.
type WorkItemStats struct {
	Pending   int `json:"pending"`
	Running   int `json:"running"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

// Total returns the total number of items across all states.
func (s WorkItemStats) Total() int {
	return s.Pending + s.Running + s.Completed + s.Failed
}

// WorkItemListOptions holds filters for listing work items within an engagement.
type WorkItemListOptions struct {
	EngagementID string
	Kind         *WorkKind
	Status       *WorkStatus
	Limit        int
	Offset       int
}

// WorkItemStatusResponse represents the status information for a specific work item.
type WorkItemStatusResponse struct {
	Status       WorkStatus `json:"status"`
	Progress     int        `json:"progress"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
}
