package testutil

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/meridianlabs/thesisflow/internal/domain/model"
)

// WorkItemRequestBuilder provides a fluent interface for building
// CreateWorkItemRequest objects for testing.
type WorkItemRequestBuilder struct {
	req *model.CreateWorkItemRequest
}

// NewWorkItemRequest creates a new WorkItemRequestBuilder with sensible defaults.
func NewWorkItemRequest(engagementID string) *WorkItemRequestBuilder {
	return &WorkItemRequestBuilder{
		req: &model.CreateWorkItemRequest{
			EngagementID: engagementID,
			Kind:         model.WorkKindResearch,
			Parameters:   json.RawMessage(`{"query": "moat durability", "depth": "standard"}`),
			MaxRetries:   model.DefaultMaxRetries,
		},
	}
}

// WithKind sets the work kind.
func (b *WorkItemRequestBuilder) WithKind(kind model.WorkKind) *WorkItemRequestBuilder {
	b.req.Kind = kind
	return b
}

// WithParameters sets the parameters payload.
func (b *WorkItemRequestBuilder) WithParameters(params json.RawMessage) *WorkItemRequestBuilder {
	b.req.Parameters = params
	return b
}

// WithParametersString sets the parameters payload from a string.
func (b *WorkItemRequestBuilder) WithParametersString(params string) *WorkItemRequestBuilder {
	b.req.Parameters = json.RawMessage(params)
	return b
}

// WithScheduledAt sets the scheduled time.
func (b *WorkItemRequestBuilder) WithScheduledAt(scheduledAt time.Time) *WorkItemRequestBuilder {
	b.req.ScheduledAt = &scheduledAt
	return b
}

// WithMaxRetries sets the maximum number of retries.
func (b *WorkItemRequestBuilder) WithMaxRetries(maxRetries int) *WorkItemRequestBuilder {
	b.req.MaxRetries = maxRetries
	return b
}

// Build returns the constructed CreateWorkItemRequest.
func (b *WorkItemRequestBuilder) Build() *model.CreateWorkItemRequest {
	return b.req
}

// InsertEngagement inserts an engagement row directly and returns its ID.
// Most tests need an engagement to hang work items and evidence off.
func InsertEngagement(t TestingTB, db *sql.DB, name string) string {
	t.Helper()

	id := uuid.NewString()
	now := time.Now().UTC()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := db.ExecContext(ctx,
		`INSERT INTO engagements (id, name, status, created_at)
		 VALUES ($1, $2, 'active', $3)`,
		id, name, now)
	if err != nil {
		t.Fatalf("Failed to insert engagement: %v", err)
	}
	return id
}

// InsertHypothesis inserts a hypothesis row for an engagement and returns its ID.
func InsertHypothesis(t TestingTB, db *sql.DB, engagementID, statement string) string {
	t.Helper()

	id := uuid.NewString()
	now := time.Now().UTC()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := db.ExecContext(ctx,
		`INSERT INTO hypotheses (id, engagement_id, statement, status, confidence, created_at, updated_at)
		 VALUES ($1, $2, $3, 'proposed', 0.5, $4, $4)`,
		id, engagementID, statement, now)
	if err != nil {
		t.Fatalf("Failed to insert hypothesis: %v", err)
	}
	return id
}
