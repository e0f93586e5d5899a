package data

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/meridianlabs/thesisflow/internal/domain/model"
)

// RepoConfig holds configuration options for the work item repository.
type RepoConfig struct {
	RetryDelaySeconds int
	Logger            *slog.Logger
	TimeProvider      TimeProvider
}

// WorkItemRepo provides database operations for the work item status store.
// It is the single point of mutual exclusion between workers: every status
// transition is a conditional update guarded by the expected current status.
type WorkItemRepo struct {
	DB           *sql.DB
	cfg          RepoConfig
	timeProvider TimeProvider
	logger       *slog.Logger
}

// defaultRetryDelaySeconds is the base retry backoff when the config does
// not set one.
const defaultRetryDelaySeconds = 30

// NewWorkItemRepo creates a new WorkItemRepo with the given database connection and configuration.
func NewWorkItemRepo(db *sql.DB, cfg RepoConfig) *WorkItemRepo {
	tp := cfg.TimeProvider
	if tp == nil {
		tp = &RealTimeProvider{}
	}
	if cfg.RetryDelaySeconds <= 0 {
		cfg.RetryDelaySeconds = defaultRetryDelaySeconds
	}

	return &WorkItemRepo{
		DB:           db,
		cfg:          cfg,
		timeProvider: tp,
		logger:       cfg.Logger,
	}
}

const workItemColumns = `
  id,
  engagement_id,
  kind,
  status,
  progress,
  parameters,
  result,
  error_message,
  retry_count,
  max_retries,
  scheduled_at,
  started_at,
  completed_at,
  lease_expires_at,
  created_at,
  updated_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

type workItemRowData struct {
	parameters, result                     []byte
	errorMessage                           sql.NullString
	startedAt, completedAt, leaseExpiresAt sql.NullTime
}

func (d *workItemRowData) scanInto(scanner rowScanner, item *model.WorkItem) error {
	return scanner.Scan(
		&item.ID,
		&item.EngagementID,
		&item.Kind,
		&item.Status,
		&item.Progress,
		&d.parameters,
		&d.result,
		&d.errorMessage,
		&item.RetryCount,
		&item.MaxRetries,
		&item.ScheduledAt,
		&d.startedAt,
		&d.completedAt,
		&d.leaseExpiresAt,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
}

func (d *workItemRowData) apply(item *model.WorkItem) {
	item.Parameters = cloneJSON(d.parameters)
	if len(d.result) > 0 {
		item.Result = append(json.RawMessage(nil), d.result...)
	}
	item.ErrorMessage = cloneNullableString(d.errorMessage)
	item.StartedAt = cloneNullableTime(d.startedAt)
	item.CompletedAt = cloneNullableTime(d.completedAt)
	item.LeaseExpiresAt = cloneNullableTime(d.leaseExpiresAt)
}

func scanWorkItemFromRow(scanner rowScanner) (*model.WorkItem, error) {
	item := &model.WorkItem{}
	var data workItemRowData
	if err := data.scanInto(scanner, item); err != nil {
		return nil, err
	}

	data.apply(item)
	return item, nil
}

func cloneJSON(raw []byte) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage(`{}`)
	}
	return append(json.RawMessage(nil), raw...)
}

func cloneNullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func cloneNullableTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}
