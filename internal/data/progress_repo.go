package data

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/meridianlabs/thesisflow/internal/domain/model"
)

// ProgressRepo persists the durable tail of per-item progress events so late
// subscribers can replay what they missed.
type ProgressRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
	logger       *slog.Logger
}

// NewProgressRepo creates a new ProgressRepo.
func NewProgressRepo(db *sql.DB, tp TimeProvider, logger *slog.Logger) *ProgressRepo {
	if tp == nil {
		tp = &RealTimeProvider{}
	}
	return &ProgressRepo{DB: db, timeProvider: tp, logger: logger}
}

// Append stores one progress event. The (work_item_id, seq) uniqueness
// constraint catches broadcaster sequencing bugs rather than papering over
// them.
func (r *ProgressRepo) Append(ctx context.Context, ev *model.ProgressEvent) error {
	_, err := r.DB.ExecContext(ctx, `
    INSERT INTO progress_events (work_item_id, seq, message, progress, created_at)
    VALUES ($1, $2, $3, $4, $5)`,
		ev.WorkItemID, ev.Seq, ev.Message, ev.Progress, ev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("appending progress event: %w", err)
	}
	return nil
}

// ListAfter returns events for a work item with seq greater than afterSeq,
// in sequence order.
func (r *ProgressRepo) ListAfter(ctx context.Context, workItemID string, afterSeq int64, limit int) ([]*model.ProgressEvent, error) {
	if limit <= 0 {
		limit = 500
	}

	rows, err := r.DB.QueryContext(ctx, `
    SELECT work_item_id, seq, message, progress, created_at
    FROM progress_events
    WHERE work_item_id = $1 AND seq > $2
    ORDER BY seq
    LIMIT $3`,
		workItemID, afterSeq, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing progress events: %w", err)
	}
	defer rows.Close()

	events := []*model.ProgressEvent{}
	for rows.Next() {
		ev := &model.ProgressEvent{}
		var progress sql.NullInt64
		if err := rows.Scan(&ev.WorkItemID, &ev.Seq, &ev.Message, &progress, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning progress event: %w", err)
		}
		if progress.Valid {
			p := int(progress.Int64)
			ev.Progress = &p
		}
		ev.CreatedAt = ev.CreatedAt.UTC()
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating progress events: %w", err)
	}
	return events, nil
}

// MaxSeq returns the highest sequence number recorded for a work item, or
// zero when the item has no events yet.
func (r *ProgressRepo) MaxSeq(ctx context.Context, workItemID string) (int64, error) {
	var seq int64
	err := r.DB.QueryRowContext(ctx, `
    SELECT COALESCE(MAX(seq), 0) FROM progress_events WHERE work_item_id = $1`,
		workItemID,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("reading max progress seq: %w", err)
	}
	return seq, nil
}

// PruneBefore deletes progress events older than the cutoff for work items
// already in a terminal status. Live items keep their full tail.
func (r *ProgressRepo) PruneBefore(ctx context.Context, cutoffDays int) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
    DELETE FROM progress_events
    WHERE created_at < $1 - make_interval(days => $2)
      AND work_item_id IN (
        SELECT id FROM work_items WHERE status IN ('completed', 'failed')
      )`,
		r.timeProvider.Now(), cutoffDays,
	)
	if err != nil {
		return 0, fmt.Errorf("pruning progress events: %w", err)
	}
	return res.RowsAffected()
}
