package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/meridianlabs/thesisflow/internal/domain/model"
)

// GetByID fetches a work item by id regardless of engagement. Internal
// callers (workers, the reaper) use this; API reads go through
// GetForEngagement so cross-engagement ids resolve to not found.
func (r *WorkItemRepo) GetByID(ctx context.Context, id string) (*model.WorkItem, error) {
	return r.getWhere(ctx, `id = $1`, id)
}

// GetForEngagement fetches a work item scoped to an engagement.
func (r *WorkItemRepo) GetForEngagement(ctx context.Context, engagementID, id string) (*model.WorkItem, error) {
	return r.getWhere(ctx, `id = $1 AND engagement_id = $2`, id, engagementID)
}

func (r *WorkItemRepo) getWhere(ctx context.Context, where string, args ...any) (*model.WorkItem, error) {
	row := r.DB.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM work_items WHERE %s`, workItemColumns, where),
		args...,
	)

	item, err := scanWorkItemFromRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWorkItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching work item: %w", err)
	}
	return item, nil
}

// List returns work items for an engagement, newest first, with optional
// kind and status filters.
func (r *WorkItemRepo) List(ctx context.Context, opts model.WorkItemListOptions) ([]*model.WorkItem, error) {
	if opts.EngagementID == "" {
		return nil, errors.New("engagement id is required")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	} else if limit > 200 {
		limit = 200
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	conditions := []string{`engagement_id = $1`}
	args := []any{opts.EngagementID}

	if opts.Kind != nil {
		args = append(args, *opts.Kind)
		conditions = append(conditions, fmt.Sprintf(`kind = $%d`, len(args)))
	}
	if opts.Status != nil {
		args = append(args, *opts.Status)
		conditions = append(conditions, fmt.Sprintf(`status = $%d`, len(args)))
	}
	args = append(args, limit, offset)

	query := fmt.Sprintf(`
    SELECT %s FROM work_items
    WHERE %s
    ORDER BY created_at DESC, id
    LIMIT $%d OFFSET $%d`,
		workItemColumns, strings.Join(conditions, " AND "), len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing work items: %w", err)
	}
	defer rows.Close()

	items := []*model.WorkItem{}
	for rows.Next() {
		item, scanErr := scanWorkItemFromRow(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scanning work item row: %w", scanErr)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating work item rows: %w", err)
	}
	return items, nil
}

// Stats returns per-status counts of work items for an engagement,
// optionally narrowed to one kind. Statuses with no items count zero.
// GlobalQueueDepth counts pending work items across all engagements. The
// health endpoint reports it as a coarse backlog signal.
func (r *WorkItemRepo) GlobalQueueDepth(ctx context.Context) (int, error) {
	var depth int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM work_items WHERE status = 'pending'`,
	).Scan(&depth)
	if err != nil {
		return 0, fmt.Errorf("counting pending work items: %w", err)
	}
	return depth, nil
}

func (r *WorkItemRepo) Stats(ctx context.Context, engagementID string, kind *model.WorkKind) (*model.WorkItemStats, error) {
	conditions := []string{`engagement_id = $1`}
	args := []any{engagementID}
	if kind != nil {
		args = append(args, *kind)
		conditions = append(conditions, fmt.Sprintf(`kind = $%d`, len(args)))
	}

	rows, err := r.DB.QueryContext(ctx, fmt.Sprintf(`
    SELECT status, COUNT(*) FROM work_items
    WHERE %s
    GROUP BY status`, strings.Join(conditions, " AND ")),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("counting work items: %w", err)
	}
	defer rows.Close()

	stats := &model.WorkItemStats{}
	for rows.Next() {
		var status model.WorkStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scanning work item count: %w", err)
		}
		switch status {
		case model.WorkStatusPending:
			stats.Pending = count
		case model.WorkStatusRunning:
			stats.Running = count
		case model.WorkStatusCompleted:
			stats.Completed = count
		case model.WorkStatusFailed:
			stats.Failed = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating work item counts: %w", err)
	}
	return stats, nil
}

// StressTestStats aggregates stress-test work items for an engagement:
// per-status and per-intensity counts, average risk score and duration over
// completed runs, and the most recent completion time.
func (r *WorkItemRepo) StressTestStats(ctx context.Context, engagementID string) (*model.StressTestStats, error) {
	stats := &model.StressTestStats{
		ByIntensity: map[string]int{},
	}

	rows, err := r.DB.QueryContext(ctx, `
    SELECT status, COALESCE(parameters->>'intensity', ''), COUNT(*)
    FROM work_items
    WHERE engagement_id = $1 AND kind = 'stress_test'
    GROUP BY 1, 2`,
		engagementID,
	)
	if err != nil {
		return nil, fmt.Errorf("counting stress tests: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status model.WorkStatus
		var intensity string
		var count int
		if err := rows.Scan(&status, &intensity, &count); err != nil {
			return nil, fmt.Errorf("scanning stress test count: %w", err)
		}
		switch status {
		case model.WorkStatusPending:
			stats.ByStatus.Pending += count
		case model.WorkStatusRunning:
			stats.ByStatus.Running += count
		case model.WorkStatusCompleted:
			stats.ByStatus.Completed += count
		case model.WorkStatusFailed:
			stats.ByStatus.Failed += count
		}
		if model.StressTestIntensity(intensity).Valid() {
			stats.ByIntensity[intensity] += count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stress test counts: %w", err)
	}

	var avgRisk, avgDuration sql.NullFloat64
	var lastRunAt sql.NullTime
	err = r.DB.QueryRowContext(ctx, `
    SELECT
      AVG((result->>'overall_risk_score')::float),
      AVG(EXTRACT(EPOCH FROM (completed_at - started_at))),
      MAX(completed_at)
    FROM work_items
    WHERE engagement_id = $1 AND kind = 'stress_test' AND status = 'completed'`,
		engagementID,
	).Scan(&avgRisk, &avgDuration, &lastRunAt)
	if err != nil {
		return nil, fmt.Errorf("aggregating completed stress tests: %w", err)
	}

	if avgRisk.Valid {
		v := avgRisk.Float64
		stats.AvgRiskScore = &v
	}
	if avgDuration.Valid {
		v := avgDuration.Float64
		stats.AvgDurationSecs = &v
	}
	stats.LastRunAt = cloneNullableTime(lastRunAt)

	return stats, nil
}
