package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/meridianlabs/thesisflow/internal/domain/model"
)

// ContradictionRepo stores detected conflicts and their resolution history.
// Resolution and escalation are guarded conditional updates so two reviewers
// acting at once cannot both win.
type ContradictionRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewContradictionRepo creates a new ContradictionRepo.
func NewContradictionRepo(db *sql.DB, tp TimeProvider) *ContradictionRepo {
	if tp == nil {
		tp = &RealTimeProvider{}
	}
	return &ContradictionRepo{DB: db, timeProvider: tp}
}

// Create persists a newly detected contradiction in the unresolved state.
func (r *ContradictionRepo) Create(ctx context.Context, engagementID string, hypothesisID *string, description string, severity model.ContradictionSeverity) (*model.Contradiction, error) {
	if description == "" {
		return nil, errors.New("description is required")
	}
	if !severity.Valid() {
		return nil, errors.New("invalid severity")
	}

	now := r.timeProvider.Now()
	c := &model.Contradiction{
		ID:           uuid.NewString(),
		EngagementID: engagementID,
		HypothesisID: hypothesisID,
		Description:  description,
		Severity:     severity,
		Status:       model.ContradictionUnresolved,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := r.DB.ExecContext(ctx, `
    INSERT INTO contradictions (id, engagement_id, hypothesis_id, description, severity, status, created_at, updated_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		c.ID, c.EngagementID, c.HypothesisID, c.Description, c.Severity, c.Status, now,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting contradiction: %w", err)
	}
	return c, nil
}

// GetForEngagement fetches a contradiction scoped to an engagement.
func (r *ContradictionRepo) GetForEngagement(ctx context.Context, engagementID, id string) (*model.Contradiction, error) {
	row := r.DB.QueryRowContext(ctx, `
    SELECT id, engagement_id, hypothesis_id, description, severity, status,
           resolution_notes, resolved_at, created_at, updated_at
    FROM contradictions
    WHERE id = $1 AND engagement_id = $2`,
		id, engagementID,
	)

	c, err := scanContradiction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrContradictionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching contradiction: %w", err)
	}
	return c, nil
}

// List returns contradictions for an engagement, unresolved and critical
// first, then newest first within each status.
func (r *ContradictionRepo) List(ctx context.Context, engagementID string, status *model.ContradictionStatus) ([]*model.Contradiction, error) {
	query := `
    SELECT id, engagement_id, hypothesis_id, description, severity, status,
           resolution_notes, resolved_at, created_at, updated_at
    FROM contradictions
    WHERE engagement_id = $1`
	args := []any{engagementID}

	if status != nil {
		args = append(args, *status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	query += `
    ORDER BY
      CASE status WHEN 'critical' THEN 0 WHEN 'unresolved' THEN 1 ELSE 2 END,
      created_at DESC, id`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing contradictions: %w", err)
	}
	defer rows.Close()

	items := []*model.Contradiction{}
	for rows.Next() {
		c, scanErr := scanContradiction(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scanning contradiction: %w", scanErr)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contradiction rows: %w", err)
	}
	return items, nil
}

// Resolve transitions an open contradiction to a terminal resolution. The
// status guard rejects a second resolution: the row must still be unresolved
// or critical for the update to apply.
func (r *ContradictionRepo) Resolve(ctx context.Context, engagementID, id string, action model.ContradictionStatus, notes string) (*model.Contradiction, error) {
	now := r.timeProvider.Now()

	row := r.DB.QueryRowContext(ctx, `
    UPDATE contradictions SET
      status = $3,
      resolution_notes = $4,
      resolved_at = $5,
      updated_at = $5
    WHERE id = $1 AND engagement_id = $2 AND status IN ('unresolved', 'critical')
    RETURNING id, engagement_id, hypothesis_id, description, severity, status,
              resolution_notes, resolved_at, created_at, updated_at`,
		id, engagementID, action, notes, now,
	)

	c, err := scanContradiction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.classifyMiss(ctx, engagementID, id)
	}
	if err != nil {
		return nil, fmt.Errorf("resolving contradiction: %w", err)
	}
	return c, nil
}

// Escalate raises an unresolved contradiction to critical. Already-escalated
// or resolved contradictions are refused via the status guard.
func (r *ContradictionRepo) Escalate(ctx context.Context, engagementID, id string) (*model.Contradiction, error) {
	now := r.timeProvider.Now()

	row := r.DB.QueryRowContext(ctx, `
    UPDATE contradictions SET
      status = 'critical',
      updated_at = $3
    WHERE id = $1 AND engagement_id = $2 AND status = 'unresolved'
    RETURNING id, engagement_id, hypothesis_id, description, severity, status,
              resolution_notes, resolved_at, created_at, updated_at`,
		id, engagementID, now,
	)

	c, err := scanContradiction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.classifyMiss(ctx, engagementID, id)
	}
	if err != nil {
		return nil, fmt.Errorf("escalating contradiction: %w", err)
	}
	return c, nil
}

// classifyMiss distinguishes a missing contradiction from one whose status
// blocked the guarded update.
func (r *ContradictionRepo) classifyMiss(ctx context.Context, engagementID, id string) error {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `
    SELECT EXISTS (
      SELECT 1 FROM contradictions WHERE id = $1 AND engagement_id = $2
    )`, id, engagementID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking contradiction: %w", err)
	}
	if exists {
		return ErrContradictionResolved
	}
	return ErrContradictionNotFound
}

// ContradictionSnapshot carries the per-engagement contradiction aggregates
// the metric calculations consume.
type ContradictionSnapshot struct {
	Total          int
	OpenLow        int
	OpenMedium     int
	OpenHigh       int
	Critical       int
	ResolvedClosed int
}

// Snapshot computes contradiction aggregates for an engagement. Critical
// contradictions count separately from their open severity buckets.
func (r *ContradictionRepo) Snapshot(ctx context.Context, engagementID string) (*ContradictionSnapshot, error) {
	snap := &ContradictionSnapshot{}
	err := r.DB.QueryRowContext(ctx, `
    SELECT
      COUNT(*),
      COUNT(*) FILTER (WHERE status = 'unresolved' AND severity = 'low'),
      COUNT(*) FILTER (WHERE status = 'unresolved' AND severity = 'medium'),
      COUNT(*) FILTER (WHERE status = 'unresolved' AND severity = 'high'),
      COUNT(*) FILTER (WHERE status = 'critical'),
      COUNT(*) FILTER (WHERE status IN ('explained', 'dismissed'))
    FROM contradictions
    WHERE engagement_id = $1`,
		engagementID,
	).Scan(&snap.Total, &snap.OpenLow, &snap.OpenMedium, &snap.OpenHigh, &snap.Critical, &snap.ResolvedClosed)
	if err != nil {
		return nil, fmt.Errorf("aggregating contradictions: %w", err)
	}
	return snap, nil
}

func scanContradiction(scanner rowScanner) (*model.Contradiction, error) {
	c := &model.Contradiction{}
	var hypothesisID, notes sql.NullString
	var resolvedAt sql.NullTime
	if err := scanner.Scan(
		&c.ID, &c.EngagementID, &hypothesisID, &c.Description, &c.Severity, &c.Status,
		&notes, &resolvedAt, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.HypothesisID = cloneNullableString(hypothesisID)
	c.ResolutionNotes = cloneNullableString(notes)
	c.ResolvedAt = cloneNullableTime(resolvedAt)
	return c, nil
}
