package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/meridianlabs/thesisflow/internal/domain/model"
)

// HypothesisRepo stores the thesis statements under investigation.
type HypothesisRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewHypothesisRepo creates a new HypothesisRepo.
func NewHypothesisRepo(db *sql.DB, tp TimeProvider) *HypothesisRepo {
	if tp == nil {
		tp = &RealTimeProvider{}
	}
	return &HypothesisRepo{DB: db, timeProvider: tp}
}

// Create persists a new hypothesis in the proposed state.
func (r *HypothesisRepo) Create(ctx context.Context, engagementID, statement string) (*model.Hypothesis, error) {
	if statement == "" {
		return nil, errors.New("statement is required")
	}

	now := r.timeProvider.Now()
	h := &model.Hypothesis{
		ID:           uuid.NewString(),
		EngagementID: engagementID,
		Statement:    statement,
		Status:       model.HypothesisProposed,
		Confidence:   0.5,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := r.DB.ExecContext(ctx, `
    INSERT INTO hypotheses (id, engagement_id, statement, status, confidence, created_at, updated_at)
    VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		h.ID, h.EngagementID, h.Statement, h.Status, h.Confidence, now,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting hypothesis: %w", err)
	}
	return h, nil
}

// GetForEngagement fetches a hypothesis scoped to an engagement.
func (r *HypothesisRepo) GetForEngagement(ctx context.Context, engagementID, id string) (*model.Hypothesis, error) {
	h := &model.Hypothesis{}
	err := r.DB.QueryRowContext(ctx, `
    SELECT id, engagement_id, statement, status, confidence, created_at, updated_at
    FROM hypotheses
    WHERE id = $1 AND engagement_id = $2`,
		id, engagementID,
	).Scan(&h.ID, &h.EngagementID, &h.Statement, &h.Status, &h.Confidence, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHypothesisNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching hypothesis: %w", err)
	}
	return h, nil
}

// List returns all hypotheses for an engagement, oldest first.
func (r *HypothesisRepo) List(ctx context.Context, engagementID string) ([]*model.Hypothesis, error) {
	rows, err := r.DB.QueryContext(ctx, `
    SELECT id, engagement_id, statement, status, confidence, created_at, updated_at
    FROM hypotheses
    WHERE engagement_id = $1
    ORDER BY created_at, id`,
		engagementID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing hypotheses: %w", err)
	}
	defer rows.Close()

	items := []*model.Hypothesis{}
	for rows.Next() {
		h := &model.Hypothesis{}
		if err := rows.Scan(&h.ID, &h.EngagementID, &h.Statement, &h.Status, &h.Confidence, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning hypothesis: %w", err)
		}
		items = append(items, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hypothesis rows: %w", err)
	}
	return items, nil
}

// SetOutcome records the verdict of a research run on its hypothesis.
func (r *HypothesisRepo) SetOutcome(ctx context.Context, id string, status model.HypothesisStatus, confidence float64) error {
	if !status.Valid() {
		return fmt.Errorf("invalid hypothesis status %q", status)
	}

	res, err := r.DB.ExecContext(ctx, `
    UPDATE hypotheses SET status = $2, confidence = $3, updated_at = $4
    WHERE id = $1`,
		id, status, confidence, r.timeProvider.Now(),
	)
	if err != nil {
		return fmt.Errorf("updating hypothesis outcome: %w", err)
	}
	updated, err := oneRowAffected(res)
	if err != nil {
		return err
	}
	if !updated {
		return ErrHypothesisNotFound
	}
	return nil
}

// HypothesisSnapshot carries the per-engagement hypothesis aggregates the
// metric calculations consume.
type HypothesisSnapshot struct {
	Total         int
	Validated     int
	Refuted       int
	AvgConfidence float64
}

// Snapshot computes hypothesis aggregates for an engagement.
func (r *HypothesisRepo) Snapshot(ctx context.Context, engagementID string) (*HypothesisSnapshot, error) {
	snap := &HypothesisSnapshot{}
	var avg sql.NullFloat64

	err := r.DB.QueryRowContext(ctx, `
    SELECT
      COUNT(*),
      COUNT(*) FILTER (WHERE status = 'validated'),
      COUNT(*) FILTER (WHERE status = 'refuted'),
      AVG(confidence)
    FROM hypotheses
    WHERE engagement_id = $1`,
		engagementID,
	).Scan(&snap.Total, &snap.Validated, &snap.Refuted, &avg)
	if err != nil {
		return nil, fmt.Errorf("aggregating hypotheses: %w", err)
	}

	if avg.Valid {
		snap.AvgConfidence = avg.Float64
	}
	return snap, nil
}
