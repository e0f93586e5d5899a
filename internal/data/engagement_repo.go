package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/meridianlabs/thesisflow/internal/domain/model"
)

// EngagementRepo stores the top-level due-diligence cases.
type EngagementRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewEngagementRepo creates a new EngagementRepo.
func NewEngagementRepo(db *sql.DB, tp TimeProvider) *EngagementRepo {
	if tp == nil {
		tp = &RealTimeProvider{}
	}
	return &EngagementRepo{DB: db, timeProvider: tp}
}

// Create persists a new active engagement.
func (r *EngagementRepo) Create(ctx context.Context, name string) (*model.Engagement, error) {
	if name == "" {
		return nil, errors.New("name is required")
	}

	e := &model.Engagement{
		ID:        uuid.NewString(),
		Name:      name,
		Status:    "active",
		CreatedAt: r.timeProvider.Now(),
	}

	_, err := r.DB.ExecContext(ctx, `
    INSERT INTO engagements (id, name, status, created_at)
    VALUES ($1, $2, $3, $4)`,
		e.ID, e.Name, e.Status, e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting engagement: %w", err)
	}
	return e, nil
}

// GetByID fetches an engagement.
func (r *EngagementRepo) GetByID(ctx context.Context, id string) (*model.Engagement, error) {
	e := &model.Engagement{}
	err := r.DB.QueryRowContext(ctx, `
    SELECT id, name, status, created_at FROM engagements WHERE id = $1`,
		id,
	).Scan(&e.ID, &e.Name, &e.Status, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEngagementNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching engagement: %w", err)
	}
	return e, nil
}

// ListActive returns all active engagements, oldest first. The metrics
// scheduler walks this list each tick.
func (r *EngagementRepo) ListActive(ctx context.Context) ([]*model.Engagement, error) {
	rows, err := r.DB.QueryContext(ctx, `
    SELECT id, name, status, created_at
    FROM engagements
    WHERE status = 'active'
    ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing engagements: %w", err)
	}
	defer rows.Close()

	items := []*model.Engagement{}
	for rows.Next() {
		e := &model.Engagement{}
		if err := rows.Scan(&e.ID, &e.Name, &e.Status, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning engagement: %w", err)
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating engagement rows: %w", err)
	}
	return items, nil
}
