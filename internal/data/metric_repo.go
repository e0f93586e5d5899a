package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/meridianlabs/thesisflow/internal/domain/model"
)

// MetricRepo persists the append-only metric time series.
type MetricRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewMetricRepo creates a new MetricRepo.
func NewMetricRepo(db *sql.DB, tp TimeProvider) *MetricRepo {
	if tp == nil {
		tp = &RealTimeProvider{}
	}
	return &MetricRepo{DB: db, timeProvider: tp}
}

// Record appends one metric value. History is never updated in place.
func (r *MetricRepo) Record(ctx context.Context, req *model.RecordMetricRequest) (*model.Metric, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	metadata := req.Metadata
	if len(metadata) == 0 {
		metadata = json.RawMessage(`{}`)
	}

	m := &model.Metric{
		ID:           uuid.NewString(),
		EngagementID: req.EngagementID,
		MetricType:   req.MetricType,
		Value:        req.Value,
		Metadata:     append(json.RawMessage(nil), metadata...),
		RecordedAt:   r.timeProvider.Now(),
	}

	_, err := r.DB.ExecContext(ctx, `
    INSERT INTO metrics (id, engagement_id, metric_type, value, metadata, recorded_at)
    VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.EngagementID, m.MetricType, m.Value, []byte(m.Metadata), m.RecordedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("recording metric: %w", err)
	}
	return m, nil
}

// Latest returns the most recent value of each metric type for an
// engagement. Types never recorded are absent from the map.
func (r *MetricRepo) Latest(ctx context.Context, engagementID string) (map[model.MetricType]*model.Metric, error) {
	rows, err := r.DB.QueryContext(ctx, `
    SELECT DISTINCT ON (metric_type)
      id, engagement_id, metric_type, value, metadata, recorded_at
    FROM metrics
    WHERE engagement_id = $1
    ORDER BY metric_type, recorded_at DESC`,
		engagementID,
	)
	if err != nil {
		return nil, fmt.Errorf("reading latest metrics: %w", err)
	}
	defer rows.Close()

	latest := map[model.MetricType]*model.Metric{}
	for rows.Next() {
		m, scanErr := scanMetric(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		latest[m.MetricType] = m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating latest metrics: %w", err)
	}
	return latest, nil
}

// History returns recent metric records for an engagement, newest first,
// optionally narrowed to one type.
func (r *MetricRepo) History(ctx context.Context, opts model.MetricHistoryOptions) ([]*model.Metric, error) {
	opts.Normalize()

	query := `
    SELECT id, engagement_id, metric_type, value, metadata, recorded_at
    FROM metrics
    WHERE engagement_id = $1`
	args := []any{opts.EngagementID}

	if opts.MetricType != nil {
		args = append(args, *opts.MetricType)
		query += fmt.Sprintf(` AND metric_type = $%d`, len(args))
	}
	args = append(args, opts.Limit)
	query += fmt.Sprintf(` ORDER BY recorded_at DESC, id LIMIT $%d`, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reading metric history: %w", err)
	}
	defer rows.Close()

	metrics := []*model.Metric{}
	for rows.Next() {
		m, scanErr := scanMetric(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		metrics = append(metrics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating metric history: %w", err)
	}
	return metrics, nil
}

func scanMetric(rows *sql.Rows) (*model.Metric, error) {
	m := &model.Metric{}
	var metadata []byte
	if err := rows.Scan(&m.ID, &m.EngagementID, &m.MetricType, &m.Value, &metadata, &m.RecordedAt); err != nil {
		return nil, fmt.Errorf("scanning metric: %w", err)
	}
	m.Metadata = cloneJSON(metadata)
	m.RecordedAt = m.RecordedAt.UTC()
	return m, nil
}
