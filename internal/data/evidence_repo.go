package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/meridianlabs/thesisflow/internal/domain/model"
)

// EvidenceRepo stores the evidence records extracted from documents and
// research runs.
type EvidenceRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewEvidenceRepo creates a new EvidenceRepo.
func NewEvidenceRepo(db *sql.DB, tp TimeProvider) *EvidenceRepo {
	if tp == nil {
		tp = &RealTimeProvider{}
	}
	return &EvidenceRepo{DB: db, timeProvider: tp}
}

// Create persists one evidence record.
func (r *EvidenceRepo) Create(ctx context.Context, req *model.CreateEvidenceRequest) (*model.Evidence, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ev := &model.Evidence{
		ID:           uuid.NewString(),
		EngagementID: req.EngagementID,
		HypothesisID: req.HypothesisID,
		Source:       req.Source,
		Claim:        req.Claim,
		Credibility:  req.Credibility,
		Sentiment:    req.Sentiment,
		DocumentID:   req.DocumentID,
		CreatedAt:    r.timeProvider.Now(),
	}

	_, err := r.DB.ExecContext(ctx, `
    INSERT INTO evidence (
      id, engagement_id, hypothesis_id, source, claim,
      credibility, sentiment, document_id, created_at
    ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		ev.ID, ev.EngagementID, ev.HypothesisID, ev.Source, ev.Claim,
		ev.Credibility, ev.Sentiment, ev.DocumentID, ev.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting evidence: %w", err)
	}
	return ev, nil
}

// ListByHypothesis returns the evidence linked to one hypothesis, oldest first.
func (r *EvidenceRepo) ListByHypothesis(ctx context.Context, hypothesisID string) ([]*model.Evidence, error) {
	rows, err := r.DB.QueryContext(ctx, `
    SELECT id, engagement_id, hypothesis_id, source, claim,
           credibility, sentiment, document_id, created_at
    FROM evidence
    WHERE hypothesis_id = $1
    ORDER BY created_at, id`,
		hypothesisID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing evidence: %w", err)
	}
	defer rows.Close()
	return collectEvidence(rows)
}

// EvidenceSnapshot carries the per-engagement aggregates the metric
// calculations consume, collected in one pass over the evidence table.
type EvidenceSnapshot struct {
	TotalCount            int
	AvgCredibility        float64
	DistinctSources       int
	HypothesesWithSupport int
	AddedLast7Days        int
	ContradictingCount    int
}

// Snapshot computes evidence aggregates for an engagement.
func (r *EvidenceRepo) Snapshot(ctx context.Context, engagementID string) (*EvidenceSnapshot, error) {
	snap := &EvidenceSnapshot{}
	var avg sql.NullFloat64

	err := r.DB.QueryRowContext(ctx, `
    SELECT
      COUNT(*),
      AVG(credibility),
      COUNT(DISTINCT source) FILTER (WHERE source <> ''),
      COUNT(DISTINCT hypothesis_id) FILTER (WHERE hypothesis_id IS NOT NULL),
      COUNT(*) FILTER (WHERE created_at > $2 - interval '7 days'),
      COUNT(*) FILTER (WHERE sentiment = 'contradicting')
    FROM evidence
    WHERE engagement_id = $1`,
		engagementID, r.timeProvider.Now(),
	).Scan(
		&snap.TotalCount, &avg, &snap.DistinctSources,
		&snap.HypothesesWithSupport, &snap.AddedLast7Days, &snap.ContradictingCount,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregating evidence: %w", err)
	}

	if avg.Valid {
		snap.AvgCredibility = avg.Float64
	}
	return snap, nil
}

func collectEvidence(rows *sql.Rows) ([]*model.Evidence, error) {
	items := []*model.Evidence{}
	for rows.Next() {
		ev := &model.Evidence{}
		var hypothesisID, documentID sql.NullString
		if err := rows.Scan(
			&ev.ID, &ev.EngagementID, &hypothesisID, &ev.Source, &ev.Claim,
			&ev.Credibility, &ev.Sentiment, &documentID, &ev.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning evidence: %w", err)
		}
		ev.HypothesisID = cloneNullableString(hypothesisID)
		ev.DocumentID = cloneNullableString(documentID)
		ev.CreatedAt = ev.CreatedAt.UTC()
		items = append(items, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating evidence rows: %w", err)
	}
	return items, nil
}
