package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/meridianlabs/thesisflow/internal/core"
	"github.com/meridianlabs/thesisflow/internal/data"
	"github.com/meridianlabs/thesisflow/internal/domain/model"
	apperrors "github.com/meridianlabs/thesisflow/internal/errors"
)

// Open contradiction weights for the pressure metric. Critical outweighs any
// plain severity.
const (
	weightOpenLow    = 0.25
	weightOpenMedium = 0.5
	weightOpenHigh   = 0.75
	weightCritical   = 1.0
)

// Saturation constants: value = n / (n + k), so the metric approaches 1.0
// asymptotically as the count grows.
const (
	sourceDiversityK  = 4.0
	researchVelocityK = 20.0
)

// Blend weights for overall confidence. Must sum to 1.
const (
	blendQuality    = 0.25
	blendCoverage   = 0.2
	blendValidation = 0.2
	blendConfidence = 0.15
	blendCalm       = 0.2
)

// MetricsServiceOptions groups dependencies for MetricsService.
type MetricsServiceOptions struct {
	Metrics        core.MetricRepository        // Required
	Evidence       core.EvidenceRepository      // Required
	Hypotheses     core.HypothesisRepository    // Required
	Contradictions core.ContradictionRepository // Required
	Cache          core.CacheRepository         // Optional: stats cache to invalidate
	Logger         *slog.Logger                 // Optional
}

// MetricsService recomputes the derived engagement quality metrics. Every
// calculation is a pure function of the current evidence, hypothesis, and
// contradiction state: rerunning against unchanged data appends records with
// identical values.
type MetricsService struct {
	metrics        core.MetricRepository
	evidence       core.EvidenceRepository
	hypotheses     core.HypothesisRepository
	contradictions core.ContradictionRepository
	cache          core.CacheRepository
	logger         *slog.Logger
}

// NewMetricsService constructs a new MetricsService.
func NewMetricsService(opts MetricsServiceOptions) (*MetricsService, error) {
	if opts.Metrics == nil || opts.Evidence == nil || opts.Hypotheses == nil || opts.Contradictions == nil {
		return nil, errors.New("metric, evidence, hypothesis, and contradiction repositories are required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "metrics_service")
	}

	return &MetricsService{
		metrics:        opts.Metrics,
		evidence:       opts.Evidence,
		hypotheses:     opts.Hypotheses,
		contradictions: opts.Contradictions,
		cache:          opts.Cache,
		logger:         logger,
	}, nil
}

// MustNewMetricsService constructs a new MetricsService and panics on error.
func MustNewMetricsService(opts MetricsServiceOptions) *MetricsService {
	svc, err := NewMetricsService(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create MetricsService: %v", err))
	}
	return svc
}

// MetricInputs are the aggregates the calculations consume, captured once so
// all seven metrics in a run describe the same state.
type MetricInputs struct {
	Evidence       *data.EvidenceSnapshot
	Hypotheses     *data.HypothesisSnapshot
	Contradictions *data.ContradictionSnapshot
}

// CalculateAndRecord recomputes all metric types for an engagement and
// appends one record per type. Returns the recorded metrics keyed by type.
func (s *MetricsService) CalculateAndRecord(ctx context.Context, engagementID string) (map[model.MetricType]*model.Metric, error) {
	inputs, err := s.collect(ctx, engagementID)
	if err != nil {
		return nil, err
	}

	values := Calculate(inputs)
	metadata, err := json.Marshal(map[string]any{
		"evidence_count":      inputs.Evidence.TotalCount,
		"hypothesis_count":    inputs.Hypotheses.Total,
		"contradiction_count": inputs.Contradictions.Total,
	})
	if err != nil {
		return nil, fmt.Errorf("encode metric metadata: %w", err)
	}

	recorded := make(map[model.MetricType]*model.Metric, len(values))
	for _, mt := range model.MetricTypes() {
		m, recErr := s.metrics.Record(ctx, &model.RecordMetricRequest{
			EngagementID: engagementID,
			MetricType:   mt,
			Value:        values[mt],
			Metadata:     metadata,
		})
		if recErr != nil {
			return nil, fmt.Errorf("record %s: %w", mt, recErr)
		}
		recorded[mt] = m
	}

	s.invalidateStatsCache(ctx, engagementID)

	if s.logger != nil {
		s.logger.InfoContext(ctx, "metrics recorded",
			"engagement_id", engagementID,
			"overall_confidence", values[model.MetricOverallConfidence])
	}
	return recorded, nil
}

// Record appends one caller-supplied metric record.
func (s *MetricsService) Record(ctx context.Context, req *model.RecordMetricRequest) (*model.Metric, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	m, err := s.metrics.Record(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("record metric: %w", err)
	}
	s.invalidateStatsCache(ctx, req.EngagementID)
	return m, nil
}

// History returns recent metric records for an engagement.
func (s *MetricsService) History(ctx context.Context, opts model.MetricHistoryOptions) ([]*model.Metric, error) {
	if opts.MetricType != nil && !opts.MetricType.Valid() {
		return nil, apperrors.Validation("invalid metric type")
	}
	metrics, err := s.metrics.History(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("metric history: %w", err)
	}
	return metrics, nil
}

// Latest returns the current value of each metric type for an engagement.
func (s *MetricsService) Latest(ctx context.Context, engagementID string) (map[model.MetricType]*model.Metric, error) {
	latest, err := s.metrics.Latest(ctx, engagementID)
	if err != nil {
		return nil, fmt.Errorf("latest metrics: %w", err)
	}
	return latest, nil
}

func (s *MetricsService) collect(ctx context.Context, engagementID string) (*MetricInputs, error) {
	evidence, err := s.evidence.Snapshot(ctx, engagementID)
	if err != nil {
		return nil, fmt.Errorf("evidence snapshot: %w", err)
	}
	hypotheses, err := s.hypotheses.Snapshot(ctx, engagementID)
	if err != nil {
		return nil, fmt.Errorf("hypothesis snapshot: %w", err)
	}
	contradictions, err := s.contradictions.Snapshot(ctx, engagementID)
	if err != nil {
		return nil, fmt.Errorf("contradiction snapshot: %w", err)
	}
	return &MetricInputs{
		Evidence:       evidence,
		Hypotheses:     hypotheses,
		Contradictions: contradictions,
	}, nil
}

func (s *MetricsService) invalidateStatsCache(ctx context.Context, engagementID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, statsCacheKey(engagementID)); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "stats cache invalidation failed",
			"engagement_id", engagementID, "error", err)
	}
}

// Calculate derives all metric values from the inputs. Exported so tests can
// exercise the formulas without a database.
func Calculate(in *MetricInputs) map[model.MetricType]float64 {
	coverage := ratio(in.Evidence.HypothesesWithSupport, in.Hypotheses.Total)
	quality := clamp01(in.Evidence.AvgCredibility)
	pressure := contradictionPressure(in.Contradictions)
	validation := ratio(in.Hypotheses.Validated, in.Hypotheses.Total)
	diversity := saturate(float64(in.Evidence.DistinctSources), sourceDiversityK)
	velocity := saturate(float64(in.Evidence.AddedLast7Days), researchVelocityK)

	overall := blendQuality*quality +
		blendCoverage*coverage +
		blendValidation*validation +
		blendConfidence*clamp01(in.Hypotheses.AvgConfidence) +
		blendCalm*(1-pressure)

	return map[model.MetricType]float64{
		model.MetricOverallConfidence:     clamp01(overall),
		model.MetricEvidenceCoverage:      coverage,
		model.MetricEvidenceQuality:       quality,
		model.MetricContradictionPressure: pressure,
		model.MetricHypothesisValidation:  validation,
		model.MetricSourceDiversity:       diversity,
		model.MetricResearchVelocity:      velocity,
	}
}

// contradictionPressure is the severity-weighted share of open contradictions
// over all contradictions ever raised. Resolving contradictions lowers it.
func contradictionPressure(c *data.ContradictionSnapshot) float64 {
	if c.Total == 0 {
		return 0
	}
	weighted := weightOpenLow*float64(c.OpenLow) +
		weightOpenMedium*float64(c.OpenMedium) +
		weightOpenHigh*float64(c.OpenHigh) +
		weightCritical*float64(c.Critical)
	return clamp01(weighted / float64(c.Total))
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return clamp01(float64(n) / float64(d))
}

func saturate(n, k float64) float64 {
	if n <= 0 {
		return 0
	}
	return n / (n + k)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
