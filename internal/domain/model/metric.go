package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// MetricType identifies one of the derived engagement quality metrics.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type MetricType string

const (
	MetricOverallConfidence     MetricType = "overall_confidence"
	MetricEvidenceCoverage      MetricType = "evidence_coverage"
	MetricEvidenceQuality       MetricType = "evidence_quality"
	MetricContradictionPressure MetricType = "contradiction_pressure"
	MetricHypothesisValidation  MetricType = "hypothesis_validation"
	MetricSourceDiversity       MetricType = "source_diversity"
	MetricResearchVelocity      MetricType = "research_velocity"
)

// MetricTypes lists all valid metric types in a stable order.
func MetricTypes() []MetricType {
	return []MetricType{
		MetricOverallConfidence,
		MetricEvidenceCoverage,
		MetricEvidenceQuality,
		MetricContradictionPressure,
		MetricHypothesisValidation,
		MetricSourceDiversity,
		MetricResearchVelocity,
	}
}

// Valid returns true if the metric type is a known value.
func (t MetricType) Valid() bool {
	for _, known := range MetricTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// UnmarshalText implements encoding.TextUnmarshaler for MetricType.
func (t *MetricType) UnmarshalText(text []byte) error {
	v := MetricType(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Valid() {
		return fmt.Errorf("invalid MetricType: %q", string(text))
	}
	*t = v
	return nil
}

// Metric is one record in the append-only per-engagement metric time series.
// The current value for a type is the most recent record for that
// (engagement, metric type) pair.
type Metric struct {
	ID           string          `json:"id"                 db:"id"`
	EngagementID string          `json:"engagement_id"      db:"engagement_id"`
	MetricType   MetricType      `json:"metric_type"        db:"metric_type"`
	Value        float64         `json:"value"              db:"value"`
	Metadata     json.RawMessage `json:"metadata,omitempty" db:"metadata"`
	RecordedAt   time.Time       `json:"recorded_at"        db:"recorded_at"`
}

// RecordMetricRequest represents a request to append one metric record.
type RecordMetricRequest struct {
	EngagementID string          `json:"-"`
	MetricType   MetricType      `json:"metric_type"`
	Value        float64         `json:"value"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
}

// Validate validates the metric record fields.
func (r *RecordMetricRequest) Validate() error {
	if r.EngagementID == "" {
		return errors.New("engagement id is required")
	}
	if !r.MetricType.Valid() {
		return errors.New("invalid metric type")
	}
	if r.Value < 0 || r.Value > 1 {
		return errors.New("value must be between 0 and 1")
	}
	return nil
}

// MetricHistoryOptions holds filters for reading the metric time series.
type MetricHistoryOptions struct {
	EngagementID string
	MetricType   *MetricType
	Limit        int
}

const (
	// DefaultMetricHistoryLimit is used when no limit is supplied.
	DefaultMetricHistoryLimit = 50
	// MaxMetricHistoryLimit caps the history page size.
	MaxMetricHistoryLimit = 200
)

// Normalize clamps the limit to the supported range.
func (o *MetricHistoryOptions) Normalize() {
	if o.Limit <= 0 {
		o.Limit = DefaultMetricHistoryLimit
	}
	if o.Limit > MaxMetricHistoryLimit {
		o.Limit = MaxMetricHistoryLimit
	}
}
