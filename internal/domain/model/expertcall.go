package model

import (
	"errors"
	"fmt"
	"strings"
)

// InsightType categorises a single insight extracted from an expert-call transcript.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type InsightType string

const (
	InsightKeyPoint         InsightType = "key_point"
	InsightDataPoint        InsightType = "data_point"
	InsightMarketInsight    InsightType = "market_insight"
	InsightCompetitiveIntel InsightType = "competitive_intel"
	InsightRiskFactor       InsightType = "risk_factor"
	InsightOpportunity      InsightType = "opportunity"
	InsightContradiction    InsightType = "contradiction"
	InsightValidation       InsightType = "validation"
	InsightCaveat           InsightType = "caveat"
	InsightRecommendation   InsightType = "recommendation"
)

// InsightTypes lists all valid insight types in a stable order.
func InsightTypes() []InsightType {
	return []InsightType{
		InsightKeyPoint,
		InsightDataPoint,
		InsightMarketInsight,
		InsightCompetitiveIntel,
		InsightRiskFactor,
		InsightOpportunity,
		InsightContradiction,
		InsightValidation,
		InsightCaveat,
		InsightRecommendation,
	}
}

// Valid returns true if the insight type is a known value.
func (t InsightType) Valid() bool {
	for _, known := range InsightTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// UnmarshalText implements encoding.TextUnmarshaler for InsightType.
func (t *InsightType) UnmarshalText(text []byte) error {
	v := InsightType(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Valid() {
		return fmt.Errorf("invalid InsightType: %q", string(text))
	}
	*t = v
	return nil
}

// Transcript is one expert-call transcript submitted for batch processing.
type Transcript struct {
	ExpertName string `json:"expert_name"`
	CallDate   string `json:"call_date,omitempty"`
	Text       string `json:"text"`
}

// ExpertCallBatchParameters is the immutable input snapshot for a transcript batch job.
type ExpertCallBatchParameters struct {
	Transcripts []Transcript `json:"transcripts"`
}

// Validate validates transcript batch parameters.
func (p *ExpertCallBatchParameters) Validate() error {
	if len(p.Transcripts) == 0 {
		return errors.New("at least one transcript is required")
	}
	for i := range p.Transcripts {
		if p.Transcripts[i].Text == "" {
			return fmt.Errorf("transcript %d: text is required", i)
		}
	}
	return nil
}

// Insight is one typed finding extracted from a transcript.
type Insight struct {
	Type       InsightType `json:"type"`
	Text       string      `json:"text"`
	ExpertName string      `json:"expert_name,omitempty"`
}

// ActionItem is a follow-up task derived from a transcript.
type ActionItem struct {
	Description string `json:"description"`
	ExpertName  string `json:"expert_name,omitempty"`
}

// TranscriptResult is the per-transcript output inside an ExpertCallBatchResult.
type TranscriptResult struct {
	ExpertName   string       `json:"expert_name"`
	SegmentCount int          `json:"segment_count"`
	Insights     []Insight    `json:"insights"`
	ActionItems  []ActionItem `json:"action_items"`
}

// ExpertCallBatchResult is the result payload written when a transcript batch completes.
type ExpertCallBatchResult struct {
	TranscriptsProcessed int                `json:"transcripts_processed"`
	TotalInsights        int                `json:"total_insights"`
	TotalActionItems     int                `json:"total_action_items"`
	InsightsByType       map[string]int     `json:"insights_by_type"`
	Transcripts          []TranscriptResult `json:"transcripts,omitempty"`
}
