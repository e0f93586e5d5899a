package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ResearchVerdict is the outcome of a completed research run.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type ResearchVerdict string

const (
	VerdictValidated    ResearchVerdict = "validated"
	VerdictRefuted      ResearchVerdict = "refuted"
	VerdictInconclusive ResearchVerdict = "inconclusive"
)

// Valid returns true if the verdict is a known value.
func (v ResearchVerdict) Valid() bool {
	return v == VerdictValidated || v == VerdictRefuted || v == VerdictInconclusive
}

// UnmarshalText implements encoding.TextUnmarshaler for ResearchVerdict.
func (v *ResearchVerdict) UnmarshalText(text []byte) error {
	parsed := ResearchVerdict(strings.ToLower(strings.TrimSpace(string(text))))
	if !parsed.Valid() {
		return fmt.Errorf("invalid ResearchVerdict: %q", string(text))
	}
	*v = parsed
	return nil
}

// ResearchParameters is the immutable input snapshot for a research run.
type ResearchParameters struct {
	HypothesisID string   `json:"hypothesis_id"`
	FocusAreas   []string `json:"focus_areas,omitempty"`
}

// Validate validates research run parameters.
func (p *ResearchParameters) Validate() error {
	if p.HypothesisID == "" {
		return errors.New("hypothesis id is required")
	}
	return nil
}

// ResearchResult is the result payload written when a research run completes.
type ResearchResult struct {
	Verdict         ResearchVerdict `json:"verdict"`
	Confidence      float64         `json:"confidence"`
	Findings        []string        `json:"findings"`
	Risks           []string        `json:"risks"`
	Recommendations []string        `json:"recommendations"`
}

// HypothesisStatus tracks the lifecycle of a thesis statement.
type HypothesisStatus string

const (
	HypothesisProposed      HypothesisStatus = "proposed"
	HypothesisInvestigating HypothesisStatus = "investigating"
	HypothesisValidated     HypothesisStatus = "validated"
	HypothesisRefuted       HypothesisStatus = "refuted"
	HypothesisInconclusive  HypothesisStatus = "inconclusive"
)

// Valid returns true if the hypothesis status is a known value.
func (s HypothesisStatus) Valid() bool {
	switch s {
	case HypothesisProposed, HypothesisInvestigating, HypothesisValidated,
		HypothesisRefuted, HypothesisInconclusive:
		return true
	default:
		return false
	}
}

// Hypothesis is a thesis statement under investigation within an engagement.
type Hypothesis struct {
	ID           string           `json:"id"            db:"id"`
	EngagementID string           `json:"engagement_id" db:"engagement_id"`
	Statement    string           `json:"statement"     db:"statement"`
	Status       HypothesisStatus `json:"status"        db:"status"`
	Confidence   float64          `json:"confidence"    db:"confidence"`
	CreatedAt    time.Time        `json:"created_at"    db:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"    db:"updated_at"`
}

// Engagement is the top-level due-diligence case scoping all other entities.
type Engagement struct {
	ID        string    `json:"id"         db:"id"`
	Name      string    `json:"name"       db:"name"`
	Status    string    `json:"status"     db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
