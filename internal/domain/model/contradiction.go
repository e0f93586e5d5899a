package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ContradictionSeverity grades how badly a detected conflict undermines a thesis.
type ContradictionSeverity string

// ContradictionStatus tracks the resolution state of a detected conflict.
type ContradictionStatus string

const (
	SeverityLow    ContradictionSeverity = "low"
	SeverityMedium ContradictionSeverity = "medium"
	SeverityHigh   ContradictionSeverity = "high"

	// ContradictionUnresolved is the initial state of every contradiction.
	ContradictionUnresolved ContradictionStatus = "unresolved"
	// ContradictionCritical is an explicit escalation, reachable from unresolved only.
	ContradictionCritical ContradictionStatus = "critical"
	// ContradictionExplained is a terminal resolution with notes.
	ContradictionExplained ContradictionStatus = "explained"
	// ContradictionDismissed is a terminal resolution with notes.
	ContradictionDismissed ContradictionStatus = "dismissed"
)

// Valid returns true if the severity is a known value.
func (s ContradictionSeverity) Valid() bool {
	return s == SeverityLow || s == SeverityMedium || s == SeverityHigh
}

// Valid returns true if the status is a known value.
func (s ContradictionStatus) Valid() bool {
	switch s {
	case ContradictionUnresolved, ContradictionCritical, ContradictionExplained, ContradictionDismissed:
		return true
	default:
		return false
	}
}

// Resolved returns true if the status is a terminal resolution.
func (s ContradictionStatus) Resolved() bool {
	return s == ContradictionExplained || s == ContradictionDismissed
}

// Contradiction is a detected conflict between evidence items or with a hypothesis.
type Contradiction struct {
	ID              string                `json:"id"                         db:"id"`
	EngagementID    string                `json:"engagement_id"              db:"engagement_id"`
	HypothesisID    *string               `json:"hypothesis_id,omitempty"    db:"hypothesis_id"`
	Description     string                `json:"description"                db:"description"`
	Severity        ContradictionSeverity `json:"severity"                   db:"severity"`
	Status          ContradictionStatus   `json:"status"                     db:"status"`
	ResolutionNotes *string               `json:"resolution_notes,omitempty" db:"resolution_notes"`
	ResolvedAt      *time.Time            `json:"resolved_at,omitempty"      db:"resolved_at"`
	CreatedAt       time.Time             `json:"created_at"                 db:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"                 db:"updated_at"`
}

// minResolutionNotesLen is the shortest acceptable resolution note.
const minResolutionNotesLen = 10

// ResolveContradictionRequest represents a request to resolve a contradiction.
type ResolveContradictionRequest struct {
	Action ContradictionStatus `json:"action"`
	Notes  string              `json:"notes"`
}

// Validate validates the resolve request: only terminal resolutions are
// accepted, and notes must carry enough substance to audit the decision.
func (r *ResolveContradictionRequest) Validate() error {
	if !r.Action.Resolved() {
		return errors.New("action must be explained or dismissed")
	}
	if len(strings.TrimSpace(r.Notes)) < minResolutionNotesLen {
		return fmt.Errorf("resolution notes must be at least %d characters", minResolutionNotesLen)
	}
	return nil
}
