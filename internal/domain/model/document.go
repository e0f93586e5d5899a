package model

import (
	"errors"
	"time"
)

// DocumentParameters is the immutable input snapshot for a document ingestion job.
type DocumentParameters struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
	// Content is the raw document body. Structured documents carry JSON;
	// anything else is treated as plain text.
	Content string `json:"content"`
}

// Validate validates document ingestion parameters.
func (p *DocumentParameters) Validate() error {
	if p.Filename == "" {
		return errors.New("filename is required")
	}
	if p.Content == "" {
		return errors.New("content is required")
	}
	return nil
}

// DocumentResult is the result payload written when a document job completes.
type DocumentResult struct {
	Filename          string `json:"filename"`
	TextLength        int    `json:"text_length"`
	CandidatesFound   int    `json:"candidates_found"`
	EvidencePersisted int    `json:"evidence_persisted"`
}

// Sentiment classifies how a piece of evidence bears on a hypothesis.
type Sentiment string

const (
	SentimentSupporting    Sentiment = "supporting"
	SentimentContradicting Sentiment = "contradicting"
	SentimentNeutral       Sentiment = "neutral"
)

// Valid returns true if the sentiment is a known value.
func (s Sentiment) Valid() bool {
	return s == SentimentSupporting || s == SentimentContradicting || s == SentimentNeutral
}

// Evidence is a sourced fact or observation linked to a hypothesis.
type Evidence struct {
	ID           string    `json:"id"                      db:"id"`
	EngagementID string    `json:"engagement_id"           db:"engagement_id"`
	HypothesisID *string   `json:"hypothesis_id,omitempty" db:"hypothesis_id"`
	Source       string    `json:"source"                  db:"source"`
	Claim        string    `json:"claim"                   db:"claim"`
	Credibility  float64   `json:"credibility"             db:"credibility"`
	Sentiment    Sentiment `json:"sentiment"               db:"sentiment"`
	DocumentID   *string   `json:"document_id,omitempty"   db:"document_id"`
	CreatedAt    time.Time `json:"created_at"              db:"created_at"`
}

// CreateEvidenceRequest represents a request to persist one evidence record.
type CreateEvidenceRequest struct {
	EngagementID string
	HypothesisID *string
	Source       string
	Claim        string
	Credibility  float64
	Sentiment    Sentiment
	DocumentID   *string
}

// Validate validates the evidence record fields.
func (r *CreateEvidenceRequest) Validate() error {
	if r.EngagementID == "" {
		return errors.New("engagement id is required")
	}
	if r.Claim == "" {
		return errors.New("claim is required")
	}
	if r.Credibility < 0 || r.Credibility > 1 {
		return errors.New("credibility must be between 0 and 1")
	}
	if !r.Sentiment.Valid() {
		return errors.New("invalid sentiment")
	}
	return nil
}
