package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/meridianlabs/thesisflow/internal/core"
	"github.com/meridianlabs/thesisflow/internal/domain/model"
	apperrors "github.com/meridianlabs/thesisflow/internal/errors"
)

// JMESPathEvaluator abstracts JMESPath operations for testability.
type JMESPathEvaluator interface {
	Evaluate(expr string, data any) (any, error)
}

type jmespathLibEvaluator struct{}

func (j jmespathLibEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// candidateExpressions are tried in order against parsed JSON documents.
// Each should yield an array of objects carrying a claim and optional
// source/credibility/sentiment/hypothesis_id fields.
var candidateExpressions = []string{
	`evidence[]`,
	`claims[]`,
	`findings[]`,
	`sections[].claims[] | []`,
}

const defaultCredibility = 0.5

// minClaimLen filters out fragments when falling back to plain-text
// extraction.
const minClaimLen = 24

// DocumentPipeline ingests a document: parse, extract text, extract evidence
// candidates, persist evidence.
type DocumentPipeline struct {
	evidence  core.EvidenceRepository
	evaluator JMESPathEvaluator
	reporter  *Reporter
}

// NewDocumentPipeline constructs a DocumentPipeline.
func NewDocumentPipeline(evidence core.EvidenceRepository, reporter *Reporter, evaluator JMESPathEvaluator) *DocumentPipeline {
	if evaluator == nil {
		evaluator = jmespathLibEvaluator{}
	}
	return &DocumentPipeline{evidence: evidence, evaluator: evaluator, reporter: reporter}
}

// Kind implements Pipeline.
func (p *DocumentPipeline) Kind() model.WorkKind { return model.WorkKindDocument }

// Run implements Pipeline.
func (p *DocumentPipeline) Run(ctx context.Context, item *model.WorkItem) (json.RawMessage, error) {
	var params model.DocumentParameters
	if err := json.Unmarshal(item.Parameters, &params); err != nil {
		return nil, apperrors.Validationf("decode document parameters: %v", err)
	}
	if err := params.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	p.reporter.Stage(ctx, item.ID, "parsing "+params.Filename)

	candidates, textLen := p.extract(params)
	p.reporter.Stage(ctx, item.ID, fmt.Sprintf("extracted %d evidence candidates", len(candidates)))

	persisted := 0
	for i, cand := range candidates {
		req := &model.CreateEvidenceRequest{
			EngagementID: item.EngagementID,
			HypothesisID: cand.hypothesisID,
			Source:       cand.source,
			Claim:        cand.claim,
			Credibility:  cand.credibility,
			Sentiment:    cand.sentiment,
			DocumentID:   &item.ID,
		}
		if _, err := p.evidence.Create(ctx, req); err != nil {
			return nil, fmt.Errorf("persist evidence %d: %w", i, err)
		}
		persisted++
	}
	p.reporter.Stage(ctx, item.ID, fmt.Sprintf("persisted %d evidence records", persisted))

	result := model.DocumentResult{
		Filename:          params.Filename,
		TextLength:        textLen,
		CandidatesFound:   len(candidates),
		EvidencePersisted: persisted,
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode document result: %w", err)
	}
	return raw, nil
}

type evidenceCandidate struct {
	claim        string
	source       string
	credibility  float64
	sentiment    model.Sentiment
	hypothesisID *string
}

// extract pulls evidence candidates from the document body. Structured JSON
// documents are mined with JMESPath expressions; anything else falls back to
// sentence heuristics over the raw text.
func (p *DocumentPipeline) extract(params model.DocumentParameters) ([]evidenceCandidate, int) {
	var parsed any
	if err := json.Unmarshal([]byte(params.Content), &parsed); err == nil {
		if candidates := p.extractStructured(parsed, params.Filename); len(candidates) > 0 {
			return candidates, len(params.Content)
		}
	}
	return extractPlainText(params.Content, params.Filename), len(params.Content)
}

func (p *DocumentPipeline) extractStructured(parsed any, filename string) []evidenceCandidate {
	for _, expr := range candidateExpressions {
		raw, err := p.evaluator.Evaluate(expr, parsed)
		if err != nil {
			continue
		}
		entries, ok := raw.([]any)
		if !ok || len(entries) == 0 {
			continue
		}

		candidates := make([]evidenceCandidate, 0, len(entries))
		for _, entry := range entries {
			if cand, ok := candidateFromEntry(entry, filename); ok {
				candidates = append(candidates, cand)
			}
		}
		if len(candidates) > 0 {
			return candidates
		}
	}
	return nil
}

func candidateFromEntry(entry any, filename string) (evidenceCandidate, bool) {
	obj, ok := entry.(map[string]any)
	if !ok {
		return evidenceCandidate{}, false
	}

	claim := firstString(obj, "claim", "text", "statement")
	if claim == "" {
		return evidenceCandidate{}, false
	}

	cand := evidenceCandidate{
		claim:       claim,
		source:      filename,
		credibility: defaultCredibility,
		sentiment:   model.SentimentNeutral,
	}
	if s := firstString(obj, "source"); s != "" {
		cand.source = s
	}
	if c, ok := obj["credibility"].(float64); ok && c >= 0 && c <= 1 {
		cand.credibility = c
	}
	if s := model.Sentiment(firstString(obj, "sentiment")); s.Valid() {
		cand.sentiment = s
	}
	if id := firstString(obj, "hypothesis_id"); id != "" {
		cand.hypothesisID = &id
	}
	return cand, true
}

func extractPlainText(content, filename string) []evidenceCandidate {
	var candidates []evidenceCandidate
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < minClaimLen || !strings.HasSuffix(line, ".") {
			continue
		}
		candidates = append(candidates, evidenceCandidate{
			claim:       line,
			source:      filename,
			credibility: defaultCredibility,
			sentiment:   model.SentimentNeutral,
		})
	}
	return candidates
}

func firstString(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := obj[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

var _ Pipeline = (*DocumentPipeline)(nil)
