package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/meridianlabs/thesisflow/internal/core"
	"github.com/meridianlabs/thesisflow/internal/domain/model"
	apperrors "github.com/meridianlabs/thesisflow/internal/errors"
	"github.com/meridianlabs/thesisflow/internal/service"
)

// Verdict thresholds on the supporting-evidence share.
const (
	validatedShare = 0.65
	refutedShare   = 0.35
)

// minVerdictEvidence is the evidence count below which the verdict is always
// inconclusive regardless of balance.
const minVerdictEvidence = 3

// ResearchPipeline runs a staged investigation of one hypothesis. Unlike the
// other kinds it drives the numeric progress field continuously, since a run
// spans many evidence reads. Its terminal stage recomputes the engagement
// metrics.
type ResearchPipeline struct {
	hypotheses core.HypothesisRepository
	evidence   core.EvidenceRepository
	metrics    *service.MetricsService
	reporter   *Reporter
}

// NewResearchPipeline constructs a ResearchPipeline.
func NewResearchPipeline(
	hypotheses core.HypothesisRepository,
	evidence core.EvidenceRepository,
	metrics *service.MetricsService,
	reporter *Reporter,
) *ResearchPipeline {
	return &ResearchPipeline{
		hypotheses: hypotheses,
		evidence:   evidence,
		metrics:    metrics,
		reporter:   reporter,
	}
}

// Kind implements Pipeline.
func (p *ResearchPipeline) Kind() model.WorkKind { return model.WorkKindResearch }

// Run implements Pipeline.
func (p *ResearchPipeline) Run(ctx context.Context, item *model.WorkItem) (json.RawMessage, error) {
	var params model.ResearchParameters
	if err := json.Unmarshal(item.Parameters, &params); err != nil {
		return nil, apperrors.Validationf("decode research parameters: %v", err)
	}
	if err := params.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	hypothesis, err := p.hypotheses.GetForEngagement(ctx, item.EngagementID, params.HypothesisID)
	if err != nil {
		return nil, apperrors.Validationf("hypothesis %s not found in engagement", params.HypothesisID)
	}

	p.reporter.Progress(ctx, item.ID, 10, "investigating: "+hypothesis.Statement)

	evidence, err := p.evidence.ListByHypothesis(ctx, hypothesis.ID)
	if err != nil {
		return nil, fmt.Errorf("list evidence: %w", err)
	}

	assessment := assess(evidence, params.FocusAreas)
	// Evidence review is the bulk of the run: walk progress from 10 to 80.
	for i := range evidence {
		pct := 10 + (i+1)*70/len(evidence)
		p.reporter.Progress(ctx, item.ID, pct,
			fmt.Sprintf("reviewed evidence %d/%d", i+1, len(evidence)))
	}

	p.reporter.Progress(ctx, item.ID, 85, "forming verdict")
	result := assessment.toResult()

	status := hypothesisStatusFor(result.Verdict)
	if err := p.hypotheses.SetOutcome(ctx, hypothesis.ID, status, result.Confidence); err != nil {
		return nil, fmt.Errorf("record hypothesis outcome: %w", err)
	}

	p.reporter.Progress(ctx, item.ID, 95, "recomputing engagement metrics")
	if _, err := p.metrics.CalculateAndRecord(ctx, item.EngagementID); err != nil {
		return nil, fmt.Errorf("recompute metrics: %w", err)
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode research result: %w", err)
	}
	return raw, nil
}

type researchAssessment struct {
	supportWeight    float64
	contradictWeight float64
	totalEvidence    int
	findings         []string
	risks            []string
	recommendations  []string
}

func assess(evidence []*model.Evidence, focusAreas []string) researchAssessment {
	a := researchAssessment{
		totalEvidence:   len(evidence),
		findings:        []string{},
		risks:           []string{},
		recommendations: []string{},
	}

	for _, ev := range evidence {
		switch ev.Sentiment {
		case model.SentimentSupporting:
			a.supportWeight += ev.Credibility
			a.findings = append(a.findings, ev.Claim)
		case model.SentimentContradicting:
			a.contradictWeight += ev.Credibility
			a.risks = append(a.risks, ev.Claim)
		case model.SentimentNeutral:
			a.supportWeight += ev.Credibility * 0.25
		}
	}

	for _, area := range focusAreas {
		a.recommendations = append(a.recommendations, "deepen research on "+area)
	}
	if a.totalEvidence < minVerdictEvidence {
		a.recommendations = append(a.recommendations, "gather more evidence before acting on this verdict")
	}
	return a
}

func (a researchAssessment) toResult() model.ResearchResult {
	result := model.ResearchResult{
		Verdict:         model.VerdictInconclusive,
		Findings:        a.findings,
		Risks:           a.risks,
		Recommendations: a.recommendations,
	}

	total := a.supportWeight + a.contradictWeight
	if a.totalEvidence < minVerdictEvidence || total == 0 {
		result.Confidence = 0.25
		return result
	}

	share := a.supportWeight / total
	switch {
	case share >= validatedShare:
		result.Verdict = model.VerdictValidated
		result.Confidence = share
	case share <= refutedShare:
		result.Verdict = model.VerdictRefuted
		result.Confidence = 1 - share
	default:
		result.Confidence = 0.5
	}
	return result
}

func hypothesisStatusFor(v model.ResearchVerdict) model.HypothesisStatus {
	switch v {
	case model.VerdictValidated:
		return model.HypothesisValidated
	case model.VerdictRefuted:
		return model.HypothesisRefuted
	default:
		return model.HypothesisInconclusive
	}
}

var _ Pipeline = (*ResearchPipeline)(nil)
