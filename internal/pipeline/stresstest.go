package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"

	"github.com/meridianlabs/thesisflow/internal/core"
	"github.com/meridianlabs/thesisflow/internal/domain/model"
	apperrors "github.com/meridianlabs/thesisflow/internal/errors"
)

// scenario is one adversarial test from the built-in catalog. Weight scales
// the raw score so structural challenges hit harder than sentiment ones.
type scenario struct {
	name   string
	weight float64
}

// scenarioCatalog is ordered by severity: light runs the first 3, moderate
// the first 6, aggressive all 10.
var scenarioCatalog = []scenario{
	{"revenue_shortfall", 0.8},
	{"margin_compression", 0.85},
	{"competitor_entry", 0.9},
	{"key_customer_loss", 1.0},
	{"regulatory_change", 0.95},
	{"supply_chain_shock", 0.9},
	{"management_departure", 0.85},
	{"technology_disruption", 1.0},
	{"capital_crunch", 0.95},
	{"macro_downturn", 0.9},
}

func scenariosFor(intensity model.StressTestIntensity) []scenario {
	switch intensity {
	case model.IntensityLight:
		return scenarioCatalog[:3]
	case model.IntensityModerate:
		return scenarioCatalog[:6]
	default:
		return scenarioCatalog
	}
}

// vulnerableThreshold is the risk score at which a scenario counts as an
// exposed vulnerability.
const vulnerableThreshold = 70.0

// StressTestPipeline runs the adversarial scenario set against an
// engagement's hypotheses. Scoring is deterministic: the same scenario
// against the same hypothesis and evidence state always yields the same
// risk score.
type StressTestPipeline struct {
	hypotheses core.HypothesisRepository
	evidence   core.EvidenceRepository
	reporter   *Reporter
}

// NewStressTestPipeline constructs a StressTestPipeline.
func NewStressTestPipeline(hypotheses core.HypothesisRepository, evidence core.EvidenceRepository, reporter *Reporter) *StressTestPipeline {
	return &StressTestPipeline{hypotheses: hypotheses, evidence: evidence, reporter: reporter}
}

// Kind implements Pipeline.
func (p *StressTestPipeline) Kind() model.WorkKind { return model.WorkKindStressTest }

// Run implements Pipeline.
func (p *StressTestPipeline) Run(ctx context.Context, item *model.WorkItem) (json.RawMessage, error) {
	var params model.StressTestParameters
	if err := json.Unmarshal(item.Parameters, &params); err != nil {
		return nil, apperrors.Validationf("decode stress test parameters: %v", err)
	}
	if err := params.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	hypotheses, err := p.selectHypotheses(ctx, item.EngagementID, params.HypothesisIDs)
	if err != nil {
		return nil, err
	}
	if len(hypotheses) == 0 {
		return nil, apperrors.Validation("engagement has no hypotheses to stress test")
	}

	scenarios := scenariosFor(params.Intensity)
	p.reporter.Stage(ctx, item.ID, fmt.Sprintf("running %d scenarios against %d hypotheses",
		len(scenarios), len(hypotheses)))

	var results []model.ScenarioResult
	var riskSum float64
	vulnerabilities := 0

	for i, sc := range scenarios {
		for _, h := range hypotheses {
			score, notes, scoreErr := p.score(ctx, sc, h)
			if scoreErr != nil {
				return nil, scoreErr
			}

			vulnerable := score >= vulnerableThreshold
			if vulnerable {
				vulnerabilities++
			}
			riskSum += score
			results = append(results, model.ScenarioResult{
				Scenario:     sc.name,
				HypothesisID: h.ID,
				RiskScore:    score,
				Vulnerable:   vulnerable,
				Notes:        notes,
			})
		}
		p.reporter.Stage(ctx, item.ID, fmt.Sprintf("scenario %s done (%d/%d)", sc.name, i+1, len(scenarios)))
	}

	result := model.StressTestResult{
		Intensity:            params.Intensity,
		ScenariosRun:         len(scenarios),
		HypothesesTested:     len(hypotheses),
		OverallRiskScore:     riskSum / float64(len(results)),
		VulnerabilitiesFound: vulnerabilities,
		Scenarios:            results,
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode stress test result: %w", err)
	}
	return raw, nil
}

func (p *StressTestPipeline) selectHypotheses(ctx context.Context, engagementID string, ids []string) ([]*model.Hypothesis, error) {
	if len(ids) == 0 {
		all, err := p.hypotheses.List(ctx, engagementID)
		if err != nil {
			return nil, fmt.Errorf("list hypotheses: %w", err)
		}
		return all, nil
	}

	selected := make([]*model.Hypothesis, 0, len(ids))
	for _, id := range ids {
		h, err := p.hypotheses.GetForEngagement(ctx, engagementID, id)
		if err != nil {
			return nil, apperrors.Validationf("hypothesis %s not found in engagement", id)
		}
		selected = append(selected, h)
	}
	return selected, nil
}

// score computes a deterministic risk score in [0,100]. The base comes from
// a stable hash of scenario and hypothesis, then the hypothesis's evidence
// shifts it: low confidence and contradicting evidence raise the risk,
// supportive high-credibility evidence lowers it.
func (p *StressTestPipeline) score(ctx context.Context, sc scenario, h *model.Hypothesis) (float64, string, error) {
	evidence, err := p.evidence.ListByHypothesis(ctx, h.ID)
	if err != nil {
		return 0, "", fmt.Errorf("list evidence for %s: %w", h.ID, err)
	}

	base := float64(stableHash(sc.name+"|"+h.ID)%61) + 20 // [20, 80]
	risk := base * sc.weight

	risk += (0.5 - h.Confidence) * 30
	for _, ev := range evidence {
		switch ev.Sentiment {
		case model.SentimentContradicting:
			risk += ev.Credibility * 8
		case model.SentimentSupporting:
			risk -= ev.Credibility * 5
		case model.SentimentNeutral:
		}
	}

	risk = clampRange(risk, 0, 100)
	notes := fmt.Sprintf("%d evidence records considered", len(evidence))
	return risk, notes, nil
}

func stableHash(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}

func clampRange(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}

var _ Pipeline = (*StressTestPipeline)(nil)
