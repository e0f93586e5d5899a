package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/meridianlabs/thesisflow/internal/domain/model"
	apperrors "github.com/meridianlabs/thesisflow/internal/errors"
)

// insightCues maps keyword cues to insight types. Cues are checked in the
// order of InsightTypes() so classification is deterministic when a segment
// matches several.
var insightCues = map[model.InsightType][]string{
	model.InsightDataPoint:        {"%", "revenue of", "growth of", "million", "billion", "basis points"},
	model.InsightMarketInsight:    {"market", "demand", "industry", "tam"},
	model.InsightCompetitiveIntel: {"competitor", "competition", "rival", "market share"},
	model.InsightRiskFactor:       {"risk", "concern", "threat", "headwind", "churn"},
	model.InsightOpportunity:      {"opportunity", "upside", "potential", "tailwind"},
	model.InsightContradiction:    {"however", "disagree", "contrary", "but actually", "in contrast"},
	model.InsightValidation:       {"confirms", "consistent with", "validates", "as expected"},
	model.InsightCaveat:           {"caveat", "depends on", "assuming", "caution", "uncertain"},
	model.InsightRecommendation:   {"recommend", "should", "suggest", "advise"},
}

// actionCues flag segments that read as follow-up tasks.
var actionCues = []string{"follow up", "follow-up", "action item", "need to verify", "circle back", "to do:"}

// minSegmentLen filters interjections and filler out of the insight set.
const minSegmentLen = 20

// ExpertCallPipeline processes a batch of expert-call transcripts into typed
// insights and action items. Extraction is purely lexical and deterministic.
type ExpertCallPipeline struct {
	reporter *Reporter
}

// NewExpertCallPipeline constructs an ExpertCallPipeline.
func NewExpertCallPipeline(reporter *Reporter) *ExpertCallPipeline {
	return &ExpertCallPipeline{reporter: reporter}
}

// Kind implements Pipeline.
func (p *ExpertCallPipeline) Kind() model.WorkKind { return model.WorkKindExpertCallBatch }

// Run implements Pipeline.
func (p *ExpertCallPipeline) Run(ctx context.Context, item *model.WorkItem) (json.RawMessage, error) {
	var params model.ExpertCallBatchParameters
	if err := json.Unmarshal(item.Parameters, &params); err != nil {
		return nil, apperrors.Validationf("decode expert call parameters: %v", err)
	}
	if err := params.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	result := model.ExpertCallBatchResult{
		InsightsByType: map[string]int{},
	}

	for i, transcript := range params.Transcripts {
		p.reporter.Stage(ctx, item.ID, fmt.Sprintf("processing transcript %d/%d (%s)",
			i+1, len(params.Transcripts), transcript.ExpertName))

		tr := processTranscript(transcript)
		result.Transcripts = append(result.Transcripts, tr)
		result.TranscriptsProcessed++
		result.TotalInsights += len(tr.Insights)
		result.TotalActionItems += len(tr.ActionItems)
		for _, insight := range tr.Insights {
			result.InsightsByType[string(insight.Type)]++
		}
	}

	p.reporter.Stage(ctx, item.ID, fmt.Sprintf("batch done: %d insights, %d action items",
		result.TotalInsights, result.TotalActionItems))

	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode expert call result: %w", err)
	}
	return raw, nil
}

func processTranscript(t model.Transcript) model.TranscriptResult {
	segments := segment(t.Text)
	tr := model.TranscriptResult{
		ExpertName:   t.ExpertName,
		SegmentCount: len(segments),
		Insights:     []model.Insight{},
		ActionItems:  []model.ActionItem{},
	}

	for _, seg := range segments {
		if isActionItem(seg) {
			tr.ActionItems = append(tr.ActionItems, model.ActionItem{
				Description: seg,
				ExpertName:  t.ExpertName,
			})
			continue
		}
		tr.Insights = append(tr.Insights, model.Insight{
			Type:       classify(seg),
			Text:       seg,
			ExpertName: t.ExpertName,
		})
	}
	return tr
}

// segment splits transcript text into sentence-like units.
func segment(text string) []string {
	var segments []string
	for _, line := range strings.Split(text, "\n") {
		for _, sentence := range strings.FieldsFunc(line, func(r rune) bool {
			return r == '.' || r == '?' || r == '!'
		}) {
			sentence = strings.TrimSpace(sentence)
			if len(sentence) >= minSegmentLen {
				segments = append(segments, sentence)
			}
		}
	}
	return segments
}

func isActionItem(seg string) bool {
	lower := strings.ToLower(seg)
	for _, cue := range actionCues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return false
}

// classify assigns the first matching insight type in stable enum order;
// unmatched segments default to key points.
func classify(seg string) model.InsightType {
	lower := strings.ToLower(seg)
	for _, it := range model.InsightTypes() {
		for _, cue := range insightCues[it] {
			if strings.Contains(lower, cue) {
				return it
			}
		}
	}
	return model.InsightKeyPoint
}

var _ Pipeline = (*ExpertCallPipeline)(nil)
