package pipeline

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianlabs/thesisflow/internal/domain/model"
	apperrors "github.com/meridianlabs/thesisflow/internal/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		segment string
		want    model.InsightType
	}{
		{"Revenue of 50 million last quarter alone", model.InsightDataPoint},
		{"The industry demand remains robust overall", model.InsightMarketInsight},
		{"Their largest rival keeps undercutting pricing", model.InsightCompetitiveIntel},
		{"Customer churn is the biggest concern here", model.InsightRiskFactor},
		{"There is meaningful upside from pricing power", model.InsightOpportunity},
		{"However the unit economics tell a different story", model.InsightContradiction},
		{"That confirms what management told us before", model.InsightValidation},
		{"This is assuming the contract renews on schedule", model.InsightCaveat},
		{"I would recommend talking to former employees", model.InsightRecommendation},
		{"The founding group previously worked elsewhere", model.InsightKeyPoint},
	}

	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.segment))
		})
	}
}

func TestSegment(t *testing.T) {
	text := "The company is doing well overall. Huh? Yes! Margins expanded again this quarter.\nShort. Second line carries another full observation worth keeping."

	segments := segment(text)
	assert.Equal(t, []string{
		"The company is doing well overall",
		"Margins expanded again this quarter",
		"Second line carries another full observation worth keeping",
	}, segments)
}

func TestExpertCallPipeline_Run(t *testing.T) {
	p := NewExpertCallPipeline(nil)

	params, err := json.Marshal(model.ExpertCallBatchParameters{
		Transcripts: []model.Transcript{
			{
				ExpertName: "Former VP Sales",
				Text: "Revenue of 50 million last quarter alone. " +
					"We need to verify the churn numbers with finance. " +
					"However the unit economics tell a different story.",
			},
			{
				ExpertName: "Industry Analyst",
				Text:       "The industry demand remains robust overall.",
			},
		},
	})
	require.NoError(t, err)

	item := &model.WorkItem{
		ID:           "wi-1",
		EngagementID: "eng-1",
		Kind:         model.WorkKindExpertCallBatch,
		Parameters:   params,
	}

	raw, err := p.Run(context.Background(), item)
	require.NoError(t, err)

	var result model.ExpertCallBatchResult
	require.NoError(t, json.Unmarshal(raw, &result))

	assert.Equal(t, 2, result.TranscriptsProcessed)
	assert.Equal(t, 3, result.TotalInsights)
	assert.Equal(t, 1, result.TotalActionItems)
	assert.Equal(t, 1, result.InsightsByType[string(model.InsightDataPoint)])
	assert.Equal(t, 1, result.InsightsByType[string(model.InsightContradiction)])
	assert.Equal(t, 1, result.InsightsByType[string(model.InsightMarketInsight)])

	require.Len(t, result.Transcripts, 2)
	first := result.Transcripts[0]
	assert.Equal(t, "Former VP Sales", first.ExpertName)
	require.Len(t, first.ActionItems, 1)
	assert.Contains(t, first.ActionItems[0].Description, "need to verify")
}

func TestExpertCallPipeline_Deterministic(t *testing.T) {
	p := NewExpertCallPipeline(nil)

	params, err := json.Marshal(model.ExpertCallBatchParameters{
		Transcripts: []model.Transcript{{
			ExpertName: "Former VP Sales",
			Text:       "Customer churn is the biggest concern here. That confirms what management told us before.",
		}},
	})
	require.NoError(t, err)
	item := &model.WorkItem{ID: "wi-1", Parameters: params}

	first, err := p.Run(context.Background(), item)
	require.NoError(t, err)
	second, err := p.Run(context.Background(), item)
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))
}

func TestExpertCallPipeline_EmptyBatch(t *testing.T) {
	p := NewExpertCallPipeline(nil)

	item := &model.WorkItem{
		ID:         "wi-1",
		Parameters: json.RawMessage(`{"transcripts": []}`),
	}
	_, err := p.Run(context.Background(), item)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}
