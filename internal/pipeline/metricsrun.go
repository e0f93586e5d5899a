package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/meridianlabs/thesisflow/internal/domain/model"
	"github.com/meridianlabs/thesisflow/internal/service"
)

// MetricsRunPipeline recomputes all engagement metrics as an asynchronous
// job. The scheduler enqueues one per active engagement each tick; API
// callers can also trigger it directly.
type MetricsRunPipeline struct {
	metrics  *service.MetricsService
	reporter *Reporter
}

// NewMetricsRunPipeline constructs a MetricsRunPipeline.
func NewMetricsRunPipeline(metrics *service.MetricsService, reporter *Reporter) *MetricsRunPipeline {
	return &MetricsRunPipeline{metrics: metrics, reporter: reporter}
}

// Kind implements Pipeline.
func (p *MetricsRunPipeline) Kind() model.WorkKind { return model.WorkKindMetrics }

// Run implements Pipeline.
func (p *MetricsRunPipeline) Run(ctx context.Context, item *model.WorkItem) (json.RawMessage, error) {
	p.reporter.Stage(ctx, item.ID, "recomputing engagement metrics")

	recorded, err := p.metrics.CalculateAndRecord(ctx, item.EngagementID)
	if err != nil {
		return nil, fmt.Errorf("calculate metrics: %w", err)
	}

	values := make(map[model.MetricType]float64, len(recorded))
	for mt, m := range recorded {
		values[mt] = m.Value
	}
	p.reporter.Stage(ctx, item.ID, fmt.Sprintf("recorded %d metric types", len(recorded)))

	raw, err := json.Marshal(map[string]any{"metrics": values})
	if err != nil {
		return nil, fmt.Errorf("encode metrics result: %w", err)
	}
	return raw, nil
}

var _ Pipeline = (*MetricsRunPipeline)(nil)
