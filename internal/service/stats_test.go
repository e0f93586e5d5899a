package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/meridianlabs/thesisflow/internal/data"
	"github.com/meridianlabs/thesisflow/internal/domain/model"
	"github.com/meridianlabs/thesisflow/internal/mocks"
)

func expectStatsCompute(workItems *mocks.MockWorkItemRepository, metrics *mocks.MockMetricRepository) {
	workItems.EXPECT().
		Stats(gomock.Any(), "eng-1", nil).
		Return(&model.WorkItemStats{Pending: 1, Completed: 4}, nil)
	workItems.EXPECT().
		Stats(gomock.Any(), "eng-1", gomock.Not(gomock.Nil())).
		Return(&model.WorkItemStats{Completed: 1}, nil).
		Times(len(model.WorkKinds()))
	workItems.EXPECT().
		StressTestStats(gomock.Any(), "eng-1").
		Return(&model.StressTestStats{ByIntensity: map[string]int{"standard": 1}}, nil)
	metrics.EXPECT().
		Latest(gomock.Any(), "eng-1").
		Return(map[model.MetricType]*model.Metric{
			model.MetricOverallConfidence: {MetricType: model.MetricOverallConfidence, Value: 0.42},
		}, nil)
}

func TestStatsService_Engagement_NoCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWorkItems := mocks.NewMockWorkItemRepository(ctrl)
	mockMetrics := mocks.NewMockMetricRepository(ctrl)

	svc := MustNewStatsService(StatsServiceOptions{
		WorkItems: mockWorkItems,
		Metrics:   mockMetrics,
	})

	expectStatsCompute(mockWorkItems, mockMetrics)

	stats, err := svc.Engagement(context.Background(), "eng-1")
	require.NoError(t, err)
	assert.Equal(t, "eng-1", stats.EngagementID)
	assert.Equal(t, 5, stats.WorkItems.Total())
	assert.Len(t, stats.ByKind, len(model.WorkKinds()))
	require.Contains(t, stats.Metrics, model.MetricOverallConfidence)
	assert.InDelta(t, 0.42, *stats.Metrics[model.MetricOverallConfidence], 1e-9)
	assert.False(t, stats.GeneratedAt.IsZero())
}

func TestStatsService_Engagement_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWorkItems := mocks.NewMockWorkItemRepository(ctrl)
	mockMetrics := mocks.NewMockMetricRepository(ctrl)
	mockCache := mocks.NewMockCacheRepository(ctrl)

	svc := MustNewStatsService(StatsServiceOptions{
		WorkItems: mockWorkItems,
		Metrics:   mockMetrics,
		Cache:     mockCache,
	})

	cached := EngagementStats{
		EngagementID: "eng-1",
		WorkItems:    model.WorkItemStats{Completed: 9},
		GeneratedAt:  time.Now().UTC(),
	}
	mockCache.EXPECT().
		Get(gomock.Any(), "stats:eng-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, dest any) error {
			*dest.(*EngagementStats) = cached
			return nil
		})

	// No repository calls expected: the cached snapshot is served as-is.
	stats, err := svc.Engagement(context.Background(), "eng-1")
	require.NoError(t, err)
	assert.Equal(t, 9, stats.WorkItems.Completed)
}

func TestStatsService_Engagement_CacheMissFillsCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWorkItems := mocks.NewMockWorkItemRepository(ctrl)
	mockMetrics := mocks.NewMockMetricRepository(ctrl)
	mockCache := mocks.NewMockCacheRepository(ctrl)

	ttl := 30 * time.Second
	svc := MustNewStatsService(StatsServiceOptions{
		WorkItems: mockWorkItems,
		Metrics:   mockMetrics,
		Cache:     mockCache,
		CacheTTL:  ttl,
	})

	mockCache.EXPECT().
		Get(gomock.Any(), "stats:eng-1", gomock.Any()).
		Return(data.ErrCacheMiss)
	expectStatsCompute(mockWorkItems, mockMetrics)
	mockCache.EXPECT().
		Set(gomock.Any(), "stats:eng-1", gomock.Any(), ttl).
		Return(nil)

	stats, err := svc.Engagement(context.Background(), "eng-1")
	require.NoError(t, err)
	assert.Equal(t, "eng-1", stats.EngagementID)
}

func TestStatsService_Engagement_CacheErrorsFallThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWorkItems := mocks.NewMockWorkItemRepository(ctrl)
	mockMetrics := mocks.NewMockMetricRepository(ctrl)
	mockCache := mocks.NewMockCacheRepository(ctrl)

	svc := MustNewStatsService(StatsServiceOptions{
		WorkItems: mockWorkItems,
		Metrics:   mockMetrics,
		Cache:     mockCache,
	})

	// Redis being down must degrade to direct reads, not fail the request.
	mockCache.EXPECT().
		Get(gomock.Any(), "stats:eng-1", gomock.Any()).
		Return(errors.New("connection refused"))
	expectStatsCompute(mockWorkItems, mockMetrics)
	mockCache.EXPECT().
		Set(gomock.Any(), "stats:eng-1", gomock.Any(), gomock.Any()).
		Return(errors.New("connection refused"))

	stats, err := svc.Engagement(context.Background(), "eng-1")
	require.NoError(t, err)
	assert.Equal(t, "eng-1", stats.EngagementID)
}

func TestStatsService_QueueDepth(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWorkItems := mocks.NewMockWorkItemRepository(ctrl)
	svc := MustNewStatsService(StatsServiceOptions{
		WorkItems: mockWorkItems,
		Metrics:   mocks.NewMockMetricRepository(ctrl),
	})

	mockWorkItems.EXPECT().
		Stats(gomock.Any(), "eng-1", nil).
		Return(&model.WorkItemStats{Pending: 3, Running: 2}, nil)

	depth, err := svc.QueueDepth(context.Background(), "eng-1")
	require.NoError(t, err)
	assert.Equal(t, 3, depth)
}
