package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/meridianlabs/thesisflow/internal/core"
	"github.com/meridianlabs/thesisflow/internal/data"
	"github.com/meridianlabs/thesisflow/internal/domain/model"
)

// defaultStatsTTL keeps cached stats fresh enough for dashboards while
// shielding Postgres from poll storms. Status reads stay authoritative; only
// the aggregate view is delayed.
const defaultStatsTTL = 15 * time.Second

// EngagementStats is the aggregate dashboard view of one engagement's
// asynchronous work.
type EngagementStats struct {
	EngagementID string                        `json:"engagement_id"`
	WorkItems    model.WorkItemStats           `json:"work_items"`
	ByKind       map[string]KindCounts         `json:"by_kind"`
	StressTests  *model.StressTestStats        `json:"stress_tests"`
	Metrics      map[model.MetricType]*float64 `json:"metrics"`
	GeneratedAt  time.Time                     `json:"generated_at"`
}

// KindCounts is a per-kind status breakdown.
type KindCounts struct {
	Pending   int `json:"pending"`
	Running   int `json:"running"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

// StatsServiceOptions groups dependencies for StatsService.
type StatsServiceOptions struct {
	WorkItems    core.WorkItemRepository // Required
	Metrics      core.MetricRepository   // Required
	Cache        core.CacheRepository    // Optional: read-through cache
	CacheTTL     time.Duration           // Optional: defaults to 15s
	TimeProvider data.TimeProvider       // Optional
	Logger       *slog.Logger            // Optional
}

// StatsService computes read-only aggregates over the status store, with an
// optional Redis read-through cache in front.
type StatsService struct {
	workItems    core.WorkItemRepository
	metrics      core.MetricRepository
	cache        core.CacheRepository
	cacheTTL     time.Duration
	timeProvider data.TimeProvider
	logger       *slog.Logger
}

// NewStatsService constructs a new StatsService.
func NewStatsService(opts StatsServiceOptions) (*StatsService, error) {
	if opts.WorkItems == nil || opts.Metrics == nil {
		return nil, errors.New("work item and metric repositories are required")
	}

	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = defaultStatsTTL
	}
	tp := opts.TimeProvider
	if tp == nil {
		tp = &data.RealTimeProvider{}
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "stats_service")
	}

	return &StatsService{
		workItems:    opts.WorkItems,
		metrics:      opts.Metrics,
		cache:        opts.Cache,
		cacheTTL:     ttl,
		timeProvider: tp,
		logger:       logger,
	}, nil
}

// MustNewStatsService constructs a new StatsService and panics on error.
func MustNewStatsService(opts StatsServiceOptions) *StatsService {
	svc, err := NewStatsService(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create StatsService: %v", err))
	}
	return svc
}

func statsCacheKey(engagementID string) string {
	return "stats:" + engagementID
}

// Engagement returns the aggregate stats snapshot for an engagement, served
// from cache when fresh. Cache failures fall through to the database.
func (s *StatsService) Engagement(ctx context.Context, engagementID string) (*EngagementStats, error) {
	if s.cache != nil {
		var cached EngagementStats
		err := s.cache.Get(ctx, statsCacheKey(engagementID), &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, data.ErrCacheMiss) && s.logger != nil {
			s.logger.WarnContext(ctx, "stats cache read failed", "engagement_id", engagementID, "error", err)
		}
	}

	stats, err := s.compute(ctx, engagementID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, statsCacheKey(engagementID), stats, s.cacheTTL); err != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "stats cache write failed", "engagement_id", engagementID, "error", err)
		}
	}
	return stats, nil
}

// StressTests returns the stress-test aggregate view for an engagement.
func (s *StatsService) StressTests(ctx context.Context, engagementID string) (*model.StressTestStats, error) {
	stats, err := s.workItems.StressTestStats(ctx, engagementID)
	if err != nil {
		return nil, fmt.Errorf("stress test stats: %w", err)
	}
	return stats, nil
}

// QueueDepth returns the number of pending work items for an engagement,
// used by the health endpoint.
func (s *StatsService) QueueDepth(ctx context.Context, engagementID string) (int, error) {
	stats, err := s.workItems.Stats(ctx, engagementID, nil)
	if err != nil {
		return 0, fmt.Errorf("queue depth: %w", err)
	}
	return stats.Pending, nil
}

func (s *StatsService) compute(ctx context.Context, engagementID string) (*EngagementStats, error) {
	overall, err := s.workItems.Stats(ctx, engagementID, nil)
	if err != nil {
		return nil, fmt.Errorf("work item stats: %w", err)
	}

	byKind := make(map[string]KindCounts)
	for _, kind := range []model.WorkKind{
		model.WorkKindDocument, model.WorkKindStressTest,
		model.WorkKindExpertCallBatch, model.WorkKindResearch, model.WorkKindMetrics,
	} {
		k := kind
		kindStats, kindErr := s.workItems.Stats(ctx, engagementID, &k)
		if kindErr != nil {
			return nil, fmt.Errorf("work item stats for %s: %w", kind, kindErr)
		}
		byKind[string(kind)] = KindCounts{
			Pending:   kindStats.Pending,
			Running:   kindStats.Running,
			Completed: kindStats.Completed,
			Failed:    kindStats.Failed,
		}
	}

	stressStats, err := s.workItems.StressTestStats(ctx, engagementID)
	if err != nil {
		return nil, fmt.Errorf("stress test stats: %w", err)
	}

	latest, err := s.metrics.Latest(ctx, engagementID)
	if err != nil {
		return nil, fmt.Errorf("latest metrics: %w", err)
	}
	metricValues := make(map[model.MetricType]*float64, len(latest))
	for mt, m := range latest {
		v := m.Value
		metricValues[mt] = &v
	}

	return &EngagementStats{
		EngagementID: engagementID,
		WorkItems:    *overall,
		ByKind:       byKind,
		StressTests:  stressStats,
		Metrics:      metricValues,
		GeneratedAt:  s.timeProvider.Now(),
	}, nil
}
