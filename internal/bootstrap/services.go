package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/meridianlabs/thesisflow/config"
	reaperadapter "github.com/meridianlabs/thesisflow/internal/adapters/reaper"
	scheduleradapter "github.com/meridianlabs/thesisflow/internal/adapters/scheduler"
	"github.com/meridianlabs/thesisflow/internal/core"
	"github.com/meridianlabs/thesisflow/internal/data"
	"github.com/meridianlabs/thesisflow/internal/pipeline"
	"github.com/meridianlabs/thesisflow/internal/queue"
	"github.com/meridianlabs/thesisflow/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	WorkItems      *service.WorkItemService
	Stats          *service.StatsService
	Metrics        *service.MetricsService
	Contradictions *service.ContradictionService
	Broadcaster    *service.ProgressBroadcaster
	Auth           *service.AuthService
	Engagements    core.EngagementRepository
	Queue          queue.WorkQueue
	Registry       *pipeline.Registry
	WorkItemRepo   *data.WorkItemRepo
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	DB             *sql.DB
	WorkItemRepo   *data.WorkItemRepo
	ProgressRepo   *data.ProgressRepo
	EngagementRepo *data.EngagementRepo
	EvidenceRepo   *data.EvidenceRepo
	HypothesisRepo *data.HypothesisRepo
	MetricRepo     *data.MetricRepo
	Contradictions *data.ContradictionRepo
	CacheRepo      *data.RedisCacheRepo
}

// buildRepositories builds repositories backing service ports; no business
// rules here.
func buildRepositories(db *sql.DB, cacheClient *redis.Client, logger *slog.Logger) *serviceRepositories {
	repos := &serviceRepositories{
		DB:             db,
		WorkItemRepo:   data.NewWorkItemRepo(db, data.RepoConfig{Logger: logger}),
		ProgressRepo:   data.NewProgressRepo(db, nil, logger),
		EngagementRepo: data.NewEngagementRepo(db, nil),
		EvidenceRepo:   data.NewEvidenceRepo(db, nil),
		HypothesisRepo: data.NewHypothesisRepo(db, nil),
		MetricRepo:     data.NewMetricRepo(db, nil),
		Contradictions: data.NewContradictionRepo(db, nil),
	}
	if cacheClient != nil {
		repos.CacheRepo = data.NewRedisCacheRepo(cacheClient, "")
	}
	return repos
}

// cacheRepository returns the cache port, or nil when caching is disabled.
// A nil *RedisCacheRepo must not leak into a non-nil interface value.
func (r *serviceRepositories) cacheRepository() core.CacheRepository {
	if r.CacheRepo == nil {
		return nil
	}
	return r.CacheRepo
}

// NewServices wires repositories, domain services, the work queue, and the
// pipeline registry.
func NewServices(deps *ServiceDeps) ServiceContainer {
	if deps == nil {
		return ServiceContainer{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := deps.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	cacheClient := ConnectCacheRedis(appCfg.Cache, logger)
	repos := buildRepositories(deps.DB, cacheClient, logger)

	workItems := service.MustNewWorkItemService(service.WorkItemServiceOptions{
		Repo:         repos.WorkItemRepo,
		DefaultLease: appCfg.Worker.Lease,
		Logger:       logger,
	})

	broadcaster := service.MustNewProgressBroadcaster(service.ProgressBroadcasterOptions{
		Repo:   repos.ProgressRepo,
		Logger: logger,
	})

	metrics := service.MustNewMetricsService(service.MetricsServiceOptions{
		Metrics:        repos.MetricRepo,
		Evidence:       repos.EvidenceRepo,
		Hypotheses:     repos.HypothesisRepo,
		Contradictions: repos.Contradictions,
		Cache:          repos.cacheRepository(),
		Logger:         logger,
	})

	stats := service.MustNewStatsService(service.StatsServiceOptions{
		WorkItems: repos.WorkItemRepo,
		Metrics:   repos.MetricRepo,
		Cache:     repos.cacheRepository(),
		CacheTTL:  appCfg.Cache.StatsTTL,
		Logger:    logger,
	})

	contradictions := service.MustNewContradictionService(service.ContradictionServiceOptions{
		Repo:   repos.Contradictions,
		Logger: logger,
	})

	workQueue, err := queue.New(queue.Options{
		WorkItems:    workItems,
		Lease:        appCfg.Worker.Lease,
		PollInterval: appCfg.Worker.PollInterval,
		Logger:       logger,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to create work queue: %v", err))
	}

	registry := buildPipelineRegistry(pipelineDeps{
		Repos:       repos,
		WorkItems:   workItems,
		Broadcaster: broadcaster,
		Metrics:     metrics,
		Logger:      logger,
	})

	auth := BuildAuthService(AuthConfig{
		Auth:        appCfg.Auth,
		RedisClient: deps.RedisClient,
		Logger:      logger,
	})

	return ServiceContainer{
		WorkItems:      workItems,
		Stats:          stats,
		Metrics:        metrics,
		Contradictions: contradictions,
		Broadcaster:    broadcaster,
		Auth:           auth,
		Engagements:    repos.EngagementRepo,
		Queue:          workQueue,
		Registry:       registry,
		WorkItemRepo:   repos.WorkItemRepo,
	}
}

// pipelineDeps groups dependencies for pipeline registry construction.
type pipelineDeps struct {
	Repos       *serviceRepositories
	WorkItems   *service.WorkItemService
	Broadcaster *service.ProgressBroadcaster
	Metrics     *service.MetricsService
	Logger      *slog.Logger
}

func buildPipelineRegistry(deps pipelineDeps) *pipeline.Registry {
	reporter := &pipeline.Reporter{
		Publisher: deps.Broadcaster,
		Status:    deps.WorkItems,
		Logger:    deps.Logger,
	}

	registry, err := pipeline.NewRegistry(
		pipeline.NewDocumentPipeline(deps.Repos.EvidenceRepo, reporter, nil),
		pipeline.NewStressTestPipeline(deps.Repos.HypothesisRepo, deps.Repos.EvidenceRepo, reporter),
		pipeline.NewExpertCallPipeline(reporter),
		pipeline.NewResearchPipeline(deps.Repos.HypothesisRepo, deps.Repos.EvidenceRepo, deps.Metrics, reporter),
		pipeline.NewMetricsRunPipeline(deps.Metrics, reporter),
	)
	if err != nil {
		panic(fmt.Sprintf("failed to build pipeline registry: %v", err))
	}
	return registry
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// RunServicesWithShutdown starts all enabled services and manages their
// lifecycle. This function blocks until a shutdown signal is received or a
// service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	enabledServices, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	if enabledServices[config.ServiceModeHTTP] {
		startHTTPServer(gctx, g, cfg, logger)
	}

	if enabledServices[config.ServiceModeWorker] {
		if err := startWorkers(gctx, g, cfg, logger); err != nil {
			stop()
			return err
		}
	}

	if enabledServices[config.ServiceModeScheduler] {
		scheduler, err := buildSchedulerRunner(cfg, logger)
		if err != nil {
			stop()
			return err
		}
		g.Go(func() error { return scheduler.Run(gctx) })
		logger.Info("scheduler started", "schedule", cfg.Config.Scheduler.MetricsSchedule)
	}

	if enabledServices[config.ServiceModeReaper] {
		reaper, err := reaperadapter.NewRunner(reaperadapter.RunnerOptions{
			DB:     cfg.DB,
			Config: cfg.Config.Reaper,
			Logger: logger,
		})
		if err != nil {
			stop()
			return err
		}
		g.Go(func() error { return reaper.Run(gctx) })
		logger.Info("reaper started", "interval", cfg.Config.Reaper.Interval)
	}

	err = g.Wait()

	// Listener connections outlive the group context; release them so the
	// process can exit cleanly.
	if cfg.Services.WorkItems != nil {
		cfg.Services.WorkItems.StopListeners()
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("service error", "error", err)
		return err
	}

	logger.Info("all services stopped")
	return nil
}

func buildSchedulerRunner(cfg *ServiceOrchestrationConfig, logger *slog.Logger) (*scheduleradapter.Runner, error) {
	schedulerSvc, err := service.NewSchedulerService(service.SchedulerServiceOptions{
		Engagements: cfg.Services.Engagements,
		WorkItems:   cfg.Services.WorkItems,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create scheduler service: %w", err)
	}

	return scheduleradapter.NewRunner(scheduleradapter.RunnerOptions{
		Scheduler: schedulerSvc,
		Config:    cfg.Config.Scheduler,
		Logger:    logger,
	})
}
