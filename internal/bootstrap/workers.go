package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	workeradapter "github.com/meridianlabs/thesisflow/internal/adapters/worker"
	"github.com/meridianlabs/thesisflow/internal/domain/model"
)

// startWorkers launches one worker runner per configured work kind on the
// shared errgroup. An empty kind list runs every registered kind.
func startWorkers(ctx context.Context, g *errgroup.Group, cfg *ServiceOrchestrationConfig, logger *slog.Logger) error {
	kinds, err := workerKinds(cfg.Config.Worker.KindList())
	if err != nil {
		return err
	}

	for _, kind := range kinds {
		runner, err := workeradapter.NewRunner(workeradapter.RunnerOptions{
			Queue:       cfg.Services.Queue,
			WorkItems:   cfg.Services.WorkItems,
			Registry:    cfg.Services.Registry,
			Broadcaster: cfg.Services.Broadcaster,
			Kind:        kind,
			Concurrency: cfg.Config.Worker.Concurrency,
			Lease:       cfg.Config.Worker.Lease,
			Logger:      logger,
		})
		if err != nil {
			return fmt.Errorf("create worker for kind %s: %w", kind, err)
		}

		g.Go(func() error { return runner.Run(ctx) })
		logger.Info("worker started",
			"kind", kind,
			"concurrency", cfg.Config.Worker.Concurrency,
			"lease", cfg.Config.Worker.Lease,
		)
	}

	return nil
}

// workerKinds resolves the configured kind names, defaulting to all kinds.
func workerKinds(names []string) ([]model.WorkKind, error) {
	if len(names) == 0 {
		return model.WorkKinds(), nil
	}

	kinds := make([]model.WorkKind, 0, len(names))
	for _, name := range names {
		kind := model.WorkKind(name)
		if !kind.Valid() {
			return nil, fmt.Errorf("unknown work kind %q", name)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}
