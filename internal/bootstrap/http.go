package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	httpx "github.com/meridianlabs/thesisflow/internal/http"
)

const httpShutdownTimeout = 10 * time.Second

// startHTTPServer builds the router, starts the server on the errgroup, and
// registers a graceful shutdown hook tied to the group context.
func startHTTPServer(ctx context.Context, g *errgroup.Group, cfg *ServiceOrchestrationConfig, logger *slog.Logger) {
	appCfg := cfg.Config

	services := httpx.RouterServices{
		WorkItems:       cfg.Services.WorkItems,
		Stats:           cfg.Services.Stats,
		Metrics:         cfg.Services.Metrics,
		Contradictions:  cfg.Services.Contradictions,
		Broadcaster:     cfg.Services.Broadcaster,
		Engagements:     cfg.Services.Engagements,
		Auth:            cfg.Services.Auth,
		DB:              cfg.DB,
		QueueDepth:      cfg.Services.WorkItemRepo,
		CookieDomain:    appCfg.HTTP.CookieDomain,
		CookieSecure:    appCfg.HTTP.CookieSecure,
		DevLoginEnabled: appCfg.IsDev && appCfg.Auth.DevLoginEnabled,
		Logger:          logger,
	}

	handler := httpx.NewRouter(services)
	handler = httpx.Logging(logger)(handler)
	handler = httpx.Recover(logger)(handler)

	addr := appCfg.HTTP.Addr
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
		// SSE streams hold the response open; only bound the read side.
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	g.Go(func() error {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.Info("HTTP server stopped")
		return nil
	})
}
