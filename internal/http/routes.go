package httpx

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/meridianlabs/thesisflow/internal/core"
	domainauth "github.com/meridianlabs/thesisflow/internal/domain/auth"
	"github.com/meridianlabs/thesisflow/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	WorkItems      *service.WorkItemService
	Stats          *service.StatsService
	Metrics        *service.MetricsService
	Contradictions *service.ContradictionService
	Broadcaster    *service.ProgressBroadcaster
	Engagements    core.EngagementRepository
	Auth           *service.AuthService
	DB             *sql.DB
	QueueDepth     QueueDepthReader

	// Configuration
	CookieDomain    string
	CookieSecure    bool
	DevLoginEnabled bool
	Logger          *slog.Logger
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	workHandlers := &WorkHandlers{
		Svc:         services.WorkItems,
		Stats:       services.Stats,
		Engagements: services.Engagements,
	}
	eventHandlers := &EventHandlers{
		Svc:         services.WorkItems,
		Broadcaster: services.Broadcaster,
		Engagements: services.Engagements,
	}
	metricHandlers := &MetricHandlers{
		Svc:         services.Metrics,
		Engagements: services.Engagements,
	}
	contradictionHandlers := &ContradictionHandlers{
		Svc:         services.Contradictions,
		Engagements: services.Engagements,
	}
	engagementHandlers := &EngagementHandlers{Repo: services.Engagements}
	healthHandlers := &HealthHandlers{DB: services.DB, Queue: services.QueueDepth}

	// A typed-nil auth service must not reach the middleware as a non-nil
	// interface value.
	var authSvc AuthServiceInterface
	if services.Auth != nil {
		authSvc = services.Auth
	}
	viewer := RequireRole(authSvc, domainauth.RoleViewer)
	editor := RequireRole(authSvc, domainauth.RoleEditor)

	registerEngagementRoutes(mux, engagementHandlers, viewer, editor)
	registerWorkRoutes(mux, workHandlers, eventHandlers, viewer, editor)
	registerMetricRoutes(mux, metricHandlers, viewer, editor)
	registerContradictionRoutes(mux, contradictionHandlers, viewer, editor)

	if services.Auth != nil {
		authHandlers := &AuthHandlers{
			Svc:             services.Auth,
			CookieDomain:    services.CookieDomain,
			CookieSecure:    services.CookieSecure,
			DevLoginEnabled: services.DevLoginEnabled,
			Logger:          logger,
		}
		registerAuthRoutes(mux, authHandlers)
	}

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandlers.Healthz))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandlers.Healthz))

	return mux
}

type middleware func(http.Handler) http.Handler

func registerEngagementRoutes(mux *http.ServeMux, h *EngagementHandlers, viewer, editor middleware) {
	mux.Handle("POST /api/engagements", editor(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/engagements", viewer(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/engagements/{engagementID}", viewer(http.HandlerFunc(h.Get)))
}

func registerWorkRoutes(mux *http.ServeMux, h *WorkHandlers, ev *EventHandlers, viewer, editor middleware) {
	const base = "/api/engagements/{engagementID}"

	// Stress tests
	mux.Handle("POST "+base+"/stress-tests", editor(http.HandlerFunc(h.CreateStressTest)))
	mux.Handle("GET "+base+"/stress-tests/stats", viewer(http.HandlerFunc(h.StressTestStats)))
	mux.Handle("GET "+base+"/stress-tests/{id}", viewer(http.HandlerFunc(h.GetStressTest)))
	mux.Handle("DELETE "+base+"/stress-tests/{id}", editor(http.HandlerFunc(h.DeleteStressTest)))

	// Documents
	mux.Handle("POST "+base+"/documents", editor(http.HandlerFunc(h.CreateDocument)))
	mux.Handle("GET "+base+"/documents/{id}", viewer(http.HandlerFunc(h.GetDocument)))

	// Expert calls
	mux.Handle("POST "+base+"/expert-calls/batch", editor(http.HandlerFunc(h.CreateExpertCallBatch)))
	mux.Handle("GET "+base+"/expert-calls/{id}", viewer(http.HandlerFunc(h.GetExpertCallBatch)))

	// Research
	mux.Handle("POST "+base+"/research", editor(http.HandlerFunc(h.CreateResearch)))
	mux.Handle("GET "+base+"/research/{id}", viewer(http.HandlerFunc(h.GetResearch)))

	// Generic work item reads and the SSE progress stream
	mux.Handle("GET "+base+"/work", viewer(http.HandlerFunc(h.List)))
	mux.Handle("GET "+base+"/work/{id}", viewer(http.HandlerFunc(h.Get)))
	mux.Handle("GET "+base+"/work/{id}/status", viewer(http.HandlerFunc(h.GetStatus)))
	mux.Handle("GET "+base+"/work/{id}/events", viewer(http.HandlerFunc(ev.Stream)))
	mux.Handle("DELETE "+base+"/work/{id}", editor(http.HandlerFunc(h.Delete)))

	// Engagement-wide stats snapshot
	mux.Handle("GET "+base+"/stats", viewer(http.HandlerFunc(h.EngagementStats)))
}

func registerMetricRoutes(mux *http.ServeMux, h *MetricHandlers, viewer, editor middleware) {
	const base = "/api/engagements/{engagementID}"

	mux.Handle("POST "+base+"/metrics", editor(http.HandlerFunc(h.Record)))
	mux.Handle("GET "+base+"/metrics", viewer(http.HandlerFunc(h.Latest)))
	mux.Handle("GET "+base+"/metrics/history", viewer(http.HandlerFunc(h.History)))
}

func registerContradictionRoutes(mux *http.ServeMux, h *ContradictionHandlers, viewer, editor middleware) {
	const base = "/api/engagements/{engagementID}"

	mux.Handle("GET "+base+"/contradictions", viewer(http.HandlerFunc(h.List)))
	mux.Handle("GET "+base+"/contradictions/{id}", viewer(http.HandlerFunc(h.Get)))
	mux.Handle("POST "+base+"/contradictions/{id}/resolve", editor(http.HandlerFunc(h.Resolve)))
	mux.Handle("POST "+base+"/contradictions/{id}/escalate", editor(http.HandlerFunc(h.Escalate)))
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("POST /auth/dev-login", h.DevLogin)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}
