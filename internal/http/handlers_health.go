package httpx

import (
	"context"
	"database/sql"
	"net/http"
	"time"
)

// healthCheckTimeout bounds how long the health endpoint waits on the store.
const healthCheckTimeout = 2 * time.Second

// QueueDepthReader reports the global pending backlog.
type QueueDepthReader interface {
	GlobalQueueDepth(ctx context.Context) (int, error)
}

// HealthHandlers serves readiness/liveness checks backed by a database ping
// and the queue backlog.
type HealthHandlers struct {
	DB    *sql.DB
	Queue QueueDepthReader
}

// Healthz reports service health. A failed database ping degrades the
// response to 503; queue depth is informational.
func (h *HealthHandlers) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.DB.PingContext(ctx); err != nil {
		WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "unavailable",
			"error":  "database unreachable",
		})
		return
	}

	body := map[string]any{"status": "ok"}
	if h.Queue != nil {
		if depth, err := h.Queue.GlobalQueueDepth(ctx); err == nil {
			body["queue_depth"] = depth
		}
	}

	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	WriteJSON(w, http.StatusOK, body)
}
