package httpx

import (
	"errors"
	"net/http"

	"github.com/meridianlabs/thesisflow/internal/core"
	"github.com/meridianlabs/thesisflow/internal/domain/model"
	"github.com/meridianlabs/thesisflow/internal/service"
)

// MetricHandlers provides HTTP handlers for the metric time series.
type MetricHandlers struct {
	Svc         *service.MetricsService
	Engagements core.EngagementRepository
}

// Record appends one externally-computed metric value to the time series.
func (h *MetricHandlers) Record(w http.ResponseWriter, r *http.Request) {
	engagementID, ok := requireEngagement(w, r, h.Engagements)
	if !ok {
		return
	}

	var req model.RecordMetricRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	req.EngagementID = engagementID

	metric, err := h.Svc.Record(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, metric)
}

// Latest returns the most recent value per metric type.
func (h *MetricHandlers) Latest(w http.ResponseWriter, r *http.Request) {
	engagementID, ok := requireEngagement(w, r, h.Engagements)
	if !ok {
		return
	}

	latest, err := h.Svc.Latest(r.Context(), engagementID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, latest)
}

// History returns the metric time series, newest first, optionally filtered
// by metric_type.
func (h *MetricHandlers) History(w http.ResponseWriter, r *http.Request) {
	engagementID, ok := requireEngagement(w, r, h.Engagements)
	if !ok {
		return
	}

	opts := model.MetricHistoryOptions{
		EngagementID: engagementID,
		Limit:        parseIntQuery(r, "limit", 0),
	}
	if v := r.URL.Query().Get("metric_type"); v != "" {
		mt := model.MetricType(v)
		if !mt.Valid() {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "validation",
				Err:     errors.New("invalid metric_type filter"),
			})
			return
		}
		opts.MetricType = &mt
	}

	history, err := h.Svc.History(r.Context(), opts)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"items": history, "count": len(history)})
}
