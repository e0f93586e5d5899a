package httpx

import (
	"errors"
	"net/http"

	"github.com/meridianlabs/thesisflow/internal/core"
	"github.com/meridianlabs/thesisflow/internal/domain/model"
	"github.com/meridianlabs/thesisflow/internal/service"
)

// ContradictionHandlers provides HTTP handlers for contradiction review.
type ContradictionHandlers struct {
	Svc         *service.ContradictionService
	Engagements core.EngagementRepository
}

// List returns contradictions for an engagement, optionally filtered by status.
func (h *ContradictionHandlers) List(w http.ResponseWriter, r *http.Request) {
	engagementID, ok := requireEngagement(w, r, h.Engagements)
	if !ok {
		return
	}

	var status *model.ContradictionStatus
	if v := r.URL.Query().Get("status"); v != "" {
		s := model.ContradictionStatus(v)
		if !s.Valid() {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "validation",
				Err:     errors.New("invalid status filter"),
			})
			return
		}
		status = &s
	}

	items, err := h.Svc.List(r.Context(), engagementID, status)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

// Get returns one contradiction.
func (h *ContradictionHandlers) Get(w http.ResponseWriter, r *http.Request) {
	engagementID, ok := requireEngagement(w, r, h.Engagements)
	if !ok {
		return
	}

	c, err := h.Svc.Get(r.Context(), engagementID, r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, c)
}

// Resolve moves an open contradiction to explained or dismissed with audit notes.
func (h *ContradictionHandlers) Resolve(w http.ResponseWriter, r *http.Request) {
	engagementID, ok := requireEngagement(w, r, h.Engagements)
	if !ok {
		return
	}

	var req model.ResolveContradictionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	c, err := h.Svc.Resolve(r.Context(), engagementID, r.PathValue("id"), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, c)
}

// Escalate raises an unresolved contradiction to critical.
func (h *ContradictionHandlers) Escalate(w http.ResponseWriter, r *http.Request) {
	engagementID, ok := requireEngagement(w, r, h.Engagements)
	if !ok {
		return
	}

	c, err := h.Svc.Escalate(r.Context(), engagementID, r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, c)
}
