package httpx

import (
	"errors"
	"net/http"

	"github.com/meridianlabs/thesisflow/internal/core"
	"github.com/meridianlabs/thesisflow/internal/data"
)

// EngagementHandlers provides HTTP handlers for engagement management.
type EngagementHandlers struct {
	Repo core.EngagementRepository
}

type createEngagementRequest struct {
	Name string `json:"name"`
}

// Create opens a new research engagement.
func (h *EngagementHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req createEngagementRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "validation",
			Err:     errors.New("name is required"),
		})
		return
	}

	eng, err := h.Repo.Create(r.Context(), req.Name)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, eng)
}

// Get returns one engagement.
func (h *EngagementHandlers) Get(w http.ResponseWriter, r *http.Request) {
	eng, err := h.Repo.GetByID(r.Context(), r.PathValue("engagementID"))
	if err != nil {
		if errors.Is(err, data.ErrEngagementNotFound) {
			WriteError(w, ErrorParams{
				Code:    http.StatusNotFound,
				ErrCode: "not_found",
				Err:     errors.New("engagement not found"),
			})
			return
		}
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, eng)
}

// List returns all active engagements.
func (h *EngagementHandlers) List(w http.ResponseWriter, r *http.Request) {
	engagements, err := h.Repo.ListActive(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"items": engagements, "count": len(engagements)})
}
