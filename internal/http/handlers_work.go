// Package httpx provides HTTP handlers and utilities for the thesisflow research engagement API.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/meridianlabs/thesisflow/internal/core"
	"github.com/meridianlabs/thesisflow/internal/data"
	"github.com/meridianlabs/thesisflow/internal/domain/model"
	"github.com/meridianlabs/thesisflow/internal/service"
)

// WorkHandlers provides HTTP handlers for work item operations, both the
// kind-specific create endpoints and the generic status reads.
type WorkHandlers struct {
	Svc         *service.WorkItemService
	Stats       *service.StatsService
	Engagements core.EngagementRepository
}

// requireEngagement resolves the engagement from the path and writes a 404
// if it does not exist. Engagement existence is checked before any kind
// logic so cross-engagement probes cannot distinguish kinds.
func requireEngagement(w http.ResponseWriter, r *http.Request, repo core.EngagementRepository) (string, bool) {
	engagementID := r.PathValue("engagementID")
	if engagementID == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_path",
			Err:     errors.New("engagement id is required"),
		})
		return "", false
	}

	if _, err := repo.GetByID(r.Context(), engagementID); err != nil {
		if errors.Is(err, data.ErrEngagementNotFound) {
			WriteError(w, ErrorParams{
				Code:    http.StatusNotFound,
				ErrCode: "not_found",
				Err:     errors.New("engagement not found"),
			})
		} else {
			WriteAppError(w, err)
		}
		return "", false
	}

	return engagementID, true
}

// validator is implemented by all kind parameter types.
type validator interface {
	Validate() error
}

// createForKind decodes kind parameters, validates them, and enqueues a
// pending work item. Create endpoints return 201 with the pending item.
func (h *WorkHandlers) createForKind(w http.ResponseWriter, r *http.Request, kind model.WorkKind, params validator) {
	engagementID, ok := requireEngagement(w, r, h.Engagements)
	if !ok {
		return
	}

	if !DecodeJSON(w, r, params) {
		return
	}
	if err := params.Validate(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation", Err: err})
		return
	}

	raw, err := json.Marshal(params)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	item, err := h.Svc.Enqueue(r.Context(), &model.CreateWorkItemRequest{
		EngagementID: engagementID,
		Kind:         kind,
		Parameters:   raw,
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, item)
}

// CreateStressTest enqueues an adversarial stress-test run.
func (h *WorkHandlers) CreateStressTest(w http.ResponseWriter, r *http.Request) {
	h.createForKind(w, r, model.WorkKindStressTest, &model.StressTestParameters{})
}

// CreateDocument enqueues a document ingestion job.
func (h *WorkHandlers) CreateDocument(w http.ResponseWriter, r *http.Request) {
	h.createForKind(w, r, model.WorkKindDocument, &model.DocumentParameters{})
}

// CreateExpertCallBatch enqueues a transcript batch-processing job.
func (h *WorkHandlers) CreateExpertCallBatch(w http.ResponseWriter, r *http.Request) {
	h.createForKind(w, r, model.WorkKindExpertCallBatch, &model.ExpertCallBatchParameters{})
}

// CreateResearch enqueues a long-running research investigation.
func (h *WorkHandlers) CreateResearch(w http.ResponseWriter, r *http.Request) {
	h.createForKind(w, r, model.WorkKindResearch, &model.ResearchParameters{})
}

// getForKind fetches a work item scoped to an engagement and kind. A kind
// mismatch reads as 404 so endpoint families stay disjoint.
func (h *WorkHandlers) getForKind(w http.ResponseWriter, r *http.Request, kind model.WorkKind) {
	engagementID, ok := requireEngagement(w, r, h.Engagements)
	if !ok {
		return
	}

	item, err := h.Svc.Get(r.Context(), engagementID, r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if item.Kind != kind {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     errors.New("work item not found"),
		})
		return
	}

	WriteJSON(w, http.StatusOK, item)
}

// GetStressTest returns one stress-test run.
func (h *WorkHandlers) GetStressTest(w http.ResponseWriter, r *http.Request) {
	h.getForKind(w, r, model.WorkKindStressTest)
}

// GetDocument returns one document ingestion job.
func (h *WorkHandlers) GetDocument(w http.ResponseWriter, r *http.Request) {
	h.getForKind(w, r, model.WorkKindDocument)
}

// GetExpertCallBatch returns one transcript batch job.
func (h *WorkHandlers) GetExpertCallBatch(w http.ResponseWriter, r *http.Request) {
	h.getForKind(w, r, model.WorkKindExpertCallBatch)
}

// GetResearch returns one research run.
func (h *WorkHandlers) GetResearch(w http.ResponseWriter, r *http.Request) {
	h.getForKind(w, r, model.WorkKindResearch)
}

// Get returns a work item of any kind.
func (h *WorkHandlers) Get(w http.ResponseWriter, r *http.Request) {
	engagementID, ok := requireEngagement(w, r, h.Engagements)
	if !ok {
		return
	}

	item, err := h.Svc.Get(r.Context(), engagementID, r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

// GetStatus returns the lightweight status view of a work item.
func (h *WorkHandlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	engagementID, ok := requireEngagement(w, r, h.Engagements)
	if !ok {
		return
	}

	status, err := h.Svc.GetStatus(r.Context(), engagementID, r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, status)
}

// List returns work items for an engagement with optional kind/status filters.
func (h *WorkHandlers) List(w http.ResponseWriter, r *http.Request) {
	engagementID, ok := requireEngagement(w, r, h.Engagements)
	if !ok {
		return
	}

	opts := model.WorkItemListOptions{
		EngagementID: engagementID,
		Limit:        parseIntQuery(r, "limit", 0),
		Offset:       parseIntQuery(r, "offset", 0),
	}
	if v := r.URL.Query().Get("kind"); v != "" {
		kind := model.WorkKind(v)
		if !kind.Valid() {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "validation",
				Err:     errors.New("invalid kind filter"),
			})
			return
		}
		opts.Kind = &kind
	}
	if v := r.URL.Query().Get("status"); v != "" {
		status := model.WorkStatus(v)
		if !status.Valid() {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "validation",
				Err:     errors.New("invalid status filter"),
			})
			return
		}
		opts.Status = &status
	}

	items, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

// Delete removes a settled work item. Running items are refused with 409;
// there is no mid-flight cancellation.
func (h *WorkHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	engagementID, ok := requireEngagement(w, r, h.Engagements)
	if !ok {
		return
	}

	if err := h.Svc.Delete(r.Context(), engagementID, r.PathValue("id")); err != nil {
		WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteStressTest removes a settled stress-test run.
func (h *WorkHandlers) DeleteStressTest(w http.ResponseWriter, r *http.Request) {
	engagementID, ok := requireEngagement(w, r, h.Engagements)
	if !ok {
		return
	}

	item, err := h.Svc.Get(r.Context(), engagementID, r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if item.Kind != model.WorkKindStressTest {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     errors.New("work item not found"),
		})
		return
	}

	if err := h.Svc.Delete(r.Context(), engagementID, item.ID); err != nil {
		WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StressTestStats returns aggregate stress-test statistics for an engagement.
func (h *WorkHandlers) StressTestStats(w http.ResponseWriter, r *http.Request) {
	engagementID, ok := requireEngagement(w, r, h.Engagements)
	if !ok {
		return
	}

	stats, err := h.Stats.StressTests(r.Context(), engagementID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}

// EngagementStats returns the cached engagement-wide stats snapshot.
func (h *WorkHandlers) EngagementStats(w http.ResponseWriter, r *http.Request) {
	engagementID, ok := requireEngagement(w, r, h.Engagements)
	if !ok {
		return
	}

	stats, err := h.Stats.Engagement(r.Context(), engagementID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}
