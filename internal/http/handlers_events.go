package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/meridianlabs/thesisflow/internal/core"
	"github.com/meridianlabs/thesisflow/internal/domain/model"
	"github.com/meridianlabs/thesisflow/internal/service"
)

// keepaliveInterval paces SSE comment frames so intermediaries do not drop
// idle streams, and bounds how stale a missed-terminal check can get.
const keepaliveInterval = 15 * time.Second

// EventHandlers serves the live progress stream for work items.
type EventHandlers struct {
	Svc         *service.WorkItemService
	Broadcaster *service.ProgressBroadcaster
	Engagements core.EngagementRepository
}

// Stream serves progress events for one work item over SSE. The ?after_seq
// query parameter replays the durable tail from that point before live
// events; the stream closes after the terminal event.
func (h *EventHandlers) Stream(w http.ResponseWriter, r *http.Request) {
	engagementID, ok := requireEngagement(w, r, h.Engagements)
	if !ok {
		return
	}

	item, err := h.Svc.Get(r.Context(), engagementID, r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	flusher, canFlush := w.(http.Flusher)
	if !canFlush {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "streaming_unsupported",
			Err:     errors.New("response writer does not support streaming"),
		})
		return
	}

	afterSeq := parseInt64Query(r, "after_seq", 0)

	// A settled item has no live events left; serve the tail and finish.
	if item.Status.Terminal() {
		events, tailErr := h.Broadcaster.Tail(r.Context(), item.ID, afterSeq, 0)
		if tailErr != nil {
			WriteAppError(w, tailErr)
			return
		}
		writeSSEHeaders(w)
		for _, ev := range events {
			if writeErr := writeSSEEvent(w, ev); writeErr != nil {
				return
			}
		}
		flusher.Flush()
		return
	}

	events, cancel, err := h.Broadcaster.Subscribe(r.Context(), item.ID, afterSeq)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	defer cancel()

	writeSSEHeaders(w)
	flusher.Flush()

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return

		case ev, open := <-events:
			if !open {
				// Stream finished (terminal event published) or we lagged too
				// far behind; either way the client reconnects with after_seq.
				return
			}
			if writeErr := writeSSEEvent(w, ev); writeErr != nil {
				return
			}
			flusher.Flush()

		case <-keepalive.C:
			if _, writeErr := fmt.Fprint(w, ": keepalive\n\n"); writeErr != nil {
				return
			}
			flusher.Flush()
			// Covers the race where the item settled between our status check
			// and the subscription registering.
			if status, statusErr := h.Svc.GetStatus(r.Context(), engagementID, item.ID); statusErr == nil && status.Status.Terminal() {
				return
			}
		}
	}
}

func writeSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
}

func writeSSEEvent(w http.ResponseWriter, ev *model.ProgressEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: progress\ndata: %s\n\n", ev.Seq, payload)
	return err
}
