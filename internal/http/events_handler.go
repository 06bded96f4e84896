package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/streamerd/cocoso/internal/notify"
)

type snapshotSource interface {
	Subscribe(topic string) (<-chan notify.Snapshot, func())
}

// EventsHandler streams entity snapshots to clients over server-sent events.
// Each snapshot is delivered as one SSE message whose data line is the JSON
// encoded snapshot.
type EventsHandler struct {
	hub       snapshotSource
	responder responder
	logger    *slog.Logger
}

func NewEventsHandler(hub snapshotSource, logger *slog.Logger) *EventsHandler {
	base := defaultLogger(logger)
	return &EventsHandler{hub: hub, responder: newResponder(base), logger: base}
}

func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	topic := strings.TrimSpace(r.URL.Query().Get("topic"))
	if topic == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errors.New("a topic query parameter is required"))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusInternalServerError, errors.New("streaming is not supported"))
		return
	}

	logger := handlerLogger(r.Context(), h.logger, "EventsHandler", "Stream", "topic", topic)

	snapshots, cancel := h.hub.Subscribe(topic)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	logger.InfoContext(r.Context(), "event stream opened")

	for {
		select {
		case <-r.Context().Done():
			logger.InfoContext(r.Context(), "event stream closed by client")
			return
		case snapshot, open := <-snapshots:
			if !open {
				return
			}
			payload, err := json.Marshal(snapshot)
			if err != nil {
				logger.ErrorContext(r.Context(), "failed to encode snapshot", "error", err)
				continue
			}
			if _, err := w.Write([]byte("event: snapshot\ndata: " + string(payload) + "\n\n")); err != nil {
				logger.InfoContext(r.Context(), "event stream write failed", "error", err)
				return
			}
			flusher.Flush()
		}
	}
}
