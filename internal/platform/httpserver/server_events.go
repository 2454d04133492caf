package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	contractsv1 "contentflow/contracts/gen/events/v1"
)

// handleEvents streams a scope's fan-out events as Server-Sent Events.
// Events published while the client is disconnected are not replayed.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, writeContentError)
	if !ok {
		return
	}
	if s.events == nil {
		writeContentError(w, http.StatusServiceUnavailable, "events_unavailable", "event stream is not enabled")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeContentError(w, http.StatusInternalServerError, "streaming_unsupported", "response does not support streaming")
		return
	}

	scope := strings.TrimSpace(r.URL.Query().Get("scope"))
	if scope == "" {
		scope = contractsv1.ActorScope(userID)
	}
	if err := s.approval.Handler.AuthorizeScope(r.Context(), userID, scope); err != nil {
		writeContentDomainError(w, err)
		return
	}

	events := s.events.Subscribe(r.Context(), scope)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, ": subscribed %s\n\n", scope)
	flusher.Flush()

	s.logger.Info("event stream opened",
		"event", "sse_stream_opened",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"actor_id", userID,
		"scope", scope,
	)

	heartbeat := time.NewTicker(s.heartbeat)
	defer heartbeat.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case event, open := <-events:
			if !open {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", event.EventID, event.EventType, payload)
			flusher.Flush()
		}
	}
}
