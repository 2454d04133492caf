package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	approvalservice "contentflow/contexts/content-studio/approval-service"
	uploadservice "contentflow/contexts/content-studio/upload-service"
	_ "contentflow/internal/platform/httpserver/docs"
	"contentflow/internal/platform/messaging"

	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// EventSource is the fan-out hub as seen by the SSE endpoint.
type EventSource interface {
	Subscribe(ctx context.Context, scope string) <-chan messaging.Envelope
}

// Readiness reports failing dependency probes; an empty map means ready.
type Readiness interface {
	Failures() map[string]string
}

type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	addr       string
	uploads    uploadservice.Module
	approval   approvalservice.Module
	events     EventSource
	readiness  Readiness
	heartbeat  time.Duration
	httpServer *http.Server
}

func New(
	uploads uploadservice.Module,
	approval approvalservice.Module,
	events EventSource,
	readiness Readiness,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		addr:      addr,
		uploads:   uploads,
		approval:  approval,
		events:    events,
		readiness: readiness,
		heartbeat: 15 * time.Second,
	}
	s.registerRoutes()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler is the traced mux.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.mux, "contentflow-api",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			if r.Pattern != "" {
				return r.Pattern
			}
			return r.Method + " " + r.URL.Path
		}),
	)
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)

	s.mux.HandleFunc("POST /v1/uploads", s.handleInitUpload)
	s.mux.HandleFunc("GET /v1/uploads/{session_id}", s.handleGetSession)
	s.mux.HandleFunc("POST /v1/uploads/{session_id}/parts/{part_number}/url", s.handleSignPart)
	s.mux.HandleFunc("POST /v1/uploads/{session_id}/complete", s.handleCompleteUpload)
	s.mux.HandleFunc("POST /v1/uploads/{session_id}/abort", s.handleAbortUpload)

	s.mux.HandleFunc("GET /v1/content", s.handleListContent)
	s.mux.HandleFunc("GET /v1/content/{content_id}", s.handleGetContent)
	s.mux.HandleFunc("POST /v1/content/{content_id}/mark-ready", s.handleMarkReady)
	s.mux.HandleFunc("POST /v1/content/{content_id}/revert", s.handleRevert)
	s.mux.HandleFunc("POST /v1/content/{content_id}/request-approval", s.handleRequestApproval)
	s.mux.HandleFunc("POST /v1/content/{content_id}/approve", s.handleApprove)

	s.mux.HandleFunc("GET /v1/events", s.handleEvents)
}

type healthResponse struct {
	Status   string            `json:"status"`
	Failures map[string]string `json:"failures,omitempty"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	if s.readiness != nil {
		if failures := s.readiness.Failures(); len(failures) > 0 {
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Failures: failures})
			return
		}
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func requireUser(w http.ResponseWriter, r *http.Request, writeError func(http.ResponseWriter, int, string, string)) (string, bool) {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return "", false
	}
	return userID, true
}

// decodeOptionalJSON accepts an empty body.
func decodeOptionalJSON(r *http.Request, target any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(target)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
