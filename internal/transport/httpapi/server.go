// Package httpapi exposes workflow sessions over JSON/HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/manno/inflow/internal/navigator"
	"github.com/manno/inflow/internal/render"
	"github.com/manno/inflow/internal/selection"
	"github.com/manno/inflow/internal/workflow"
)

// ActionRequest is the body of an action call.
type ActionRequest struct {
	Data string `json:"data"`
}

// ErrorResponse is returned for every failed call. Screen is set when the
// session still exists and shows where the user is.
type ErrorResponse struct {
	Error  string         `json:"error"`
	Stale  bool           `json:"stale,omitempty"`
	Screen *render.Screen `json:"screen,omitempty"`
}

// SessionResponse answers the creation of a session.
type SessionResponse struct {
	Session string        `json:"session"`
	Screen  render.Screen `json:"screen"`
}

// SelectionsResponse lists a session's selections.
type SelectionsResponse struct {
	Session    string            `json:"session"`
	Selections []selection.Entry `json:"selections"`
}

// Server routes HTTP calls to a workflow manager.
type Server struct {
	manager *workflow.Manager
	metrics http.Handler
	logger  *slog.Logger
	mux     *http.ServeMux
}

// NewServer builds the handler. metrics may be nil.
func NewServer(manager *workflow.Manager, metrics http.Handler, logger *slog.Logger) *Server {
	s := &Server{
		manager: manager,
		metrics: metrics,
		logger:  logger,
		mux:     http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /v1/sessions", s.handleCreate)
	s.mux.HandleFunc("POST /v1/sessions/{id}/start", s.handleStart)
	s.mux.HandleFunc("POST /v1/sessions/{id}/actions", s.handleAction)
	s.mux.HandleFunc("GET /v1/sessions/{id}/screen", s.handleScreen)
	s.mux.HandleFunc("GET /v1/sessions/{id}/selections", s.handleSelections)
	s.mux.HandleFunc("DELETE /v1/sessions/{id}", s.handleReset)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	id, screen, err := s.manager.StartNew(r.Context())
	if err != nil {
		s.writeError(w, err, nil)
		return
	}
	w.Header().Set("Location", "/v1/sessions/"+id)
	writeJSON(w, http.StatusCreated, SessionResponse{Session: id, Screen: screen})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	screen, err := s.manager.Start(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, screen)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	screen, err := s.manager.Handle(r.Context(), r.PathValue("id"), req.Data)
	if err != nil {
		if errors.Is(err, workflow.ErrSessionNotFound) {
			s.writeError(w, err, nil)
			return
		}
		s.writeError(w, err, &screen)
		return
	}
	writeJSON(w, http.StatusOK, screen)
}

func (s *Server) handleScreen(w http.ResponseWriter, r *http.Request) {
	screen, err := s.manager.Screen(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, screen)
}

func (s *Server) handleSelections(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	entries, err := s.manager.Selections(r.Context(), id)
	if err != nil {
		s.writeError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, SelectionsResponse{Session: id, Selections: entries})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.Reset(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeError(w http.ResponseWriter, err error, screen *render.Screen) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, ErrorResponse{
		Error:  err.Error(),
		Stale:  errors.Is(err, navigator.ErrStalePress),
		Screen: screen,
	})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, workflow.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, workflow.ErrInvalidSessionID):
		return http.StatusBadRequest
	case errors.Is(err, navigator.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, navigator.ErrInvalidState), errors.Is(err, navigator.ErrStalePress):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
