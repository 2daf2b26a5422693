package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/paper-grader/internal/common"
	"github.com/joseph-ayodele/paper-grader/internal/export"
	"github.com/joseph-ayodele/paper-grader/internal/pipeline"
	"github.com/joseph-ayodele/paper-grader/internal/repository"
)

// Server exposes the grading pipeline over HTTP. Every request is handled on
// its own goroutine by net/http; the pipeline is stateless across requests.
type Server struct {
	logger   *slog.Logger
	apiKey   string
	proc     *pipeline.Processor
	exporter *export.Service
	db       *sql.DB
	mux      *http.ServeMux
}

func New(logger *slog.Logger, apiKey string, proc *pipeline.Processor, exporter *export.Service, db *sql.DB) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		logger:   logger,
		apiKey:   apiKey,
		proc:     proc,
		exporter: exporter,
		db:       db,
		mux:      http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /grade", s.requireAPIKey(s.handleGrade))
	s.mux.HandleFunc("GET /export", s.requireAPIKey(s.handleExport))
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// requireAPIKey checks X-API-Key when an inbound key is configured. An empty
// configured key disables auth (local/dev usage).
func (s *Server) requireAPIKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey != "" && r.Header.Get("X-API-Key") != s.apiKey {
			writeJSON(w, http.StatusForbidden, map[string]any{"error": "invalid API key"})
			return
		}
		rid := uuid.New().String()
		ctx := common.WithRequestID(r.Context(), rid)
		w.Header().Set("X-Request-Id", rid)
		next(w, r.WithContext(ctx))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	dbOK := repository.HealthCheck(ctx, s.db, 0) == nil
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "healthy",
		"database": dbOK,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
