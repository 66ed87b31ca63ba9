// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mira-backend/internal/common/config"
	"mira-backend/internal/common/logger"
	"mira-backend/internal/pipeline"
)

// ReportGenerator is the part of the pipeline the HTTP layer depends on.
type ReportGenerator interface {
	Generate(ctx context.Context, req *pipeline.Request) (*pipeline.Result, error)
}

type Server struct {
	cfg       *config.Config
	generator ReportGenerator
	logger    logger.Logger
}

func New(cfg *config.Config, generator ReportGenerator, log logger.Logger) *Server {
	return &Server{
		cfg:       cfg,
		generator: generator,
		logger:    log.With(map[string]interface{}{"component": "server"}),
	}
}

// Router assembles the full HTTP surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(corsMiddleware(s.cfg.Server.AllowedOrigin))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/api/generate-report", s.handleGenerateReport)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"error": "Endpoint not found",
		})
	})

	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": s.cfg.App.Name,
		"version": s.cfg.App.Version,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": s.cfg.App.Environment,
	})
}

func decodeJSONBody(req *http.Request, v interface{}) error {
	defer req.Body.Close()
	return json.NewDecoder(req.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
