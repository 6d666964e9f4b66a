package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/docbrief/internal/config"
	"github.com/dgallion1/docbrief/internal/llm"
	"github.com/dgallion1/docbrief/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for docbrief.
type Server struct {
	router  chi.Router
	service *pipeline.Service
	stats   *llm.Stats
	log     *slog.Logger
	cfg     config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(service *pipeline.Service, stats *llm.Stats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		service: service,
		stats:   stats,
		log:     log,
		cfg:     cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.cfg.DocbriefAPIKey != "" {
			r.Use(AuthMiddleware(s.cfg.DocbriefAPIKey, s.log))
		}

		r.Post("/api/analyze", s.handleAnalyze)
		r.Get("/api/analyze/{jobID}/status", s.handleStatus)
		r.Get("/api/analyze/{jobID}/result", s.handleResult)
		r.Get("/api/analyze/{jobID}/actions.csv", s.handleActionsCSV)
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
