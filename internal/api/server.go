// Package api exposes the HTTP surface of propgen: the public proposal
// endpoint the web form posts to, and the authenticated knowledge-base
// management endpoints.
package api

import (
	"log/slog"
	"net/http"

	"github.com/dcortezh/propgen/internal/config"
	"github.com/dcortezh/propgen/internal/generate"
	"github.com/dcortezh/propgen/internal/mailer"
	"github.com/dcortezh/propgen/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server is the HTTP API server for propgen.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	gen          *generate.Client
	mail         *mailer.Mailer
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. mail may be nil
// when SMTP delivery is not configured.
func NewServer(orch *pipeline.Orchestrator, gen *generate.Client, mail *mailer.Mailer, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		gen:          gen,
		mail:         mail,
		log:          log,
		cfg:          cfg,
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
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Public endpoints: the proposal form posts here directly.
	r.Get("/health", s.handleHealth)
	r.Post("/api/proposal", s.handleProposal)

	// Authenticated knowledge-base management.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/documents", s.handleUpload)
		r.Post("/api/documents/batch", s.handleBatchUpload)
		r.Get("/api/documents/{jobID}/status", s.handleUploadStatus)
		r.Delete("/api/documents", s.handleResetStore)

		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
