package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/docfmt/internal/config"
	"github.com/dgallion1/docfmt/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for docfmt.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
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

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/decode", s.handleDecode)
		r.Post("/api/decode/batch", s.handleBatchDecode)
		r.Get("/api/decode/{jobID}/status", s.handleDecodeStatus)
		r.Get("/api/stats/decode", s.handleDecodeStats)

		r.Get("/api/documents", s.handleListDocuments)
		r.Route("/api/documents/{docID}", func(r chi.Router) {
			r.Use(s.documentContext)
			r.Get("/", s.handleGetDocument)
			r.Delete("/", s.handleDeleteDocument)
			r.Get("/styles", s.handleStyles)
			r.Get("/paragraphs", s.handleParagraphs)
			r.Get("/lists", s.handleLists)
			r.Get("/sections", s.handleSections)
			r.Get("/html", s.handleHTML)
			r.Get("/markdown", s.handleMarkdown)
			r.Get("/preview", s.handlePreview)
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
