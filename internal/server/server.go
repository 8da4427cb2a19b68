// Package server provides the HTTP API for the advisory pipeline.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/wealthpilot/advisor/internal/advisor"
	"github.com/wealthpilot/advisor/internal/config"
	"github.com/wealthpilot/advisor/internal/guardrail"
)

// requestTimeout bounds a full request, including a 120s inference call.
const requestTimeout = 180 * time.Second

// Server is the HTTP server for the advisor API.
type Server struct {
	orchestrator *advisor.Orchestrator
	guard        *guardrail.Filter
	config       *config.ServerConfig
	logger       *zap.Logger
	server       *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	orchestrator *advisor.Orchestrator,
	guard *guardrail.Filter,
	cfg *config.ServerConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		orchestrator: orchestrator,
		guard:        guard,
		config:       cfg,
		logger:       logger,
	}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/chat", s.handleChat)
	r.Post("/api/v1/knowledge/init", s.handleKnowledgeInit)
	r.Get("/api/v1/ready", s.handleReady)
	r.Get("/api/v1/suggestions", s.handleSuggestions)
	r.Post("/api/v1/validate", s.handleValidate)
	r.Get("/health", s.handleHealth)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
