// Package server provides the HTTP API of the assistant.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/openmevzuat/mevzuat/internal/agent"
	"github.com/openmevzuat/mevzuat/internal/config"
	"github.com/openmevzuat/mevzuat/internal/llm"
	"github.com/openmevzuat/mevzuat/internal/session"
	"github.com/openmevzuat/mevzuat/internal/storage"
	"github.com/openmevzuat/mevzuat/internal/vector"
)

// Server is the HTTP server for the assistant API.
type Server struct {
	agent       *agent.Agent
	sessions    *session.Manager
	titleClient llm.Client
	storage     storage.Storage
	vectorIndex vector.VectorIndex
	config      *config.Config
	logger      *zap.Logger
	server      *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	a *agent.Agent,
	sessions *session.Manager,
	titleClient llm.Client,
	store storage.Storage,
	vectorIndex vector.VectorIndex,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		agent:       a,
		sessions:    sessions,
		titleClient: titleClient,
		storage:     store,
		vectorIndex: vectorIndex,
		config:      cfg,
		logger:      logger,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(90 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/query", s.handleQuery)
	r.Post("/api/v1/title", s.handleTitle)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleRoot)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
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
