package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"robotadvisor/internal/analysis"
	"robotadvisor/internal/core"
)

// Analyzer runs one full analysis.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (*analysis.Result, error)
}

// RobotCatalog exposes the current robot snapshot.
type RobotCatalog interface {
	Robots(ctx context.Context) ([]core.RobotRecord, error)
	Robot(ctx context.Context, name string) (core.RobotRecord, bool, error)
}

// Options configure the HTTP server.
type Options struct {
	Addr        string
	AuthToken   string
	CORSOrigins []string
	// MCPHandler is mounted at /mcp when non-nil.
	MCPHandler http.Handler
}

// Server holds the HTTP server state.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	analyzer   Analyzer
	catalog    RobotCatalog
	logger     *slog.Logger
	opts       Options
}

// NewServer constructs the HTTP API server.
func NewServer(opts Options, analyzer Analyzer, catalog RobotCatalog, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(logger))
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		analyzer: analyzer,
		catalog:  catalog,
		logger:   logger,
		opts:     opts,
	}
	s.registerRoutes()

	// Analyses wait on two model calls, so writes get no deadline.
	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the root handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.router.Get("/", s.handleIndex)

	if s.opts.MCPHandler != nil {
		var mcpHandler http.Handler = s.opts.MCPHandler
		if s.opts.AuthToken != "" {
			mcpHandler = AuthMiddleware(s.opts.AuthToken)(mcpHandler)
		}
		s.router.Handle("/mcp", mcpHandler)
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}))
		if s.opts.AuthToken != "" {
			r.Use(AuthMiddleware(s.opts.AuthToken))
		}

		r.Post("/analyze_robotics", s.handleAnalyze)
		r.Get("/robots", s.handleListRobots)
		r.Post("/robot_cost", s.handleRobotCost)
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Robotics Advisor Backend is running."))
}
