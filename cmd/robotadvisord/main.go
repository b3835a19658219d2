package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"robotadvisor/internal/analysis"
	"robotadvisor/internal/api"
	"robotadvisor/internal/catalog"
	"robotadvisor/internal/config"
	"robotadvisor/internal/gemini"
	"robotadvisor/internal/logging"
	advisormcp "robotadvisor/internal/mcp"
	"robotadvisor/internal/notify"
)

// app bundles the long-lived components shared by every run mode.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	catalog   *catalog.Catalog
	refresher *catalog.Refresher
	analyzer  *analysis.Analyzer
	mcp       *advisormcp.MCPServer
}

func main() {
	cfg, err := config.Parse()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	// stdout carries the MCP protocol in mcp and both modes
	logOut := os.Stdout
	if cfg.Mode != config.ModeHTTP {
		logOut = os.Stderr
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, logOut)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "err", err)
		os.Exit(1)
	}

	if a.refresher != nil {
		a.refresher.Start(ctx)
	}

	switch cfg.Mode {
	case config.ModeHTTP:
		runHTTPMode(a)
	case config.ModeMCP:
		runMCPMode(a, cancel)
	case config.ModeBoth:
		runBothMode(a)
	}

	a.stopRefresher()
	logger.Info("shutdown complete")
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	robots := catalog.New(cfg.Catalog.AssetsDir, logger)
	if err := robots.Reload(ctx); err != nil {
		// Analyses fail with a catalog error until robot definitions appear.
		logger.Warn("initial catalog load failed", "assets_dir", cfg.Catalog.AssetsDir, "err", err)
	}

	var refresher *catalog.Refresher
	if cfg.Catalog.Refresh != "" {
		r, err := catalog.NewRefresher(robots, cfg.Catalog.Refresh, logger)
		if err != nil {
			return nil, err
		}
		refresher = r
	}

	var (
		extractor analysis.TaskExtractor
		generator analysis.OptionGenerator
	)
	if cfg.GenAI.Backend == gemini.BackendMock {
		logger.Warn("using mock genai backend; results are synthetic")
		extractor, generator = gemini.Mock{}, gemini.Mock{}
	} else {
		client, err := gemini.NewClient(ctx, cfg.GenAI, logger)
		if err != nil {
			return nil, err
		}
		extractor, generator = client, client
	}

	var opts []analysis.Option
	if cfg.Notify.BarkURL != "" {
		bark, err := notify.NewBarkNotifier(cfg.Notify.BarkURL)
		if err != nil {
			return nil, err
		}
		opts = append(opts, analysis.WithNotifier(bark))
	}

	analyzer := analysis.NewAnalyzer(extractor, generator, robots, logger, opts...)
	return &app{
		cfg:       cfg,
		logger:    logger,
		catalog:   robots,
		refresher: refresher,
		analyzer:  analyzer,
		mcp:       advisormcp.NewMCPServer(analyzer, robots, logger),
	}, nil
}

func (a *app) newHTTPServer() *api.Server {
	return api.NewServer(api.Options{
		Addr:        a.cfg.Server.Addr,
		AuthToken:   a.cfg.Server.AuthToken,
		CORSOrigins: a.cfg.Server.CORSOrigins,
		MCPHandler:  a.mcp.Handler(),
	}, a.analyzer, a.catalog, a.logger)
}

func (a *app) stopRefresher() {
	if a.refresher == nil {
		return
	}
	stopCtx := a.refresher.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(a.cfg.ShutdownGrace):
		a.logger.Warn("catalog refresher stop timed out")
	}
}

// runHTTPMode starts only the HTTP server.
func runHTTPMode(a *app) {
	server := a.newHTTPServer()

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		a.logger.Info("received signal", "signal", sig.String())
	case err := <-serverErr:
		a.logger.Error("server error", "err", err)
	}

	a.shutdownHTTP(server)
}

// runMCPMode starts only the MCP server on stdio.
func runMCPMode(a *app, cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigs
		a.logger.Info("received signal, shutting down...")
		cancel()
	}()

	// Run MCP server (blocking)
	if err := a.mcp.Run(); err != nil {
		a.logger.Error("mcp server error", "err", err)
		os.Exit(1)
	}
}

// runBothMode serves MCP on stdio alongside the HTTP server.
func runBothMode(a *app) {
	mcpErr := make(chan error, 1)
	go func() {
		if err := a.mcp.Run(); err != nil {
			mcpErr <- err
		}
	}()

	server := a.newHTTPServer()
	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		a.logger.Info("received signal", "signal", sig.String())
	case err := <-serverErr:
		a.logger.Error("server error", "err", err)
	case err := <-mcpErr:
		a.logger.Error("mcp server error", "err", err)
	}

	// The stdio MCP server ends with the process
	a.shutdownHTTP(server)
}

func (a *app) shutdownHTTP(server *api.Server) {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.ShutdownGrace)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("server shutdown", "err", err)
	}
}
