package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/supertoolshq/gateway/internal/config"
	"github.com/supertoolshq/gateway/internal/handlers"
	"github.com/supertoolshq/gateway/internal/metrics"
	"github.com/supertoolshq/gateway/internal/middleware"
	"github.com/supertoolshq/gateway/internal/providers"
	"github.com/supertoolshq/gateway/internal/tunnel"
)

type Server struct {
	config   *config.Manager
	logger   *slog.Logger
	version  string
	registry *prometheus.Registry
	server   *http.Server
}

func New(configManager *config.Manager, logger *slog.Logger, version string) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Server{
		config:   configManager,
		logger:   logger,
		version:  version,
		registry: registry,
	}
}

func (s *Server) Start() error {
	cfg := s.config.Get()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	mux := s.setupRoutes(cfg)

	s.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	s.logger.Info("Starting server", "address", addr)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Server error", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	s.logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	s.logger.Info("Server exited")

	return nil
}

func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

func (s *Server) setupRoutes(cfg *config.Config) *http.ServeMux {
	mux := http.NewServeMux()

	factory := providers.NewFactory(cfg.ProviderSettings())
	gatewayMetrics := metrics.New(s.registry)

	tools := handlers.NewTools(s.config, factory, s.logger, gatewayMetrics)
	tunnelHandler := handlers.NewTunnelHandler(tunnel.NewRegistry(nil), s.logger)
	healthHandler := handlers.NewHealthHandler(s.version, s.logger)

	middlewareSet := middleware.NewMiddlewareSet(s.config, s.logger)
	chain := middlewareSet.DefaultChain()
	public := middlewareSet.PublicChain()

	mux.Handle("GET /health", public.Handler(healthHandler))
	mux.Handle("GET /metrics", public.Handler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	mux.Handle("POST /api/quickreceipt/analyze", chain.Handler(http.HandlerFunc(tools.QuickReceipt)))
	mux.Handle("POST /api/kitchen/analyze", chain.Handler(http.HandlerFunc(tools.PantryAnalyze)))
	mux.Handle("POST /api/kitchen/recipes", chain.Handler(http.HandlerFunc(tools.Recipes)))
	mux.Handle("POST /api/voicetask/transcribe", chain.Handler(http.HandlerFunc(tools.VoiceTask)))
	mux.Handle("POST /api/arguments/settle", chain.Handler(http.HandlerFunc(tools.Settle)))
	mux.Handle("POST /api/arguments/parse-screenshot", chain.Handler(http.HandlerFunc(tools.ArgumentScreenshot)))
	mux.Handle("POST /api/personasync/analyze-style", chain.Handler(http.HandlerFunc(tools.AnalyzeStyle)))
	mux.Handle("POST /api/personasync/draft-reply", chain.Handler(http.HandlerFunc(tools.DraftReply)))
	mux.Handle("POST /api/personasync/parse-screenshot", chain.Handler(http.HandlerFunc(tools.PersonaScreenshot)))
	mux.Handle("POST /api/formalize", chain.Handler(http.HandlerFunc(tools.Formalize)))
	mux.Handle("POST /api/tunnel", chain.Handler(tunnelHandler))

	return mux
}
