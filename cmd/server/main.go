// Scam Honeypot API Server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/ashureev/scam-honeypot/internal/agent"
	"github.com/ashureev/scam-honeypot/internal/api"
	"github.com/ashureev/scam-honeypot/internal/config"
	"github.com/ashureev/scam-honeypot/internal/feed"
	"github.com/ashureev/scam-honeypot/internal/honeypot"
	"github.com/ashureev/scam-honeypot/internal/middleware"
	"github.com/ashureev/scam-honeypot/internal/reporter"
	"github.com/ashureev/scam-honeypot/internal/session"
	"github.com/ashureev/scam-honeypot/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "generator", cfg.Generator.Provider)
	if cfg.APIKey == "" {
		slog.Warn("API_KEY is not set; protected routes will answer 500")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Report audit store (optional).
	var repo store.Repository
	if cfg.ReportStoreEnabled() {
		repo, err = store.NewSQLite(cfg.DBPath)
		if err != nil {
			slog.Error("Failed to initialize database", "error", err)
			os.Exit(1)
		}
		defer func() {
			if closeErr := repo.Close(); closeErr != nil {
				slog.Error("Failed to close repository", "error", closeErr)
			}
		}()

		if err := repo.Ping(ctx); err != nil {
			slog.Error("Database health check failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Report store connected", "path", cfg.DBPath)
	} else {
		slog.Info("Report store disabled (DB_PATH empty)")
	}

	hub := feed.NewHub(cfg.CORSAllowedOrigins)

	reporterOpts := []reporter.Option{reporter.WithPublisher(hub), reporter.WithLogger(logger)}
	if repo != nil {
		reporterOpts = append(reporterOpts, reporter.WithRepository(repo))
	}
	dispatcher := reporter.New(reporter.Config{
		CollectorURL: cfg.Collector.URL,
		Timeout:      cfg.Collector.Timeout,
		QueueSize:    cfg.Collector.QueueSize,
	}, reporterOpts...)
	if cfg.Collector.URL == "" {
		slog.Warn("COLLECTOR_URL not set; reports will be recorded but not delivered")
	}

	svcOpts := []honeypot.Option{honeypot.WithReporter(dispatcher)}

	generator, err := agent.NewGenerator(cfg.Generator)
	switch {
	case errors.Is(err, agent.ErrGeneratorDisabled):
		slog.Warn("Reply generator disabled, scam messages get the fallback reply", "reason", err)
	case err != nil:
		slog.Error("Failed to initialize reply generator", "error", err)
		os.Exit(1)
	default:
		svcOpts = append(svcOpts, honeypot.WithGenerator(generator))
		slog.Info("Reply generator initialized", "provider", cfg.Generator.Provider)
	}

	conversationLogger, err := agent.NewConversationLogger(agent.ConversationLogConfig{
		Enabled:   cfg.ConversationLog.Enabled,
		Dir:       cfg.ConversationLog.Dir,
		QueueSize: cfg.ConversationLog.QueueSize,
	}, logger)
	if err != nil {
		slog.Error("Failed to initialize conversation logger", "error", err)
		os.Exit(1)
	}
	svcOpts = append(svcOpts, honeypot.WithConversationLogger(conversationLogger))

	sessions := session.NewStore(session.Options{MaxSessions: cfg.Session.MaxSessions})
	session.StartSweeper(ctx, sessions, cfg.Session.IdleTTL)

	svc := honeypot.NewService(sessions, honeypot.Config{
		ReportThreshold:  cfg.Collector.Threshold,
		GeneratorTimeout: cfg.Generator.Timeout,
	}, svcOpts...)

	handlerOpts := []api.Option{
		api.WithFeed(hub),
		api.WithRateLimiter(middleware.NewRateLimiter(ctx, cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.WindowDuration)),
	}
	if repo != nil {
		handlerOpts = append(handlerOpts, api.WithRepository(repo))
	}
	handler := api.NewHandler(svc, cfg.APIKey, handlerOpts...)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	handler.RegisterRoutes(r)

	// WriteTimeout stays 0 so the WebSocket feed is not cut off.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	dispatcher.Close()
	if err := conversationLogger.Close(); err != nil {
		slog.Error("Failed to close conversation logger", "error", err)
	}

	slog.Info("Server stopped successfully")
}
