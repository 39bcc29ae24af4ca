package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // postgres driver
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/nyashahama/agrocamer-backend/internal/ai"
	"github.com/nyashahama/agrocamer-backend/internal/api"
	"github.com/nyashahama/agrocamer-backend/internal/config"
	"github.com/nyashahama/agrocamer-backend/internal/db"
	"github.com/nyashahama/agrocamer-backend/internal/store"
	"github.com/nyashahama/agrocamer-backend/internal/telemetry"
	"github.com/nyashahama/agrocamer-backend/internal/weather"
	"github.com/nyashahama/agrocamer-backend/internal/worker"
)

func main() {
	// ── Logger ────────────────────────────────────────────────────────────────
	// JSON in production, pretty text in development.
	var logger *slog.Logger
	if os.Getenv("ENV") == "production" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// ── Config ────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger.Info("config loaded", "env", cfg.Env, "port", cfg.Port)

	// Root context cancelled by OS signal.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Tracing ───────────────────────────────────────────────────────────────
	shutdownTracing, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:     cfg.OTelEnabled,
		Endpoint:    cfg.OTelEndpoint,
		ServiceName: cfg.OTelServiceName,
		Environment: cfg.Env,
	}, logger)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("telemetry: shutdown", "error", err)
		}
	}()

	// ── Database ──────────────────────────────────────────────────────────────
	pool, err := openDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()
	logger.Info("database connected")

	queries := db.New(pool)
	st := store.New(pool, queries)

	// ── Metrics ───────────────────────────────────────────────────────────────
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// ── AI ────────────────────────────────────────────────────────────────────
	// Providers are rebuilt per request from this config; an empty list is
	// reported to callers as a configuration error.
	providerCfg := cfg.AIProviders()
	providers := ai.BuildProviders(providerCfg)
	if len(providers) == 0 {
		logger.Warn("ai: no provider credentials configured, analysis and chat will fail")
	}
	for _, p := range ai.Describe(providers) {
		logger.Info("ai: provider configured", "priority", p.Priority, "name", p.Name, "model", p.Model)
	}

	invoker := ai.NewInvoker(&http.Client{Timeout: cfg.AITimeout}, ai.DefaultPolicy(), ai.NewMetrics(reg))
	chain := ai.NewChain(invoker, logger, ai.WithBackoff(cfg.AIFallbackBackoff))

	// ── Weather ───────────────────────────────────────────────────────────────
	weatherClient := weather.NewClient(cfg.WeatherBaseURL, &http.Client{Timeout: 15 * time.Second})

	// ── Worker ────────────────────────────────────────────────────────────────
	// The worker outlives the signal context so turns enqueued by in-flight
	// requests during HTTP shutdown are still written.
	runnerCfg := worker.DefaultRunnerConfig()
	runnerCfg.Workers = cfg.WorkerCount
	runnerCfg.MaxRetries = cfg.MaxRetries
	runner := worker.NewRunner(worker.NewJob(st, logger), runnerCfg, logger)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	workerDone := make(chan struct{})
	go func() {
		runner.Start(workerCtx)
		close(workerDone)
	}()

	// ── HTTP server ───────────────────────────────────────────────────────────
	handler := api.NewServer(
		queries,
		st,
		chain,
		weatherClient,
		runner, // *Runner satisfies worker.Enqueuer
		reg,
		api.Config{
			Env:       cfg.Env,
			Providers: providerCfg,
		},
		logger,
	)

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 30 * time.Second,
		// Analysis walks the whole provider chain, each attempt bounded by
		// AI_HTTP_TIMEOUT.
		WriteTimeout: 6*cfg.AITimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until either a signal arrives or the server dies unexpectedly.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	// No more requests can enqueue; let the workers drain.
	stopWorkers()
	<-workerDone

	logger.Info("shutdown complete")
	return nil
}

// openDB opens the connection pool and verifies it is reachable.
func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	pool, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	pool.SetMaxOpenConns(25)
	pool.SetMaxIdleConns(10)
	pool.SetConnMaxLifetime(5 * time.Minute)
	pool.SetConnMaxIdleTime(2 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := pool.PingContext(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}
