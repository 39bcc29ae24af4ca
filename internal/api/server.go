// Package api implements the HTTP layer for AgroCamer. Handlers are methods on
// *Server. Each handler file is responsible for one resource group and only
// imports the dependencies it actually uses.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nyashahama/agrocamer-backend/internal/agronomy"
	"github.com/nyashahama/agrocamer-backend/internal/ai"
	"github.com/nyashahama/agrocamer-backend/internal/db"
	"github.com/nyashahama/agrocamer-backend/internal/weather"
	"github.com/nyashahama/agrocamer-backend/internal/worker"
)

// Config holds values read from environment variables at startup.
type Config struct {
	// Env is "production", "staging", or "development".
	Env string

	// Providers is the credential set the fallback chain is built from on
	// every AI request.
	Providers ai.ProviderConfig
}

// ReferenceSource returns the per-request database snapshot. *store.Store
// satisfies it.
type ReferenceSource interface {
	Reference(ctx context.Context) (agronomy.Reference, error)
}

// ChainRunner runs one logical AI request across a provider list. *ai.Chain
// satisfies it.
type ChainRunner interface {
	Run(ctx context.Context, providers []ai.Provider, req ai.Request) ai.Result
}

// WeatherSource fetches current conditions. *weather.Client satisfies it.
type WeatherSource interface {
	Current(ctx context.Context, lat, lon float64, lang string) (weather.Conditions, error)
}

// Server holds all shared dependencies. Each handler file attaches methods to
// this type and uses only the fields it needs.
type Server struct {
	// q handles single-query reads.
	q db.Querier

	// ref loads crops, diseases, treatments and prices for enrichment.
	ref ReferenceSource

	// chain calls the AI providers in priority order.
	chain ChainRunner

	weather WeatherSource

	// worker persists chat turns off the request path.
	worker worker.Enqueuer

	// gatherer backs /metrics.
	gatherer prometheus.Gatherer

	cfg    Config
	logger *slog.Logger
}

// NewServer constructs the Server and wires the chi router. The returned
// http.Handler is ready to pass to http.Server.
func NewServer(
	q db.Querier,
	ref ReferenceSource,
	chain ChainRunner,
	weatherSrc WeatherSource,
	enqueuer worker.Enqueuer,
	gatherer prometheus.Gatherer,
	cfg Config,
	logger *slog.Logger,
) http.Handler {
	s := &Server{
		q:        q,
		ref:      ref,
		chain:    chain,
		weather:  weatherSrc,
		worker:   enqueuer,
		gatherer: gatherer,
		cfg:      cfg,
		logger:   logger,
	}

	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// ── Global middleware ─────────────────────────────────────────────────────
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(tracingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Client-Info", "Apikey", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         86400,
	}))

	// ── Health and metrics ────────────────────────────────────────────────────
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		// AI handlers: no request deadline beyond the per-attempt HTTP
		// timeout, so a full fallback chain can run to completion.
		r.Post("/analyze-plant", s.handleAnalyzePlant)
		r.Post("/analyze-harvest", s.handleAnalyzeHarvest)
		r.Post("/chat-assistant", s.handleChatAssistant)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(30 * time.Second))

			r.Post("/get-weather", s.handleGetWeather)

			r.Get("/crops", s.handleListCrops)
			r.Get("/diseases", s.handleListDiseases)
			r.Get("/market-prices", s.handleListMarketPrices)
			r.Get("/chat-sessions/{sessionID}/messages", s.handleListChatMessages)
			r.Get("/ai/providers", s.handleListProviders)
		})
	})

	return r
}
