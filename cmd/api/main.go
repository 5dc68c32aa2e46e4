package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	server "review_analyzer/internal/adapters/http_server"
	"review_analyzer/internal/adapters/observability"
	redisad "review_analyzer/internal/adapters/redis"
	"review_analyzer/internal/adapters/sentiment"
	"review_analyzer/internal/app"
	"review_analyzer/internal/domain"
	"review_analyzer/internal/shared"
	"review_analyzer/internal/storage/csvseed"
	"review_analyzer/internal/storage/memory"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// seed
	seed, err := csvseed.Load(cfg.ReviewsCSV)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Warn().Str("path", cfg.ReviewsCSV).Msg("seed file not found, starting empty")
	case err != nil:
		log.Fatal().Err(err).Str("path", cfg.ReviewsCSV).Msg("load seed reviews failed")
	}
	store, err := memory.Seed(seed)
	if err != nil {
		log.Fatal().Err(err).Msg("seed store failed")
	}
	log.Info().Int("reviews", store.Len()).Int("locations", len(store.Locations())).Msg("review store ready")

	// deps
	var scorer domain.Scorer = sentiment.New()
	if cfg.RedisAddr != "" {
		cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := cache.Ping(context.Background()); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, scores will be computed uncached until it recovers")
		}
		scorer = app.NewCachedScorer(scorer, cache, cfg.CacheTTL)
	}
	q := app.NewQueryService(store, scorer, cfg.ScoreConcurrency)
	ing := app.NewIngestService(store, clockwork.NewRealClock())

	// http
	srv := server.New(cfg.RequestTimeout)
	srv.MountHandlers(&server.Handlers{Q: q, I: ing, MaxBodyBytes: cfg.MaxBodyBytes})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
