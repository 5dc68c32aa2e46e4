package main

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"review_analyzer/internal/adapters/observability"
	"review_analyzer/internal/adapters/reviewapi"
	"review_analyzer/internal/shared"
	"review_analyzer/internal/storage/csvseed"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("base", cfg.APIBaseURL).
		Str("csv", cfg.IngestCSV).
		Int("workers", cfg.Workers).
		Int("rps", cfg.IngestRPS).
		Msg("ingestor starting")

	if cfg.IngestCSV == "" {
		log.Fatal().Msg("INGEST_CSV is required")
	}
	f, err := os.Open(cfg.IngestCSV)
	if err != nil {
		log.Fatal().Err(err).Msg("open input failed")
	}
	subs, err := csvseed.ReadSubmissions(f)
	f.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("read input failed")
	}

	client, err := reviewapi.New(cfg.APIBaseURL, cfg.IngestRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize review API client")
	}

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup
	var created, rejected, failed atomic.Int64

	for i, s := range subs {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(row int, s csvseed.Submission) {
			defer wg.Done()
			defer sem.Release(1)

			rv, err := client.Create(ctx, s.ReviewBody, s.Location)
			switch {
			case errors.Is(err, reviewapi.ErrRejected):
				rejected.Add(1)
				log.Warn().Int("row", row).Str("location", s.Location).Msg("review rejected")
			case err != nil:
				failed.Add(1)
				log.Warn().Int("row", row).Err(err).Msg("submit failed")
			default:
				created.Add(1)
				log.Debug().Int("row", row).Str("id", rv.ReviewID).Msg("review created")
			}
		}(i+2, s)
	}

	wg.Wait()
	log.Info().
		Int64("created", created.Load()).
		Int64("rejected", rejected.Load()).
		Int64("failed", failed.Load()).
		Msg("ingestion completed")
	if failed.Load() > 0 {
		os.Exit(1)
	}
}
