package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	infraBQ "github.com/bmorrow/taplist/internal/infra/bigquery"
	"github.com/bmorrow/taplist/internal/jobs"
	"github.com/bmorrow/taplist/internal/jobs/inmemory"
	"github.com/bmorrow/taplist/internal/logger"
	"github.com/bmorrow/taplist/internal/photostore"
	"github.com/bmorrow/taplist/internal/pipeline"
	"github.com/bmorrow/taplist/internal/websearch"
)

// Standalone scan worker. The queue is in-memory, so this binary is only
// useful when something in the same process publishes to it; it exists so
// the consumer wiring can run apart from the API during load testing.
func main() {
	var (
		bucket       = flag.String("bucket", os.Getenv("TAPLIST_PHOTO_BUCKET"), "GCS bucket for menu photos (or set TAPLIST_PHOTO_BUCKET env)")
		model        = flag.String("model", pipeline.DefaultModelName, "Gemini model for vision extraction")
		websearchURL = flag.String("websearch-url", os.Getenv("TAPLIST_WEBSEARCH_URL"), "Beer facts search endpoint (empty disables enrichment lookups)")
		workers      = flag.Int("workers", 2, "Concurrent scan workers")
	)
	flag.Parse()

	log := logger.NewForService("worker")

	ctx, cancel := context.WithCancel(logger.WithContext(context.Background(), log))
	defer cancel()

	repo, err := infraBQ.NewBigQueryCatalogRepository(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create catalog repository")
	}
	defer repo.Close()

	vocab := pipeline.NewStyleVocabulary(repo, log)

	var lookup pipeline.FactLookup
	if *websearchURL != "" {
		lookup = websearch.NewClient(*websearchURL, log)
	}

	extractor := pipeline.NewVisionExtractor(*model, vocab, log)
	enricher := pipeline.NewEnricher(lookup, vocab, log)
	scanner := pipeline.NewScanner(extractor, enricher, log)
	photos := photostore.New(*bucket)

	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, *workers, jobStore)

	log.Info().Msg("Starting worker service")

	handler := func(ctx context.Context, job jobs.Job) error {
		scanJob, ok := job.(*jobs.MenuScanJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", scanJob.JobID).
			Str("scan_id", scanJob.ScanID).
			Str("gcs_uri", scanJob.GCSURI).
			Msg("Processing scan job")

		opts := pipeline.ScanOptions{
			SingleBrewery: scanJob.SingleBrewery,
		}

		if scanJob.BarID != "" {
			bar, err := repo.GetBarContext(ctx, scanJob.BarID)
			if err != nil {
				log.Warn().Err(err).Str("bar_id", scanJob.BarID).Msg("Failed to resolve bar context")
			} else if bar != nil {
				opts.Bar = &pipeline.BarContext{
					BarID:     bar.BarID,
					Name:      bar.Name,
					IsBrewery: bar.IsBrewery,
				}
			}
		}
		opts.HouseAttribution = pipeline.ResolveHouseAttribution(scanJob.HouseAttribution, opts.Bar)

		result, err := pipeline.ScanMenuFromGCS(ctx, scanJob.ScanID, scanJob.GCSURI, opts, photos, scanner, repo)
		if err != nil {
			log.Error().
				Err(err).
				Str("job_id", scanJob.JobID).
				Str("scan_id", scanJob.ScanID).
				Msg("Scan pipeline failed")
			return err
		}

		scanJob.Result = result

		log.Info().
			Str("job_id", scanJob.JobID).
			Str("scan_id", scanJob.ScanID).
			Int("candidates", len(result.Candidates)).
			Msg("Scan pipeline completed")

		return nil
	}

	if err := jobQueue.Start(ctx, handler); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job consumer")
	}

	log.Info().Msg("Worker service started, waiting for jobs...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down worker service...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during graceful shutdown")
	}

	log.Info().Msg("Worker service exited")
}
