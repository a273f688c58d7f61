package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bmorrow/taplist/internal/api/handlers"
	"github.com/bmorrow/taplist/internal/api/middleware"
	infraBQ "github.com/bmorrow/taplist/internal/infra/bigquery"
	"github.com/bmorrow/taplist/internal/jobs"
	"github.com/bmorrow/taplist/internal/jobs/inmemory"
	"github.com/bmorrow/taplist/internal/logger"
	"github.com/bmorrow/taplist/internal/photostore"
	"github.com/bmorrow/taplist/internal/pipeline"
	"github.com/bmorrow/taplist/internal/websearch"
	"github.com/rs/zerolog"
)

func main() {
	// Parse command-line flags
	var (
		port         = flag.String("port", "8080", "HTTP server port")
		bucket       = flag.String("bucket", os.Getenv("TAPLIST_PHOTO_BUCKET"), "GCS bucket for menu photos (or set TAPLIST_PHOTO_BUCKET env)")
		model        = flag.String("model", pipeline.DefaultModelName, "Gemini model for vision extraction")
		websearchURL = flag.String("websearch-url", os.Getenv("TAPLIST_WEBSEARCH_URL"), "Beer facts search endpoint (or set TAPLIST_WEBSEARCH_URL env; empty disables enrichment lookups)")
		workers      = flag.Int("workers", 2, "Concurrent scan workers")
	)
	flag.Parse()

	// Initialize logger
	log := logger.NewForService("api")

	// Initialize repositories
	ctx := context.Background()

	repo, err := infraBQ.NewBigQueryCatalogRepository(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create catalog repository")
	}
	defer repo.Close()

	// Shared vocabulary, loaded lazily from BigQuery with a built-in fallback
	vocab := pipeline.NewStyleVocabulary(repo, log)

	var lookup pipeline.FactLookup
	if *websearchURL != "" {
		lookup = websearch.NewClient(*websearchURL, log)
	} else {
		log.Warn().Msg("No websearch endpoint configured - enrichment lookups disabled")
	}

	extractor := pipeline.NewVisionExtractor(*model, vocab, log)
	enricher := pipeline.NewEnricher(lookup, vocab, log)
	scanner := pipeline.NewScanner(extractor, enricher, log)
	photos := photostore.New(*bucket)

	// Initialize job infrastructure
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, *workers, jobStore)

	// Start worker in background to process jobs
	workerCtx, cancelWorker := context.WithCancel(logger.WithContext(ctx, log))
	defer cancelWorker()

	jobHandler := newScanJobHandler(repo, photos, scanner, log)

	go func() {
		log.Info().Msg("Starting scan worker")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Scan worker stopped with error")
		}
	}()

	// Initialize handlers
	scansHandler := handlers.NewScansHandler(repo, jobQueue, jobStore, photos, log)
	stylesHandler := handlers.NewStylesHandler(vocab, log)
	beersHandler := handlers.NewBeersHandler(repo, log)

	// Create router
	mux := http.NewServeMux()

	// Scans endpoints
	mux.HandleFunc("/api/scans", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			scansHandler.EnqueueScan(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/scans/upload-url", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			scansHandler.CreateUploadURL(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/scans/upload/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut {
			scanID := strings.TrimPrefix(r.URL.Path, "/api/scans/upload/")
			if scanID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Scan ID is required")
				return
			}
			scansHandler.UploadPhoto(w, r, scanID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/scans/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			scanID := strings.TrimPrefix(r.URL.Path, "/api/scans/")
			if scanID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Scan ID is required")
				return
			}
			scansHandler.GetScan(w, r, scanID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Styles endpoint
	mux.HandleFunc("/api/styles", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			stylesHandler.ListStyles(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Beers endpoint
	mux.HandleFunc("/api/beers/bulk", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			beersHandler.BulkInsert(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", *port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	// Stop job queue and wait for in-flight scans
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}

// newScanJobHandler builds the handler the queue invokes per scan job: it
// resolves the bar context, runs the pipeline and attaches the result to the
// job so clients can poll it.
func newScanJobHandler(repo infraBQ.CatalogRepository, photos *photostore.PhotoStore, scanner *pipeline.Scanner, log zerolog.Logger) jobs.JobHandler {
	return func(ctx context.Context, job jobs.Job) error {
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
}
