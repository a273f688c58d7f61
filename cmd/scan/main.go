package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	infraBQ "github.com/bmorrow/taplist/internal/infra/bigquery"
	"github.com/bmorrow/taplist/internal/logger"
	"github.com/bmorrow/taplist/internal/pipeline"
	"github.com/bmorrow/taplist/internal/websearch"
)

// scan runs the extraction pipeline over a local photo or text file and
// prints the candidates as JSON. Useful for tuning prompts and parser rules
// without the API in the loop.
func main() {
	var (
		photoPath     = flag.String("photo", "", "Path to a menu photo (vision extraction)")
		textPath      = flag.String("text", "", "Path to a menu text file (legacy parser)")
		model         = flag.String("model", pipeline.DefaultModelName, "Gemini model for vision extraction")
		websearchURL  = flag.String("websearch-url", os.Getenv("TAPLIST_WEBSEARCH_URL"), "Beer facts search endpoint (empty disables enrichment lookups)")
		singleBrewery = flag.Bool("single-brewery", false, "Hint that the whole menu is from one brewery")
		offline       = flag.Bool("offline", false, "Skip the BigQuery style vocabulary and use built-in styles")
	)
	flag.Parse()

	log := logger.NewForService("scan")

	if (*photoPath == "") == (*textPath == "") {
		log.Fatal().Msg("Exactly one of --photo or --text is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	var styleRepo pipeline.StyleRepository
	if !*offline {
		repo, err := infraBQ.NewBigQueryCatalogRepository(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create catalog repository (use --offline to skip)")
		}
		defer repo.Close()
		styleRepo = repo
	}

	vocab := pipeline.NewStyleVocabulary(styleRepo, log)

	var lookup pipeline.FactLookup
	if *websearchURL != "" {
		lookup = websearch.NewClient(*websearchURL, log)
	}
	enricher := pipeline.NewEnricher(lookup, vocab, log)

	opts := pipeline.ScanOptions{SingleBrewery: *singleBrewery}

	var result *pipeline.ScanResult
	var err error

	if *photoPath != "" {
		image, readErr := os.ReadFile(*photoPath)
		if readErr != nil {
			log.Fatal().Err(readErr).Str("path", *photoPath).Msg("Failed to read photo")
		}

		extractor := pipeline.NewVisionExtractor(*model, vocab, log)
		scanner := pipeline.NewScanner(extractor, enricher, log)
		result, err = scanner.ProcessMenuPhoto(ctx, image, opts)
	} else {
		text, readErr := os.ReadFile(*textPath)
		if readErr != nil {
			log.Fatal().Err(readErr).Str("path", *textPath).Msg("Failed to read text file")
		}

		extractor := pipeline.NewTextExtractor(vocab, log)
		scanner := pipeline.NewScanner(extractor, enricher, log)
		result, err = scanner.ProcessMenuText(ctx, string(text), opts)
	}

	if err != nil {
		log.Fatal().Err(err).Msg("Scan failed")
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal result")
	}

	fmt.Println(string(out))
}
