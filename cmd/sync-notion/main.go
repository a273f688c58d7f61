package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/bmorrow/taplist/internal/infra/bigquery"
	"github.com/bmorrow/taplist/internal/logger"
	"github.com/bmorrow/taplist/internal/notionsync"
)

func main() {
	// Initialize structured logger
	log := logger.NewForService("sync-notion")

	// Parse CLI flags
	notionToken := flag.String("notion-token", os.Getenv("NOTION_TOKEN"), "Notion API token (or set NOTION_TOKEN env)")
	notionDBID := flag.String("notion-db-id", "", "Notion moderation database ID (required)")
	dryRun := flag.Bool("dry-run", false, "Dry run mode - preview changes without syncing")
	flag.Parse()

	if *notionToken == "" {
		log.Fatal().Msg("Error: --notion-token is required")
	}
	if *notionDBID == "" {
		log.Fatal().Msg("Error: --notion-db-id is required")
	}

	// Create context with timeout so CLI doesn't hang
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	ctx = logger.WithContext(ctx, log)

	log.Info().
		Bool("dry_run", *dryRun).
		Msg("Starting Notion sync")

	repo, err := bigquery.NewBigQueryCatalogRepository(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize BigQuery repository")
	}
	defer repo.Close()

	notionClient := notionsync.NewNotionClient(*notionToken)

	if err := notionsync.SyncPendingBeers(ctx, repo, notionClient, *notionDBID, *dryRun); err != nil {
		log.Fatal().Err(err).Msg("Sync failed")
	}

	fmt.Println("Sync completed successfully.")
}
