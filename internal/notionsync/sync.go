package notionsync

import (
	"context"
	"fmt"

	"github.com/bmorrow/taplist/internal/infra/bigquery"
	"github.com/bmorrow/taplist/internal/logger"
	"github.com/jomei/notionapi"
)

// BatchSize defines the number of beers to process in a single batch.
const BatchSize = 100

// PendingBeerLister is the slice of the catalog repository the sync needs.
type PendingBeerLister interface {
	ListPendingBeers(ctx context.Context) ([]*bigquery.PendingBeerRow, error)
}

// SyncPendingBeers exports pending-review beers to the Notion moderation
// board. It is one-way and idempotent:
//  1. Queries all existing pages on the board
//  2. Archives pages whose beer is no longer pending in BigQuery
//  3. Creates pages for pending beers not yet on the board
func SyncPendingBeers(ctx context.Context, repo PendingBeerLister, notionClient NotionService, notionDBID string, dryRun bool) error {
	log := logger.FromContext(ctx)

	log.Info().
		Bool("dry_run", dryRun).
		Msg("Starting pending-beer sync to Notion")

	pending, err := repo.ListPendingBeers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pending beers: %w", err)
	}

	log.Info().Int("pending_count", len(pending)).Msg("Retrieved pending beers from BigQuery")

	validBeerIDs := make(map[string]bool)
	for _, beer := range pending {
		validBeerIDs[beer.BeerID] = true
	}

	log.Info().Msg("Querying existing pages from Notion")
	notionPages, err := queryAllNotionPages(ctx, notionClient, notionDBID)
	if err != nil {
		return fmt.Errorf("failed to query Notion pages: %w", err)
	}

	log.Info().Int("notion_page_count", len(notionPages)).Msg("Retrieved existing Notion pages")

	existingBeerIDs := make(map[string]bool)
	for _, page := range notionPages {
		beerID := extractBeerID(page)
		if beerID != "" {
			existingBeerIDs[beerID] = true
		}
	}

	// Archive pages for beers that have left the pending set (approved or
	// rejected through the board).
	var deleted int
	for _, page := range notionPages {
		beerID := extractBeerID(page)

		if beerID == "" || !validBeerIDs[beerID] {
			if dryRun {
				log.Info().
					Str("beer_id", beerID).
					Str("page_id", string(page.ID)).
					Msg("[DRY RUN] Would archive stale Notion page")
				deleted++
			} else {
				if err := notionClient.DeletePage(ctx, string(page.ID)); err != nil {
					log.Warn().
						Err(err).
						Str("beer_id", beerID).
						Str("page_id", string(page.ID)).
						Msg("Failed to archive stale Notion page")
					continue
				}
				log.Info().
					Str("beer_id", beerID).
					Str("page_id", string(page.ID)).
					Msg("Archived stale Notion page")
				deleted++
			}
		}
	}

	var created, skipped int
	for i := 0; i < len(pending); i += BatchSize {
		end := i + BatchSize
		if end > len(pending) {
			end = len(pending)
		}

		batch := pending[i:end]
		log.Info().
			Int("batch_start", i).
			Int("batch_end", end).
			Int("batch_size", len(batch)).
			Msg("Processing batch")

		for _, beer := range batch {
			if existingBeerIDs[beer.BeerID] {
				skipped++
				continue
			}

			if dryRun {
				log.Info().
					Str("beer_id", beer.BeerID).
					Str("name", beer.Name).
					Msg("[DRY RUN] Would create Notion page")
				created++
				continue
			}

			props := PendingBeerToNotionProperties(beer)

			page, err := notionClient.CreatePage(ctx, notionDBID, props)
			if err != nil {
				log.Warn().
					Err(err).
					Str("beer_id", beer.BeerID).
					Msg("Failed to create Notion page")
				continue
			}
			log.Info().
				Str("beer_id", beer.BeerID).
				Str("page_id", string(page.ID)).
				Msg("Created Notion page")
			created++
		}
	}

	log.Info().
		Int("deleted", deleted).
		Int("created", created).
		Int("skipped", skipped).
		Int("total", len(pending)).
		Msg("Pending-beer sync finished")

	return nil
}

// queryAllNotionPages pages through the whole database.
func queryAllNotionPages(ctx context.Context, notionClient NotionService, notionDBID string) ([]notionapi.Page, error) {
	var pages []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{
			StartCursor: cursor,
			PageSize:    100,
		}

		resp, err := notionClient.QueryDatabase(ctx, notionDBID, req)
		if err != nil {
			return nil, err
		}

		pages = append(pages, resp.Results...)

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return pages, nil
}
