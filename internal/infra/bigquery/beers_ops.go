package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

const beersTable = "beers"

// InsertPendingBeers inserts a batch of PendingBeerRow into taplist.beers.
func InsertPendingBeers(ctx context.Context, rows []*PendingBeerRow) error {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return fmt.Errorf("InsertPendingBeers: bigquery client: %w", err)
	}
	defer client.Close()

	return InsertPendingBeersWithClient(ctx, client, rows)
}

// InsertPendingBeersWithClient inserts a batch of PendingBeerRow into
// taplist.beers using the provided BigQuery client.
func InsertPendingBeersWithClient(ctx context.Context, client *bigquery.Client, rows []*PendingBeerRow) error {
	if len(rows) == 0 {
		return nil
	}

	table := client.DatasetInProject(projectID, datasetID).Table(beersTable)
	inserter := table.Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertPendingBeers: inserting rows: %w", err)
	}

	return nil
}

// ListPendingBeers returns all beers still awaiting moderation, oldest first.
func ListPendingBeers(ctx context.Context) ([]*PendingBeerRow, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("ListPendingBeers: bigquery client: %w", err)
	}
	defer client.Close()

	return ListPendingBeersWithClient(ctx, client)
}

// ListPendingBeersWithClient returns all beers still awaiting moderation
// using the provided BigQuery client.
func ListPendingBeersWithClient(ctx context.Context, client *bigquery.Client) ([]*PendingBeerRow, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT
		  beer_id,
		  name,
		  type,
		  bar_id,
		  abv,
		  price,
		  size,
		  brewery_id,
		  brewery,
		  pending_review,
		  status,
		  created_ts
		FROM %s.%s
		WHERE pending_review = TRUE
		ORDER BY created_ts
	`, datasetID, beersTable))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListPendingBeers: query read: %w", err)
	}

	var rows []*PendingBeerRow
	for {
		var r PendingBeerRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListPendingBeers: iter next: %w", err)
		}
		rows = append(rows, &r)
	}

	return rows, nil
}
