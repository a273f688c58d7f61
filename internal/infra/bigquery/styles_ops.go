package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

const beerStylesTable = "beer_styles"

// ListBeerStyles returns all active beer styles ordered by name.
func ListBeerStyles(ctx context.Context) ([]StyleRow, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("ListBeerStyles: bigquery client: %w", err)
	}
	defer client.Close()

	return ListBeerStylesWithClient(ctx, client)
}

// ListBeerStylesWithClient returns all active beer styles ordered by name
// using the provided BigQuery client.
func ListBeerStylesWithClient(ctx context.Context, client *bigquery.Client) ([]StyleRow, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT
		  style_id,
		  name,
		  is_active
		FROM %s.%s
		WHERE is_active = TRUE
		ORDER BY name
	`, datasetID, beerStylesTable))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListBeerStyles: query read: %w", err)
	}

	var rows []StyleRow
	for {
		var r StyleRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListBeerStyles: iter next: %w", err)
		}
		rows = append(rows, r)
	}

	return rows, nil
}
