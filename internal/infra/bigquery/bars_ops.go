package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

const barsTable = "bars"

// GetBarContext returns one bar by id, or nil when no such bar exists.
func GetBarContext(ctx context.Context, barID string) (*BarRow, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("GetBarContext: bigquery client: %w", err)
	}
	defer client.Close()

	return GetBarContextWithClient(ctx, client, barID)
}

// GetBarContextWithClient returns one bar by id using the provided BigQuery
// client. A missing bar is (nil, nil), not an error.
func GetBarContextWithClient(ctx context.Context, client *bigquery.Client, barID string) (*BarRow, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT
		  bar_id,
		  name,
		  is_brewery
		FROM %s.%s
		WHERE bar_id = @bar_id
		LIMIT 1
	`, datasetID, barsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "bar_id", Value: barID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetBarContext: query read: %w", err)
	}

	var r BarRow
	err = it.Next(&r)
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetBarContext: iter next: %w", err)
	}

	return &r, nil
}
