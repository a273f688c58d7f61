package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
)

const (
	projectID = "taplist-catalog-8812"
	datasetID = "taplist"
)

// CatalogRepository is the storage surface the service needs from the beer
// catalog: style vocabulary reads, pending-beer inserts, scan bookkeeping
// and bar lookups.
type CatalogRepository interface {
	ListBeerStyles(ctx context.Context) ([]StyleRow, error)
	GetBarContext(ctx context.Context, barID string) (*BarRow, error)

	InsertScan(ctx context.Context, row *ScanRow) error
	GetScan(ctx context.Context, scanID string) (*ScanRow, error)
	StartScanRun(ctx context.Context, scanID string) (string, error)
	MarkScanRunFailed(ctx context.Context, runID string, scanErr error)
	MarkScanRunSucceeded(ctx context.Context, runID string) error

	InsertPendingBeers(ctx context.Context, rows []*PendingBeerRow) error
	ListPendingBeers(ctx context.Context) ([]*PendingBeerRow, error)

	Close() error
}

// BigQueryCatalogRepository is the concrete CatalogRepository backed by a
// shared BigQuery client, so each operation doesn't open its own connection.
type BigQueryCatalogRepository struct {
	client *bigquery.Client
}

// NewBigQueryCatalogRepository creates a repository with a shared client.
func NewBigQueryCatalogRepository(ctx context.Context) (*BigQueryCatalogRepository, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewBigQueryCatalogRepository: creating client: %w", err)
	}
	return &BigQueryCatalogRepository{client: client}, nil
}

// Close releases the shared client.
func (r *BigQueryCatalogRepository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

func (r *BigQueryCatalogRepository) ListBeerStyles(ctx context.Context) ([]StyleRow, error) {
	return ListBeerStylesWithClient(ctx, r.client)
}

func (r *BigQueryCatalogRepository) GetBarContext(ctx context.Context, barID string) (*BarRow, error) {
	return GetBarContextWithClient(ctx, r.client, barID)
}

func (r *BigQueryCatalogRepository) InsertScan(ctx context.Context, row *ScanRow) error {
	return InsertScanWithClient(ctx, r.client, row)
}

func (r *BigQueryCatalogRepository) GetScan(ctx context.Context, scanID string) (*ScanRow, error) {
	return GetScanWithClient(ctx, r.client, scanID)
}

func (r *BigQueryCatalogRepository) StartScanRun(ctx context.Context, scanID string) (string, error) {
	return StartScanRunWithClient(ctx, r.client, scanID)
}

func (r *BigQueryCatalogRepository) MarkScanRunFailed(ctx context.Context, runID string, scanErr error) {
	MarkScanRunFailedWithClient(ctx, r.client, runID, scanErr)
}

func (r *BigQueryCatalogRepository) MarkScanRunSucceeded(ctx context.Context, runID string) error {
	return MarkScanRunSucceededWithClient(ctx, r.client, runID)
}

func (r *BigQueryCatalogRepository) InsertPendingBeers(ctx context.Context, rows []*PendingBeerRow) error {
	return InsertPendingBeersWithClient(ctx, r.client, rows)
}

func (r *BigQueryCatalogRepository) ListPendingBeers(ctx context.Context) ([]*PendingBeerRow, error) {
	return ListPendingBeersWithClient(ctx, r.client)
}

// Ensure the concrete type satisfies the interface.
var _ CatalogRepository = (*BigQueryCatalogRepository)(nil)
