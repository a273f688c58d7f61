package pipeline

import (
	"context"

	infra "github.com/bmorrow/taplist/internal/infra/bigquery"
)

// StorageService fetches menu photo bytes for a scan. Implemented by
// photostore over GCS; mocked in tests.
type StorageService interface {
	FetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error)
}

// ScanRunRepository records scan-run bookkeeping rows so operators can see
// why a scan produced nothing. Implemented by the infra catalog repository.
type ScanRunRepository interface {
	StartScanRun(ctx context.Context, scanID string) (string, error)
	MarkScanRunFailed(ctx context.Context, runID string, scanErr error)
	MarkScanRunSucceeded(ctx context.Context, runID string) error
}

// BarRepository resolves the bar context used for house-beer attribution.
type BarRepository interface {
	GetBarContext(ctx context.Context, barID string) (*infra.BarRow, error)
}
