package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

const scansTable = "scans"

// InsertScan records one uploaded menu photo in taplist.scans.
func InsertScan(ctx context.Context, row *ScanRow) error {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return fmt.Errorf("InsertScan: bigquery client: %w", err)
	}
	defer client.Close()

	return InsertScanWithClient(ctx, client, row)
}

// InsertScanWithClient records one uploaded menu photo using the provided
// BigQuery client.
func InsertScanWithClient(ctx context.Context, client *bigquery.Client, row *ScanRow) error {
	q := client.Query(fmt.Sprintf(`
		INSERT %s.%s (
			scan_id,
			bar_id,
			gcs_uri,
			upload_ts,
			status,
			original_filename,
			file_mime_type
		)
		VALUES (
			@scan_id,
			@bar_id,
			@gcs_uri,
			@upload_ts,
			@status,
			@original_filename,
			@file_mime_type
		)
	`, datasetID, scansTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "scan_id", Value: row.ScanID},
		{Name: "bar_id", Value: row.BarID},
		{Name: "gcs_uri", Value: row.GCSURI},
		{Name: "upload_ts", Value: row.UploadTS},
		{Name: "status", Value: row.Status},
		{Name: "original_filename", Value: row.OriginalFilename},
		{Name: "file_mime_type", Value: row.FileMimeType},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("InsertScan: running insert query: %w", err)
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("InsertScan: waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("InsertScan: job error: %w", err)
	}

	return nil
}

// GetScan returns one scan by id, or nil when no such scan exists.
func GetScan(ctx context.Context, scanID string) (*ScanRow, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("GetScan: bigquery client: %w", err)
	}
	defer client.Close()

	return GetScanWithClient(ctx, client, scanID)
}

// GetScanWithClient returns one scan by id using the provided BigQuery client.
func GetScanWithClient(ctx context.Context, client *bigquery.Client, scanID string) (*ScanRow, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT
		  scan_id,
		  bar_id,
		  gcs_uri,
		  upload_ts,
		  processed_ts,
		  status,
		  original_filename,
		  file_mime_type
		FROM %s.%s
		WHERE scan_id = @scan_id
		LIMIT 1
	`, datasetID, scansTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "scan_id", Value: scanID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetScan: query read: %w", err)
	}

	var r ScanRow
	err = it.Next(&r)
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetScan: iter next: %w", err)
	}

	return &r, nil
}
