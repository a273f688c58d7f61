package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/bmorrow/taplist/internal/logger"
	"github.com/google/uuid"
)

const scanRunsTable = "scan_runs"

// StartScanRun inserts a new row into taplist.scan_runs with status=RUNNING
// and returns the generated scan_run_id.
func StartScanRun(ctx context.Context, scanID string) (string, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return "", fmt.Errorf("StartScanRun: bigquery client: %w", err)
	}
	defer client.Close()

	return StartScanRunWithClient(ctx, client, scanID)
}

// StartScanRunWithClient inserts a new row into taplist.scan_runs with
// status=RUNNING and returns the generated scan_run_id using the provided
// BigQuery client.
func StartScanRunWithClient(ctx context.Context, client *bigquery.Client, scanID string) (string, error) {
	scanRunID := uuid.NewString()
	started := time.Now()

	q := client.Query(fmt.Sprintf(`
		INSERT %s.%s (
			scan_run_id,
			scan_id,
			started_ts,
			extractor_type,
			extractor_version,
			status
		)
		VALUES (
			@scan_run_id,
			@scan_id,
			@started_ts,
			@extractor_type,
			@extractor_version,
			@status
		)
	`, datasetID, scanRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "scan_run_id", Value: scanRunID},
		{Name: "scan_id", Value: scanID},
		{Name: "started_ts", Value: started},
		{Name: "extractor_type", Value: "GEMINI_VISION"},
		{Name: "extractor_version", Value: "v1"},
		{Name: "status", Value: "RUNNING"},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return "", fmt.Errorf("StartScanRun: running insert query: %w", err)
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return "", fmt.Errorf("StartScanRun: waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return "", fmt.Errorf("StartScanRun: job error: %w", err)
	}

	return scanRunID, nil
}

// MarkScanRunFailed sets status=FAILED, finished_ts and error_message.
func MarkScanRunFailed(ctx context.Context, scanRunID string, scanErr error) {
	log := logger.FromContext(ctx)

	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		log.Error().
			Err(err).
			Str("scan_run_id", scanRunID).
			Msg("MarkScanRunFailed: bigquery client error")
		return
	}
	defer client.Close()

	MarkScanRunFailedWithClient(ctx, client, scanRunID, scanErr)
}

// MarkScanRunFailedWithClient sets status=FAILED, finished_ts and
// error_message using the provided BigQuery client.
func MarkScanRunFailedWithClient(ctx context.Context, client *bigquery.Client, scanRunID string, scanErr error) {
	log := logger.FromContext(ctx)

	errMsg := ""
	if scanErr != nil {
		errMsg = scanErr.Error()
		const maxLen = 2000
		if len(errMsg) > maxLen {
			errMsg = errMsg[:maxLen]
		}
	}

	q := client.Query(fmt.Sprintf(`
		UPDATE %s.%s
		SET status = @status,
		    finished_ts = @finished_ts,
		    error_message = @error_message
		WHERE scan_run_id = @scan_run_id
	`, datasetID, scanRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: "FAILED"},
		{Name: "finished_ts", Value: time.Now()},
		{Name: "error_message", Value: errMsg},
		{Name: "scan_run_id", Value: scanRunID},
	}

	job, err := q.Run(ctx)
	if err != nil {
		log.Error().
			Err(err).
			Str("scan_run_id", scanRunID).
			Msg("MarkScanRunFailed: running update query")
		return
	}

	status, err := job.Wait(ctx)
	if err != nil {
		log.Error().
			Err(err).
			Str("scan_run_id", scanRunID).
			Msg("MarkScanRunFailed: waiting for job")
		return
	}
	if err := status.Err(); err != nil {
		log.Error().
			Err(err).
			Str("scan_run_id", scanRunID).
			Msg("MarkScanRunFailed: job completed with error")
	}
}

// MarkScanRunSucceeded sets status=SUCCESS and finished_ts, clears error_message.
func MarkScanRunSucceeded(ctx context.Context, scanRunID string) error {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return fmt.Errorf("MarkScanRunSucceeded: bigquery client: %w", err)
	}
	defer client.Close()

	return MarkScanRunSucceededWithClient(ctx, client, scanRunID)
}

// MarkScanRunSucceededWithClient sets status=SUCCESS and finished_ts, clears
// error_message using the provided BigQuery client.
func MarkScanRunSucceededWithClient(ctx context.Context, client *bigquery.Client, scanRunID string) error {
	q := client.Query(fmt.Sprintf(`
		UPDATE %s.%s
		SET status = @status,
		    finished_ts = @finished_ts,
		    error_message = ""
		WHERE scan_run_id = @scan_run_id
	`, datasetID, scanRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: "SUCCESS"},
		{Name: "finished_ts", Value: time.Now()},
		{Name: "scan_run_id", Value: scanRunID},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("MarkScanRunSucceeded: running update query: %w", err)
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("MarkScanRunSucceeded: waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("MarkScanRunSucceeded: job error: %w", err)
	}

	return nil
}
