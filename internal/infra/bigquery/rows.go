package bigquery

import (
	"time"

	"cloud.google.com/go/bigquery"
)

// StyleRow is one canonical beer style from taplist.beer_styles.
type StyleRow struct {
	StyleID  string `bigquery:"style_id"`
	Name     string `bigquery:"name"`
	IsActive bool   `bigquery:"is_active"`
}

// BarRow carries the bar identity used for house-beer attribution.
type BarRow struct {
	BarID     string `bigquery:"bar_id"`
	Name      string `bigquery:"name"`
	IsBrewery bool   `bigquery:"is_brewery"`
}

// ScanRow is one uploaded menu photo in taplist.scans.
type ScanRow struct {
	ScanID           string                 `bigquery:"scan_id"`
	BarID            string                 `bigquery:"bar_id"`
	GCSURI           string                 `bigquery:"gcs_uri"`
	UploadTS         time.Time              `bigquery:"upload_ts"`
	ProcessedTS      bigquery.NullTimestamp `bigquery:"processed_ts"`
	Status           string                 `bigquery:"status"`
	OriginalFilename string                 `bigquery:"original_filename"`
	FileMimeType     string                 `bigquery:"file_mime_type"`
}

// ScanRunRow tracks one pipeline execution over a scan in taplist.scan_runs.
type ScanRunRow struct {
	ScanRunID string `bigquery:"scan_run_id"`
	ScanID    string `bigquery:"scan_id"`

	StartedAt  time.Time              `bigquery:"started_ts"`
	FinishedAt bigquery.NullTimestamp `bigquery:"finished_ts"`

	ExtractorType    string `bigquery:"extractor_type"`    // e.g. GEMINI_VISION
	ExtractorVersion string `bigquery:"extractor_version"` // e.g. v1

	Status       string `bigquery:"status"`
	ErrorMessage string `bigquery:"error_message"`

	CandidateCount bigquery.NullInt64 `bigquery:"candidate_count"`
}

// PendingBeerRow is one user-confirmed candidate shaped for insertion into
// taplist.beers. Rows always enter moderation with pending_review=true.
type PendingBeerRow struct {
	BeerID  string `bigquery:"beer_id"`
	Name    string `bigquery:"name"`
	Type    string `bigquery:"type"`
	BarID   string `bigquery:"bar_id"`

	ABV   bigquery.NullFloat64 `bigquery:"abv"`
	Price bigquery.NullFloat64 `bigquery:"price"`
	Size  bigquery.NullInt64   `bigquery:"size"`

	BreweryID bigquery.NullString `bigquery:"brewery_id"`
	Brewery   bigquery.NullString `bigquery:"brewery"`

	PendingReview bool      `bigquery:"pending_review"`
	Status        string    `bigquery:"status"`
	CreatedTS     time.Time `bigquery:"created_ts"`
}
