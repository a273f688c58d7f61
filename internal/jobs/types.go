package jobs

import (
	"context"
	"time"

	"github.com/bmorrow/taplist/internal/pipeline"
)

// JobType represents the type of job to be executed.
type JobType string

// JobTypeMenuScan represents a menu photo scan job.
const JobTypeMenuScan JobType = "menu_scan"

// JobStatus represents the current status of a job.
type JobStatus string

const (
	// JobStatusPending indicates the job is waiting to be processed.
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning indicates the job is currently being processed.
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted indicates the job completed successfully.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the job failed.
	JobStatusFailed JobStatus = "failed"
	// JobStatusRetrying indicates the job failed and is being retried.
	JobStatusRetrying JobStatus = "retrying"
)

// MenuScanJob is one queued request to run the extraction pipeline over an
// uploaded menu photo. The worker fills Result when the run completes, so
// clients can poll the job for candidates.
type MenuScanJob struct {
	// JobID is the unique identifier for this job.
	JobID string `json:"job_id"`

	// ScanID is the ID of the scan row in BigQuery.
	ScanID string `json:"scan_id"`

	// GCSURI points at the uploaded menu photo.
	GCSURI string `json:"gcs_uri"`

	// BarID selects the bar whose menu this is; used for house attribution.
	BarID string `json:"bar_id"`

	// SingleBrewery hints the prompt that every item shares one brewery.
	SingleBrewery bool `json:"single_brewery,omitempty"`

	// HouseAttribution forces the bar itself as brewery on every candidate.
	HouseAttribution bool `json:"house_attribution,omitempty"`

	// Status is the current status of the job.
	Status JobStatus `json:"status"`

	// CreatedAt is when the job was created.
	CreatedAt time.Time `json:"created_at"`

	// StartedAt is when the job started processing.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// CompletedAt is when the job completed (success or failure).
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error contains error details if the job failed.
	Error string `json:"error,omitempty"`

	// RetryCount is the number of times this job has been retried.
	RetryCount int `json:"retry_count"`

	// MaxRetries is the maximum number of retries allowed.
	MaxRetries int `json:"max_retries"`

	// Result holds the reviewable candidates once the scan completes.
	Result *pipeline.ScanResult `json:"result,omitempty"`
}

// Job is a generic interface for all job types.
type Job interface {
	GetID() string
	GetType() JobType
	GetStatus() JobStatus
}

// GetID implements the Job interface.
func (j *MenuScanJob) GetID() string {
	return j.JobID
}

// GetType implements the Job interface.
func (j *MenuScanJob) GetType() JobType {
	return JobTypeMenuScan
}

// GetStatus implements the Job interface.
func (j *MenuScanJob) GetStatus() JobStatus {
	return j.Status
}

// Publisher defines the interface for publishing jobs to a queue.
// This abstraction allows for different queue implementations (in-memory, Cloud Tasks, Pub/Sub).
type Publisher interface {
	// PublishMenuScan publishes a menu scan job.
	PublishMenuScan(ctx context.Context, job *MenuScanJob) error

	// Close closes the publisher and releases resources.
	Close() error
}

// Consumer defines the interface for consuming jobs from a queue.
type Consumer interface {
	// Start begins consuming jobs from the queue.
	// The handler function is called for each job received.
	Start(ctx context.Context, handler JobHandler) error

	// Stop stops consuming jobs and waits for in-flight jobs to complete.
	Stop(ctx context.Context) error
}

// JobHandler is a function that processes a job.
// It should return an error if the job failed and should be retried.
type JobHandler func(ctx context.Context, job Job) error

// JobStore defines the interface for storing and retrieving job status.
type JobStore interface {
	// SaveJob saves or updates a job's state.
	SaveJob(ctx context.Context, job *MenuScanJob) error

	// GetJob retrieves a job by ID.
	GetJob(ctx context.Context, jobID string) (*MenuScanJob, error)

	// ListJobs retrieves jobs with optional filtering.
	ListJobs(ctx context.Context, filter JobFilter) ([]*MenuScanJob, error)

	// UpdateJobStatus updates the status of a job.
	UpdateJobStatus(ctx context.Context, jobID string, status JobStatus, errorMsg string) error
}

// JobFilter defines filtering criteria for listing jobs.
type JobFilter struct {
	// ScanID filters jobs by scan ID.
	ScanID string

	// Status filters jobs by status.
	Status JobStatus

	// Limit limits the number of results.
	Limit int

	// Offset for pagination.
	Offset int
}
