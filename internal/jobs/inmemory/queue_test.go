package inmemory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bmorrow/taplist/internal/jobs"
)

func TestPublishMenuScan_Defaults(t *testing.T) {
	store := NewStore()
	q := NewQueue(10, 1, store)
	defer q.Close()

	job := &jobs.MenuScanJob{ScanID: "scan-1", GCSURI: "gs://b/scans/scan-1/x.jpg"}
	if err := q.PublishMenuScan(context.Background(), job); err != nil {
		t.Fatalf("PublishMenuScan() error = %v", err)
	}

	if job.JobID == "" {
		t.Error("Expected generated job ID")
	}
	if job.Status != jobs.JobStatusPending {
		t.Errorf("Status = %v, want pending", job.Status)
	}
	if job.MaxRetries != defaultMaxRetries {
		t.Errorf("MaxRetries = %d, want %d", job.MaxRetries, defaultMaxRetries)
	}

	saved, err := store.GetJob(context.Background(), job.JobID)
	if err != nil {
		t.Fatalf("GetJob() error = %v", err)
	}
	if saved.ScanID != "scan-1" {
		t.Errorf("Saved ScanID = %q", saved.ScanID)
	}
}

func TestQueue_ProcessesJobs(t *testing.T) {
	store := NewStore()
	q := NewQueue(10, 2, store)
	defer q.Close()

	var mu sync.Mutex
	processed := make(map[string]bool)
	done := make(chan struct{}, 3)

	handler := func(ctx context.Context, job jobs.Job) error {
		mu.Lock()
		processed[job.GetID()] = true
		mu.Unlock()
		done <- struct{}{}
		return nil
	}

	if err := q.Start(context.Background(), handler); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		job := &jobs.MenuScanJob{ScanID: "scan"}
		if err := q.PublishMenuScan(context.Background(), job); err != nil {
			t.Fatalf("PublishMenuScan() error = %v", err)
		}
	}

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("Timed out waiting for jobs")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(processed) != 3 {
		t.Errorf("Processed %d jobs, want 3", len(processed))
	}
}

func TestQueue_FailedJobRetries(t *testing.T) {
	store := NewStore()
	q := NewQueue(10, 1, store)
	defer q.Close()

	attempts := make(chan int, 8)
	var mu sync.Mutex
	count := 0

	handler := func(ctx context.Context, job jobs.Job) error {
		mu.Lock()
		count++
		n := count
		mu.Unlock()
		attempts <- n
		if n < 2 {
			return errors.New("transient failure")
		}
		return nil
	}

	if err := q.Start(context.Background(), handler); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	job := &jobs.MenuScanJob{ScanID: "scan-retry", MaxRetries: 2}
	if err := q.PublishMenuScan(context.Background(), job); err != nil {
		t.Fatalf("PublishMenuScan() error = %v", err)
	}

	// First attempt fails, retry after backoff succeeds.
	for i := 0; i < 2; i++ {
		select {
		case <-attempts:
		case <-time.After(5 * time.Second):
			t.Fatal("Timed out waiting for attempt")
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		saved, err := store.GetJob(context.Background(), job.JobID)
		if err == nil && saved.Status == jobs.JobStatusCompleted {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Error("Job never reached completed status after retry")
}

func TestPublishMenuScan_ClosedQueue(t *testing.T) {
	q := NewQueue(1, 1, nil)
	if err := q.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	err := q.PublishMenuScan(context.Background(), &jobs.MenuScanJob{ScanID: "x"})
	if err == nil {
		t.Error("Expected error publishing to closed queue")
	}
}
