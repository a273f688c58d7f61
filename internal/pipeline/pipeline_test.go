package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/bmorrow/taplist/internal/logger"
)

type mockExtractor struct {
	candidates []CandidateBeer
	err        error
}

func (m *mockExtractor) Extract(ctx context.Context, in ScanInput) ([]CandidateBeer, error) {
	return m.candidates, m.err
}

func newTestScanner(extractor Extractor) *Scanner {
	return NewScanner(extractor, newTestEnricher(nil), logger.New())
}

func TestScanner_ProcessMenuPhoto(t *testing.T) {
	bells := "Bell's Brewery"
	extractor := &mockExtractor{candidates: []CandidateBeer{
		{Name: "Two Hearted Ale", Brewery: &bells, ABV: floatPtr(7.0), Type: "IPA", Confidence: ConfidenceHigh},
		{Name: "Curieux", ABV: floatPtr(11.0), Type: "Tripel", Confidence: ConfidenceHigh},
		{Name: "Buffalo Wings", ABV: floatPtr(12.0), Type: "Ale", Confidence: ConfidenceHigh},
	}}

	got, err := newTestScanner(extractor).ProcessMenuPhoto(context.Background(), []byte("jpeg"), ScanOptions{})
	if err != nil {
		t.Fatalf("ProcessMenuPhoto() error = %v", err)
	}

	// The food line is gone, the beers survive in order.
	if len(got.Candidates) != 2 {
		t.Fatalf("Candidates = %+v, want 2", got.Candidates)
	}
	if got.Candidates[0].Name != "Two Hearted Ale" || got.Candidates[1].Name != "Curieux" {
		t.Errorf("Candidates out of order: %+v", got.Candidates)
	}
	if got.Message != "" {
		t.Errorf("Message = %q, want empty on success", got.Message)
	}
}

func TestScanner_EmptyExtractionYieldsMessage(t *testing.T) {
	got, err := newTestScanner(&mockExtractor{}).ProcessMenuPhoto(context.Background(), []byte("jpeg"), ScanOptions{})
	if err != nil {
		t.Fatalf("ProcessMenuPhoto() error = %v", err)
	}

	if got.Candidates == nil || len(got.Candidates) != 0 {
		t.Errorf("Candidates = %v, want empty non-nil slice", got.Candidates)
	}
	if got.Message != NoBeersFoundMessage {
		t.Errorf("Message = %q, want %q", got.Message, NoBeersFoundMessage)
	}
}

func TestScanner_AllCandidatesFilteredYieldsMessage(t *testing.T) {
	extractor := &mockExtractor{candidates: []CandidateBeer{
		{Name: "Loaded Nachos", Type: "Ale", Confidence: ConfidenceHigh},
	}}

	got, err := newTestScanner(extractor).ProcessMenuPhoto(context.Background(), []byte("jpeg"), ScanOptions{})
	if err != nil {
		t.Fatalf("ProcessMenuPhoto() error = %v", err)
	}
	if len(got.Candidates) != 0 || got.Message != NoBeersFoundMessage {
		t.Errorf("got %+v, want empty set with message", got)
	}
}

func TestScanner_ExtractorErrorPropagates(t *testing.T) {
	boom := errors.New("model unavailable")
	_, err := newTestScanner(&mockExtractor{err: boom}).ProcessMenuPhoto(context.Background(), []byte("jpeg"), ScanOptions{})
	if err == nil || !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped model error", err)
	}
	if !strings.Contains(err.Error(), "extract") {
		t.Errorf("error = %v, want extract context", err)
	}
}

func TestScanner_ProcessMenuText(t *testing.T) {
	e := NewTextExtractor(NewStyleVocabulary(nil, logger.New()), logger.New())
	s := NewScanner(e, newTestEnricher(nil), logger.New())

	got, err := s.ProcessMenuText(context.Background(), "Two Hearted Ale 7% Michigan $7", ScanOptions{})
	if err != nil {
		t.Fatalf("ProcessMenuText() error = %v", err)
	}
	if len(got.Candidates) != 1 || got.Candidates[0].Name != "Two Hearted Ale" {
		t.Errorf("Candidates = %+v, want Two Hearted Ale", got.Candidates)
	}
}

type mockStorage struct {
	image []byte
	err   error
	uris  []string
}

func (m *mockStorage) FetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error) {
	m.uris = append(m.uris, gcsURI)
	if m.err != nil {
		return nil, m.err
	}
	return m.image, nil
}

type mockRunRepo struct {
	mu        sync.Mutex
	runID     string
	startErr  error
	failedID  string
	failedErr error
	doneID    string
}

func (m *mockRunRepo) StartScanRun(ctx context.Context, scanID string) (string, error) {
	if m.startErr != nil {
		return "", m.startErr
	}
	return m.runID, nil
}

func (m *mockRunRepo) MarkScanRunFailed(ctx context.Context, runID string, scanErr error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failedID = runID
	m.failedErr = scanErr
}

func (m *mockRunRepo) MarkScanRunSucceeded(ctx context.Context, runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doneID = runID
	return nil
}

func TestScanMenuFromGCS_Success(t *testing.T) {
	bells := "Bell's Brewery"
	store := &mockStorage{image: []byte("jpeg")}
	repo := &mockRunRepo{runID: "run-1"}
	scanner := newTestScanner(&mockExtractor{candidates: []CandidateBeer{
		{Name: "Two Hearted Ale", Brewery: &bells, ABV: floatPtr(7.0), Type: "IPA", Confidence: ConfidenceHigh},
	}})

	got, err := ScanMenuFromGCS(context.Background(), "scan-1", "gs://bucket/scans/scan-1/a.jpg", ScanOptions{}, store, scanner, repo)
	if err != nil {
		t.Fatalf("ScanMenuFromGCS() error = %v", err)
	}
	if len(got.Candidates) != 1 {
		t.Errorf("Candidates = %+v, want 1", got.Candidates)
	}
	if len(store.uris) != 1 || store.uris[0] != "gs://bucket/scans/scan-1/a.jpg" {
		t.Errorf("Fetched URIs = %v", store.uris)
	}
	if repo.doneID != "run-1" {
		t.Errorf("doneID = %q, want run-1", repo.doneID)
	}
	if repo.failedID != "" {
		t.Errorf("failedID = %q, want no failure recorded", repo.failedID)
	}
}

func TestScanMenuFromGCS_FetchFailureMarksRun(t *testing.T) {
	store := &mockStorage{err: errors.New("object not found")}
	repo := &mockRunRepo{runID: "run-2"}
	scanner := newTestScanner(&mockExtractor{})

	_, err := ScanMenuFromGCS(context.Background(), "scan-2", "gs://bucket/missing.jpg", ScanOptions{}, store, scanner, repo)
	if err == nil {
		t.Fatal("ScanMenuFromGCS() expected error")
	}
	if repo.failedID != "run-2" || repo.failedErr == nil {
		t.Errorf("failure not recorded: id=%q err=%v", repo.failedID, repo.failedErr)
	}
	if repo.doneID != "" {
		t.Errorf("doneID = %q, want run left open as failed", repo.doneID)
	}
}

func TestScanMenuFromGCS_ProcessFailureMarksRun(t *testing.T) {
	store := &mockStorage{image: []byte("jpeg")}
	repo := &mockRunRepo{runID: "run-3"}
	scanner := newTestScanner(&mockExtractor{err: errors.New("model unavailable")})

	_, err := ScanMenuFromGCS(context.Background(), "scan-3", "gs://bucket/a.jpg", ScanOptions{}, store, scanner, repo)
	if err == nil {
		t.Fatal("ScanMenuFromGCS() expected error")
	}
	if repo.failedID != "run-3" {
		t.Errorf("failedID = %q, want run-3", repo.failedID)
	}
}

func TestScanMenuFromGCS_StartRunFailureStopsEarly(t *testing.T) {
	store := &mockStorage{image: []byte("jpeg")}
	repo := &mockRunRepo{startErr: errors.New("bigquery unavailable")}
	scanner := newTestScanner(&mockExtractor{})

	_, err := ScanMenuFromGCS(context.Background(), "scan-4", "gs://bucket/a.jpg", ScanOptions{}, store, scanner, repo)
	if err == nil {
		t.Fatal("ScanMenuFromGCS() expected error")
	}
	if len(store.uris) != 0 {
		t.Errorf("Fetch ran after run bookkeeping failed: %v", store.uris)
	}
}
