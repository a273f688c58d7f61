package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Scanner runs the in-memory portion of a menu scan: extraction, batch
// hallucination filtering, enrichment and the final plausibility pass. It
// has no storage or bookkeeping dependencies, which keeps it usable from the
// CLI and from tests.
type Scanner struct {
	extractor Extractor
	enricher  *Enricher
	log       zerolog.Logger
}

// NewScanner composes a scanner from an extraction strategy and an enricher.
func NewScanner(extractor Extractor, enricher *Enricher, log zerolog.Logger) *Scanner {
	return &Scanner{extractor: extractor, enricher: enricher, log: log}
}

// ProcessMenuPhoto runs the full pipeline over one photo. The result is
// always non-nil on a nil error; an empty candidate set carries the
// user-facing message instead of failing.
func (s *Scanner) ProcessMenuPhoto(ctx context.Context, image []byte, opts ScanOptions) (*ScanResult, error) {
	return s.process(ctx, ScanInput{Image: image, Options: opts})
}

// ProcessMenuText runs the pipeline over raw menu text via whatever
// extractor the scanner was built with (normally the legacy parser).
func (s *Scanner) ProcessMenuText(ctx context.Context, text string, opts ScanOptions) (*ScanResult, error) {
	return s.process(ctx, ScanInput{Text: text, Options: opts})
}

func (s *Scanner) process(ctx context.Context, in ScanInput) (*ScanResult, error) {
	extracted, err := s.extractor.Extract(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("scanner: extract: %w", err)
	}

	candidates := FilterHallucinations(extracted, s.log)
	candidates = s.enricher.EnrichBatch(ctx, candidates, in.Options)
	candidates = filterPlausible(candidates)

	result := &ScanResult{Candidates: candidates}
	if len(candidates) == 0 {
		result.Candidates = []CandidateBeer{}
		result.Message = NoBeersFoundMessage
	}

	s.log.Info().
		Int("extracted", len(extracted)).
		Int("survived", len(candidates)).
		Msg("Menu scan processed")

	return result, nil
}

// ScanStep is a single step in the worker-side scan pipeline.
type ScanStep interface {
	Execute(ctx context.Context, state *ScanState) error
}

// ScanState is the shared state threaded through the scan steps.
type ScanState struct {
	ScanID string
	GCSURI string
	RunID  string

	Options ScanOptions

	Image  []byte
	Result *ScanResult
}

// StartRunStep opens a scan-run row (status RUNNING).
type StartRunStep struct {
	Repo ScanRunRepository
}

func (s *StartRunStep) Execute(ctx context.Context, state *ScanState) error {
	runID, err := s.Repo.StartScanRun(ctx, state.ScanID)
	if err != nil {
		return err
	}
	state.RunID = runID
	return nil
}

// FetchPhotoStep pulls the menu photo bytes from storage.
type FetchPhotoStep struct {
	Store StorageService
	Repo  ScanRunRepository
}

func (s *FetchPhotoStep) Execute(ctx context.Context, state *ScanState) error {
	image, err := s.Store.FetchFromGCS(ctx, state.GCSURI)
	if err != nil {
		s.Repo.MarkScanRunFailed(ctx, state.RunID, err)
		return err
	}
	state.Image = image
	return nil
}

// ProcessStep runs the scanner over the fetched photo.
type ProcessStep struct {
	Scanner *Scanner
	Repo    ScanRunRepository
}

func (s *ProcessStep) Execute(ctx context.Context, state *ScanState) error {
	result, err := s.Scanner.ProcessMenuPhoto(ctx, state.Image, state.Options)
	if err != nil {
		s.Repo.MarkScanRunFailed(ctx, state.RunID, err)
		return err
	}
	state.Result = result
	return nil
}

// MarkRunDoneStep closes the scan-run row.
type MarkRunDoneStep struct {
	Repo ScanRunRepository
}

func (s *MarkRunDoneStep) Execute(ctx context.Context, state *ScanState) error {
	return s.Repo.MarkScanRunSucceeded(ctx, state.RunID)
}

// Pipeline executes scan steps in order, stopping at the first failure.
type Pipeline struct {
	steps []ScanStep
}

// NewPipeline creates a pipeline from explicit steps.
func NewPipeline(steps ...ScanStep) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps sequentially against the shared state.
func (p *Pipeline) Execute(ctx context.Context, state *ScanState) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("scan step %d failed: %w", i+1, err)
		}
	}
	return nil
}

// NewMenuScanPipeline wires the standard worker-side pipeline: run
// bookkeeping around fetch and processing.
func NewMenuScanPipeline(store StorageService, scanner *Scanner, repo ScanRunRepository) *Pipeline {
	return NewPipeline(
		&StartRunStep{Repo: repo},
		&FetchPhotoStep{Store: store, Repo: repo},
		&ProcessStep{Scanner: scanner, Repo: repo},
		&MarkRunDoneStep{Repo: repo},
	)
}

// ScanMenuFromGCS is the worker entry point: fetch one photo by URI, run the
// pipeline, record the run. The returned result is nil only when err is
// non-nil.
func ScanMenuFromGCS(ctx context.Context, scanID, gcsURI string, opts ScanOptions, store StorageService, scanner *Scanner, repo ScanRunRepository) (*ScanResult, error) {
	state := &ScanState{
		ScanID:  scanID,
		GCSURI:  gcsURI,
		Options: opts,
	}

	if err := NewMenuScanPipeline(store, scanner, repo).Execute(ctx, state); err != nil {
		return nil, err
	}
	return state.Result, nil
}
