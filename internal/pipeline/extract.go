package pipeline

import "context"

// ScanInput is the raw material for one extraction. Image feeds the vision
// path; Text feeds the legacy parser. Exactly one is expected to be set.
type ScanInput struct {
	Image []byte
	Text  string

	Options ScanOptions
}

// Extractor turns one menu capture into individually validated candidates.
// The vision client and the legacy text parser are interchangeable
// implementations; neither composes with the other. Implementations absorb
// their own extraction failures and degrade to an empty slice — a returned
// error signals an infrastructure problem, not "no beers found".
type Extractor interface {
	Extract(ctx context.Context, in ScanInput) ([]CandidateBeer, error)
}
