package pipeline

// Confidence is the coarse trust tag attached to a candidate. The review UI
// pre-checks only high/medium candidates for bulk add.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// CandidateBeer is one extracted, not-yet-persisted beer awaiting human
// review. Numeric fields are either inside their plausible range or nil;
// they are never zero, negative or guessed.
type CandidateBeer struct {
	Name        string   `json:"name"`
	Brewery     *string  `json:"brewery"`
	ABV         *float64 `json:"abv"`
	Price       *float64 `json:"price"`
	Size        *int     `json:"size"`
	Type        string   `json:"type"`
	Description *string  `json:"description,omitempty"`

	Confidence Confidence `json:"confidence"`

	// RawText traces which source line or extraction record produced this
	// candidate. Debugging aid only; never persisted.
	RawText string `json:"raw_text,omitempty"`
}

// BarContext carries the bar identity used for house-beer attribution.
type BarContext struct {
	BarID     string
	Name      string
	IsBrewery bool
}

// ScanOptions configures one menu scan.
type ScanOptions struct {
	// SingleBrewery tells the extractor that every beer on the menu comes
	// from one brewery (brewpub menus).
	SingleBrewery bool

	// HouseAttribution assigns every candidate to the bar's own brewery,
	// overriding whatever the extraction produced.
	HouseAttribution bool

	Bar *BarContext
}

// ResolveHouseAttribution decides whether house attribution runs for a scan:
// the caller must request it, and the bar must actually brew. The is_brewery
// flag is a precondition, never a trigger on its own.
func ResolveHouseAttribution(requested bool, bar *BarContext) bool {
	return requested && bar != nil && bar.IsBrewery
}

// ScanResult is the reviewable output of one menu scan. Candidates are never
// auto-committed; the caller edits and explicitly submits them.
type ScanResult struct {
	Candidates []CandidateBeer `json:"candidates"`

	// Message is set when no candidate survived filtering; it is the one
	// user-visible failure mode of the pipeline.
	Message string `json:"message,omitempty"`
}

// NoBeersFoundMessage is returned when extraction and filtering leave an
// empty candidate set.
const NoBeersFoundMessage = "could not find beer information in this photo - try a clearer shot of the menu"
