package pipeline

import (
	"fmt"
	"math"
	"strings"
)

// Plausibility bounds for extracted fields. Anything outside these ranges is
// treated as an extraction artifact and nulled, never clamped.
const (
	minABV = 0.5
	maxABV = 20.0

	minPrice = 1.0
	maxPrice = 50.0

	minSize = 4
	maxSize = 64

	minNameLen = 2
	maxNameLen = 50
)

// breweryDenylist rejects placeholder brewery names the vision model likes to
// invent when the menu doesn't name one. Matched case-insensitively, exact.
var breweryDenylist = map[string]bool{
	"unknown":          true,
	"unknown brewery":  true,
	"n/a":              true,
	"none":             true,
	"brewery":          true,
	"local brewery":    true,
	"house brewery":    true,
	"craft brewery":    true,
	"tap house":        true,
	"taphouse":         true,
	"brewing company":  true,
	"brewing co":       true,
	"various":          true,
	"assorted":         true,
	"imported":         true,
	"domestic":         true,
	"microbrewery":     true,
	"local":            true,
	"craft":            true,
	"brewery unknown":  true,
	"not specified":    true,
	"see menu":         true,
}

// genericNameDenylist rejects single-word names too generic to be a real
// beer entry.
var genericNameDenylist = map[string]bool{
	"beer":     true,
	"beers":    true,
	"tap":      true,
	"taps":     true,
	"draft":    true,
	"drafts":   true,
	"draught":  true,
	"bottle":   true,
	"bottles":  true,
	"can":      true,
	"cans":     true,
	"special":  true,
	"specials": true,
	"seasonal": true,
	"rotating": true,
	"pitcher":  true,
	"tbd":      true,
	"unknown":  true,
}

// foodKeywords guard against the vision model reading a food section as a
// beer list. A name containing any of these is dropped outright.
var foodKeywords = []string{
	"pizza", "burger", "wings", "fries", "nachos", "salad", "sandwich",
	"taco", "quesadilla", "appetizer", "dessert", "soup", "wrap",
	"tenders", "pretzel", "calamari", "hummus", "sliders", "mozzarella",
	"chicken", "shrimp", "cheese curds", "onion rings", "poutine",
}

// NormalizeABV returns the value if it is a plausible ABV percentage,
// otherwise nil. The bounds are exclusive: 0.5% is a near-beer placeholder
// and 20% is beyond any draft pour.
func NormalizeABV(v float64) *float64 {
	if math.IsNaN(v) || v <= minABV || v >= maxABV {
		return nil
	}
	return &v
}

// NormalizePrice returns the value if it is a plausible menu price,
// otherwise nil.
func NormalizePrice(v float64) *float64 {
	if math.IsNaN(v) || v < minPrice || v > maxPrice {
		return nil
	}
	return &v
}

// NormalizeSize returns the serving size as an integer if it is plausible,
// otherwise nil. Fractional sizes are extraction noise and rejected rather
// than rounded.
func NormalizeSize(v float64) *int {
	if math.IsNaN(v) || v != math.Trunc(v) {
		return nil
	}
	n := int(v)
	if n < minSize || n > maxSize {
		return nil
	}
	return &n
}

// NormalizeBrewery returns a cleaned brewery name, or nil when the value is
// empty, out of bounds or a known placeholder. Callers fall through to
// InferBrewery on nil rather than persisting the rejection.
func NormalizeBrewery(s string) *string {
	s = strings.TrimSpace(s)
	if len(s) < minNameLen || len(s) > maxNameLen {
		return nil
	}
	if breweryDenylist[strings.ToLower(s)] {
		return nil
	}
	return &s
}

// ValidateName decides whether an extracted name can identify a real beer.
// A non-nil error carries the rejection reason for debug logging.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) < minNameLen {
		return fmt.Errorf("name too short: %q", name)
	}
	if len(name) > maxNameLen {
		return fmt.Errorf("name too long: %q", name)
	}
	lower := strings.ToLower(name)
	if genericNameDenylist[lower] {
		return fmt.Errorf("generic name: %q", name)
	}
	for _, kw := range foodKeywords {
		if strings.Contains(lower, kw) {
			return fmt.Errorf("food item, not a beer: %q", name)
		}
	}
	return nil
}
