package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// recordToCandidate converts one raw extraction object into a validated
// CandidateBeer. A non-nil error means the record as a whole is rejected
// (bad name, food item); invalid optional fields are nulled, not fatal.
func recordToCandidate(ctx context.Context, obj map[string]interface{}, classifier *StyleClassifier, vocab *StyleVocabulary) (CandidateBeer, error) {
	name := strings.TrimSpace(getString(obj, "name"))
	if err := ValidateName(name); err != nil {
		return CandidateBeer{}, err
	}

	c := CandidateBeer{
		Name:       name,
		Confidence: parseConfidence(getString(obj, "confidence")),
	}

	if v, ok := getNumber(obj, "abv"); ok {
		c.ABV = NormalizeABV(v)
	}
	if v, ok := getNumber(obj, "price"); ok {
		c.Price = NormalizePrice(v)
	}
	if v, ok := getNumber(obj, "size"); ok {
		c.Size = NormalizeSize(v)
	}

	// A rejected brewery falls through to name-based inference instead of
	// surfacing the model's placeholder.
	declaredBrewery := getString(obj, "brewery")
	if b := NormalizeBrewery(declaredBrewery); b != nil {
		c.Brewery = b
	} else if inferred := InferBrewery(name); inferred != nil {
		c.Brewery = inferred
	}

	brewery := ""
	if c.Brewery != nil {
		brewery = *c.Brewery
	}

	declaredType := getString(obj, "type")
	if vocab != nil {
		if canonical, ok := vocab.Canonical(ctx, declaredType); ok {
			c.Type = canonical
		}
	}
	if c.Type == "" {
		c.Type = classifier.Classify(ctx, name, brewery, declaredType)
	}

	return c, nil
}

// getString reads a string field from a generic JSON object, returning ""
// for missing, null or non-string values.
func getString(m map[string]interface{}, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

// getNumber reads a numeric field, tolerating models that quote numbers or
// append units ("5.6%", "16oz"). The boolean reports whether a usable number
// was present.
func getNumber(m map[string]interface{}, key string) (float64, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return 0, false
	}

	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case string:
		s := strings.TrimSpace(val)
		s = strings.TrimSuffix(s, "%")
		s = strings.TrimSuffix(strings.ToLower(s), "oz")
		s = strings.TrimPrefix(s, "$")
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// parseConfidence maps a model-reported confidence to the bounded enum,
// defaulting to medium for anything unrecognized.
func parseConfidence(s string) Confidence {
	switch Confidence(strings.ToLower(strings.TrimSpace(s))) {
	case ConfidenceHigh:
		return ConfidenceHigh
	case ConfidenceLow:
		return ConfidenceLow
	default:
		return ConfidenceMedium
	}
}

// sizeForABV infers a conventional serving size from strength: stronger
// beers pour smaller. The steps are fixed menu conventions.
func sizeForABV(abv float64) int {
	switch {
	case abv >= 10:
		return 8
	case abv >= 8:
		return 10
	case abv >= 6.5:
		return 12
	case abv >= 5.5:
		return 14
	default:
		return 16
	}
}

// describeRecord renders a short provenance trace for debug logging.
func describeRecord(obj map[string]interface{}) string {
	return fmt.Sprintf("name=%q brewery=%q abv=%v", getString(obj, "name"), getString(obj, "brewery"), obj["abv"])
}
