package pipeline

import (
	"regexp"

	"github.com/rs/zerolog"
)

// suspiciousABVs are round values the vision model reaches for when it
// invents strengths instead of reading them.
var suspiciousABVs = map[float64]bool{
	4.2: true, 5.0: true, 5.5: true, 6.0: true, 6.5: true, 7.0: true,
}

// genericNamePatterns match filler names a model produces when it cannot read
// the menu ("House IPA", "Tap 3", "Brewer's Special", "Local Lager").
var genericNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^house\s+\w+$`),
	regexp.MustCompile(`(?i)^tap\s+#?\d+$`),
	regexp.MustCompile(`(?i)^[\w']+\s+special$`),
	regexp.MustCompile(`(?i)^local\s+\w+$`),
}

// FilterHallucinations inspects a whole scan batch for systemic fabrication.
// The decision is batch-level: either the batch passes through unchanged, or
// every record has its secondary fields (brewery, price, size) stripped and
// its confidence capped at medium. Names, ABVs and types are preserved —
// when fabrication is suspected the model is still trusted on what it read,
// just not on what it filled in. Confidence is never raised here.
func FilterHallucinations(batch []CandidateBeer, log zerolog.Logger) []CandidateBeer {
	if len(batch) == 0 {
		return batch
	}

	reason := ""
	switch {
	case hasUniformABVs(batch):
		reason = "uniform abv across batch"
	case hasSuspiciouslyCommonABVs(batch):
		reason = "abv values clustered on common defaults"
	case hasMostlyGenericNames(batch):
		reason = "majority of names are generic placeholders"
	}
	if reason == "" {
		return batch
	}

	log.Warn().Int("count", len(batch)).Str("reason", reason).
		Msg("Hallucination suspected, stripping secondary fields")

	out := make([]CandidateBeer, len(batch))
	for i, c := range batch {
		c.Brewery = nil
		c.Price = nil
		c.Size = nil
		if c.Confidence == ConfidenceHigh {
			c.Confidence = ConfidenceMedium
		}
		out[i] = c
	}
	return out
}

// hasUniformABVs reports whether more than two records carry an ABV and all
// of them are numerically identical.
func hasUniformABVs(batch []CandidateBeer) bool {
	var first *float64
	count := 0
	for _, c := range batch {
		if c.ABV == nil {
			continue
		}
		count++
		if first == nil {
			first = c.ABV
		} else if *c.ABV != *first {
			return false
		}
	}
	return count > 2
}

// hasSuspiciouslyCommonABVs reports whether more than 80% of the non-nil
// ABVs fall in the fixed common-value set.
func hasSuspiciouslyCommonABVs(batch []CandidateBeer) bool {
	total, common := 0, 0
	for _, c := range batch {
		if c.ABV == nil {
			continue
		}
		total++
		if suspiciousABVs[*c.ABV] {
			common++
		}
	}
	if total == 0 {
		return false
	}
	return float64(common)/float64(total) > 0.8
}

// hasMostlyGenericNames reports whether more than half the names match a
// generic placeholder pattern.
func hasMostlyGenericNames(batch []CandidateBeer) bool {
	generic := 0
	for _, c := range batch {
		for _, re := range genericNamePatterns {
			if re.MatchString(c.Name) {
				generic++
				break
			}
		}
	}
	return float64(generic)/float64(len(batch)) > 0.5
}
