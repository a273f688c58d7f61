package pipeline

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// minMenuLineLen filters out OCR fragments too short to hold a name and a
// number.
const minMenuLineLen = 8

// sectionHeaders are menu headings, not beer entries. Compared against the
// uppercased line.
var sectionHeaders = []string{
	"DRAFT BEERS", "DRAFT LIST", "ON TAP", "BOTTLES", "BOTTLES & CANS",
	"CANS", "BEER LIST", "HAPPY HOUR", "MENU",
}

// menuPattern is one entry in the ordered pattern table. Group indices are
// per-pattern because the capture layouts differ; zero means the pattern has
// no such group.
type menuPattern struct {
	re         *regexp.Regexp
	confidence Confidence

	idxName   int
	idxDesc   int
	idxABV    int
	idxRegion int
	idxPrice  int
}

// menuLinePatterns is tried top to bottom and the first match wins — this is
// a precedence order, not best-match. The most informative layout (name,
// description, ABV, region, price) sits first so that a line matching it is
// never degraded to the bare name/ABV/price parse.
var menuLinePatterns = []menuPattern{
	{
		// ALLAGASH CURIEUX Bourbon barrel-aged tripel 10.2% Maine 12.
		re:         regexp.MustCompile(`^([A-Z][A-Z0-9&'. -]+?)\s+([A-Z]?[a-z][A-Za-z0-9'&,. -]*?)\s+(\d{1,2}(?:\.\d{1,2})?)%\s+([A-Z][a-z]+(?:\s[A-Z][a-z]+)?)\s+\$?(\d{1,3}(?:\.\d{1,2})?)\.?\s*$`),
		confidence: ConfidenceHigh,
		idxName:    1, idxDesc: 2, idxABV: 3, idxRegion: 4, idxPrice: 5,
	},
	{
		// HOPSLAM Double IPA with honey 10% $9.50
		re:         regexp.MustCompile(`^([A-Z][A-Z0-9&'. -]+?)\s+([A-Z]?[a-z][A-Za-z0-9'&,. -]*?)\s+(\d{1,2}(?:\.\d{1,2})?)%\s+\$?(\d{1,3}(?:\.\d{1,2})?)\.?\s*$`),
		confidence: ConfidenceHigh,
		idxName:    1, idxDesc: 2, idxABV: 3, idxPrice: 4,
	},
	{
		// Two Hearted Ale 7% Michigan $7
		re:         regexp.MustCompile(`^(.{2,60}?)\s+(\d{1,2}(?:\.\d{1,2})?)%\s+([A-Z][a-z]+(?:\s[A-Z][a-z]+)?)\s+\$?(\d{1,3}(?:\.\d{1,2})?)\.?\s*$`),
		confidence: ConfidenceMedium,
		idxName:    1, idxABV: 2, idxRegion: 3, idxPrice: 4,
	},
	{
		// BUD LIGHT 4.2% $6
		re:         regexp.MustCompile(`^(.{2,60}?)\s+(\d{1,2}(?:\.\d{1,2})?)%\s+\$?(\d{1,3}(?:\.\d{1,2})?)\.?\s*$`),
		confidence: ConfidenceLow,
		idxName:    1, idxABV: 2, idxPrice: 3,
	},
}

// parsedLine holds the capture groups of whichever pattern matched a line.
type parsedLine struct {
	name        string
	description string
	abv         string
	region      string
	price       string

	patternIndex int
	confidence   Confidence
}

// parseMenuLine runs the ordered pattern table over one line. The boolean
// reports whether any pattern matched.
func parseMenuLine(line string) (parsedLine, bool) {
	for i, p := range menuLinePatterns {
		m := p.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		pl := parsedLine{patternIndex: i, confidence: p.confidence}
		pl.name = strings.TrimSpace(strings.Trim(m[p.idxName], " ."))
		if p.idxDesc != 0 {
			pl.description = strings.TrimSpace(m[p.idxDesc])
		}
		pl.abv = m[p.idxABV]
		if p.idxRegion != 0 {
			pl.region = m[p.idxRegion]
		}
		pl.price = m[p.idxPrice]
		return pl, true
	}
	return parsedLine{}, false
}

// isSectionHeader reports whether the line is a menu heading.
func isSectionHeader(line string) bool {
	upper := strings.ToUpper(line)
	for _, h := range sectionHeaders {
		if strings.Contains(upper, h) {
			return true
		}
	}
	return false
}

// TextExtractor is the legacy regex path: raw OCR-style text in, candidates
// out. It exists alongside the vision client as an alternative strategy, not
// a fallback.
type TextExtractor struct {
	classifier *StyleClassifier
	log        zerolog.Logger
}

// NewTextExtractor creates the legacy parser. Its classifier falls back to
// "Ale" — the regex path sees less context than the vision model, so the
// broader default fits.
func NewTextExtractor(vocab *StyleVocabulary, log zerolog.Logger) *TextExtractor {
	return &TextExtractor{
		classifier: NewStyleClassifier(vocab, "Ale"),
		log:        log,
	}
}

// Extract implements Extractor over in.Text. Lines matching no pattern are
// dropped silently; a batch with zero matches is an empty result, not an
// error.
func (e *TextExtractor) Extract(ctx context.Context, in ScanInput) ([]CandidateBeer, error) {
	var out []CandidateBeer

	for _, raw := range strings.Split(in.Text, "\n") {
		line := strings.TrimSpace(raw)
		if len(line) < minMenuLineLen || isSectionHeader(line) {
			continue
		}

		pl, ok := parseMenuLine(line)
		if !ok {
			e.log.Debug().Str("line", line).Msg("Menu line matched no pattern")
			continue
		}

		c, ok := e.lineToCandidate(ctx, pl, line)
		if !ok {
			continue
		}
		out = append(out, c)
	}

	return out, nil
}

// lineToCandidate validates and derives the remaining fields for one parsed
// line: brewery by name inference, size from the ABV step function, type via
// the classifier over name+description.
func (e *TextExtractor) lineToCandidate(ctx context.Context, pl parsedLine, line string) (CandidateBeer, bool) {
	if err := ValidateName(pl.name); err != nil {
		e.log.Debug().Err(err).Str("line", line).Msg("Parsed line rejected")
		return CandidateBeer{}, false
	}

	c := CandidateBeer{
		Name:       pl.name,
		Confidence: pl.confidence,
		RawText:    line,
	}

	if v, err := strconv.ParseFloat(pl.abv, 64); err == nil {
		c.ABV = NormalizeABV(v)
	}
	if v, err := strconv.ParseFloat(pl.price, 64); err == nil {
		c.Price = NormalizePrice(v)
	}
	if c.ABV != nil {
		size := sizeForABV(*c.ABV)
		c.Size = &size
	}
	if pl.description != "" {
		d := pl.description
		c.Description = &d
	}

	c.Brewery = InferBrewery(pl.name)

	brewery := ""
	if c.Brewery != nil {
		brewery = *c.Brewery
	}
	c.Type = e.classifier.Classify(ctx, pl.name+" "+pl.description, brewery, "")

	return c, true
}
