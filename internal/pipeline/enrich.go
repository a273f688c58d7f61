package pipeline

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// BeerFacts is the result of one external lookup for a (name, brewery) pair.
// Every field is optional; absent fields stay nil/empty.
type BeerFacts struct {
	ABV  *float64
	Size *int
	Type string
}

// FactLookup queries an external source for a beer's missing fields.
// A (nil, nil) return means the source had no answer; errors are reserved
// for transport failures. Callers swallow both and leave fields unfilled.
type FactLookup interface {
	LookupBeer(ctx context.Context, name, brewery string) (*BeerFacts, error)
}

// Enricher fills gaps in validated candidates: house-beer attribution first,
// then one web lookup per candidate that still misses ABV or size. It never
// overrides a known field and never invents numeric values.
type Enricher struct {
	lookup     FactLookup
	classifier *StyleClassifier
	log        zerolog.Logger
}

// NewEnricher creates an enricher. A nil lookup disables the web-search
// step; house attribution and type resolution still run.
func NewEnricher(lookup FactLookup, vocab *StyleVocabulary, log zerolog.Logger) *Enricher {
	return &Enricher{
		lookup:     lookup,
		classifier: NewStyleClassifier(vocab, DefaultVisionFallbackStyle),
		log:        log,
	}
}

// EnrichBatch enriches all candidates. Lookups are independent per candidate
// and fan out concurrently; the returned slice preserves the input order.
func (e *Enricher) EnrichBatch(ctx context.Context, batch []CandidateBeer, opts ScanOptions) []CandidateBeer {
	out := make([]CandidateBeer, len(batch))

	var wg sync.WaitGroup
	for i, c := range batch {
		wg.Add(1)
		go func(i int, c CandidateBeer) {
			defer wg.Done()
			out[i] = e.enrichOne(ctx, c, opts)
		}(i, c)
	}
	wg.Wait()

	return out
}

func (e *Enricher) enrichOne(ctx context.Context, c CandidateBeer, opts ScanOptions) CandidateBeer {
	// House attribution beats whatever the extraction produced.
	if opts.HouseAttribution && opts.Bar != nil {
		brewery := opts.Bar.Name
		note := "House beer brewed at " + opts.Bar.Name
		c.Brewery = &brewery
		c.Description = &note
		c.Confidence = ConfidenceHigh
	}

	factsType := ""
	if e.lookup != nil && c.Brewery != nil && (c.ABV == nil || c.Size == nil) {
		facts, err := e.lookup.LookupBeer(ctx, c.Name, *c.Brewery)
		if err != nil {
			e.log.Debug().Err(err).Str("name", c.Name).Msg("Beer fact lookup failed")
		} else if facts != nil {
			filled := false
			if c.ABV == nil && facts.ABV != nil {
				if v := NormalizeABV(*facts.ABV); v != nil {
					c.ABV = v
					filled = true
				}
			}
			if c.Size == nil && facts.Size != nil {
				if v := NormalizeSize(float64(*facts.Size)); v != nil {
					c.Size = v
					filled = true
				}
			}
			factsType = facts.Type
			if filled {
				c.Confidence = ConfidenceHigh
			}
		}
	}

	if c.Type == "" {
		brewery := ""
		if c.Brewery != nil {
			brewery = *c.Brewery
		}
		// A type reported by the lookup feeds the classifier as the declared
		// hint, so a vocabulary style wins over keyword rules.
		c.Type = e.classifier.Classify(ctx, c.Name, brewery, factsType)
	}

	return c
}

// filterPlausible is the pipeline's last gate before results reach the
// caller: anything with a name that no longer passes identity checks, or
// with a numeric field that escaped normalization, is dropped.
func filterPlausible(batch []CandidateBeer) []CandidateBeer {
	out := make([]CandidateBeer, 0, len(batch))
	for _, c := range batch {
		if err := ValidateName(c.Name); err != nil {
			continue
		}
		if c.ABV != nil && NormalizeABV(*c.ABV) == nil {
			continue
		}
		if c.Price != nil && NormalizePrice(*c.Price) == nil {
			continue
		}
		out = append(out, c)
	}
	return out
}
