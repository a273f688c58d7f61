package pipeline

import (
	"testing"

	"github.com/bmorrow/taplist/internal/logger"
)

func candidate(name string, abv *float64, conf Confidence) CandidateBeer {
	brewery := "Some Brewery"
	price := 7.0
	size := 16
	return CandidateBeer{
		Name:       name,
		Brewery:    &brewery,
		ABV:        abv,
		Price:      &price,
		Size:       &size,
		Type:       "IPA",
		Confidence: conf,
	}
}

func TestFilterHallucinations_UniformABVs(t *testing.T) {
	batch := []CandidateBeer{
		candidate("First Beer", floatPtr(5.2), ConfidenceHigh),
		candidate("Second Beer", floatPtr(5.2), ConfidenceHigh),
		candidate("Third Beer", floatPtr(5.2), ConfidenceLow),
	}

	got := FilterHallucinations(batch, logger.New())

	for i, c := range got {
		if c.Brewery != nil || c.Price != nil || c.Size != nil {
			t.Errorf("candidate[%d] kept secondary fields: %+v", i, c)
		}
		if c.ABV == nil || *c.ABV != 5.2 {
			t.Errorf("candidate[%d] ABV = %v, want preserved 5.2", i, c.ABV)
		}
		if c.Name == "" || c.Type == "" {
			t.Errorf("candidate[%d] lost name/type", i)
		}
	}

	if got[0].Confidence != ConfidenceMedium {
		t.Errorf("high confidence = %v, want downgraded to medium", got[0].Confidence)
	}
	if got[2].Confidence != ConfidenceLow {
		t.Errorf("low confidence = %v, want unchanged low", got[2].Confidence)
	}
}

func TestFilterHallucinations_TwoIdenticalABVsPass(t *testing.T) {
	// Uniformity needs more than two readings to be suspicious.
	batch := []CandidateBeer{
		candidate("First Beer", floatPtr(5.2), ConfidenceHigh),
		candidate("Second Beer", floatPtr(5.2), ConfidenceHigh),
	}

	got := FilterHallucinations(batch, logger.New())
	if got[0].Brewery == nil {
		t.Error("Batch of two identical ABVs was stripped")
	}
}

func TestFilterHallucinations_CommonABVCluster(t *testing.T) {
	// Five of five readings on the suspicious set (>80%).
	batch := []CandidateBeer{
		candidate("Alpha Ale", floatPtr(4.2), ConfidenceHigh),
		candidate("Beta Brew", floatPtr(5.0), ConfidenceHigh),
		candidate("Gamma Gose", floatPtr(5.5), ConfidenceHigh),
		candidate("Delta Dunkel", floatPtr(6.5), ConfidenceHigh),
		candidate("Epsilon ESB", floatPtr(7.0), ConfidenceHigh),
	}

	got := FilterHallucinations(batch, logger.New())
	if got[0].Brewery != nil {
		t.Error("Common-ABV cluster was not stripped")
	}
}

func TestFilterHallucinations_MixedABVsPass(t *testing.T) {
	// Two suspicious out of five is 40%, under the threshold.
	batch := []CandidateBeer{
		candidate("Alpha Ale", floatPtr(4.2), ConfidenceHigh),
		candidate("Beta Brew", floatPtr(5.0), ConfidenceHigh),
		candidate("Gamma Gose", floatPtr(4.7), ConfidenceHigh),
		candidate("Delta Dunkel", floatPtr(6.8), ConfidenceHigh),
		candidate("Epsilon ESB", floatPtr(9.1), ConfidenceHigh),
	}

	got := FilterHallucinations(batch, logger.New())
	if got[0].Brewery == nil {
		t.Error("Varied batch was stripped")
	}
}

func TestFilterHallucinations_GenericNames(t *testing.T) {
	batch := []CandidateBeer{
		candidate("House IPA", floatPtr(6.0), ConfidenceHigh),
		candidate("Tap 3", floatPtr(4.8), ConfidenceHigh),
		candidate("Brewer's Special", floatPtr(7.7), ConfidenceHigh),
		candidate("Two Hearted Ale", floatPtr(7.0), ConfidenceHigh),
	}

	got := FilterHallucinations(batch, logger.New())
	if got[0].Brewery != nil {
		t.Error("Mostly-generic batch was not stripped")
	}
}

func TestFilterHallucinations_MinorityGenericNamesPass(t *testing.T) {
	batch := []CandidateBeer{
		candidate("House IPA", floatPtr(6.1), ConfidenceHigh),
		candidate("Two Hearted Ale", floatPtr(7.0), ConfidenceHigh),
		candidate("Curieux", floatPtr(11.0), ConfidenceHigh),
	}

	got := FilterHallucinations(batch, logger.New())
	if got[0].Brewery == nil {
		t.Error("Minority-generic batch was stripped")
	}
}

func TestFilterHallucinations_EmptyBatch(t *testing.T) {
	if got := FilterHallucinations(nil, logger.New()); len(got) != 0 {
		t.Errorf("FilterHallucinations(nil) = %v, want empty", got)
	}
}

func TestFilterHallucinations_NilABVsIgnored(t *testing.T) {
	// Records without ABV don't count toward uniformity.
	batch := []CandidateBeer{
		candidate("Alpha Ale", nil, ConfidenceHigh),
		candidate("Beta Brew", nil, ConfidenceHigh),
		candidate("Gamma Gose", floatPtr(6.8), ConfidenceHigh),
	}

	got := FilterHallucinations(batch, logger.New())
	if got[0].Brewery == nil {
		t.Error("Batch with mostly nil ABVs was stripped")
	}
}
