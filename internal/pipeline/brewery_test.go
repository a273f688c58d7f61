package pipeline

import "testing"

func TestInferBrewery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string // "" means nil expected
	}{
		{"exact match", "guinness", "Guinness"},
		{"case insensitive", "GUINNESS", "Guinness"},
		{"substring match", "Guinness Draught Nitro", "Guinness"},
		{"flagship implies brewery", "Two Hearted", "Bell's Brewery"},
		{"curieux maps to allagash", "Allagash Curieux", "Allagash Brewing Company"},
		{"unknown name", "Some Obscure Farmhouse Ale", ""},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferBrewery(tt.input)
			if tt.want == "" {
				if got != nil {
					t.Errorf("InferBrewery(%q) = %q, want nil", tt.input, *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Errorf("InferBrewery(%q) = %v, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// The table is ordered most-specific-first; these pairs break if entries are
// reordered. The last two guard keys that are substrings of other keys
// ("stone" inside "firestone").
func TestInferBrewery_SpecificKeysWin(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Bud Light", "Anheuser-Busch"},
		{"Bud Light Platinum", "Anheuser-Busch"},
		{"Coors Light", "Molson Coors"},
		{"Stella Artois", "Stella Artois"},
		{"Miller Lite", "Molson Coors"},
		{"Firestone Walker DBA", "Firestone Walker Brewing"},
		{"805 Blonde Ale", "Firestone Walker Brewing"},
		{"Stone Delicious IPA", "Stone Brewing"},
	}

	for _, tt := range tests {
		got := InferBrewery(tt.input)
		if got == nil || *got != tt.want {
			t.Errorf("InferBrewery(%q) = %v, want %q", tt.input, got, tt.want)
		}
	}
}

func TestInferBrewery_ExactKeyTableConsistency(t *testing.T) {
	// Every table entry must resolve to its own brewery via the exact path.
	for _, e := range knownBreweries {
		got := InferBrewery(e.key)
		if got == nil {
			t.Errorf("InferBrewery(%q) = nil, want %q", e.key, e.brewery)
			continue
		}
		if *got != e.brewery {
			// Duplicate keys keep the first entry; flag real mismatches only.
			if first, ok := breweryByExactKey[e.key]; !ok || *got != first {
				t.Errorf("InferBrewery(%q) = %q, want %q", e.key, *got, e.brewery)
			}
		}
	}
}
