package pipeline

import "testing"

func TestNormalizeABV(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  *float64
	}{
		{"typical ipa", 6.8, floatPtr(6.8)},
		{"session strength", 4.2, floatPtr(4.2)},
		{"barrel aged", 11.5, floatPtr(11.5)},
		{"zero", 0, nil},
		{"negative", -5, nil},
		{"lower bound is exclusive", 0.5, nil},
		{"just above lower bound", 0.6, floatPtr(0.6)},
		{"upper bound is exclusive", 20, nil},
		{"just below upper bound", 19.9, floatPtr(19.9)},
		{"absurd", 99, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeABV(tt.input)
			if !floatPtrEqual(got, tt.want) {
				t.Errorf("NormalizeABV(%v) = %v, want %v", tt.input, deref(got), deref(tt.want))
			}
		})
	}
}

func TestNormalizePrice(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  *float64
	}{
		{"typical", 7.5, floatPtr(7.5)},
		{"lower bound inclusive", 1, floatPtr(1)},
		{"upper bound inclusive", 50, floatPtr(50)},
		{"below", 0.5, nil},
		{"zero", 0, nil},
		{"above", 51, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePrice(tt.input)
			if !floatPtrEqual(got, tt.want) {
				t.Errorf("NormalizePrice(%v) = %v, want %v", tt.input, deref(got), deref(tt.want))
			}
		})
	}
}

func TestNormalizeSize(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  *int
	}{
		{"pint", 16, intPtr(16)},
		{"snifter", 8, intPtr(8)},
		{"lower bound inclusive", 4, intPtr(4)},
		{"upper bound inclusive", 64, intPtr(64)},
		{"too small", 2, nil},
		{"too large", 100, nil},
		{"fractional rejected not rounded", 12.5, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeSize(tt.input)
			if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
				t.Errorf("NormalizeSize(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeBrewery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string // "" means nil expected
	}{
		{"real brewery", "Allagash Brewing Company", "Allagash Brewing Company"},
		{"trims whitespace", "  Founders  ", "Founders"},
		{"placeholder unknown", "Unknown Brewery", ""},
		{"placeholder taphouse", "Tap House", ""},
		{"placeholder local", "local", ""},
		{"placeholder case insensitive", "BREWING COMPANY", ""},
		{"too short", "A", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeBrewery(tt.input)
			if tt.want == "" {
				if got != nil {
					t.Errorf("NormalizeBrewery(%q) = %q, want nil", tt.input, *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Errorf("NormalizeBrewery(%q) = %v, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"real beer", "Two Hearted Ale", false},
		{"short but valid", "90", false},
		{"too short", "X", true},
		{"too long", "This Beer Name Is Way Too Long To Be A Real Menu Entry At All", true},
		{"generic tap", "Tap", true},
		{"generic draft", "draft", true},
		{"food pizza", "Margherita Pizza", true},
		{"food wings", "Buffalo Wings", true},
		{"food embedded", "Loaded Nachos Supreme", true},
		{"chicken sandwich", "Crispy Chicken Sandwich", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestSizeForABV(t *testing.T) {
	tests := []struct {
		abv  float64
		want int
	}{
		{11.0, 8},
		{10.0, 8},
		{9.0, 10},
		{8.0, 10},
		{7.0, 12},
		{6.5, 12},
		{6.0, 14},
		{5.5, 14},
		{5.0, 16},
		{4.2, 16},
	}

	for _, tt := range tests {
		if got := sizeForABV(tt.abv); got != tt.want {
			t.Errorf("sizeForABV(%v) = %d, want %d", tt.abv, got, tt.want)
		}
	}
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func floatPtrEqual(a, b *float64) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

func deref(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
