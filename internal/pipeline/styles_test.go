package pipeline

import (
	"context"
	"errors"
	"testing"

	infra "github.com/bmorrow/taplist/internal/infra/bigquery"
	"github.com/bmorrow/taplist/internal/logger"
)

type mockStyleRepo struct {
	rows  []infra.StyleRow
	err   error
	calls int
}

func (m *mockStyleRepo) ListBeerStyles(ctx context.Context) ([]infra.StyleRow, error) {
	m.calls++
	return m.rows, m.err
}

func TestStyleVocabulary_LoadsFromRepository(t *testing.T) {
	repo := &mockStyleRepo{rows: []infra.StyleRow{
		{StyleID: "1", Name: "IPA", IsActive: true},
		{StyleID: "2", Name: "Stout", IsActive: true},
	}}
	v := NewStyleVocabulary(repo, logger.New())

	styles := v.Styles(context.Background())
	if len(styles) != 2 {
		t.Fatalf("Styles() = %v, want 2 entries", styles)
	}

	// Second call must reuse the cache.
	v.Styles(context.Background())
	if repo.calls != 1 {
		t.Errorf("Repository called %d times, want 1", repo.calls)
	}
}

func TestStyleVocabulary_FallsBackOnError(t *testing.T) {
	repo := &mockStyleRepo{err: errors.New("bigquery unavailable")}
	v := NewStyleVocabulary(repo, logger.New())

	styles := v.Styles(context.Background())
	if len(styles) != len(defaultStyles) {
		t.Errorf("Styles() = %d entries, want default set of %d", len(styles), len(defaultStyles))
	}
}

func TestStyleVocabulary_FallsBackOnEmpty(t *testing.T) {
	repo := &mockStyleRepo{}
	v := NewStyleVocabulary(repo, logger.New())

	if got := v.Styles(context.Background()); len(got) != len(defaultStyles) {
		t.Errorf("Styles() = %d entries, want default set", len(got))
	}
}

func TestStyleVocabulary_NilRepository(t *testing.T) {
	v := NewStyleVocabulary(nil, logger.New())

	if got := v.Styles(context.Background()); len(got) != len(defaultStyles) {
		t.Errorf("Styles() = %d entries, want default set", len(got))
	}
}

func TestStyleVocabulary_Canonical(t *testing.T) {
	v := NewStyleVocabulary(nil, logger.New())
	ctx := context.Background()

	got, ok := v.Canonical(ctx, "hazy ipa")
	if !ok || got != "Hazy IPA" {
		t.Errorf("Canonical(hazy ipa) = (%q, %v), want (Hazy IPA, true)", got, ok)
	}

	if _, ok := v.Canonical(ctx, "not a style"); ok {
		t.Error("Canonical(not a style) = true, want false")
	}
	if _, ok := v.Canonical(ctx, ""); ok {
		t.Error("Canonical(\"\") = true, want false")
	}
}

func TestStyleVocabulary_Reload(t *testing.T) {
	repo := &mockStyleRepo{rows: []infra.StyleRow{{Name: "IPA"}}}
	v := NewStyleVocabulary(repo, logger.New())
	ctx := context.Background()

	if got := v.Styles(ctx); len(got) != 1 {
		t.Fatalf("Styles() = %v, want [IPA]", got)
	}

	repo.rows = []infra.StyleRow{{Name: "IPA"}, {Name: "Gose"}}
	if err := v.Reload(ctx); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if got := v.Styles(ctx); len(got) != 2 {
		t.Errorf("Styles() after Reload = %v, want 2 entries", got)
	}

	// Failed reload keeps the previous list.
	repo.err = errors.New("down")
	if err := v.Reload(ctx); err == nil {
		t.Error("Reload() expected error")
	}
	if got := v.Styles(ctx); len(got) != 2 {
		t.Errorf("Styles() after failed Reload = %v, want previous 2 entries", got)
	}
}

func TestClassify_DeclaredVocabularyWins(t *testing.T) {
	v := NewStyleVocabulary(nil, logger.New())
	c := NewStyleClassifier(v, "Pale Ale")

	// Declared type matches vocabulary even though the name screams IPA.
	got := c.Classify(context.Background(), "Hop Monster IPA", "", "stout")
	if got != "Stout" {
		t.Errorf("Classify() = %q, want Stout (declared type wins)", got)
	}
}

func TestClassify_KeywordRules(t *testing.T) {
	v := NewStyleVocabulary(nil, logger.New())
	c := NewStyleClassifier(v, "Pale Ale")
	ctx := context.Background()

	tests := []struct {
		name    string
		brewery string
		want    string
	}{
		{"Hazy Little Thing IPA", "", "Hazy IPA"},
		{"All Day Session IPA", "", "Session IPA"},
		{"Double Dry Hopped IPA", "", "Double IPA"},
		{"Snake Dog IPA", "", "IPA"},
		{"India Pale Ale", "", "IPA"},
		{"Dale's Pale Ale", "", "Pale Ale"},
		{"Bud Light", "Anheuser-Busch", "Lite"},
		{"Miller Lite", "", "Lite"},
		{"Mexican Lager", "", "Lager"},
		{"Guinness", "", "Stout"},
		{"Left Hand Milk Stout", "", "Milk Stout"},
		{"Smoked Porter", "", "Porter"},
		{"Blue Moon", "", "Witbier"},
		{"Oktoberfest", "", "Marzen"},
		{"Allagash Tripel Reserve", "", "Tripel"},
		{"Something Unrecognizable", "", "Pale Ale"},
	}

	for _, tt := range tests {
		if got := c.Classify(ctx, tt.name, tt.brewery, ""); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestClassify_NeverEmpty(t *testing.T) {
	c := NewStyleClassifier(NewStyleVocabulary(nil, logger.New()), "")
	if got := c.Classify(context.Background(), "", "", ""); got == "" {
		t.Error("Classify() returned empty string")
	}
}

func TestNewStyleClassifier_EmptyFallback(t *testing.T) {
	c := NewStyleClassifier(nil, "")
	if c.fallback != DefaultVisionFallbackStyle {
		t.Errorf("fallback = %q, want %q", c.fallback, DefaultVisionFallbackStyle)
	}
}
