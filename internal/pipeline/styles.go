package pipeline

import (
	"context"
	"strings"
	"sync"

	infra "github.com/bmorrow/taplist/internal/infra/bigquery"
	"github.com/rs/zerolog"
)

// StyleRepository is the minimal catalog read used to populate the style
// vocabulary. The full repository lives in infra; this narrow interface keeps
// the pipeline mockable.
type StyleRepository interface {
	ListBeerStyles(ctx context.Context) ([]infra.StyleRow, error)
}

// defaultStyles is the hardcoded vocabulary used when the catalog is
// unreachable. It covers every style the classifier rules can emit.
var defaultStyles = []string{
	"IPA", "Hazy IPA", "Session IPA", "Double IPA",
	"Pale Ale", "Lite", "Lager", "Pilsner",
	"Stout", "Milk Stout", "Imperial Stout", "Oatmeal Stout", "Porter",
	"Witbier", "Wheat", "Hefeweizen",
	"Sour", "Gose", "Saison",
	"Amber Ale", "Red Ale", "Brown Ale", "Blonde Ale", "Kolsch",
	"Belgian Ale", "Tripel", "Dubbel", "Quadrupel",
	"Barleywine", "ESB", "Marzen", "Bock", "Cider", "Ale",
}

// StyleVocabulary caches the canonical list of style strings. It is loaded
// from the catalog at most once per process unless Reload is called; load
// failure falls back to defaultStyles. Safe for concurrent use.
type StyleVocabulary struct {
	repo StyleRepository
	log  zerolog.Logger

	once sync.Once
	mu   sync.RWMutex

	styles  []string
	byLower map[string]string
}

// NewStyleVocabulary creates a vocabulary backed by the given repository.
// A nil repository is allowed and yields the default style set.
func NewStyleVocabulary(repo StyleRepository, log zerolog.Logger) *StyleVocabulary {
	return &StyleVocabulary{repo: repo, log: log}
}

// Styles returns the canonical style list, loading it on first use.
func (v *StyleVocabulary) Styles(ctx context.Context) []string {
	v.ensureLoaded(ctx)

	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]string, len(v.styles))
	copy(out, v.styles)
	return out
}

// Canonical returns the vocabulary entry matching the declared style
// case-insensitively, and whether one was found. The canonical spelling is
// returned verbatim, not the caller's.
func (v *StyleVocabulary) Canonical(ctx context.Context, declared string) (string, bool) {
	declared = strings.TrimSpace(declared)
	if declared == "" {
		return "", false
	}

	v.ensureLoaded(ctx)

	v.mu.RLock()
	defer v.mu.RUnlock()
	s, ok := v.byLower[strings.ToLower(declared)]
	return s, ok
}

// Reload refetches the vocabulary from the catalog, replacing the cache. The
// previous list stays in place on error.
func (v *StyleVocabulary) Reload(ctx context.Context) error {
	v.ensureLoaded(ctx)

	styles, err := v.load(ctx)
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.install(styles)
	v.mu.Unlock()
	return nil
}

func (v *StyleVocabulary) ensureLoaded(ctx context.Context) {
	v.once.Do(func() {
		styles, err := v.load(ctx)
		if err != nil {
			v.log.Warn().Err(err).Msg("Loading beer styles failed, using default vocabulary")
			styles = defaultStyles
		}

		v.mu.Lock()
		v.install(styles)
		v.mu.Unlock()
	})
}

// install replaces the cached list. Caller holds v.mu.
func (v *StyleVocabulary) install(styles []string) {
	v.styles = styles
	v.byLower = make(map[string]string, len(styles))
	for _, s := range styles {
		v.byLower[strings.ToLower(s)] = s
	}
}

func (v *StyleVocabulary) load(ctx context.Context) ([]string, error) {
	if v.repo == nil {
		return defaultStyles, nil
	}

	rows, err := v.repo.ListBeerStyles(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return defaultStyles, nil
	}

	styles := make([]string, 0, len(rows))
	for _, r := range rows {
		if name := strings.TrimSpace(r.Name); name != "" {
			styles = append(styles, name)
		}
	}
	if len(styles) == 0 {
		return defaultStyles, nil
	}
	return styles, nil
}

// styleRule maps a keyword combination to a style. All keywords must appear
// in the search text for the rule to fire.
type styleRule struct {
	keywords []string
	style    string
}

// styleRules is evaluated top to bottom and the first match wins. Specific
// combinations sit above their generic keyword ("hazy ipa" above "ipa",
// "guinness" above "stout"); swapping two rules changes classification
// results.
var styleRules = []styleRule{
	{[]string{"guinness"}, "Stout"},
	{[]string{"blue moon"}, "Witbier"},
	{[]string{"hefeweizen"}, "Hefeweizen"},
	{[]string{"hazy", "ipa"}, "Hazy IPA"},
	{[]string{"new england", "ipa"}, "Hazy IPA"},
	{[]string{"neipa"}, "Hazy IPA"},
	{[]string{"session", "ipa"}, "Session IPA"},
	{[]string{"double", "ipa"}, "Double IPA"},
	{[]string{"imperial", "ipa"}, "Double IPA"},
	{[]string{"dipa"}, "Double IPA"},
	{[]string{"milk", "stout"}, "Milk Stout"},
	{[]string{"nitro", "stout"}, "Milk Stout"},
	{[]string{"imperial", "stout"}, "Imperial Stout"},
	{[]string{"oatmeal", "stout"}, "Oatmeal Stout"},
	{[]string{"ipa"}, "IPA"},
	{[]string{"india pale"}, "IPA"},
	{[]string{"pale ale"}, "Pale Ale"},
	{[]string{"pilsner"}, "Pilsner"},
	{[]string{"pils"}, "Pilsner"},
	{[]string{"light"}, "Lite"},
	{[]string{"lite"}, "Lite"},
	{[]string{"lager"}, "Lager"},
	{[]string{"stout"}, "Stout"},
	{[]string{"porter"}, "Porter"},
	{[]string{"witbier"}, "Witbier"},
	{[]string{"white ale"}, "Witbier"},
	{[]string{"belgian white"}, "Witbier"},
	{[]string{"wheat"}, "Wheat"},
	{[]string{"gose"}, "Gose"},
	{[]string{"berliner"}, "Sour"},
	{[]string{"sour"}, "Sour"},
	{[]string{"saison"}, "Saison"},
	{[]string{"farmhouse"}, "Saison"},
	{[]string{"amber"}, "Amber Ale"},
	{[]string{"irish red"}, "Red Ale"},
	{[]string{"red ale"}, "Red Ale"},
	{[]string{"brown ale"}, "Brown Ale"},
	{[]string{"blonde"}, "Blonde Ale"},
	{[]string{"golden"}, "Blonde Ale"},
	{[]string{"kolsch"}, "Kolsch"},
	{[]string{"tripel"}, "Tripel"},
	{[]string{"dubbel"}, "Dubbel"},
	{[]string{"quad"}, "Quadrupel"},
	{[]string{"belgian"}, "Belgian Ale"},
	{[]string{"barleywine"}, "Barleywine"},
	{[]string{"oktoberfest"}, "Marzen"},
	{[]string{"marzen"}, "Marzen"},
	{[]string{"bock"}, "Bock"},
	{[]string{"esb"}, "ESB"},
	{[]string{"bitter"}, "ESB"},
	{[]string{"cider"}, "Cider"},
}

// StyleClassifier maps free text to exactly one canonical style string.
type StyleClassifier struct {
	vocab    *StyleVocabulary
	fallback string
}

// NewStyleClassifier creates a classifier that falls back to the given style
// when no rule matches. Fallback must be non-empty; Classify never returns
// an empty string.
func NewStyleClassifier(vocab *StyleVocabulary, fallback string) *StyleClassifier {
	if fallback == "" {
		fallback = "Pale Ale"
	}
	return &StyleClassifier{vocab: vocab, fallback: fallback}
}

// Classify returns the canonical style for the given beer. A declared type
// matching the vocabulary wins outright; otherwise the keyword rules run over
// the combined name+brewery+type text, first match wins.
func (c *StyleClassifier) Classify(ctx context.Context, name, brewery, declared string) string {
	if c.vocab != nil {
		if s, ok := c.vocab.Canonical(ctx, declared); ok {
			return s
		}
	}

	search := strings.ToLower(strings.TrimSpace(name + " " + brewery + " " + declared))
	for _, rule := range styleRules {
		matched := true
		for _, kw := range rule.keywords {
			if !strings.Contains(search, kw) {
				matched = false
				break
			}
		}
		if matched {
			return rule.style
		}
	}

	return c.fallback
}
