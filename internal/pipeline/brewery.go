package pipeline

import "strings"

// breweryEntry maps a lowercase beer-name key to its brewery.
type breweryEntry struct {
	key     string
	brewery string
}

// knownBreweries is scanned top to bottom for substring matches, so more
// specific keys must come before shorter ones they contain ("bud light"
// before "bud", "firestone" before "stone"). Reordering entries changes
// inference results.
var knownBreweries = []breweryEntry{
	{"bud light", "Anheuser-Busch"},
	{"budweiser", "Anheuser-Busch"},
	{"michelob", "Anheuser-Busch"},
	{"natural light", "Anheuser-Busch"},
	{"busch", "Anheuser-Busch"},
	{"bud", "Anheuser-Busch"},
	{"coors light", "Molson Coors"},
	{"coors", "Molson Coors"},
	{"miller lite", "Molson Coors"},
	{"miller high life", "Molson Coors"},
	{"miller", "Molson Coors"},
	{"blue moon", "Blue Moon Brewing Co."},
	{"pabst", "Pabst Brewing Company"},
	{"pbr", "Pabst Brewing Company"},
	{"samuel adams", "Boston Beer Company"},
	{"sam adams", "Boston Beer Company"},
	{"sierra nevada", "Sierra Nevada Brewing Co."},
	{"goose island", "Goose Island Beer Co."},
	{"fat tire", "New Belgium Brewing"},
	{"new belgium", "New Belgium Brewing"},
	{"voodoo ranger", "New Belgium Brewing"},
	{"90 minute", "Dogfish Head Craft Brewery"},
	{"60 minute", "Dogfish Head Craft Brewery"},
	{"dogfish head", "Dogfish Head Craft Brewery"},
	{"dogfish", "Dogfish Head Craft Brewery"},
	{"two hearted", "Bell's Brewery"},
	{"bell's", "Bell's Brewery"},
	{"all day ipa", "Founders Brewing Co."},
	{"founders", "Founders Brewing Co."},
	{"lagunitas", "Lagunitas Brewing Company"},
	{"firestone", "Firestone Walker Brewing"},
	{"805", "Firestone Walker Brewing"},
	{"stone", "Stone Brewing"},
	{"curieux", "Allagash Brewing Company"},
	{"allagash", "Allagash Brewing Company"},
	{"fresh squeezed", "Deschutes Brewery"},
	{"deschutes", "Deschutes Brewery"},
	{"sculpin", "Ballast Point Brewing"},
	{"ballast point", "Ballast Point Brewing"},
	{"jai alai", "Cigar City Brewing"},
	{"cigar city", "Cigar City Brewing"},
	{"pliny", "Russian River Brewing"},
	{"russian river", "Russian River Brewing"},
	{"yuengling", "D.G. Yuengling & Son"},
	{"shiner", "Spoetzl Brewery"},
	{"guinness", "Guinness"},
	{"stella artois", "Stella Artois"},
	{"stella", "Stella Artois"},
	{"heineken", "Heineken"},
	{"corona", "Grupo Modelo"},
	{"modelo", "Grupo Modelo"},
	{"pacifico", "Grupo Modelo"},
	{"dos equis", "Cuauhtemoc Moctezuma"},
	{"hoegaarden", "Hoegaarden Brewery"},
	{"leffe", "Abbaye de Leffe"},
	{"chimay", "Chimay"},
	{"delirium", "Huyghe Brewery"},
	{"duvel", "Duvel Moortgat"},
	{"weihenstephan", "Weihenstephaner"},
	{"paulaner", "Paulaner Brauerei"},
	{"hofbrau", "Hofbrau Munchen"},
	{"sapporo", "Sapporo Breweries"},
	{"asahi", "Asahi Breweries"},
	{"kirin", "Kirin Brewery"},
	{"tsingtao", "Tsingtao Brewery"},
	{"peroni", "Peroni Brewery"},
}

// breweryByExactKey is derived from knownBreweries for the exact-match fast
// path. Built once at init; never mutated at runtime.
var breweryByExactKey = func() map[string]string {
	m := make(map[string]string, len(knownBreweries))
	for _, e := range knownBreweries {
		if _, ok := m[e.key]; !ok {
			m[e.key] = e.brewery
		}
	}
	return m
}()

// InferBrewery maps a beer name to its known brewery, or nil when the name
// matches nothing. Exact key match is tried first, then the first table entry
// whose key appears as a substring of the name.
func InferBrewery(name string) *string {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil
	}

	if b, ok := breweryByExactKey[key]; ok {
		return &b
	}

	for _, e := range knownBreweries {
		if strings.Contains(key, e.key) {
			b := e.brewery
			return &b
		}
	}

	return nil
}
