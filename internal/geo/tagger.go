// Package geo tags free-text locations and coordinates with a country and,
// for India, a state. Matching is coarse and ordered: the first pattern or
// box that matches wins. It is meant for display aggregation, not geocoding.
package geo

import (
	"strings"

	"github.com/biter777/countries"
)

const (
	Unknown = "Unknown"
	Other   = "Other"
	India   = "India"
)

// Tagger resolves countries, Indian states and continents from a fixed set
// of Tables. It never mutates its tables and is safe for concurrent use.
type Tagger struct {
	countries        []Pattern
	countryBoxes     []Box
	indianStates     []Pattern
	indianStateBoxes []Box
	continents       map[string]string
}

func NewTagger(t Tables) *Tagger {
	tg := &Tagger{
		countries:        lowerPatterns(t.Countries),
		countryBoxes:     append([]Box(nil), t.CountryBoxes...),
		indianStates:     lowerPatterns(t.IndianStates),
		indianStateBoxes: append([]Box(nil), t.IndianStateBoxes...),
		continents:       make(map[string]string, len(t.Continents)),
	}
	for country, continent := range t.Continents {
		tg.continents[country] = continent
	}
	return tg
}

// ResolveCountry returns the first country whose patterns occur in text,
// "Other" when none do and "Unknown" for blank input.
func (t *Tagger) ResolveCountry(text string) string {
	return matchText(t.countries, text)
}

// ResolveCountryAt returns the first country box containing the point, or "Other".
func (t *Tagger) ResolveCountryAt(lat, lon float64) string {
	return matchBox(t.countryBoxes, lat, lon)
}

func (t *Tagger) ResolveIndianState(text string) string {
	return matchText(t.indianStates, text)
}

func (t *Tagger) ResolveIndianStateAt(lat, lon float64) string {
	return matchBox(t.indianStateBoxes, lat, lon)
}

// Continent maps a country name to its continent, "Other" when unmapped.
func (t *Tagger) Continent(country string) string {
	if c, ok := t.continents[country]; ok {
		return c
	}
	return Other
}

// Tag resolves country and state for a record. Text is tried first; the
// coordinates are only consulted when the text yields nothing. State is
// empty unless the country is India.
func (t *Tagger) Tag(text string, lat, lon *float64) (country, state string) {
	country = t.ResolveCountry(text)
	if (country == Other || country == Unknown) && lat != nil && lon != nil {
		country = t.ResolveCountryAt(*lat, *lon)
	}
	if country != India {
		return country, ""
	}

	state = t.ResolveIndianState(text)
	if (state == Other || state == Unknown) && lat != nil && lon != nil {
		if s := t.ResolveIndianStateAt(*lat, *lon); s != Other {
			state = s
		}
	}
	if state == Unknown {
		state = Other
	}
	return country, state
}

// TagPoint is Tag with the lookup order reversed: coordinates first, text
// only when the point falls outside every box.
func (t *Tagger) TagPoint(lat, lon float64, text string) (country, state string) {
	country = t.ResolveCountryAt(lat, lon)
	if country == Other {
		if c := t.ResolveCountry(text); c != Unknown {
			country = c
		}
	}
	if country != India {
		return country, ""
	}

	state = t.ResolveIndianStateAt(lat, lon)
	if state == Other {
		if s := t.ResolveIndianState(text); s != Unknown {
			state = s
		}
	}
	return country, state
}

// CanonicalCountry maps a provider's country name onto the short names the
// tables use. Names the tables already know are returned as is; otherwise
// ISO detection handles long forms such as "United States of America".
func (t *Tagger) CanonicalCountry(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return Unknown
	}
	if _, ok := t.continents[name]; ok {
		return name
	}
	for _, p := range t.countries {
		if strings.EqualFold(p.Name, name) {
			return p.Name
		}
	}

	switch code := countries.ByName(name); code {
	case countries.Unknown:
		return name
	case countries.US:
		return "USA"
	case countries.GB:
		return "UK"
	default:
		for _, p := range t.countries {
			if countries.ByName(p.Name) == code {
				return p.Name
			}
		}
		return name
	}
}

func lowerPatterns(in []Pattern) []Pattern {
	out := make([]Pattern, len(in))
	for i, p := range in {
		lowered := make([]string, len(p.Contains))
		for j, s := range p.Contains {
			lowered[j] = strings.ToLower(s)
		}
		out[i] = Pattern{Name: p.Name, Contains: lowered}
	}
	return out
}

func matchText(patterns []Pattern, text string) string {
	if strings.TrimSpace(text) == "" {
		return Unknown
	}
	lower := strings.ToLower(text)
	for _, p := range patterns {
		for _, s := range p.Contains {
			if strings.Contains(lower, s) {
				return p.Name
			}
		}
	}
	return Other
}

func matchBox(boxes []Box, lat, lon float64) string {
	for _, b := range boxes {
		if b.Contains(lat, lon) {
			return b.Name
		}
	}
	return Other
}
