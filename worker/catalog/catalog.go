// Package catalog holds the reference data the agents draw on: curated
// niche profiles, per-source seed keywords, seasonality rules, and theme
// palettes keyed by niche vocabulary.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	yaml "gopkg.in/yaml.v2"
)

//go:embed catalog.yaml
var rawCatalog []byte

type Audience struct {
	Match     []string `yaml:"match"`
	AgeMin    int      `yaml:"age_min"`
	AgeMax    int      `yaml:"age_max"`
	Gender    string   `yaml:"gender"`
	Interests []string `yaml:"interests"`
}

// String renders the audience the way result pages display it.
func (a Audience) String() string {
	out := fmt.Sprintf("ages %d-%d, %s", a.AgeMin, a.AgeMax, a.Gender)
	if len(a.Interests) > 0 {
		out += ", interests: " + strings.Join(a.Interests, ", ")
	}
	return out
}

type NicheProfile struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords"`
	Audience    Audience `yaml:"audience"`
}

type Palette struct {
	Match          []string `yaml:"match"`
	PrimaryColor   string   `yaml:"primary_color"`
	SecondaryColor string   `yaml:"secondary_color"`
	FontHeading    string   `yaml:"font_heading"`
	FontBody       string   `yaml:"font_body"`
	LogoPosition   string   `yaml:"logo_position"`
	HeroLayout     string   `yaml:"hero_layout"`
	Sections       []string `yaml:"sections"`
}

type Catalog struct {
	Niches          []NicheProfile      `yaml:"niches"`
	NameTemplates   []string            `yaml:"name_templates"`
	SourceKeywords  map[string][]string `yaml:"source_keywords"`
	Seasons         map[string][]string `yaml:"seasons"`
	Channels        []string            `yaml:"channels"`
	Audiences       []Audience          `yaml:"audiences"`
	Palettes        []Palette           `yaml:"palettes"`
	DefaultPalette  Palette             `yaml:"default_palette"`
	DefaultAudience Audience            `yaml:"default_audience"`
}

func Load() (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(rawCatalog, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(c.Niches) == 0 {
		return nil, fmt.Errorf("catalog has no niche profiles")
	}
	return &c, nil
}

// MatchNiches returns the curated profiles whose keywords overlap the given
// keyword, in catalog order.
func (c *Catalog) MatchNiches(keyword string) []NicheProfile {
	keyword = strings.ToLower(keyword)
	var matches []NicheProfile
	for _, niche := range c.Niches {
		for _, kw := range niche.Keywords {
			kw = strings.ToLower(kw)
			if strings.Contains(kw, keyword) || strings.Contains(keyword, kw) {
				matches = append(matches, niche)
				break
			}
		}
	}
	return matches
}

// Seasonality classifies a keyword into a season, or "all-year" when no
// seasonal vocabulary matches.
func (c *Catalog) Seasonality(keyword string) string {
	keyword = strings.ToLower(keyword)
	for season, words := range c.Seasons {
		for _, w := range words {
			if strings.Contains(keyword, w) {
				return season
			}
		}
	}
	return "all-year"
}

// PaletteFor picks the theme palette whose vocabulary matches the niche
// name, falling back to the default palette.
func (c *Catalog) PaletteFor(niche string) Palette {
	niche = strings.ToLower(niche)
	for _, p := range c.Palettes {
		for _, w := range p.Match {
			if strings.Contains(niche, w) {
				return p
			}
		}
	}
	return c.DefaultPalette
}

// AudienceFor estimates target demographics from a keyword, falling back to
// the default audience with the keyword as the sole interest.
func (c *Catalog) AudienceFor(keyword string) Audience {
	lower := strings.ToLower(keyword)
	for _, a := range c.Audiences {
		for _, w := range a.Match {
			if strings.Contains(lower, w) {
				return a
			}
		}
	}
	fallback := c.DefaultAudience
	fallback.Interests = []string{keyword}
	return fallback
}

// SeedKeywords returns the seed keywords for a trend source, or nil for an
// unknown source.
func (c *Catalog) SeedKeywords(source string) []string {
	return c.SourceKeywords[strings.ToLower(source)]
}
