package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fortsentinel/dispatch/internal/domain/classify"
	"github.com/fortsentinel/dispatch/internal/domain/route"
)

// Taxonomy and persona tables are loaded from YAML lists: order in the file
// is the declaration order used for deterministic tie-breaking, which is why
// these go through yaml.v3 sequences rather than koanf maps.

type taxonomyFile struct {
	Tags []struct {
		Name     string   `yaml:"name"`
		Keywords []string `yaml:"keywords"`
		Weight   float64  `yaml:"weight"`
	} `yaml:"tags"`
}

type personaFile struct {
	Personas []struct {
		Voice      string             `yaml:"voice"`
		Affinities map[string]float64 `yaml:"affinities"`
		Default    bool               `yaml:"default"`
	} `yaml:"personas"`
}

// LoadTaxonomy reads and validates the tag taxonomy. An empty path selects
// the built-in table. Any malformation is fatal at load, never at first use.
func LoadTaxonomy(path string) (*classify.Taxonomy, error) {
	if path == "" {
		return DefaultTaxonomy(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read taxonomy: %v", ErrLoadConfig, err)
	}
	var f taxonomyFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: parse taxonomy: %v", ErrLoadConfig, err)
	}
	tags := make([]classify.Tag, len(f.Tags))
	for i, t := range f.Tags {
		w := t.Weight
		if w == 0 {
			w = 1.0
		}
		tags[i] = classify.Tag{Name: t.Name, Keywords: t.Keywords, Weight: w}
	}
	tax, err := classify.NewTaxonomy(tags)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return tax, nil
}

// LoadRoster reads and validates the persona table. An empty path selects
// the built-in roster.
func LoadRoster(path string) (*route.Roster, error) {
	if path == "" {
		return route.DefaultRoster(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read personas: %v", ErrLoadConfig, err)
	}
	var f personaFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: parse personas: %v", ErrLoadConfig, err)
	}
	personas := make([]route.Persona, len(f.Personas))
	for i, p := range f.Personas {
		personas[i] = route.Persona{
			Voice:      route.Voice(p.Voice),
			Affinities: p.Affinities,
			Default:    p.Default,
		}
	}
	roster, err := route.NewRoster(personas)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return roster, nil
}

// DefaultTaxonomy returns the built-in tag table distilled from the Fort
// Sentinel rule set.
func DefaultTaxonomy() *classify.Taxonomy {
	tax, err := classify.NewTaxonomy([]classify.Tag{
		{Name: "eliteFallout", Keywords: []string{"elite", "wealth", "power", "corruption", "fraud"}, Weight: 1.0},
		{Name: "DOJwatch", Keywords: []string{"court", "trial", "justice", "doj", "indictment", "prosecutor"}, Weight: 1.0},
		{Name: "SurvivorWitness", Keywords: []string{"victim", "survivor", "testimony", "witness"}, Weight: 1.0},
		{Name: "SystemicCollapse", Keywords: []string{"collapse", "crisis", "failure", "breakdown"}, Weight: 1.0},
		{Name: "PowerShift", Keywords: []string{"election", "resignation", "coup", "takeover"}, Weight: 1.0},
		{Name: "InstitutionalDecay", Keywords: []string{"scandal", "cover-up", "misconduct", "corrupt"}, Weight: 1.0},
		{Name: "MarketVolatility", Keywords: []string{"market", "stocks", "crash", "inflation", "selloff"}, Weight: 1.0},
		{Name: "TruthEmerging", Keywords: []string{"revealed", "exposed", "leaked", "uncovered", "investigation"}, Weight: 1.0},
	})
	if err != nil {
		// The built-in table is static; a failure here is a programming error.
		panic(err)
	}
	return tax
}
