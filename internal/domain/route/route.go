// Package route maps classified tag scores to exactly one narration voice.
package route

import (
	"context"
	"fmt"
	"strings"

	"github.com/fortsentinel/dispatch/internal/domain/model"
	"github.com/fortsentinel/dispatch/pkg/metrics"
)

// Routing defaults. Affinity is summed over the top-K tags only; totals
// under the threshold fall through to the default persona.
const (
	defaultThreshold = 0.5
	defaultTopK      = 3

	// rosterSize is a hard precondition: the voice set is closed at four.
	rosterSize = 4
)

// Persona is one narration persona with its tag affinities.
type Persona struct {
	Voice      Voice
	Affinities map[string]float64
	Default    bool
}

// Roster is the validated, ordered persona table. Declaration order doubles
// as the tie-break priority.
type Roster struct {
	personas     []Persona
	defaultVoice Voice
}

// NewRoster validates and freezes a persona table: exactly four personas,
// all voices distinct and valid, exactly one marked default.
func NewRoster(personas []Persona) (*Roster, error) {
	if len(personas) != rosterSize {
		return nil, fmt.Errorf("%w: got %d personas, want %d", ErrInvalidRoster, len(personas), rosterSize)
	}
	seen := make(map[Voice]bool, rosterSize)
	var def Voice
	for _, p := range personas {
		if !p.Voice.Valid() {
			return nil, fmt.Errorf("%w: unknown voice %q", ErrInvalidRoster, p.Voice)
		}
		if seen[p.Voice] {
			return nil, fmt.Errorf("%w: duplicate voice %q", ErrInvalidRoster, p.Voice)
		}
		seen[p.Voice] = true
		if p.Default {
			if def != "" {
				return nil, fmt.Errorf("%w: multiple default personas", ErrInvalidRoster)
			}
			def = p.Voice
		}
	}
	if def == "" {
		return nil, fmt.Errorf("%w: no default persona", ErrInvalidRoster)
	}
	out := make([]Persona, len(personas))
	copy(out, personas)
	return &Roster{personas: out, defaultVoice: def}, nil
}

// DefaultVoice returns the fallback persona's voice.
func (r *Roster) DefaultVoice() Voice { return r.defaultVoice }

// Personas returns the persona table in priority order.
func (r *Roster) Personas() []Persona {
	out := make([]Persona, len(r.personas))
	copy(out, r.personas)
	return out
}

// DefaultRoster returns the built-in persona table used when no persona file
// is configured. TruthKeeper is the fallback.
func DefaultRoster() *Roster {
	roster, err := NewRoster([]Persona{
		{
			Voice: VoiceRedWitness,
			Affinities: map[string]float64{
				"DOJwatch":     1.0,
				"eliteFallout": 0.9,
				"PowerShift":   0.6,
			},
		},
		{
			Voice: VoiceStillnessScribe,
			Affinities: map[string]float64{
				"InstitutionalDecay": 0.9,
				"SystemicCollapse":   0.8,
				"TruthEmerging":      0.5,
			},
		},
		{
			Voice:   VoiceTruthKeeper,
			Default: true,
			Affinities: map[string]float64{
				"TruthEmerging":    0.8,
				"MarketVolatility": 0.7,
			},
		},
		{
			Voice: VoiceSurvivorVoice,
			Affinities: map[string]float64{
				"SurvivorWitness": 1.0,
			},
		},
	})
	if err != nil {
		// The built-in table is static; a failure here is a programming error.
		panic(err)
	}
	return roster
}

// Router selects a voice for a sequence of tag scores.
type Router struct {
	roster    *Roster
	threshold float64
	topK      int
}

// NewRouter creates a router over a validated roster.
func NewRouter(roster *Roster, opts ...Option) *Router {
	r := &Router{
		roster:    roster,
		threshold: defaultThreshold,
		topK:      defaultTopK,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route returns the voice with the highest affinity total over the top-K tag
// scores. Ties resolve to the earlier persona in the roster; totals below
// the threshold resolve to the default persona. The return value is always a
// member of the closed voice set.
func (r *Router) Route(ctx context.Context, scores []model.TagScore) Voice {
	top := scores
	if len(top) > r.topK {
		top = top[:r.topK]
	}

	best := r.roster.defaultVoice
	bestTotal := -1.0
	for _, p := range r.roster.personas {
		var total float64
		for _, ts := range top {
			total += ts.Score * p.Affinities[ts.TagName]
		}
		// Strict greater keeps roster declaration order on ties.
		if total > bestTotal {
			best = p.Voice
			bestTotal = total
		}
	}

	if bestTotal < r.threshold {
		best = r.roster.defaultVoice
	}
	metrics.RecordVoiceRouted(best.String())
	return best
}

// DescribeTags renders a tag list for logs and reports.
func DescribeTags(scores []model.TagScore) string {
	names := make([]string, len(scores))
	for i, s := range scores {
		names[i] = s.TagName
	}
	return strings.Join(names, ",")
}
