// Package flagdef holds the behavioral flag definition registry. The
// registry is built once at startup, is immutable afterwards, and is passed
// into the pipeline explicitly rather than living as a module-level singleton.
package flagdef

import (
	"fmt"
	"strings"
)

// Valence categorizes a flag as positive or negative.
type Valence string

// Flag valences.
const (
	Positive Valence = "positive"
	Negative Valence = "negative"
)

// Effects is a flag's contribution to the aggregated effect bundle.
type Effects struct {
	Competition          map[string]float64 `koanf:"competition"`     // per-discipline bonus/penalty
	StressModifier       float64            `koanf:"stress_modifier"` // negative reduces stress
	BondingModifier      float64            `koanf:"bonding_modifier"`
	TrainingModifier     float64            `koanf:"training_modifier"`
	AdaptabilityModifier float64            `koanf:"adaptability_modifier"`
	BreedingTraits       map[string]float64 `koanf:"breeding_traits"` // trait-probability deltas
}

// Definition describes one behavioral flag.
type Definition struct {
	Name          string   `koanf:"name"`
	Valence       Valence  `koanf:"valence"`
	ConflictsWith []string `koanf:"conflicts_with"`
	Effects       Effects  `koanf:"effects"`
}

// Registry is the immutable set of flag definitions in declaration order.
type Registry struct {
	defs   []Definition
	byName map[string]int
}

// NewRegistry validates definitions and builds a registry. Conflict sets are
// normalized to be symmetric: if A lists B, B is treated as listing A.
func NewRegistry(defs []Definition) (*Registry, error) {
	r := &Registry{
		defs:   make([]Definition, len(defs)),
		byName: make(map[string]int, len(defs)),
	}
	copy(r.defs, defs)

	for i, d := range r.defs {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: definition %d has no name", ErrInvalidDefinition, i)
		}
		if d.Valence != Positive && d.Valence != Negative {
			return nil, fmt.Errorf("%w: flag %q has valence %q", ErrInvalidDefinition, name, d.Valence)
		}
		if _, dup := r.byName[name]; dup {
			return nil, fmt.Errorf("%w: flag %q", ErrDuplicateDefinition, name)
		}
		r.defs[i].Name = name
		r.byName[name] = i
	}

	// Validate conflict references and make conflict sets symmetric.
	for _, d := range r.defs {
		for _, other := range d.ConflictsWith {
			j, ok := r.byName[other]
			if !ok {
				return nil, fmt.Errorf("%w: flag %q conflicts with unknown flag %q", ErrUnknownConflict, d.Name, other)
			}
			if !contains(r.defs[j].ConflictsWith, d.Name) {
				r.defs[j].ConflictsWith = append(r.defs[j].ConflictsWith, d.Name)
			}
		}
	}

	return r, nil
}

// Definitions returns the definitions in declaration order. The slice is a
// copy; callers cannot mutate the registry through it.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Lookup returns the definition for a flag name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Definition{}, false
	}
	return r.defs[i], true
}

// Conflicts reports whether two flags appear in each other's conflict set.
func (r *Registry) Conflicts(a, b string) bool {
	if a == b {
		return false
	}
	da, ok := r.Lookup(a)
	if !ok {
		return false
	}
	return contains(da.ConflictsWith, b)
}

// Len returns the number of registered flags.
func (r *Registry) Len() int {
	return len(r.defs)
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
