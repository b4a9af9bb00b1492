// Package conflict detects opposing flag pairs on a subject and computes the
// severity-weighted dampening factor applied to aggregated effects.
package conflict

import (
	"math"

	"github.com/stablehand/temperament/internal/domain/flagdef"
	"github.com/stablehand/temperament/internal/domain/model"
)

// Resolution methods, from strongest to no dampening.
const (
	MethodDominantFlag        = "dominant_flag"
	MethodPartialCancellation = "partial_cancellation"
	MethodMinorReduction      = "minor_reduction"
	MethodNoneNeeded          = "none_needed"
)

// Default resolver configuration constants.
const (
	defaultSeverity = 0.5

	dominantCutoff = 0.8
	partialCutoff  = 0.5

	defaultDominantReduction = 0.50
	defaultPartialReduction  = 0.70
	defaultMinorReduction    = 0.85

	defaultPerConflictPenalty = 0.05
	defaultPenaltyCap         = 0.20
	defaultFloor              = 0.25
)

// Resolution describes the detected conflicts and the dampening to apply.
type Resolution struct {
	Conflicts []model.ConflictPair
	Method    string
	Dampening float64 // multiplier in (0,1]; 1.0 means no dampening
}

// pairKey is an unordered flag pair.
type pairKey struct {
	a, b string
}

func keyOf(a, b string) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// Resolver evaluates flag sets against the registry's conflict relation and
// a severity table keyed by unordered pair.
type Resolver struct {
	registry *flagdef.Registry
	severity map[pairKey]float64

	defaultSeverity    float64
	dominantReduction  float64
	partialReduction   float64
	minorReduction     float64
	perConflictPenalty float64
	penaltyCap         float64
	floor              float64
}

// NewResolver creates a resolver over the given registry. The built-in
// severity table covers the default flag set; options extend or override it.
func NewResolver(registry *flagdef.Registry, opts ...Option) *Resolver {
	r := &Resolver{
		registry:           registry,
		severity:           defaultSeverityTable(),
		defaultSeverity:    defaultSeverity,
		dominantReduction:  defaultDominantReduction,
		partialReduction:   defaultPartialReduction,
		minorReduction:     defaultMinorReduction,
		perConflictPenalty: defaultPerConflictPenalty,
		penaltyCap:         defaultPenaltyCap,
		floor:              defaultFloor,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// defaultSeverityTable lists the pairs whose opposition is stronger or
// weaker than the moderate default.
func defaultSeverityTable() map[pairKey]float64 {
	return map[pairKey]float64{
		keyOf("devoted", "withdrawn"):   0.85,
		keyOf("confident", "anxious"):   0.75,
		keyOf("gentle", "aggressive"):   0.80,
		keyOf("curious", "skittish"):    0.55,
		keyOf("resilient", "anxious"):   0.60,
		keyOf("devoted", "distrustful"): 0.65,
	}
}

// Resolve inspects every unordered pair in the union of current and proposed
// flags. The dampening factor is guaranteed to stay at or above the floor
// and to be strictly below 1.0 whenever any conflict is detected.
func (r *Resolver) Resolve(flags []string) Resolution {
	res := Resolution{Method: MethodNoneNeeded, Dampening: 1.0}

	maxSeverity := 0.0
	for i := 0; i < len(flags); i++ {
		for j := i + 1; j < len(flags); j++ {
			if !r.registry.Conflicts(flags[i], flags[j]) {
				continue
			}
			sev := r.pairSeverity(flags[i], flags[j])
			res.Conflicts = append(res.Conflicts, model.ConflictPair{
				FlagA:    flags[i],
				FlagB:    flags[j],
				Severity: sev,
			})
			maxSeverity = math.Max(maxSeverity, sev)
		}
	}

	if len(res.Conflicts) == 0 {
		return res
	}

	var base float64
	switch {
	case maxSeverity >= dominantCutoff:
		res.Method = MethodDominantFlag
		base = r.dominantReduction
	case maxSeverity >= partialCutoff:
		res.Method = MethodPartialCancellation
		base = r.partialReduction
	default:
		res.Method = MethodMinorReduction
		base = r.minorReduction
	}

	penalty := math.Min(r.penaltyCap, float64(len(res.Conflicts))*r.perConflictPenalty)
	res.Dampening = math.Max(r.floor, base-penalty)
	return res
}

// pairSeverity looks up the unordered pair, falling back to the moderate
// default for unlisted conflicts.
func (r *Resolver) pairSeverity(a, b string) float64 {
	if sev, ok := r.severity[keyOf(a, b)]; ok {
		return sev
	}
	return r.defaultSeverity
}
