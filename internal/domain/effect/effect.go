// Package effect aggregates the behavioral modifiers of a subject's active
// flags into a single effect bundle. Bundles are built fresh on every call
// and never cached across flag-set changes.
package effect

import (
	"time"

	"github.com/stablehand/temperament/internal/domain/conflict"
	"github.com/stablehand/temperament/internal/domain/flagdef"
	"github.com/stablehand/temperament/internal/domain/model"
)

// Bundle is the aggregated modifier set consumed by downstream systems.
// Using the model type keeps layers consistent.
type Bundle = model.EffectBundle

// Default aggregator configuration constants.
const (
	// Small fixed additive contributions applied per flag by valence,
	// alongside the flag-specific effects.
	defaultValenceStress   = 0.5
	defaultValenceBonding  = 0.5
	defaultValenceTraining = 0.5
)

// Aggregator builds effect bundles from a registry and a conflict resolver.
type Aggregator struct {
	registry *flagdef.Registry
	resolver *conflict.Resolver

	valenceStress   float64
	valenceBonding  float64
	valenceTraining float64
}

// NewAggregator creates an aggregator over the given registry and resolver.
func NewAggregator(registry *flagdef.Registry, resolver *conflict.Resolver, opts ...Option) *Aggregator {
	a := &Aggregator{
		registry:        registry,
		resolver:        resolver,
		valenceStress:   defaultValenceStress,
		valenceBonding:  defaultValenceBonding,
		valenceTraining: defaultValenceTraining,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Build computes a fresh bundle for the subject's current flag set. Flags
// with no registry definition are skipped and returned in unknown so the
// caller can log them; they never abort the build.
func (a *Aggregator) Build(subject model.Subject, now time.Time) (model.EffectBundle, []string) {
	b := model.EffectBundle{
		SubjectID:      subject.ID,
		Competition:    make(map[string]float64),
		BreedingTraits: make(map[string]float64),
		ActiveFlags:    append([]string(nil), subject.Flags...),
		ComputedAt:     now,
	}

	var unknown []string
	for _, name := range subject.Flags {
		def, ok := a.registry.Lookup(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		a.accumulate(&b, def)
	}

	res := a.resolver.Resolve(subject.Flags)
	b.Conflicts = res.Conflicts
	b.ResolutionMethod = res.Method
	b.Dampening = res.Dampening
	if len(res.Conflicts) > 0 {
		dampen(&b, res.Dampening)
	}

	return b, unknown
}

// accumulate adds one flag's contributions plus its valence bonus.
func (a *Aggregator) accumulate(b *model.EffectBundle, def flagdef.Definition) {
	for discipline, v := range def.Effects.Competition {
		b.Competition[discipline] += v
	}
	for trait, v := range def.Effects.BreedingTraits {
		b.BreedingTraits[trait] += v
	}
	b.StressModifier += def.Effects.StressModifier
	b.BondingModifier += def.Effects.BondingModifier
	b.TrainingModifier += def.Effects.TrainingModifier
	b.AdaptabilityModifier += def.Effects.AdaptabilityModifier

	if def.Valence == flagdef.Positive {
		b.StressModifier -= a.valenceStress
		b.BondingModifier += a.valenceBonding
		b.TrainingModifier += a.valenceTraining
	} else {
		b.StressModifier += a.valenceStress
		b.BondingModifier -= a.valenceBonding
		b.TrainingModifier -= a.valenceTraining
	}
}

// dampen scales every accumulated numeric field by the dampening factor.
func dampen(b *model.EffectBundle, factor float64) {
	for k, v := range b.Competition {
		b.Competition[k] = v * factor
	}
	for k, v := range b.BreedingTraits {
		b.BreedingTraits[k] = v * factor
	}
	b.StressModifier *= factor
	b.BondingModifier *= factor
	b.TrainingModifier *= factor
	b.AdaptabilityModifier *= factor
}
