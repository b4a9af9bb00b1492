// Package assignment selects which triggered flags may actually be applied
// to a subject. It is a pure decision function: it enforces the cardinality
// cap, permanence, and conflict exclusion, and leaves persistence to the
// caller.
package assignment

import (
	"github.com/stablehand/temperament/internal/domain/flagdef"
	"github.com/stablehand/temperament/internal/domain/model"
	"github.com/stablehand/temperament/internal/domain/trigger"
)

// SkipReason explains why a flag was not assigned in this pass.
type SkipReason string

// Skip reasons, in evaluation order.
const (
	SkipAlreadyAssigned SkipReason = "already_assigned"
	SkipCardinalityCap  SkipReason = "cardinality_cap"
	SkipConflict        SkipReason = "conflict"
	SkipNotTriggered    SkipReason = "not_triggered"
)

// Eligible is a flag cleared for assignment, with its trigger evidence.
type Eligible struct {
	Flag    string
	Verdict trigger.Verdict
}

// Skipped records a flag that could not be assigned and why.
type Skipped struct {
	Flag   string
	Reason SkipReason
}

// Decision is the full outcome of one assignment pass.
type Decision struct {
	Eligible []Eligible
	Skipped  []Skipped
}

// NewFlags returns just the eligible flag names, in assignment order.
func (d Decision) NewFlags() []string {
	out := make([]string, len(d.Eligible))
	for i, e := range d.Eligible {
		out[i] = e.Flag
	}
	return out
}

// Engine applies the assignment rules against a registry.
type Engine struct {
	registry *flagdef.Registry
	maxFlags int
}

// NewEngine creates an assignment engine over the given registry.
func NewEngine(registry *flagdef.Registry, opts ...Option) *Engine {
	e := &Engine{
		registry: registry,
		maxFlags: model.MaxFlags,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Decide walks the registry in definition order and selects the flags that
// may be appended to the subject. Flags selected earlier in the same pass
// count toward the cap and the conflict check, so the resulting set never
// violates either invariant.
func (e *Engine) Decide(subject model.Subject, verdicts map[string]trigger.Verdict) Decision {
	var d Decision

	held := make(map[string]struct{}, len(subject.Flags))
	for _, f := range subject.Flags {
		held[f] = struct{}{}
	}
	count := len(subject.Flags)

	for _, def := range e.registry.Definitions() {
		if _, ok := held[def.Name]; ok {
			d.Skipped = append(d.Skipped, Skipped{Flag: def.Name, Reason: SkipAlreadyAssigned})
			continue
		}
		if count >= e.maxFlags {
			d.Skipped = append(d.Skipped, Skipped{Flag: def.Name, Reason: SkipCardinalityCap})
			continue
		}
		if e.conflictsWithHeld(def, held) {
			d.Skipped = append(d.Skipped, Skipped{Flag: def.Name, Reason: SkipConflict})
			continue
		}
		v, ok := verdicts[def.Name]
		if !ok || !v.Triggered {
			d.Skipped = append(d.Skipped, Skipped{Flag: def.Name, Reason: SkipNotTriggered})
			continue
		}

		d.Eligible = append(d.Eligible, Eligible{Flag: def.Name, Verdict: v})
		held[def.Name] = struct{}{}
		count++
	}

	return d
}

// conflictsWithHeld checks the definition's conflict set against every flag
// the subject holds or has been granted earlier in this pass.
func (e *Engine) conflictsWithHeld(def flagdef.Definition, held map[string]struct{}) bool {
	for _, other := range def.ConflictsWith {
		if _, ok := held[other]; ok {
			return true
		}
	}
	return false
}
