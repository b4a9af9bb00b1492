// Package trigger evaluates flag trigger predicates against pattern metrics
// and subject state. Predicates are registered per flag name; flags without a
// specialized rule fall back to a generic valence-driven predicate.
package trigger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stablehand/temperament/internal/domain/flagdef"
	"github.com/stablehand/temperament/internal/domain/model"
	"github.com/stablehand/temperament/internal/domain/threshold"
)

// Context bundles everything a predicate may inspect.
type Context struct {
	Subject   model.Subject
	AgeDays   int
	Metrics   model.PatternMetrics
	Threshold threshold.Result
}

// Verdict is the outcome of evaluating one flag's predicate.
type Verdict struct {
	Flag       string
	Triggered  bool
	Reason     string
	Conditions map[string]bool // named sub-condition results, for explainability
}

// Predicate decides whether a flag's trigger conditions are met.
type Predicate func(ctx Context) Verdict

// Evaluator dispatches flag names to predicates.
type Evaluator struct {
	predicates map[string]Predicate
	minEvents  int
}

// NewEvaluator creates an evaluator preloaded with the built-in predicates.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{
		predicates: make(map[string]Predicate),
		minEvents:  defaultMinEvents,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.registerBuiltins()

	return e
}

// Evaluate runs the predicate for one flag definition.
func (e *Evaluator) Evaluate(def flagdef.Definition, ctx Context) Verdict {
	if p, ok := e.predicates[def.Name]; ok {
		v := p(ctx)
		v.Flag = def.Name
		return v
	}
	return e.generic(def, ctx)
}

// verdict assembles a Verdict from named sub-conditions. With all=true every
// condition must hold; otherwise any single condition suffices.
func verdict(all bool, conds map[string]bool) Verdict {
	triggered := all
	for _, ok := range conds {
		if all && !ok {
			triggered = false
			break
		}
		if !all && ok {
			triggered = true
		}
	}
	if !all && len(conds) == 0 {
		triggered = false
	}
	return Verdict{Triggered: triggered, Conditions: conds, Reason: reason(triggered, all, conds)}
}

// reason renders a human-readable explanation from the condition map.
func reason(triggered, all bool, conds map[string]bool) string {
	names := make([]string, 0, len(conds))
	for name := range conds {
		names = append(names, name)
	}
	sort.Strings(names)

	var met, unmet []string
	for _, name := range names {
		if conds[name] {
			met = append(met, name)
		} else {
			unmet = append(unmet, name)
		}
	}

	mode := "any of"
	if all {
		mode = "all of"
	}
	if triggered {
		return fmt.Sprintf("triggered (%s): %s", mode, strings.Join(met, ", "))
	}
	if len(unmet) == 0 {
		return "not triggered: no conditions evaluated"
	}
	return fmt.Sprintf("not triggered (%s): unmet %s", mode, strings.Join(unmet, ", "))
}
