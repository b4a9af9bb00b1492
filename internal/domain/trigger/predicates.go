package trigger

import (
	"github.com/stablehand/temperament/internal/domain/flagdef"
	"github.com/stablehand/temperament/internal/domain/model"
)

// Predicate tuning constants. Thresholds coming from the threshold calculator
// scale with subject state; the fixed numbers below are structural cutoffs.
const (
	defaultMinEvents = 3

	maxStat             = 100.0
	confidentBondFloor  = 70.0
	anxiousStressAssist = 40.0
	skittishGapCount    = 2
	lowConsistencyFrac  = 0.4
	resilientFrac       = 0.75
)

// registerBuiltins installs the specialized per-flag predicates.
func (e *Evaluator) registerBuiltins() {
	builtins := map[string]Predicate{
		"devoted":     e.devoted,
		"curious":     e.curious,
		"resilient":   e.resilient,
		"gentle":      e.gentle,
		"confident":   e.confident,
		"anxious":     e.anxious,
		"withdrawn":   e.withdrawn,
		"distrustful": e.distrustful,
		"skittish":    e.skittish,
		"aggressive":  e.aggressive,
	}
	for name, p := range builtins {
		if _, overridden := e.predicates[name]; !overridden {
			e.predicates[name] = p
		}
	}
}

func (e *Evaluator) devoted(ctx Context) Verdict {
	t := ctx.Threshold.Threshold
	return verdict(true, map[string]bool{
		"consistency_above_threshold": ctx.Metrics.Consistency >= t,
		"bond_trend_improving":        ctx.Metrics.BondTrend.Direction == model.TrendImproving,
		"stress_not_increasing":       ctx.Metrics.StressTrend.Direction != model.TrendIncreasing,
		"no_neglect":                  ctx.Metrics.NeglectSeverity == model.NeglectNone,
		"enough_interactions":         ctx.Metrics.EventCount >= e.minEvents,
	})
}

func (e *Evaluator) curious(ctx Context) Verdict {
	t := ctx.Threshold.Threshold
	return verdict(true, map[string]bool{
		"diversity_above_threshold": ctx.Metrics.TaskDiversity >= t,
		"quality_not_declining":     ctx.Metrics.QualityTrend.Direction != model.TrendDeclining,
		"enough_interactions":       ctx.Metrics.EventCount >= e.minEvents,
	})
}

func (e *Evaluator) resilient(ctx Context) Verdict {
	t := ctx.Threshold.Threshold
	return verdict(true, map[string]bool{
		"stress_trend_decreasing": ctx.Metrics.StressTrend.Direction == model.TrendDecreasing,
		"consistent_care":         ctx.Metrics.Consistency >= t*resilientFrac,
		"enough_interactions":     ctx.Metrics.EventCount >= e.minEvents,
	})
}

func (e *Evaluator) gentle(ctx Context) Verdict {
	t := ctx.Threshold.Threshold
	return verdict(true, map[string]bool{
		"stable_caregivers":     ctx.Metrics.CaregiverStability >= t,
		"quality_not_declining": ctx.Metrics.QualityTrend.Direction != model.TrendDeclining,
		"stress_not_increasing": ctx.Metrics.StressTrend.Direction != model.TrendIncreasing,
		"enough_interactions":   ctx.Metrics.EventCount >= e.minEvents,
	})
}

func (e *Evaluator) confident(ctx Context) Verdict {
	t := ctx.Threshold.Threshold
	return verdict(true, map[string]bool{
		"bond_high":                   ctx.Subject.Bond >= confidentBondFloor,
		"consistency_above_threshold": ctx.Metrics.Consistency >= t,
		"bond_not_declining":          ctx.Metrics.BondTrend.Direction != model.TrendDeclining,
		"enough_interactions":         ctx.Metrics.EventCount >= e.minEvents,
	})
}

func (e *Evaluator) anxious(ctx Context) Verdict {
	t := ctx.Threshold.Threshold
	return verdict(false, map[string]bool{
		"stress_above_threshold": ctx.Subject.Stress >= maxStat*t,
		"stress_rising_under_load": ctx.Metrics.StressTrend.Direction == model.TrendIncreasing &&
			ctx.Subject.Stress >= anxiousStressAssist,
	})
}

func (e *Evaluator) withdrawn(ctx Context) Verdict {
	return verdict(true, map[string]bool{
		"neglect_moderate_or_worse": ctx.Metrics.NeglectSeverity == model.NeglectModerate ||
			ctx.Metrics.NeglectSeverity == model.NeglectSevere,
		"bond_not_improving": ctx.Metrics.BondTrend.Direction != model.TrendImproving,
	})
}

func (e *Evaluator) distrustful(ctx Context) Verdict {
	t := ctx.Threshold.Threshold
	return verdict(true, map[string]bool{
		"caregiver_churn":     ctx.Metrics.CaregiverStability <= 1-t,
		"enough_interactions": ctx.Metrics.EventCount >= e.minEvents,
	})
}

func (e *Evaluator) skittish(ctx Context) Verdict {
	return verdict(true, map[string]bool{
		"repeated_care_gaps":    ctx.Metrics.CareGaps >= skittishGapCount,
		"stress_not_decreasing": ctx.Metrics.StressTrend.Direction != model.TrendDecreasing,
	})
}

func (e *Evaluator) aggressive(ctx Context) Verdict {
	return verdict(true, map[string]bool{
		"severe_neglect": ctx.Metrics.NeglectSeverity == model.NeglectSevere,
		"bond_not_improving": ctx.Metrics.BondTrend.Direction == model.TrendDeclining ||
			ctx.Metrics.BondTrend.Direction == model.TrendInsufficientData,
	})
}

// generic is the valence-driven fallback for flags without a specialized
// rule. Positive flags require net-good indicators across the board; negative
// flags trigger on any sufficiently bad indicator.
func (e *Evaluator) generic(def flagdef.Definition, ctx Context) Verdict {
	t := ctx.Threshold.Threshold
	var v Verdict
	if def.Valence == flagdef.Positive {
		v = verdict(true, map[string]bool{
			"consistency_above_threshold": ctx.Metrics.Consistency >= t,
			"no_neglect":                  ctx.Metrics.NeglectSeverity == model.NeglectNone,
			"bond_not_declining":          ctx.Metrics.BondTrend.Direction != model.TrendDeclining,
			"quality_not_declining":       ctx.Metrics.QualityTrend.Direction != model.TrendDeclining,
			"enough_interactions":         ctx.Metrics.EventCount >= e.minEvents,
		})
	} else {
		v = verdict(false, map[string]bool{
			"neglect_moderate_or_worse": ctx.Metrics.NeglectSeverity == model.NeglectModerate ||
				ctx.Metrics.NeglectSeverity == model.NeglectSevere,
			"stress_trend_increasing": ctx.Metrics.StressTrend.Direction == model.TrendIncreasing,
			"bond_trend_declining":    ctx.Metrics.BondTrend.Direction == model.TrendDeclining,
			"very_low_consistency":    ctx.Metrics.Consistency < t*lowConsistencyFrac,
		})
	}
	v.Flag = def.Name
	return v
}
