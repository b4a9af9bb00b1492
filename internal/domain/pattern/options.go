// Package pattern derives behavioral metrics from caregiving history.
package pattern

// Option applies a configuration option to the Analyzer.
type Option func(*Analyzer)

// WithGapPenalty sets the per-gap consistency penalty and its cap.
func WithGapPenalty(perGap, ceiling float64) Option {
	return func(a *Analyzer) {
		if perGap > 0 {
			a.perGapPenalty = perGap
		}
		if ceiling > 0 && ceiling <= 1 {
			a.gapPenaltyCap = ceiling
		}
	}
}

// WithMinGapDays sets the minimum run of empty days counted as a care gap.
func WithMinGapDays(days int) Option {
	return func(a *Analyzer) {
		if days > 0 {
			a.minGapDays = days
		}
	}
}

// WithSlopeEpsilon sets the stability epsilon for trend classification.
func WithSlopeEpsilon(eps float64) Option {
	return func(a *Analyzer) {
		if eps > 0 {
			a.slopeEpsilon = eps
		}
	}
}

// WithDiversityScale sets the multiplier applied to the distinct-task ratio.
func WithDiversityScale(scale float64) Option {
	return func(a *Analyzer) {
		if scale > 0 {
			a.diversityScale = scale
		}
	}
}

// WithStabilityWeights sets the caregiver-count and handoff weights used by
// the caregiver stability score.
func WithStabilityWeights(caregiver, handoff float64) Option {
	return func(a *Analyzer) {
		if caregiver > 0 {
			a.caregiverWeight = caregiver
		}
		if handoff > 0 {
			a.handoffWeight = handoff
		}
	}
}

// WithNeglectTiers sets the neglected, moderate, and severe ratio thresholds.
func WithNeglectTiers(neglected, moderate, severe float64) Option {
	return func(a *Analyzer) {
		if neglected > 0 && neglected < 1 {
			a.neglectThreshold = neglected
		}
		if moderate > 0 && moderate <= 1 {
			a.moderateThreshold = moderate
		}
		if severe > 0 && severe <= 1 {
			a.severeThreshold = severe
		}
	}
}
