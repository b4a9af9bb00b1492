package conflict

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithSeverity sets the severity score for an unordered flag pair.
func WithSeverity(flagA, flagB string, severity float64) Option {
	return func(r *Resolver) {
		if flagA != "" && flagB != "" && severity >= 0 && severity <= 1 {
			r.severity[keyOf(flagA, flagB)] = severity
		}
	}
}

// WithDefaultSeverity sets the severity applied to unlisted conflict pairs.
func WithDefaultSeverity(severity float64) Option {
	return func(r *Resolver) {
		if severity >= 0 && severity <= 1 {
			r.defaultSeverity = severity
		}
	}
}

// WithReductions sets the base dampening per resolution method.
func WithReductions(dominant, partial, minor float64) Option {
	return func(r *Resolver) {
		if dominant > 0 && dominant <= partial && partial <= minor && minor < 1 {
			r.dominantReduction = dominant
			r.partialReduction = partial
			r.minorReduction = minor
		}
	}
}

// WithConflictPenalty sets the per-conflict penalty and its cap.
func WithConflictPenalty(perConflict, penaltyCap float64) Option {
	return func(r *Resolver) {
		if perConflict > 0 {
			r.perConflictPenalty = perConflict
		}
		if penaltyCap > 0 {
			r.penaltyCap = penaltyCap
		}
	}
}

// WithFloor sets the minimum dampening factor.
func WithFloor(floor float64) Option {
	return func(r *Resolver) {
		if floor > 0 && floor < 1 {
			r.floor = floor
		}
	}
}
