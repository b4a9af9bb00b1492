package effect

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithValenceBonuses sets the fixed additive contributions applied per flag
// by valence (stress, bonding, training).
func WithValenceBonuses(stress, bonding, training float64) Option {
	return func(a *Aggregator) {
		if stress >= 0 {
			a.valenceStress = stress
		}
		if bonding >= 0 {
			a.valenceBonding = bonding
		}
		if training >= 0 {
			a.valenceTraining = training
		}
	}
}
