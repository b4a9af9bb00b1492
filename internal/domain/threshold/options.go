// Package threshold computes per-subject trigger sensitivity.
package threshold

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithBase sets the unadjusted base threshold.
func WithBase(base float64) Option {
	return func(c *Calculator) {
		if base > 0 && base < 1 {
			c.base = base
		}
	}
}

// WithAgeBrackets sets the bracket boundaries in days.
func WithAgeBrackets(infant, juvenile, adolescent int) Option {
	return func(c *Calculator) {
		if infant > 0 && juvenile > infant && adolescent > juvenile {
			c.infantDays = infant
			c.juvenileDays = juvenile
			c.adolescentDays = adolescent
		}
	}
}

// WithAgeModifiers sets the bracket multipliers, youngest first.
func WithAgeModifiers(infant, juvenile, adolescent float64) Option {
	return func(c *Calculator) {
		if infant > 0 && infant <= juvenile && juvenile <= adolescent && adolescent <= 1 {
			c.infantMod = infant
			c.juvenileMod = juvenile
			c.adolescentMod = adolescent
		}
	}
}

// WithStressFloor sets the minimum stress multiplier at maximum stress.
func WithStressFloor(floor float64) Option {
	return func(c *Calculator) {
		if floor > 0 && floor <= 1 {
			c.stressFloor = floor
		}
	}
}

// WithBondCeiling sets the maximum bond multiplier at maximum bond.
func WithBondCeiling(ceiling float64) Option {
	return func(c *Calculator) {
		if ceiling >= 1 {
			c.bondCeiling = ceiling
		}
	}
}

// WithClampRange sets the valid threshold range.
func WithClampRange(minT, maxT float64) Option {
	return func(c *Calculator) {
		if minT > 0 && maxT > minT && maxT <= 1 {
			c.minThreshold = minT
			c.maxThreshold = maxT
		}
	}
}
