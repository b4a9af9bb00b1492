// Package threshold computes per-subject trigger sensitivity from age,
// stress, and bond state. Younger, more stressed, or poorly bonded subjects
// trigger flags more easily.
package threshold

import "math"

// Default calculator configuration constants.
const (
	defaultBase = 0.65

	// Discrete age-bracket multipliers; younger is more sensitive.
	defaultInfantDays     = 7
	defaultJuvenileDays   = 30
	defaultAdolescentDays = 90
	defaultInfantMod      = 0.60
	defaultJuvenileMod    = 0.75
	defaultAdolescentMod  = 0.90

	// Stress lowers the threshold toward a floor; bond raises it to a ceiling.
	defaultStressFloor = 0.70
	defaultBondCeiling = 1.25

	defaultMinThreshold = 0.20
	defaultMaxThreshold = 0.95

	maxStat = 100.0
)

// Result carries the final threshold and its component modifiers.
type Result struct {
	Threshold   float64
	Sensitivity float64 // complement of the normalized threshold
	AgeMod      float64
	StressMod   float64
	BondMod     float64
}

// Calculator derives trigger thresholds from subject state.
type Calculator struct {
	base float64

	infantDays     int
	juvenileDays   int
	adolescentDays int
	infantMod      float64
	juvenileMod    float64
	adolescentMod  float64

	stressFloor float64
	bondCeiling float64

	minThreshold float64
	maxThreshold float64
}

// NewCalculator creates a calculator with configuration options.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		base:           defaultBase,
		infantDays:     defaultInfantDays,
		juvenileDays:   defaultJuvenileDays,
		adolescentDays: defaultAdolescentDays,
		infantMod:      defaultInfantMod,
		juvenileMod:    defaultJuvenileMod,
		adolescentMod:  defaultAdolescentMod,
		stressFloor:    defaultStressFloor,
		bondCeiling:    defaultBondCeiling,
		minThreshold:   defaultMinThreshold,
		maxThreshold:   defaultMaxThreshold,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Compute returns the adjusted threshold for a subject.
// Final threshold = base × ageMod × stressMod × bondMod, clamped.
func (c *Calculator) Compute(ageDays int, stress, bond float64) Result {
	r := Result{
		AgeMod:    c.ageModifier(ageDays),
		StressMod: c.stressModifier(stress),
		BondMod:   c.bondModifier(bond),
	}

	t := c.base * r.AgeMod * r.StressMod * r.BondMod
	r.Threshold = math.Max(c.minThreshold, math.Min(c.maxThreshold, t))
	r.Sensitivity = 1 - (r.Threshold-c.minThreshold)/(c.maxThreshold-c.minThreshold)
	return r
}

// ageModifier returns the discrete bracket multiplier for the subject's age.
func (c *Calculator) ageModifier(ageDays int) float64 {
	switch {
	case ageDays <= c.infantDays:
		return c.infantMod
	case ageDays <= c.juvenileDays:
		return c.juvenileMod
	case ageDays <= c.adolescentDays:
		return c.adolescentMod
	default:
		return 1.0
	}
}

// stressModifier interpolates from 1.0 at zero stress down to the floor at
// maximum stress.
func (c *Calculator) stressModifier(stress float64) float64 {
	s := math.Max(0, math.Min(maxStat, stress)) / maxStat
	return 1.0 - s*(1.0-c.stressFloor)
}

// bondModifier interpolates from 1.0 at zero bond up to the ceiling at
// maximum bond.
func (c *Calculator) bondModifier(bond float64) float64 {
	b := math.Max(0, math.Min(maxStat, bond)) / maxStat
	return 1.0 + b*(c.bondCeiling-1.0)
}
