package effect

import "math"

// Downstream consumption constants.
const (
	// stressResistanceWeight converts accumulated stress reduction into a
	// competition bonus.
	stressResistanceWeight = 0.5

	// adaptabilityWeight discounts the adaptability delta in training math.
	adaptabilityWeight = 0.5

	// trainingFloor is the minimum effectiveness after modifiers.
	trainingFloor = 0.1

	// conflictedParentFactor halves trait shifts when a parent's flag set
	// carries conflicts.
	conflictedParentFactor = 0.5
)

// CompetitionScore applies a bundle's discipline bonus/penalty plus a
// stress-resistance bonus to a base competition score.
func CompetitionScore(base float64, discipline string, b Bundle) float64 {
	score := base + b.Competition[discipline]
	if b.StressModifier < 0 {
		score += -b.StressModifier * stressResistanceWeight
	}
	return score
}

// TrainingEffectiveness applies effectiveness and adaptability deltas to a
// base effectiveness value, clamped to the minimum floor.
func TrainingEffectiveness(base float64, b Bundle) float64 {
	v := base + b.TrainingModifier + b.AdaptabilityModifier*adaptabilityWeight
	return math.Max(trainingFloor, v)
}

// BreedingTraitShifts combines both parents' trait-probability deltas for
// offspring prediction. A parent whose flag set carries conflicts
// contributes at half strength.
func BreedingTraitShifts(sire, dam Bundle) map[string]float64 {
	shifts := make(map[string]float64)
	addParent(shifts, sire)
	addParent(shifts, dam)
	return shifts
}

func addParent(shifts map[string]float64, b Bundle) {
	factor := 1.0
	if len(b.Conflicts) > 0 {
		factor = conflictedParentFactor
	}
	for trait, v := range b.BreedingTraits {
		shifts[trait] += v * factor
	}
}
