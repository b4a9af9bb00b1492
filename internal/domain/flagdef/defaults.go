package flagdef

// Default returns the built-in flag set. The numbers here are game-balance
// defaults; deployments override them with a YAML registry file.
func Default() *Registry {
	r, err := NewRegistry(defaultDefinitions())
	if err != nil {
		// The built-in set is validated by tests; a failure here is a
		// programming error.
		panic(err)
	}
	return r
}

func defaultDefinitions() []Definition {
	return []Definition{
		{
			Name:          "devoted",
			Valence:       Positive,
			ConflictsWith: []string{"withdrawn", "distrustful"},
			Effects: Effects{
				Competition:      map[string]float64{"obedience": 3, "showmanship": 2},
				StressModifier:   -2,
				BondingModifier:  3,
				TrainingModifier: 2,
				BreedingTraits:   map[string]float64{"social": 0.05, "calm": 0.03},
			},
		},
		{
			Name:          "curious",
			Valence:       Positive,
			ConflictsWith: []string{"skittish"},
			Effects: Effects{
				Competition:          map[string]float64{"agility": 2},
				TrainingModifier:     3,
				AdaptabilityModifier: 3,
				BreedingTraits:       map[string]float64{"bold": 0.04},
			},
		},
		{
			Name:          "resilient",
			Valence:       Positive,
			ConflictsWith: []string{"anxious"},
			Effects: Effects{
				Competition:          map[string]float64{"racing": 2, "agility": 1},
				StressModifier:       -3,
				AdaptabilityModifier: 2,
				BreedingTraits:       map[string]float64{"calm": 0.05},
			},
		},
		{
			Name:          "gentle",
			Valence:       Positive,
			ConflictsWith: []string{"aggressive"},
			Effects: Effects{
				Competition:     map[string]float64{"showmanship": 3},
				BondingModifier: 2,
				StressModifier:  -1,
				BreedingTraits:  map[string]float64{"social": 0.04, "calm": 0.02},
			},
		},
		{
			Name:          "confident",
			Valence:       Positive,
			ConflictsWith: []string{"anxious"},
			Effects: Effects{
				Competition:          map[string]float64{"racing": 3, "showmanship": 1},
				TrainingModifier:     1,
				AdaptabilityModifier: 2,
				BreedingTraits:       map[string]float64{"bold": 0.05},
			},
		},
		{
			Name:          "anxious",
			Valence:       Negative,
			ConflictsWith: []string{"confident", "resilient"},
			Effects: Effects{
				Competition:      map[string]float64{"racing": -3, "showmanship": -2},
				StressModifier:   3,
				TrainingModifier: -2,
				BreedingTraits:   map[string]float64{"nervous": 0.06},
			},
		},
		{
			Name:          "withdrawn",
			Valence:       Negative,
			ConflictsWith: []string{"devoted"},
			Effects: Effects{
				Competition:     map[string]float64{"obedience": -2, "showmanship": -3},
				BondingModifier: -3,
				BreedingTraits:  map[string]float64{"social": -0.05},
			},
		},
		{
			Name:          "distrustful",
			Valence:       Negative,
			ConflictsWith: []string{"devoted"},
			Effects: Effects{
				Competition:      map[string]float64{"obedience": -3},
				BondingModifier:  -2,
				TrainingModifier: -2,
				BreedingTraits:   map[string]float64{"social": -0.04, "nervous": 0.03},
			},
		},
		{
			Name:          "skittish",
			Valence:       Negative,
			ConflictsWith: []string{"curious"},
			Effects: Effects{
				Competition:          map[string]float64{"agility": -2, "racing": -1},
				StressModifier:       2,
				AdaptabilityModifier: -3,
				BreedingTraits:       map[string]float64{"nervous": 0.05},
			},
		},
		{
			Name:          "aggressive",
			Valence:       Negative,
			ConflictsWith: []string{"gentle"},
			Effects: Effects{
				Competition:      map[string]float64{"showmanship": -3, "obedience": -2},
				BondingModifier:  -3,
				TrainingModifier: -3,
				BreedingTraits:   map[string]float64{"bold": 0.02, "social": -0.06},
			},
		},
	}
}
