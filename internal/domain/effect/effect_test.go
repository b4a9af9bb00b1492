package effect_test

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/stablehand/temperament/internal/domain/conflict"
	"github.com/stablehand/temperament/internal/domain/effect"
	"github.com/stablehand/temperament/internal/domain/flagdef"
	"github.com/stablehand/temperament/internal/domain/model"
)

var computedAt = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newAggregator() *effect.Aggregator {
	registry := flagdef.Default()
	return effect.NewAggregator(registry, conflict.NewResolver(registry))
}

func TestAggregator_Build(t *testing.T) {
	Convey("Given an aggregator over the built-in flag set", t, func() {
		agg := newAggregator()

		Convey("When the subject has no flags", func() {
			b, unknown := agg.Build(model.Subject{ID: "subject-1"}, computedAt)

			Convey("Then the bundle is empty but well-formed", func() {
				So(unknown, ShouldBeEmpty)
				So(b.SubjectID, ShouldEqual, "subject-1")
				So(b.ActiveFlags, ShouldBeEmpty)
				So(b.Competition, ShouldBeEmpty)
				So(b.StressModifier, ShouldEqual, 0)
				So(b.ResolutionMethod, ShouldEqual, conflict.MethodNoneNeeded)
				So(b.Dampening, ShouldEqual, 1.0)
				So(b.ComputedAt, ShouldEqual, computedAt)
			})
		})

		Convey("When the subject holds one positive flag", func() {
			subject := model.Subject{ID: "subject-1", Flags: []string{"devoted"}}
			b, unknown := agg.Build(subject, computedAt)

			Convey("Then its effects plus the valence bonus accumulate", func() {
				So(unknown, ShouldBeEmpty)
				So(b.Competition["obedience"], ShouldAlmostEqual, 3, 1e-9)
				So(b.Competition["showmanship"], ShouldAlmostEqual, 2, 1e-9)
				// -2 from the flag, -0.5 valence bonus.
				So(b.StressModifier, ShouldAlmostEqual, -2.5, 1e-9)
				So(b.BondingModifier, ShouldAlmostEqual, 3.5, 1e-9)
				So(b.TrainingModifier, ShouldAlmostEqual, 2.5, 1e-9)
				So(b.BreedingTraits["social"], ShouldAlmostEqual, 0.05, 1e-9)
			})

			Convey("And no conflict metadata is attached", func() {
				So(b.Conflicts, ShouldBeEmpty)
				So(b.Dampening, ShouldEqual, 1.0)
			})
		})

		Convey("When the subject holds one negative flag", func() {
			subject := model.Subject{ID: "subject-1", Flags: []string{"anxious"}}
			b, _ := agg.Build(subject, computedAt)

			Convey("Then the valence bonus works against it", func() {
				// +3 from the flag, +0.5 valence penalty.
				So(b.StressModifier, ShouldAlmostEqual, 3.5, 1e-9)
				So(b.TrainingModifier, ShouldAlmostEqual, -2.5, 1e-9)
				So(b.BondingModifier, ShouldAlmostEqual, -0.5, 1e-9)
			})
		})

		Convey("When compatible flags stack", func() {
			subject := model.Subject{ID: "subject-1", Flags: []string{"devoted", "curious"}}
			b, _ := agg.Build(subject, computedAt)

			Convey("Then contributions are additive", func() {
				So(b.Competition["obedience"], ShouldAlmostEqual, 3, 1e-9)
				So(b.Competition["agility"], ShouldAlmostEqual, 2, 1e-9)
				So(b.TrainingModifier, ShouldAlmostEqual, 2+0.5+3+0.5, 1e-9)
				So(b.AdaptabilityModifier, ShouldAlmostEqual, 3, 1e-9)
			})
		})

		Convey("When the flag set carries a conflict", func() {
			subject := model.Subject{ID: "subject-1", Flags: []string{"devoted", "withdrawn"}}
			b, _ := agg.Build(subject, computedAt)

			Convey("Then the bundle is dampened", func() {
				So(b.Conflicts, ShouldHaveLength, 1)
				So(b.ResolutionMethod, ShouldEqual, conflict.MethodDominantFlag)
				So(b.Dampening, ShouldAlmostEqual, 0.45, 1e-9)

				// devoted obedience +3, withdrawn obedience -2, then dampened.
				So(b.Competition["obedience"], ShouldAlmostEqual, 1*0.45, 1e-9)
				// bonding: +3 +0.5 -3 -0.5 = 0, dampened stays 0.
				So(b.BondingModifier, ShouldAlmostEqual, 0, 1e-9)
			})
		})

		Convey("When the subject holds a flag with no definition", func() {
			subject := model.Subject{ID: "subject-1", Flags: []string{"devoted", "phantom"}}
			b, unknown := agg.Build(subject, computedAt)

			Convey("Then the unknown flag is reported and skipped", func() {
				So(unknown, ShouldResemble, []string{"phantom"})
				So(b.ActiveFlags, ShouldResemble, []string{"devoted", "phantom"})
				So(b.Competition["obedience"], ShouldAlmostEqual, 3, 1e-9)
			})
		})
	})

	Convey("Given an aggregator with valence bonuses disabled", t, func() {
		registry := flagdef.Default()
		agg := effect.NewAggregator(registry, conflict.NewResolver(registry),
			effect.WithValenceBonuses(0, 0, 0))

		Convey("When building for a positive flag", func() {
			b, _ := agg.Build(model.Subject{ID: "subject-1", Flags: []string{"devoted"}}, computedAt)

			Convey("Then only the flag's own numbers count", func() {
				So(b.StressModifier, ShouldAlmostEqual, -2, 1e-9)
				So(b.BondingModifier, ShouldAlmostEqual, 3, 1e-9)
				So(b.TrainingModifier, ShouldAlmostEqual, 2, 1e-9)
			})
		})
	})
}

func TestConsumers(t *testing.T) {
	Convey("Given a bundle with competition and stress effects", t, func() {
		agg := newAggregator()
		b, _ := agg.Build(model.Subject{ID: "subject-1", Flags: []string{"devoted"}}, computedAt)

		Convey("When scoring a competition in a boosted discipline", func() {
			score := effect.CompetitionScore(50, "obedience", b)

			Convey("Then the discipline bonus and stress resistance both apply", func() {
				// 50 + 3 obedience + 2.5*0.5 stress resistance.
				So(score, ShouldAlmostEqual, 54.25, 1e-9)
			})
		})

		Convey("When scoring an unaffected discipline", func() {
			score := effect.CompetitionScore(50, "racing", b)

			Convey("Then only the stress resistance applies", func() {
				So(score, ShouldAlmostEqual, 51.25, 1e-9)
			})
		})

		Convey("When computing training effectiveness", func() {
			v := effect.TrainingEffectiveness(1.0, b)

			Convey("Then the training modifier applies", func() {
				So(v, ShouldAlmostEqual, 3.5, 1e-9)
			})
		})
	})

	Convey("Given a heavily penalized bundle", t, func() {
		b := effect.Bundle{TrainingModifier: -5, AdaptabilityModifier: -2}

		Convey("When computing training effectiveness", func() {
			v := effect.TrainingEffectiveness(1.0, b)

			Convey("Then the floor holds", func() {
				So(v, ShouldEqual, 0.1)
			})
		})
	})

	Convey("Given two parents' bundles", t, func() {
		agg := newAggregator()
		sire, _ := agg.Build(model.Subject{ID: "sire", Flags: []string{"devoted"}}, computedAt)
		dam, _ := agg.Build(model.Subject{ID: "dam", Flags: []string{"gentle"}}, computedAt)

		Convey("When combining trait shifts", func() {
			shifts := effect.BreedingTraitShifts(sire, dam)

			Convey("Then both parents contribute fully", func() {
				// devoted social 0.05 + gentle social 0.04.
				So(shifts["social"], ShouldAlmostEqual, 0.09, 1e-9)
				// devoted calm 0.03 + gentle calm 0.02.
				So(shifts["calm"], ShouldAlmostEqual, 0.05, 1e-9)
			})
		})

		Convey("When one parent's flag set is conflicted", func() {
			conflicted, _ := agg.Build(model.Subject{ID: "sire", Flags: []string{"devoted", "withdrawn"}}, computedAt)
			shifts := effect.BreedingTraitShifts(conflicted, dam)

			Convey("Then that parent contributes at half strength", func() {
				// (0.05 social - 0.05 social) dampened to 0, halved: 0.
				// gentle social 0.04 from the dam remains.
				So(shifts["social"], ShouldAlmostEqual, 0.04, 1e-9)
			})
		})
	})
}
