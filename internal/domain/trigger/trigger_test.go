package trigger_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/stablehand/temperament/internal/domain/flagdef"
	"github.com/stablehand/temperament/internal/domain/model"
	"github.com/stablehand/temperament/internal/domain/threshold"
	"github.com/stablehand/temperament/internal/domain/trigger"
)

// goodCareContext models a subject receiving attentive daily care against a
// moderate threshold.
func goodCareContext() trigger.Context {
	return trigger.Context{
		Subject: model.Subject{ID: "subject-1", Bond: 80, Stress: 15},
		AgeDays: 20,
		Metrics: model.PatternMetrics{
			Consistency:        0.9,
			Frequency:          1.2,
			BondTrend:          model.Trend{Direction: model.TrendImproving, Slope: 0.4},
			StressTrend:        model.Trend{Direction: model.TrendDecreasing, Slope: -0.2},
			QualityTrend:       model.Trend{Direction: model.TrendStable},
			TaskDiversity:      0.8,
			CaregiverStability: 0.95,
			NeglectRatio:       0.1,
			NeglectSeverity:    model.NeglectNone,
			EventCount:         24,
		},
		Threshold: threshold.Result{Threshold: 0.55},
	}
}

// neglectContext models a subject that saw almost no care.
func neglectContext() trigger.Context {
	return trigger.Context{
		Subject: model.Subject{ID: "subject-2", Bond: 10, Stress: 70},
		AgeDays: 20,
		Metrics: model.PatternMetrics{
			Consistency:     0,
			BondTrend:       model.Trend{Direction: model.TrendInsufficientData},
			StressTrend:     model.Trend{Direction: model.TrendInsufficientData},
			QualityTrend:    model.Trend{Direction: model.TrendInsufficientData},
			NeglectRatio:    1.0,
			Neglected:       true,
			NeglectSeverity: model.NeglectSevere,
			CareGaps:        1,
			EventCount:      0,
		},
		Threshold: threshold.Result{Threshold: 0.45},
	}
}

func def(name string, valence flagdef.Valence) flagdef.Definition {
	return flagdef.Definition{Name: name, Valence: valence}
}

func TestEvaluator_Builtins(t *testing.T) {
	Convey("Given the built-in predicates", t, func() {
		ev := trigger.NewEvaluator()

		Convey("When evaluating a well-cared-for subject", func() {
			ctx := goodCareContext()

			Convey("Then devoted triggers with every condition met", func() {
				v := ev.Evaluate(def("devoted", flagdef.Positive), ctx)
				So(v.Flag, ShouldEqual, "devoted")
				So(v.Triggered, ShouldBeTrue)
				So(v.Conditions["bond_trend_improving"], ShouldBeTrue)
				So(v.Reason, ShouldStartWith, "triggered (all of):")
			})

			Convey("Then curious triggers on high diversity", func() {
				v := ev.Evaluate(def("curious", flagdef.Positive), ctx)
				So(v.Triggered, ShouldBeTrue)
			})

			Convey("Then resilient triggers on decreasing stress", func() {
				v := ev.Evaluate(def("resilient", flagdef.Positive), ctx)
				So(v.Triggered, ShouldBeTrue)
			})

			Convey("Then confident triggers on high bond", func() {
				v := ev.Evaluate(def("confident", flagdef.Positive), ctx)
				So(v.Triggered, ShouldBeTrue)
			})

			Convey("Then no negative flag triggers", func() {
				for _, name := range []string{"anxious", "withdrawn", "distrustful", "skittish", "aggressive"} {
					v := ev.Evaluate(def(name, flagdef.Negative), ctx)
					So(v.Triggered, ShouldBeFalse)
				}
			})
		})

		Convey("When evaluating a severely neglected subject", func() {
			ctx := neglectContext()

			Convey("Then withdrawn triggers", func() {
				v := ev.Evaluate(def("withdrawn", flagdef.Negative), ctx)
				So(v.Triggered, ShouldBeTrue)
			})

			Convey("Then aggressive triggers on severe neglect without bond recovery", func() {
				v := ev.Evaluate(def("aggressive", flagdef.Negative), ctx)
				So(v.Triggered, ShouldBeTrue)
			})

			Convey("Then anxious triggers on high absolute stress", func() {
				v := ev.Evaluate(def("anxious", flagdef.Negative), ctx)
				So(v.Triggered, ShouldBeTrue)
				So(v.Conditions["stress_above_threshold"], ShouldBeTrue)
			})

			Convey("Then no positive flag triggers", func() {
				for _, name := range []string{"devoted", "curious", "resilient", "gentle", "confident"} {
					v := ev.Evaluate(def(name, flagdef.Positive), ctx)
					So(v.Triggered, ShouldBeFalse)
					So(v.Reason, ShouldStartWith, "not triggered")
				}
			})
		})

		Convey("When a subject has repeated care gaps and lingering stress", func() {
			ctx := goodCareContext()
			ctx.Metrics.CareGaps = 3
			ctx.Metrics.StressTrend = model.Trend{Direction: model.TrendStable}

			Convey("Then skittish triggers", func() {
				v := ev.Evaluate(def("skittish", flagdef.Negative), ctx)
				So(v.Triggered, ShouldBeTrue)
			})
		})

		Convey("When caregivers churn constantly", func() {
			ctx := goodCareContext()
			ctx.Metrics.CaregiverStability = 0.2

			Convey("Then distrustful triggers", func() {
				v := ev.Evaluate(def("distrustful", flagdef.Negative), ctx)
				So(v.Triggered, ShouldBeTrue)
			})
		})

		Convey("When stress rises on an already loaded subject", func() {
			ctx := goodCareContext()
			ctx.Subject.Stress = 45
			ctx.Metrics.StressTrend = model.Trend{Direction: model.TrendIncreasing, Slope: 0.3}

			Convey("Then anxious triggers through the rising-stress arm", func() {
				v := ev.Evaluate(def("anxious", flagdef.Negative), ctx)
				So(v.Triggered, ShouldBeTrue)
				So(v.Conditions["stress_rising_under_load"], ShouldBeTrue)
				So(v.Conditions["stress_above_threshold"], ShouldBeFalse)
			})
		})

		Convey("When the history has too few interactions", func() {
			ctx := goodCareContext()
			ctx.Metrics.EventCount = 2

			Convey("Then positive flags hold back", func() {
				v := ev.Evaluate(def("devoted", flagdef.Positive), ctx)
				So(v.Triggered, ShouldBeFalse)
				So(v.Conditions["enough_interactions"], ShouldBeFalse)
				So(v.Reason, ShouldContainSubstring, "enough_interactions")
			})
		})
	})
}

func TestEvaluator_Generic(t *testing.T) {
	Convey("Given a flag without a specialized predicate", t, func() {
		ev := trigger.NewEvaluator()

		Convey("When the flag is positive and care is good", func() {
			v := ev.Evaluate(def("steadfast", flagdef.Positive), goodCareContext())

			Convey("Then the generic all-good rule triggers", func() {
				So(v.Flag, ShouldEqual, "steadfast")
				So(v.Triggered, ShouldBeTrue)
			})
		})

		Convey("When the flag is positive and the subject is neglected", func() {
			v := ev.Evaluate(def("steadfast", flagdef.Positive), neglectContext())

			Convey("Then it does not trigger", func() {
				So(v.Triggered, ShouldBeFalse)
			})
		})

		Convey("When the flag is negative and any bad indicator holds", func() {
			v := ev.Evaluate(def("sullen", flagdef.Negative), neglectContext())

			Convey("Then the generic any-bad rule triggers", func() {
				So(v.Triggered, ShouldBeTrue)
			})
		})

		Convey("When the flag is negative and care is good", func() {
			v := ev.Evaluate(def("sullen", flagdef.Negative), goodCareContext())

			Convey("Then it does not trigger", func() {
				So(v.Triggered, ShouldBeFalse)
			})
		})
	})
}

func TestEvaluator_Options(t *testing.T) {
	Convey("Given an evaluator with a predicate override", t, func() {
		always := func(ctx trigger.Context) trigger.Verdict {
			return trigger.Verdict{Triggered: true, Reason: "override"}
		}
		ev := trigger.NewEvaluator(trigger.WithPredicate("devoted", always))

		Convey("When evaluating the overridden flag", func() {
			v := ev.Evaluate(def("devoted", flagdef.Positive), neglectContext())

			Convey("Then the override wins over the built-in rule", func() {
				So(v.Triggered, ShouldBeTrue)
				So(v.Reason, ShouldEqual, "override")
			})
		})
	})

	Convey("Given an evaluator with a raised interaction minimum", t, func() {
		ev := trigger.NewEvaluator(trigger.WithMinEvents(50))

		Convey("When evaluating a history below the minimum", func() {
			v := ev.Evaluate(def("devoted", flagdef.Positive), goodCareContext())

			Convey("Then devoted does not trigger", func() {
				So(v.Triggered, ShouldBeFalse)
				So(v.Conditions["enough_interactions"], ShouldBeFalse)
			})
		})
	})
}
