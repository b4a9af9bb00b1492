package conflict_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/stablehand/temperament/internal/domain/conflict"
	"github.com/stablehand/temperament/internal/domain/flagdef"
)

func TestResolver_Resolve(t *testing.T) {
	Convey("Given a resolver over the built-in registry", t, func() {
		resolver := conflict.NewResolver(flagdef.Default())

		Convey("When the flag set has no opposing pairs", func() {
			res := resolver.Resolve([]string{"devoted", "curious", "resilient"})

			Convey("Then no dampening is applied", func() {
				So(res.Conflicts, ShouldBeEmpty)
				So(res.Method, ShouldEqual, conflict.MethodNoneNeeded)
				So(res.Dampening, ShouldEqual, 1.0)
			})
		})

		Convey("When the set contains a high-severity pair", func() {
			res := resolver.Resolve([]string{"devoted", "withdrawn"})

			Convey("Then the dominant-flag method applies", func() {
				So(res.Conflicts, ShouldHaveLength, 1)
				So(res.Conflicts[0].Severity, ShouldAlmostEqual, 0.85, 1e-9)
				So(res.Method, ShouldEqual, conflict.MethodDominantFlag)
				// base 0.50 minus one conflict's 0.05 penalty.
				So(res.Dampening, ShouldAlmostEqual, 0.45, 1e-9)
			})
		})

		Convey("When the set contains a moderate-severity pair", func() {
			res := resolver.Resolve([]string{"confident", "anxious"})

			Convey("Then partial cancellation applies", func() {
				So(res.Method, ShouldEqual, conflict.MethodPartialCancellation)
				So(res.Dampening, ShouldAlmostEqual, 0.65, 1e-9)
			})
		})

		Convey("When the set contains only a low-severity pair", func() {
			res := resolver.Resolve([]string{"gentle", "curious", "skittish"})

			Convey("Then a minor reduction applies", func() {
				So(res.Conflicts, ShouldHaveLength, 1)
				So(res.Method, ShouldEqual, conflict.MethodMinorReduction)
				So(res.Dampening, ShouldAlmostEqual, 0.80, 1e-9)
			})
		})

		Convey("When several conflicts are present at once", func() {
			// anxious opposes both confident and resilient.
			res := resolver.Resolve([]string{"confident", "resilient", "anxious"})

			Convey("Then every opposing pair is reported", func() {
				So(res.Conflicts, ShouldHaveLength, 2)
			})

			Convey("And the strongest pair picks the method", func() {
				So(res.Method, ShouldEqual, conflict.MethodPartialCancellation)
				// base 0.70 minus two conflicts' 0.10 penalty.
				So(res.Dampening, ShouldAlmostEqual, 0.60, 1e-9)
			})
		})

		Convey("When the dampening is always bounded", func() {
			sets := [][]string{
				{},
				{"devoted"},
				{"devoted", "withdrawn"},
				{"devoted", "withdrawn", "distrustful"},
				{"confident", "resilient", "anxious", "gentle", "aggressive"},
			}

			Convey("Then every resolution stays within (0,1]", func() {
				for _, flags := range sets {
					res := resolver.Resolve(flags)
					So(res.Dampening, ShouldBeGreaterThanOrEqualTo, 0.25)
					So(res.Dampening, ShouldBeLessThanOrEqualTo, 1.0)
					if len(res.Conflicts) > 0 {
						So(res.Dampening, ShouldBeLessThan, 1.0)
					}
				}
			})
		})
	})

	Convey("Given a resolver with custom options", t, func() {
		resolver := conflict.NewResolver(flagdef.Default(),
			conflict.WithSeverity("curious", "skittish", 0.9),
			conflict.WithDefaultSeverity(0.3),
			conflict.WithConflictPenalty(0.1, 0.3),
			conflict.WithFloor(0.4),
		)

		Convey("When resolving the reweighted pair", func() {
			res := resolver.Resolve([]string{"curious", "skittish"})

			Convey("Then the override escalates it to dominant", func() {
				So(res.Conflicts[0].Severity, ShouldAlmostEqual, 0.9, 1e-9)
				So(res.Method, ShouldEqual, conflict.MethodDominantFlag)
				// base 0.50 minus 0.10 penalty equals the raised floor exactly.
				So(res.Dampening, ShouldAlmostEqual, 0.4, 1e-9)
			})
		})
	})
}
