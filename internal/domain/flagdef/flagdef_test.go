package flagdef_test

import (
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/stablehand/temperament/internal/domain/flagdef"
)

func TestRegistry(t *testing.T) {
	Convey("Given a set of valid definitions", t, func() {
		defs := []flagdef.Definition{
			{Name: "devoted", Valence: flagdef.Positive, ConflictsWith: []string{"withdrawn"}},
			{Name: "withdrawn", Valence: flagdef.Negative},
			{Name: "curious", Valence: flagdef.Positive},
		}

		Convey("When building a registry", func() {
			r, err := flagdef.NewRegistry(defs)

			Convey("Then it succeeds and preserves declaration order", func() {
				So(err, ShouldBeNil)
				So(r.Len(), ShouldEqual, 3)
				got := r.Definitions()
				So(got[0].Name, ShouldEqual, "devoted")
				So(got[1].Name, ShouldEqual, "withdrawn")
				So(got[2].Name, ShouldEqual, "curious")
			})

			Convey("And one-sided conflict declarations become symmetric", func() {
				So(err, ShouldBeNil)
				So(r.Conflicts("devoted", "withdrawn"), ShouldBeTrue)
				So(r.Conflicts("withdrawn", "devoted"), ShouldBeTrue)
				So(r.Conflicts("devoted", "curious"), ShouldBeFalse)
				So(r.Conflicts("devoted", "devoted"), ShouldBeFalse)
			})

			Convey("And lookup finds known flags only", func() {
				So(err, ShouldBeNil)
				d, ok := r.Lookup("curious")
				So(ok, ShouldBeTrue)
				So(d.Valence, ShouldEqual, flagdef.Positive)
				_, ok = r.Lookup("bold")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When mutating the returned definitions slice", func() {
			r, err := flagdef.NewRegistry(defs)
			So(err, ShouldBeNil)

			got := r.Definitions()
			got[0].Name = "mangled"

			Convey("Then the registry is unaffected", func() {
				d, ok := r.Lookup("devoted")
				So(ok, ShouldBeTrue)
				So(d.Name, ShouldEqual, "devoted")
			})
		})
	})

	Convey("Given invalid definitions", t, func() {
		Convey("When a definition has no name", func() {
			_, err := flagdef.NewRegistry([]flagdef.Definition{
				{Name: "  ", Valence: flagdef.Positive},
			})

			Convey("Then registration fails", func() {
				So(err, ShouldWrap, flagdef.ErrInvalidDefinition)
			})
		})

		Convey("When a definition has an unknown valence", func() {
			_, err := flagdef.NewRegistry([]flagdef.Definition{
				{Name: "devoted", Valence: "neutral"},
			})

			Convey("Then registration fails", func() {
				So(err, ShouldWrap, flagdef.ErrInvalidDefinition)
			})
		})

		Convey("When two definitions share a name", func() {
			_, err := flagdef.NewRegistry([]flagdef.Definition{
				{Name: "devoted", Valence: flagdef.Positive},
				{Name: "devoted", Valence: flagdef.Negative},
			})

			Convey("Then registration fails", func() {
				So(err, ShouldWrap, flagdef.ErrDuplicateDefinition)
			})
		})

		Convey("When a conflict references an unregistered flag", func() {
			_, err := flagdef.NewRegistry([]flagdef.Definition{
				{Name: "devoted", Valence: flagdef.Positive, ConflictsWith: []string{"ghost"}},
			})

			Convey("Then registration fails", func() {
				So(err, ShouldWrap, flagdef.ErrUnknownConflict)
			})
		})
	})

	Convey("Given the built-in flag set", t, func() {
		r := flagdef.Default()

		Convey("Then it registers ten flags", func() {
			So(r.Len(), ShouldEqual, 10)
		})

		Convey("Then every built-in conflict is symmetric", func() {
			for _, d := range r.Definitions() {
				for _, other := range d.ConflictsWith {
					So(r.Conflicts(d.Name, other), ShouldBeTrue)
					So(r.Conflicts(other, d.Name), ShouldBeTrue)
				}
			}
		})

		Convey("Then the known opposing pairs conflict", func() {
			So(r.Conflicts("devoted", "withdrawn"), ShouldBeTrue)
			So(r.Conflicts("confident", "anxious"), ShouldBeTrue)
			So(r.Conflicts("gentle", "aggressive"), ShouldBeTrue)
			So(r.Conflicts("curious", "skittish"), ShouldBeTrue)
			So(r.Conflicts("resilient", "anxious"), ShouldBeTrue)
		})
	})
}

func TestLoadFile(t *testing.T) {
	Convey("Given a YAML definitions file", t, func() {
		content := `
flags:
  - name: devoted
    valence: positive
    conflicts_with: [withdrawn]
    effects:
      competition:
        obedience: 3
      stress_modifier: -2
      bonding_modifier: 3
      breeding_traits:
        social: 0.05
  - name: withdrawn
    valence: negative
    effects:
      bonding_modifier: -3
`
		path := writeTempFile(content)
		defer func() { _ = os.Remove(path) }()

		Convey("When loading the file", func() {
			r, err := flagdef.LoadFile(path)

			Convey("Then the registry reflects the file", func() {
				So(err, ShouldBeNil)
				So(r.Len(), ShouldEqual, 2)

				d, ok := r.Lookup("devoted")
				So(ok, ShouldBeTrue)
				So(d.Effects.Competition["obedience"], ShouldEqual, 3)
				So(d.Effects.StressModifier, ShouldEqual, -2)
				So(d.Effects.BreedingTraits["social"], ShouldAlmostEqual, 0.05, 1e-9)
				So(r.Conflicts("withdrawn", "devoted"), ShouldBeTrue)
			})
		})
	})

	Convey("Given a file with no flags", t, func() {
		path := writeTempFile("flags: []\n")
		defer func() { _ = os.Remove(path) }()

		Convey("When loading the file", func() {
			_, err := flagdef.LoadFile(path)

			Convey("Then loading fails", func() {
				So(err, ShouldWrap, flagdef.ErrLoadDefinitions)
			})
		})
	})

	Convey("Given a missing file", t, func() {
		_, err := flagdef.LoadFile("/non/existent/flags.yaml")

		Convey("Then loading fails", func() {
			So(err, ShouldWrap, flagdef.ErrLoadDefinitions)
		})
	})
}

func writeTempFile(content string) string {
	f, err := os.CreateTemp("", "flagdefs-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := f.WriteString(content); err != nil {
		panic(err)
	}
	_ = f.Close()
	return f.Name()
}
