package model_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/lineup/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRequirements(t *testing.T) {
	Convey("Given the default football requirements", t, func() {
		reqs := model.DefaultRequirements()

		Convey("Then the roster has fifteen members in four categories", func() {
			So(reqs.Size(), ShouldEqual, 15)
			So(reqs.Count(model.Defender), ShouldEqual, 5)
			So(reqs.Count("XYZ"), ShouldEqual, 0)
			So(reqs.Validate(), ShouldBeNil)
		})
	})

	Convey("Given malformed requirements", t, func() {
		cases := []model.Requirements{
			nil,
			{{Category: "", Count: 1}},
			{{Category: model.Forward, Count: 0}},
			{{Category: model.Forward, Count: 1}, {Category: model.Forward, Count: 2}},
		}

		Convey("Then each one is rejected", func() {
			for _, r := range cases {
				So(errors.Is(r.Validate(), model.ErrInvalidRequirement), ShouldBeTrue)
			}
		})
	})

	Convey("Given a requirements map", t, func() {
		reqs := model.RequirementsFromMap(map[string]int{"fwd": 3, "gkp": 2, "zzz": 1, "mid": 5, "def": 5, "aaa": 1})

		Convey("Then football categories come first in their usual order", func() {
			got := make([]model.Category, len(reqs))
			for i, r := range reqs {
				got[i] = r.Category
			}
			So(got, ShouldResemble, []model.Category{"GKP", "DEF", "MID", "FWD", "AAA", "ZZZ"})
		})
	})
}

func TestPool(t *testing.T) {
	Convey("Given candidates with a missing estimate", t, func() {
		cands := []model.Candidate{
			{ID: "b", Category: model.Forward, Price: 50, Value: model.Float(4), Team: "ARS"},
			{ID: "a", Category: model.Forward, Price: 40, Value: model.Float(2), Team: "LIV"},
			{ID: "c", Category: model.Goalkeeper, Price: 45, Value: nil, Team: "ARS"},
			{ID: "d", Category: model.Defender, Price: 45, Value: model.Float(math.NaN()), Team: "CHE"},
			{ID: "e", Category: model.Defender, Price: 42, Value: model.Float(3), Team: "ARS"},
		}

		pool, err := model.NewPool(cands)

		Convey("Then only eligible candidates are indexed", func() {
			So(err, ShouldBeNil)
			So(pool.Len(), ShouldEqual, 3)
			So(pool.Skipped(), ShouldEqual, 2)
			_, ok := pool.Index("c")
			So(ok, ShouldBeFalse)
		})

		Convey("Then ordinals follow category and id order", func() {
			So(pool.IDs([]int{0, 1, 2}), ShouldResemble, []string{"e", "a", "b"})
			So(pool.InCategory(model.Forward), ShouldResemble, []int{1, 2})
		})

		Convey("Then teams share ordinals", func() {
			So(pool.Teams(), ShouldEqual, 2)
			So(pool.Team(0), ShouldEqual, pool.Team(2))
			So(pool.TeamName(pool.Team(1)), ShouldEqual, "LIV")
		})

		Convey("Then IDs resolve to sorted ordinals", func() {
			got, err := pool.Resolve([]string{"b", "e"})
			So(err, ShouldBeNil)
			So(got, ShouldResemble, []int{0, 2})

			_, err = pool.Resolve([]string{"c"})
			So(errors.Is(err, model.ErrUnknownCandidate), ShouldBeTrue)
			_, err = pool.Resolve([]string{"a", "a"})
			So(errors.Is(err, model.ErrDuplicateCandidate), ShouldBeTrue)
		})

		Convey("Then composition counts categories", func() {
			So(pool.Composition([]int{0, 1, 2}), ShouldResemble, model.Requirements{
				{Category: model.Defender, Count: 1},
				{Category: model.Forward, Count: 2},
			})
		})

		Convey("Then totals sum the exact members", func() {
			price, value := pool.Totals([]int{1, 2})
			So(price, ShouldEqual, 90)
			So(value, ShouldEqual, 6)
		})
	})

	Convey("Given candidates with bad identities", t, func() {
		_, errDup := model.NewPool([]model.Candidate{{ID: "x", Value: model.Float(1)}, {ID: "x", Value: model.Float(2)}})
		_, errEmpty := model.NewPool([]model.Candidate{{ID: "", Value: model.Float(1)}})

		Convey("Then construction fails", func() {
			So(errors.Is(errDup, model.ErrDuplicateCandidate), ShouldBeTrue)
			So(errors.Is(errEmpty, model.ErrEmptyID), ShouldBeTrue)
		})
	})
}

func TestSquadKey(t *testing.T) {
	Convey("Given two squads with the same members", t, func() {
		a := model.Squad{Members: []int{1, 4, 9}, Seq: 1}
		b := model.Squad{Members: []int{1, 4, 9}, Seq: 7}

		Convey("Then their keys match", func() {
			So(a.Key(), ShouldEqual, b.Key())
			So(a.Key(), ShouldEqual, "1,4,9")
			So(model.Key([]int{14, 9}), ShouldNotEqual, model.Key([]int{1, 49}))
		})
	})
}
