package types_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/lineup/internal/domain/constraint"
	"github.com/okian/lineup/internal/domain/model"
	types "github.com/okian/lineup/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSquadsRequest(t *testing.T) {
	Convey("Given a squads request body", t, func() {
		body := `{
			"pool": [{"id": "a", "category": "GKP", "price": 45, "value": 3}],
			"requirements": {"GKP": 1},
			"constraints": {
				"lower": 0, "upper": 1000, "max_per_team": 3,
				"include": ["a"],
				"pairwise": [{"a": "GKP", "b": "DEF"}],
				"category_team_quota": {"DEF": 2},
				"exclude_teams": ["ARS"],
				"min_value": 1.5,
				"top_per_price": 4
			},
			"keep": 5,
			"decay": 0.8,
			"scorer": "aggregate"
		}`

		Convey("When it is decoded", func() {
			var req types.SquadsRequest
			err := json.Unmarshal([]byte(body), &req)

			Convey("Then constraints arrive as a constraint set", func() {
				So(err, ShouldBeNil)
				So(req.Constraints.Upper, ShouldEqual, 1000)
				So(req.Constraints.MaxPerTeam, ShouldEqual, 3)
				So(req.Constraints.Include, ShouldResemble, []string{"a"})
				So(req.Constraints.Pairwise, ShouldResemble, []constraint.Pair{{A: model.Goalkeeper, B: model.Defender}})
				So(req.Constraints.CategoryTeamQuota[model.Defender], ShouldEqual, 2)
			})

			Convey("Then pool filters arrive with the constraints", func() {
				So(req.Constraints.ExcludeTeams, ShouldResemble, []string{"ARS"})
				So(*req.Constraints.MinValue, ShouldEqual, 1.5)
				So(req.Constraints.TopPerPrice, ShouldEqual, 4)
			})

			Convey("Then the pool is kept raw for the ingest layer", func() {
				So(string(req.Pool), ShouldStartWith, "[")
				So(req.Requirements, ShouldResemble, map[string]int{"GKP": 1})
				So(req.Keep, ShouldEqual, 5)
				So(req.Decay, ShouldEqual, 0.8)
				So(req.Scorer, ShouldEqual, types.ScorerAggregate)
			})
		})
	})
}

func TestTransfersRequest(t *testing.T) {
	Convey("Given a transfers request", t, func() {
		Convey("When max_transfers is omitted", func() {
			var req types.TransfersRequest
			So(json.Unmarshal([]byte(`{"roster": ["a", "b"]}`), &req), ShouldBeNil)

			Convey("Then it stays unset so the service default applies", func() {
				So(req.MaxTransfers, ShouldBeNil)
				So(req.Roster, ShouldHaveLength, 2)
			})
		})

		Convey("When max_transfers is zero", func() {
			var req types.TransfersRequest
			So(json.Unmarshal([]byte(`{"roster": ["a"], "max_transfers": 0}`), &req), ShouldBeNil)

			Convey("Then the explicit zero is kept", func() {
				So(req.MaxTransfers, ShouldNotBeNil)
				So(*req.MaxTransfers, ShouldEqual, 0)
			})
		})
	})
}

func TestSquadEncoding(t *testing.T) {
	Convey("Given a squad descriptor", t, func() {
		sq := types.Squad{IDs: []string{"a", "b"}, Price: 90, Value: 7.5, Combined: 10.6, Score: 10.6}

		Convey("When it is encoded", func() {
			out, err := json.Marshal(sq)

			Convey("Then it uses the documented field names", func() {
				So(err, ShouldBeNil)
				So(string(out), ShouldEqual, `{"ids":["a","b"],"price":90,"value":7.5,"combined":10.6,"score":10.6}`)
			})
		})
	})
}
