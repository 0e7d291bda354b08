package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/lineup/internal/app"
	"github.com/okian/lineup/internal/domain/constraint"
	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/types"
	"github.com/okian/lineup/internal/testpool"
	. "github.com/smartystreets/goconvey/convey"
)

func generatedPool(t *testing.T) []byte {
	t.Helper()
	data, err := testpool.Marshal(testpool.Generate(
		testpool.WithSeed(7),
		testpool.WithCategory(model.Goalkeeper, 4),
		testpool.WithCategory(model.Defender, 7),
		testpool.WithCategory(model.Midfielder, 7),
		testpool.WithCategory(model.Forward, 5),
	))
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service and a generated football pool", t, func() {
		svc := service.New(service.WithWorkers(4), service.WithKeep(5))
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		pool := generatedPool(t)
		set := constraint.Set{Upper: 1300, MaxPerTeam: 5}

		Convey("When searching squads end-to-end", func() {
			resp, err := svc.SearchSquads(ctx, types.SquadsRequest{Pool: pool, Constraints: set})
			So(err, ShouldBeNil)

			Convey("Then every squad is complete, affordable and ascending", func() {
				So(resp.Squads, ShouldHaveLength, 5)
				for i, sq := range resp.Squads {
					So(sq.IDs, ShouldHaveLength, 15)
					So(sq.Price, ShouldBeLessThanOrEqualTo, 1300)
					if i > 0 {
						So(sq.Score, ShouldBeGreaterThanOrEqualTo, resp.Squads[i-1].Score)
					}
				}
			})

			Convey("Then the same request gives the same squads", func() {
				again, err := svc.SearchSquads(ctx, types.SquadsRequest{Pool: pool, Constraints: set})
				So(err, ShouldBeNil)
				So(again.Squads, ShouldResemble, resp.Squads)
				So(again.Stats.RunID, ShouldNotEqual, resp.Stats.RunID)
			})

			Convey("And single transfers from the best squad", func() {
				best := resp.Squads[len(resp.Squads)-1]
				one := 1
				tr, err := svc.SearchTransfers(ctx, types.TransfersRequest{
					Pool:         pool,
					Roster:       best.IDs,
					MaxTransfers: &one,
					Constraints:  set,
				})

				Convey("Then no plan outscores the optimal roster", func() {
					So(err, ShouldBeNil)
					So(tr.Current.Score, ShouldAlmostEqual, best.Score, 1e-9)
					for _, p := range tr.Plans {
						So(p.Score, ShouldBeLessThanOrEqualTo, tr.Current.Score+1e-9)
						So(p.Price, ShouldBeLessThanOrEqualTo, 1300)
						So(p.Sell, ShouldHaveLength, 1)
						So(p.Roster, ShouldHaveLength, 15)
					}
				})
			})
		})

		Convey("When the search deadline has passed", func() {
			expired, stop := context.WithTimeout(ctx, -time.Second)
			defer stop()
			_, err := svc.SearchSquads(expired, types.SquadsRequest{Pool: pool, Constraints: set})

			Convey("Then the deadline error surfaces", func() {
				So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
			})
		})

		Convey("When the budget cannot buy a full squad", func() {
			resp, err := svc.SearchSquads(ctx, types.SquadsRequest{Pool: pool, Constraints: constraint.Set{Upper: 100}})

			Convey("Then the result is empty rather than an error", func() {
				So(err, ShouldBeNil)
				So(resp.Squads, ShouldBeEmpty)
				So(resp.Stats.Exhaustive, ShouldBeTrue)
			})
		})
	})
}
