package transfer_test

import (
	"context"
	"os"
	"testing"

	"github.com/okian/lineup/internal/domain/constraint"
	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/scoring"
	"github.com/okian/lineup/internal/domain/transfer"
	"github.com/okian/lineup/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func fixture(t *testing.T) *model.Pool {
	t.Helper()
	pool, err := model.NewPool([]model.Candidate{
		{ID: "g1", Category: model.Goalkeeper, Price: 45, Value: model.Float(4), Team: "A"},
		{ID: "g2", Category: model.Goalkeeper, Price: 50, Value: model.Float(6), Team: "B"},
		{ID: "d1", Category: model.Defender, Price: 40, Value: model.Float(2), Team: "A"},
		{ID: "d2", Category: model.Defender, Price: 45, Value: model.Float(3), Team: "C"},
		{ID: "d3", Category: model.Defender, Price: 55, Value: model.Float(7), Team: "D"},
		{ID: "d4", Category: model.Defender, Price: 38, Value: model.Float(1), Team: "E"},
	})
	require.NoError(t, err)
	return pool
}

func run(t *testing.T, set constraint.Set, opts ...transfer.Option) (transfer.Result, *model.Pool) {
	t.Helper()
	pool := fixture(t)
	roster, err := pool.Resolve([]string{"g1", "d1", "d2"})
	require.NoError(t, err)
	checker, err := constraint.Compile(pool, pool.Composition(roster), set)
	require.NoError(t, err)
	opts = append([]transfer.Option{transfer.WithScorer(scoring.Aggregate{})}, opts...)
	s, err := transfer.New(checker, roster, opts...)
	require.NoError(t, err)
	res, err := s.Run(context.Background())
	require.NoError(t, err)
	return res, pool
}

func ids(pool *model.Pool, members []int) []string { return pool.IDs(members) }

func TestHoldPlan(t *testing.T) {
	t.Run("zero transfers", func(t *testing.T) {
		res, pool := run(t, constraint.Set{Lower: 100, Upper: 145}, transfer.WithMaxTransfers(0))
		assert.Empty(t, res.Plans)
		best := res.Best()
		assert.ElementsMatch(t, []string{"g1", "d1", "d2"}, ids(pool, best.Roster))
		assert.Zero(t, best.Delta)
		assert.Equal(t, 130, best.Price)
		assert.Empty(t, best.Sell)
	})

	t.Run("no pair inside the price window", func(t *testing.T) {
		res, _ := run(t, constraint.Set{Lower: 130, Upper: 130}, transfer.WithMaxTransfers(2))
		assert.Empty(t, res.Plans)
		assert.Zero(t, res.Best().Delta)
		assert.Equal(t, 130, res.Best().Price)
	})
}

func TestSingleTransfers(t *testing.T) {
	res, pool := run(t, constraint.Set{Lower: 100, Upper: 145}, transfer.WithMaxTransfers(1))
	require.Len(t, res.Plans, 5)

	best := res.Best()
	assert.Equal(t, []string{"d1"}, ids(pool, best.Sell))
	assert.Equal(t, []string{"d3"}, ids(pool, best.Buy))
	assert.Equal(t, 15, best.Delta)
	assert.Equal(t, 145, best.Price)
	assert.InDelta(t, 14, best.Value, 1e-9)
	assert.InDelta(t, 5, best.Gain, 1e-9)

	for i, p := range res.Plans {
		assert.GreaterOrEqual(t, p.Price, 100)
		assert.LessOrEqual(t, p.Price, 145)
		assert.Equal(t, pool.Composition(p.Roster), model.Requirements{
			{Category: model.Defender, Count: 2},
			{Category: model.Goalkeeper, Count: 1},
		})
		if i > 0 {
			assert.GreaterOrEqual(t, p.Score, res.Plans[i-1].Score)
		}
	}
	assert.Equal(t, 130, res.Current.Price)
	assert.Positive(t, res.Stats.Pairs)
}

func TestDoubleTransfers(t *testing.T) {
	res, pool := run(t, constraint.Set{Lower: 100, Upper: 145}, transfer.WithMaxTransfers(2))
	best := res.Best()
	assert.ElementsMatch(t, []string{"g1", "d2"}, ids(pool, best.Sell))
	assert.ElementsMatch(t, []string{"g2", "d3"}, ids(pool, best.Buy))
	assert.InDelta(t, 15, best.Value, 1e-9)
	assert.Equal(t, 145, best.Price)
}

func TestRequireGain(t *testing.T) {
	res, _ := run(t, constraint.Set{Lower: 100, Upper: 145}, transfer.WithMaxTransfers(1), transfer.WithRequireGain(true))
	require.Len(t, res.Plans, 3)
	for _, p := range res.Plans {
		assert.GreaterOrEqual(t, p.Gain, 0.0)
	}
}

func TestGainObjective(t *testing.T) {
	res, pool := run(t, constraint.Set{Lower: 100, Upper: 145},
		transfer.WithMaxTransfers(1), transfer.WithObjective(transfer.ObjectiveGain))
	best := res.Best()
	assert.InDelta(t, 5, best.Score, 1e-9)
	assert.Equal(t, []string{"d3"}, ids(pool, best.Buy))
	assert.Zero(t, res.Current.Score)
}

func TestMustInclude(t *testing.T) {
	res, pool := run(t, constraint.Set{Lower: 100, Upper: 145, Include: []string{"g2"}}, transfer.WithMaxTransfers(1))
	require.Len(t, res.Plans, 1)
	assert.Equal(t, []string{"g2"}, ids(pool, res.Plans[0].Buy))
}

func TestInvalidInput(t *testing.T) {
	pool := fixture(t)
	roster, err := pool.Resolve([]string{"g1", "d1", "d2"})
	require.NoError(t, err)
	checker, err := constraint.Compile(pool, pool.Composition(roster), constraint.Set{Upper: 500})
	require.NoError(t, err)

	_, err = transfer.New(checker, roster, transfer.WithObjective("luck"))
	assert.ErrorIs(t, err, constraint.ErrInfeasibleInput)

	_, err = transfer.New(checker, roster, transfer.WithMaxTransfers(-1))
	assert.ErrorIs(t, err, constraint.ErrInfeasibleInput)

	short, err := pool.Resolve([]string{"g1", "d1"})
	require.NoError(t, err)
	_, err = transfer.New(checker, short)
	assert.ErrorIs(t, err, constraint.ErrInfeasibleInput)
}

func TestPoolFilters(t *testing.T) {
	t.Run("minimum value limits buys but not the roster", func(t *testing.T) {
		res, pool := run(t, constraint.Set{Lower: 100, Upper: 145, MinValue: model.Float(3)}, transfer.WithMaxTransfers(1))
		require.Len(t, res.Plans, 3)
		for _, p := range res.Plans {
			assert.NotContains(t, ids(pool, p.Buy), "d4")
		}
		assert.Equal(t, []string{"d3"}, ids(pool, res.Best().Buy))
	})

	t.Run("excluded team must be sold entirely", func(t *testing.T) {
		res, pool := run(t, constraint.Set{Lower: 100, Upper: 145, ExcludeTeams: []string{"A"}}, transfer.WithMaxTransfers(2))
		require.Len(t, res.Plans, 1)
		best := res.Best()
		assert.ElementsMatch(t, []string{"g1", "d1"}, ids(pool, best.Sell))
		assert.ElementsMatch(t, []string{"g2", "d4"}, ids(pool, best.Buy))
		assert.Equal(t, 133, best.Price)
	})
}
