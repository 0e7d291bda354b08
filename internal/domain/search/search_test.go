package search_test

import (
	"context"
	"errors"
	"os"
	"slices"
	"sort"
	"testing"

	"github.com/okian/lineup/internal/domain/catalogue"
	"github.com/okian/lineup/internal/domain/constraint"
	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/scoring"
	"github.com/okian/lineup/internal/domain/search"
	"github.com/okian/lineup/internal/testpool"
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

func newEngine(t *testing.T, cands []model.Candidate, reqs model.Requirements, set constraint.Set, opts ...search.Option) (*search.Engine, *model.Pool, error) {
	t.Helper()
	pool, err := model.NewPool(cands)
	require.NoError(t, err)
	checker, err := constraint.Compile(pool, reqs, set)
	if err != nil {
		return nil, pool, err
	}
	cats, err := catalogue.BuildAll(pool, search.Specs(checker, 0))
	require.NoError(t, err)
	e, err := search.New(checker, cats, opts...)
	return e, pool, err
}

func pairCandidates() []model.Candidate {
	return []model.Candidate{
		{ID: "p1", Category: model.Midfielder, Price: 40, Value: model.Float(2), Team: "A"},
		{ID: "p2", Category: model.Midfielder, Price: 45, Value: model.Float(3), Team: "B"},
		{ID: "p3", Category: model.Midfielder, Price: 50, Value: model.Float(4), Team: "C"},
		{ID: "p4", Category: model.Midfielder, Price: 55, Value: model.Float(5), Team: "D"},
	}
}

func TestPairScenario(t *testing.T) {
	reqs := model.Requirements{{Category: model.Midfielder, Count: 2}}
	cases := []struct {
		name         string
		lower, upper int
		price        int
		value        float64
	}{
		{"maximum pair fits", 85, 160, 105, 9},
		{"maximum pair over budget", 85, 104, 100, 8},
		{"only the cheapest pair fits", 85, 85, 85, 5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e, pool, err := newEngine(t, pairCandidates(), reqs, constraint.Set{Lower: c.lower, Upper: c.upper}, search.WithKeep(1))
			require.NoError(t, err)
			res, err := e.Run(context.Background())
			require.NoError(t, err)
			require.Len(t, res.Squads, 1)
			best, ok := res.Best()
			require.True(t, ok)
			assert.Equal(t, c.price, best.Price)
			assert.Equal(t, c.value, best.Value)
			price, value := pool.Totals(best.Members)
			assert.Equal(t, price, best.Price)
			assert.Equal(t, value, best.Value)
			assert.Equal(t, 6.0, res.Stats.Combinations)
		})
	}
}

func TestMustIncludeInfeasible(t *testing.T) {
	cands := []model.Candidate{
		{ID: "d1", Category: model.Defender, Price: 50, Value: model.Float(5), Team: "ARS"},
		{ID: "d2", Category: model.Defender, Price: 50, Value: model.Float(4), Team: "ARS"},
		{ID: "d3", Category: model.Defender, Price: 50, Value: model.Float(3), Team: "ARS"},
		{ID: "f1", Category: model.Forward, Price: 50, Value: model.Float(3), Team: "CHE"},
	}
	reqs := model.Requirements{{Category: model.Defender, Count: 2}, {Category: model.Forward, Count: 1}}
	set := constraint.Set{
		Upper:             1000,
		Include:           []string{"d1"},
		CategoryTeamQuota: map[model.Category]int{model.Defender: 1},
	}

	e, _, err := newEngine(t, cands, reqs, set)
	assert.Nil(t, e)
	assert.True(t, errors.Is(err, constraint.ErrInfeasibleInput), "got %v", err)
}

func TestInvalidParameters(t *testing.T) {
	reqs := model.Requirements{{Category: model.Midfielder, Count: 2}}
	set := constraint.Set{Upper: 500}
	for name, opt := range map[string]search.Option{
		"zero keep":  search.WithKeep(0),
		"zero decay": search.WithDecay(0),
		"unit decay": search.WithDecay(1),
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := newEngine(t, pairCandidates(), reqs, set, opt)
			assert.ErrorIs(t, err, constraint.ErrInfeasibleInput)
		})
	}
}

// mediumPool keeps the full fifteen-man composition but small enough
// catalogues for tests to stay quick.
func mediumPool(seed int64) []model.Candidate {
	return testpool.Generate(
		testpool.WithSeed(seed),
		testpool.WithCategory(model.Goalkeeper, 4),
		testpool.WithCategory(model.Defender, 8),
		testpool.WithCategory(model.Midfielder, 8),
		testpool.WithCategory(model.Forward, 5),
		testpool.WithTeams(8),
	)
}

func footballSet() constraint.Set {
	return constraint.Set{Lower: 900, Upper: 1200, MaxPerTeam: 3}
}

func TestConstraintsHold(t *testing.T) {
	cands := mediumPool(11)
	reqs := model.DefaultRequirements()
	set := footballSet()
	e, pool, err := newEngine(t, cands, reqs, set, search.WithKeep(15))
	require.NoError(t, err)

	res, err := e.Run(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, res.Squads)

	seen := map[string]bool{}
	for i, sq := range res.Squads {
		assert.GreaterOrEqual(t, sq.Price, set.Lower)
		assert.LessOrEqual(t, sq.Price, set.Upper)
		teams := map[int]int{}
		cats := map[model.Category]int{}
		for _, m := range sq.Members {
			teams[pool.Team(m)]++
			cats[pool.Category(m)]++
		}
		for _, n := range teams {
			assert.LessOrEqual(t, n, set.MaxPerTeam)
		}
		for _, r := range reqs {
			assert.Equal(t, r.Count, cats[r.Category])
		}
		assert.False(t, seen[sq.Key()], "duplicate squad")
		seen[sq.Key()] = true
		if i > 0 {
			assert.GreaterOrEqual(t, sq.Score, res.Squads[i-1].Score, "ascending by score")
		}
	}
	assert.Positive(t, res.Stats.Rounds)
	assert.Positive(t, res.Stats.Leaves)
}

func TestDeterminism(t *testing.T) {
	cands := mediumPool(5)
	run := func() []model.Squad {
		e, _, err := newEngine(t, cands, model.DefaultRequirements(), footballSet(), search.WithKeep(8), search.WithDecay(0.85))
		require.NoError(t, err)
		res, err := e.Run(context.Background())
		require.NoError(t, err)
		return res.Squads
	}
	assert.Equal(t, run(), run())
}

func keys(squads []model.Squad) map[string]bool {
	out := make(map[string]bool, len(squads))
	for _, sq := range squads {
		out[sq.Key()] = true
	}
	return out
}

func TestMonotonicity(t *testing.T) {
	cands := mediumPool(3)
	reqs := model.DefaultRequirements()

	t.Run("larger keep retains every smaller-keep squad", func(t *testing.T) {
		var prev map[string]bool
		for _, n := range []int{1, 3, 6, 12} {
			e, _, err := newEngine(t, cands, reqs, footballSet(), search.WithKeep(n))
			require.NoError(t, err)
			res, err := e.Run(context.Background())
			require.NoError(t, err)
			cur := keys(res.Squads)
			for k := range prev {
				assert.True(t, cur[k], "keep %d dropped %s", n, k)
			}
			prev = cur
		}
	})

	t.Run("narrower budget never improves the best score", func(t *testing.T) {
		best := func(set constraint.Set) float64 {
			e, _, err := newEngine(t, cands, reqs, set, search.WithKeep(1))
			require.NoError(t, err)
			res, err := e.Run(context.Background())
			require.NoError(t, err)
			sq, ok := res.Best()
			if !ok {
				return 0
			}
			return sq.Score
		}
		wide := best(constraint.Set{Lower: 800, Upper: 1300, MaxPerTeam: 3})
		narrow := best(constraint.Set{Lower: 900, Upper: 1100, MaxPerTeam: 3})
		narrower := best(constraint.Set{Lower: 950, Upper: 1000, MaxPerTeam: 3})
		assert.GreaterOrEqual(t, wide, narrow)
		assert.GreaterOrEqual(t, narrow, narrower)
	})
}

// bruteForce enumerates the full Cartesian product of the catalogues and
// returns every feasible squad ordered best first.
func bruteForce(t *testing.T, cands []model.Candidate, reqs model.Requirements, set constraint.Set, scorer scoring.Scorer) []model.Squad {
	t.Helper()
	pool, err := model.NewPool(cands)
	require.NoError(t, err)
	checker, err := constraint.Compile(pool, reqs, set)
	require.NoError(t, err)
	specs := make([]catalogue.Spec, 0, len(reqs))
	for _, r := range reqs {
		specs = append(specs, catalogue.Spec{Category: r.Category, Members: checker.Eligible(r.Category), K: r.Count})
	}
	cats, err := catalogue.BuildAll(pool, specs)
	require.NoError(t, err)

	var out []model.Squad
	var walk func(i int, members []int)
	walk = func(i int, members []int) {
		if i == len(cats) {
			ms := slices.Clone(members)
			slices.Sort(ms)
			price, value := pool.Totals(ms)
			if !checker.Allows(ms, price) {
				return
			}
			out = append(out, model.Squad{
				Members: ms, Price: price, Value: value,
				Score: scorer.Score(scoring.Input{Pool: pool, Members: ms, Value: value}),
			})
			return
		}
		for _, e := range cats[i].Entries {
			walk(i+1, append(members, e.Members...))
		}
	}
	walk(0, nil)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Price > out[j].Price
	})
	return out
}

func smallPool(seed int64) []model.Candidate {
	return testpool.Generate(
		testpool.WithSeed(seed),
		testpool.WithCategory(model.Goalkeeper, 3),
		testpool.WithCategory(model.Defender, 6),
		testpool.WithCategory(model.Midfielder, 6),
		testpool.WithCategory(model.Forward, 4),
		testpool.WithTeams(5),
	)
}

var smallReqs = model.Requirements{
	{Category: model.Goalkeeper, Count: 1},
	{Category: model.Defender, Count: 3},
	{Category: model.Midfielder, Count: 3},
	{Category: model.Forward, Count: 2},
}

func TestMatchesExhaustiveTopN(t *testing.T) {
	set := constraint.Set{Lower: 500, Upper: 800, MaxPerTeam: 3, Pairwise: []constraint.Pair{{A: model.Goalkeeper, B: model.Defender}}}
	for _, seed := range []int64{1, 2, 3, 4} {
		for _, scorer := range []scoring.Scorer{scoring.Aggregate{}, scoring.NewCombined(scoring.WithFormation(scoring.Formation{Size: 6}))} {
			cands := smallPool(seed)
			want := bruteForce(t, cands, smallReqs, set, scorer)
			const keep = 7
			e, _, err := newEngine(t, cands, smallReqs, set, search.WithKeep(keep), search.WithScorer(scorer))
			require.NoError(t, err)
			res, err := e.Run(context.Background())
			require.NoError(t, err)

			n := min(keep, len(want))
			require.Len(t, res.Squads, n, "seed %d", seed)
			for i := 0; i < n; i++ {
				got := res.Squads[len(res.Squads)-1-i]
				assert.InDelta(t, want[i].Score, got.Score, 1e-9, "seed %d rank %d", seed, i)
			}
		}
	}
}

func TestExhaustiveWhenNothingQualifies(t *testing.T) {
	// A budget no squad can meet: the search degenerates to one exhaustive
	// round and reports an empty result without error.
	e, _, err := newEngine(t, smallPool(9), smallReqs, constraint.Set{Lower: 0, Upper: 10})
	require.NoError(t, err)
	res, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Squads)
	assert.True(t, res.Stats.Exhaustive)
	_, ok := res.Best()
	assert.False(t, ok)
}

func TestCancellation(t *testing.T) {
	e, _, err := newEngine(t, testpool.Generate(), model.DefaultRequirements(), footballSet())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

// valueOnly ranks by aggregate value without offering a bound.
type valueOnly struct{}

func (valueOnly) Score(in scoring.Input) float64 { return in.Value }

func TestExactModeRoundsPastFullStore(t *testing.T) {
	cands := smallPool(5)
	set := constraint.Set{Lower: 500, Upper: 800, MaxPerTeam: 3}
	rounds := func(scorer scoring.Scorer) (int, int) {
		e, _, err := newEngine(t, cands, smallReqs, set, search.WithKeep(7), search.WithScorer(scorer))
		require.NoError(t, err)
		res, err := e.Run(context.Background())
		require.NoError(t, err)
		return res.Stats.Rounds, len(res.Squads)
	}
	exact, exactN := rounds(scoring.Aggregate{})
	plain, plainN := rounds(valueOnly{})
	assert.Equal(t, exactN, plainN)
	assert.GreaterOrEqual(t, exact, plain)
}
