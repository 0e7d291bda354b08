// Package search implements the decaying-threshold branch-and-bound squad
// search.
package search

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/okian/lineup/internal/adapters/repository"
	"github.com/okian/lineup/internal/domain/catalogue"
	"github.com/okian/lineup/internal/domain/constraint"
	"github.com/okian/lineup/internal/domain/memo"
	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/scoring"
	"github.com/okian/lineup/pkg/logger"
	"github.com/okian/lineup/pkg/metrics"
)

// Default engine configuration constants.
const (
	defaultKeep      = 10
	defaultDecay     = 0.9
	defaultMaxRounds = 500
	relativeEpsilon  = 1e-9
)

// Stats are the advisory diagnostics of one Run.
type Stats struct {
	CatalogueSizes map[model.Category]int
	Combinations   float64 // product of catalogue sizes
	Rounds         int
	Leaves         uint64 // complete selections reached
	Duplicates     uint64 // rediscovered squads already stored
	Threshold      float64
	Exhaustive     bool // the last round ran without a value bound
	Elapsed        time.Duration
}

// Result is the ranked output of one Run, ascending by score.
type Result struct {
	Squads []model.Squad
	Stats  Stats
}

// Best returns the highest ranked squad.
func (r Result) Best() (model.Squad, bool) {
	if len(r.Squads) == 0 {
		return model.Squad{}, false
	}
	return r.Squads[len(r.Squads)-1], true
}

// Engine runs the squad search over prebuilt catalogues. One Engine serves
// one invocation at a time.
type Engine struct {
	checker   *constraint.Checker
	levels    []*catalogue.Catalogue // nesting order, outermost first
	suffix    catalogue.Suffix
	keep      int
	decay     float64
	maxRounds int
	scorer    scoring.Scorer
	memo      memo.Memo
	logger    logger.Logger
}

// New validates the inputs and prepares an engine. catalogues must hold one
// catalogue per required category; an empty one makes the input infeasible.
func New(checker *constraint.Checker, catalogues []*catalogue.Catalogue, opts ...Option) (*Engine, error) {
	e := &Engine{
		checker:   checker,
		keep:      defaultKeep,
		decay:     defaultDecay,
		maxRounds: defaultMaxRounds,
		scorer:    scoring.NewCombined(),
		logger:    logger.Get().Named("search"),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.memo == nil {
		e.memo = memo.New()
	}

	if err := e.validate(catalogues); err != nil {
		metrics.RecordSearchRun("infeasible")
		metrics.RecordErrorByComponent("search", "infeasible")
		return nil, err
	}

	// Smallest catalogue outermost: the cheapest branching factor first.
	e.levels = slices.Clone(catalogues)
	slices.SortStableFunc(e.levels, func(a, b *catalogue.Catalogue) int {
		return cmp.Compare(a.Len(), b.Len())
	})
	e.suffix = catalogue.SuffixBounds(e.levels)
	return e, nil
}

func (e *Engine) validate(catalogues []*catalogue.Catalogue) error {
	if e.keep < 1 {
		return fmt.Errorf("%w: keep %d", constraint.ErrInfeasibleInput, e.keep)
	}
	if !(e.decay > 0 && e.decay < 1) {
		return fmt.Errorf("%w: decay %v outside (0,1)", constraint.ErrInfeasibleInput, e.decay)
	}
	reqs := e.checker.Requirements()
	if len(catalogues) != len(reqs) {
		return fmt.Errorf("%w: %d catalogues for %d categories", constraint.ErrInfeasibleInput, len(catalogues), len(reqs))
	}
	for _, c := range catalogues {
		if reqs.Count(c.Category) != c.K {
			return fmt.Errorf("%w: %s catalogue of size %d does not match requirement", constraint.ErrInfeasibleInput, c.Category, c.K)
		}
		if c.Empty() {
			return fmt.Errorf("%w: no valid %s combination", constraint.ErrInfeasibleInput, c.Category)
		}
	}
	return nil
}

// Stats returns the catalogue part of the diagnostics before any run.
func (e *Engine) Stats() Stats {
	s := Stats{CatalogueSizes: make(map[model.Category]int, len(e.levels)), Combinations: 1}
	for _, c := range e.levels {
		s.CatalogueSizes[c.Category] = c.Len()
		s.Combinations *= float64(c.Len())
	}
	return s
}

// Run searches for the best squads. The threshold starts at the sum of the
// catalogues' maximum values and decays each round until the store holds
// min(keep, combinations) squads. Once it reaches the sum of minimum values,
// a final round runs without a value bound.
//
// When the scorer is a scoring.Bounder and no value is negative, a full
// store is not enough: rounds continue until nothing below the threshold
// can outscore the stored minimum. Stats.Rounds then counts those extra
// rounds too.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	e.memo.Reset()

	store, err := repository.NewStore[model.Squad](e.keep)
	if err != nil {
		return Result{}, fmt.Errorf("create store: %w", err)
	}
	stats := e.Stats()
	target := math.Min(float64(e.keep), stats.Combinations)

	total := e.suffix.Total()
	threshold := total.MaxValue
	floor := total.MinValue
	eps := relativeEpsilon * math.Max(1, math.Abs(threshold))

	sw := &sweep{
		engine: e,
		ctx:    ctx,
		store:  store,
		tally:  constraint.NewTally(e.checker.Pool(), e.checker.Set().MaxPerTeam),
		chosen: make([][]int, len(e.levels)),
		taken:  make([]bool, e.checker.Pool().Len()),
	}

	bounder, exact := e.scorer.(scoring.Bounder)
	exact = exact && e.nonNegative()

	for !e.settled(store, target, threshold, bounder, exact) {
		if err := ctx.Err(); err != nil {
			return Result{}, e.cancelled(ctx, err)
		}
		bound := threshold * e.decay
		final := threshold <= eps || bound <= floor || bound <= eps || stats.Rounds >= e.maxRounds
		if final {
			bound = math.Inf(-1)
		} else {
			threshold = bound
		}
		stats.Rounds++
		if err := sw.run(bound); err != nil {
			return Result{}, e.cancelled(ctx, err)
		}
		e.logger.Debug(ctx, "round complete",
			logger.Int("round", stats.Rounds),
			logger.Float64("threshold", bound),
			logger.Int("retained", store.Len()),
			logger.Uint64("leaves", sw.leaves),
		)
		if final {
			stats.Exhaustive = true
			break
		}
	}

	entries := store.Drain()
	squads := make([]model.Squad, len(entries))
	for i, en := range entries {
		sq := en.Item
		sq.Seq = en.Rank.Seq
		squads[i] = sq
	}

	stats.Leaves = sw.leaves
	stats.Duplicates = sw.duplicates
	stats.Threshold = threshold
	stats.Elapsed = time.Since(start)
	e.record(ctx, stats, len(squads))
	return Result{Squads: squads, Stats: stats}, nil
}

// settled reports whether the store already holds the final answer. Without
// an exact bound the search stops as soon as the store is full. With one it
// also waits until no squad below the threshold could outscore the current
// minimum, which makes the result the true top-N by score.
func (e *Engine) settled(store *repository.Store[model.Squad], target, threshold float64, bounder scoring.Bounder, exact bool) bool {
	if float64(store.Len()) < target {
		return false
	}
	if !exact {
		return true
	}
	lowest, _ := store.Min()
	return lowest.Rank.Score >= bounder.Bound(threshold)
}

// nonNegative reports whether no pool member has a negative value.
func (e *Engine) nonNegative() bool {
	pool := e.checker.Pool()
	for i := 0; i < pool.Len(); i++ {
		if pool.Value(i) < 0 {
			return false
		}
	}
	return true
}

func (e *Engine) cancelled(ctx context.Context, err error) error {
	metrics.RecordSearchRun("cancelled")
	e.logger.Warn(ctx, "search cancelled", logger.Error(err))
	return fmt.Errorf("search cancelled: %w", err)
}

func (e *Engine) record(ctx context.Context, stats Stats, retained int) {
	outcome := "found"
	if retained == 0 {
		outcome = "empty"
	}
	metrics.RecordSearchRun(outcome)
	metrics.RecordSearchRounds(stats.Rounds)
	metrics.AddSearchLeaves(stats.Leaves)
	metrics.AddSearchDuplicates(stats.Duplicates)
	metrics.UpdateSearchRetained(retained)
	metrics.RecordSearchDuration(float64(stats.Elapsed.Microseconds()) / 1000)

	e.logger.Info(ctx, "search complete",
		logger.String("outcome", outcome),
		logger.Int("retained", retained),
		logger.Int("rounds", stats.Rounds),
		logger.Uint64("leaves", stats.Leaves),
		logger.Uint64("duplicates", stats.Duplicates),
		logger.Bool("exhaustive", stats.Exhaustive),
		logger.Uint64("memo_hits", e.memo.Hits()),
		logger.Duration("elapsed", stats.Elapsed),
	)
}
