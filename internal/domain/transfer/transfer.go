// Package transfer proposes bounded swaps to an existing roster.
package transfer

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sort"
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

// Default search configuration constants.
const (
	defaultKeep         = 10
	defaultMaxTransfers = 2
)

// Plan is one swap: Sell leaves the roster, Buy joins it. All member lists
// are ascending pool ordinals.
type Plan struct {
	Sell   []int
	Buy    []int
	Roster []int   // resulting roster
	Delta  int     // bought price minus sold price
	Price  int     // resulting roster price
	Value  float64 // resulting roster value
	Gain   float64 // bought value minus sold value
	Score  float64
	Seq    uint64
}

// Stats are the advisory diagnostics of one Run.
type Stats struct {
	Pairs    uint64 // sell/buy pairs inside the price window
	Retained int
	Elapsed  time.Duration
}

// Result holds the unchanged roster and the retained plans ascending by
// score.
type Result struct {
	Current Plan
	Plans   []Plan
	Stats   Stats
}

// Best returns the highest ranked plan, or the hold plan when none was
// found.
func (r Result) Best() Plan {
	if len(r.Plans) == 0 {
		return r.Current
	}
	return r.Plans[len(r.Plans)-1]
}

// Search enumerates sell/buy pairs for one roster.
type Search struct {
	checker      *constraint.Checker
	roster       []int
	keep         int
	maxTransfers int
	objective    Objective
	requireGain  bool
	limit        int
	scorer       scoring.Scorer
	memo         memo.Memo
	logger       logger.Logger

	catIndex map[model.Category]int
}

// New prepares a transfer search. checker must be compiled against the
// roster's own composition.
func New(checker *constraint.Checker, roster []int, opts ...Option) (*Search, error) {
	s := &Search{
		checker:      checker,
		roster:       slices.Clone(roster),
		keep:         defaultKeep,
		maxTransfers: defaultMaxTransfers,
		objective:    ObjectiveCombined,
		scorer:       scoring.NewCombined(),
		logger:       logger.Get().Named("transfer"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.memo == nil {
		s.memo = memo.New()
	}
	slices.Sort(s.roster)

	if err := s.validate(); err != nil {
		metrics.RecordTransferRun("infeasible")
		metrics.RecordErrorByComponent("transfer", "infeasible")
		return nil, err
	}
	s.catIndex = make(map[model.Category]int, len(checker.Requirements()))
	for i, r := range checker.Requirements() {
		s.catIndex[r.Category] = i
	}
	return s, nil
}

func (s *Search) validate() error {
	if s.keep < 1 {
		return fmt.Errorf("%w: keep %d", constraint.ErrInfeasibleInput, s.keep)
	}
	if s.maxTransfers < 0 {
		return fmt.Errorf("%w: max transfers %d", constraint.ErrInfeasibleInput, s.maxTransfers)
	}
	if s.objective != ObjectiveCombined && s.objective != ObjectiveGain {
		return fmt.Errorf("%w: unknown objective %q", constraint.ErrInfeasibleInput, s.objective)
	}
	if len(s.roster) == 0 {
		return fmt.Errorf("%w: empty roster", constraint.ErrInfeasibleInput)
	}
	have := s.checker.Pool().Composition(s.roster)
	want := s.checker.Requirements()
	if len(have) != len(want) {
		return fmt.Errorf("%w: roster composition does not match requirements", constraint.ErrInfeasibleInput)
	}
	for _, r := range have {
		if want.Count(r.Category) != r.Count {
			return fmt.Errorf("%w: roster holds %d %s, requirement is %d", constraint.ErrInfeasibleInput, r.Count, r.Category, want.Count(r.Category))
		}
	}
	return nil
}

// subset is a sell or buy combination with its category signature.
type subset struct {
	catalogue.Combination
	sig []int
}

// Run evaluates every swap of 1..maxTransfers members. Finding nothing is a
// valid outcome: the result then holds only the hold plan.
func (s *Search) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	s.memo.Reset()
	pool := s.checker.Pool()

	store, err := repository.NewStore[Plan](s.keep)
	if err != nil {
		return Result{}, fmt.Errorf("create store: %w", err)
	}

	price, value := pool.Totals(s.roster)
	current := Plan{Roster: s.roster, Price: price, Value: value}
	if s.objective == ObjectiveCombined {
		current.Score = s.rosterScore(s.roster, value)
	}

	set := s.checker.Set()
	lo, hi := set.Lower-price, set.Upper-price
	candidates := s.buyable()
	var stats Stats

	for n := 1; n <= s.maxTransfers && n <= len(s.roster); n++ {
		if err := ctx.Err(); err != nil {
			metrics.RecordTransferRun("cancelled")
			return Result{}, fmt.Errorf("transfer search cancelled: %w", err)
		}
		sells, err := s.subsets(s.roster, n)
		if err != nil {
			return Result{}, err
		}
		buys, err := s.subsets(candidates, n)
		if err != nil {
			return Result{}, err
		}
		if len(sells) == 0 || len(buys) == 0 {
			continue
		}

		for _, sell := range sells {
			first := sort.Search(len(buys), func(i int) bool { return buys[i].Price-sell.Price >= lo })
			for _, buy := range buys[first:] {
				delta := buy.Price - sell.Price
				if delta > hi {
					break
				}
				stats.Pairs++
				if !slices.Equal(sell.sig, buy.sig) {
					continue
				}
				gain := buy.Value - sell.Value
				if s.requireGain && gain < 0 {
					continue
				}
				roster := swap(s.roster, sell.Members, buy.Members)
				if !s.checker.Allows(roster, price+delta) {
					continue
				}
				plan := Plan{
					Sell:   sell.Members,
					Buy:    buy.Members,
					Roster: roster,
					Delta:  delta,
					Price:  price + delta,
					Value:  value + gain,
					Gain:   gain,
				}
				plan.Score = gain
				if s.objective == ObjectiveCombined {
					plan.Score = s.rosterScore(roster, plan.Value)
				}
				store.Offer(model.Key(roster), plan.Score, plan.Price, plan)
			}
		}
	}

	entries := store.Drain()
	plans := make([]Plan, len(entries))
	for i, en := range entries {
		p := en.Item
		p.Seq = en.Rank.Seq
		plans[i] = p
	}
	stats.Retained = len(plans)
	stats.Elapsed = time.Since(start)
	s.record(ctx, stats)
	return Result{Current: current, Plans: plans, Stats: stats}, nil
}

func (s *Search) rosterScore(roster []int, value float64) float64 {
	return s.memo.Score(model.Key(roster), func() float64 {
		return s.scorer.Score(scoring.Input{Pool: s.checker.Pool(), Members: roster, Value: value})
	})
}

// buyable returns non-excluded pool members outside the roster whose
// category the roster uses.
func (s *Search) buyable() []int {
	var out []int
	for _, r := range s.checker.Requirements() {
		for _, i := range s.checker.Eligible(r.Category) {
			if _, in := slices.BinarySearch(s.roster, i); !in {
				out = append(out, i)
			}
		}
	}
	slices.Sort(out)
	return out
}

// subsets returns every size-n subset of members ascending by price.
func (s *Search) subsets(members []int, n int) ([]subset, error) {
	pool := s.checker.Pool()
	cat, err := catalogue.Build(pool, "", members, n, catalogue.WithLimit(s.limit))
	if err != nil {
		return nil, fmt.Errorf("enumerate %d-subsets: %w", n, err)
	}
	out := make([]subset, len(cat.Entries))
	for i, c := range cat.Entries {
		sig := make([]int, len(s.catIndex))
		for _, m := range c.Members {
			sig[s.catIndex[pool.Category(m)]]++
		}
		out[i] = subset{Combination: c, sig: sig}
	}
	slices.SortStableFunc(out, func(a, b subset) int {
		if c := cmp.Compare(a.Price, b.Price); c != 0 {
			return c
		}
		return slices.Compare(a.Members, b.Members)
	})
	return out, nil
}

// swap returns roster without sell and with buy, ascending.
func swap(roster, sell, buy []int) []int {
	out := make([]int, 0, len(roster))
	for _, m := range roster {
		if _, sold := slices.BinarySearch(sell, m); !sold {
			out = append(out, m)
		}
	}
	out = append(out, buy...)
	slices.Sort(out)
	return out
}

func (s *Search) record(ctx context.Context, stats Stats) {
	outcome := "found"
	if stats.Retained == 0 {
		outcome = "hold"
	}
	metrics.RecordTransferRun(outcome)
	metrics.AddTransferPairs(stats.Pairs)
	metrics.UpdateTransferRetained(stats.Retained)
	s.logger.Info(ctx, "transfer search complete",
		logger.String("outcome", outcome),
		logger.String("objective", string(s.objective)),
		logger.Int("max_transfers", s.maxTransfers),
		logger.Uint64("pairs", stats.Pairs),
		logger.Int("retained", stats.Retained),
		logger.Duration("elapsed", stats.Elapsed),
	)
}
