package search

import (
	"context"
	"math"
	"slices"

	"github.com/okian/lineup/internal/adapters/repository"
	"github.com/okian/lineup/internal/domain/constraint"
	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/scoring"
)

// sweep holds the mutable state of pruned sweeps within one Run. The tally,
// the chosen entries and the taken marks are restored on the way back up,
// so consecutive rounds reuse them.
type sweep struct {
	engine *Engine
	ctx    context.Context //nolint:containedctx // scoped to one Run
	store  *repository.Store[model.Squad]
	tally  *constraint.Tally
	chosen [][]int
	taken  []bool

	threshold float64
	slack     float64

	leaves     uint64
	duplicates uint64
}

// run performs one full sweep at threshold. Only squads whose aggregate
// value exceeds threshold qualify.
func (s *sweep) run(threshold float64) error {
	s.threshold = threshold
	// Level bounds are summed in a different order than leaf values; the
	// slack keeps a rounding difference from pruning a qualifying squad.
	s.slack = 0
	if !math.IsInf(threshold, 0) {
		s.slack = relativeEpsilon * math.Max(1, math.Abs(threshold))
	}
	return s.level(0, 0, 0)
}

func (s *sweep) level(i, price int, value float64) error {
	e := s.engine
	cat := e.levels[i]
	below := e.suffix.Below(i)
	set := e.checker.Set()
	last := i == len(e.levels)-1

	for _, entry := range cat.Entries {
		if i == 0 {
			if err := s.ctx.Err(); err != nil {
				return err
			}
		}
		v := value + entry.Value
		// Entries are sorted by value, so every later entry fails too.
		if v+below.MaxValue+s.slack <= s.threshold {
			break
		}
		p := price + entry.Price
		if p+below.MinPrice > set.Upper || p+below.MaxPrice < set.Lower {
			continue
		}
		if s.overlaps(entry.Members) {
			continue
		}
		if !s.tally.TryAdd(entry.Members) {
			continue
		}
		s.mark(entry.Members, true)
		s.chosen[i] = entry.Members

		var err error
		if last {
			s.leaf(p, v)
		} else {
			err = s.level(i+1, p, v)
		}

		s.mark(entry.Members, false)
		s.tally.Remove(entry.Members)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *sweep) leaf(price int, value float64) {
	s.leaves++
	if !(value > s.threshold) {
		return
	}
	e := s.engine
	size := 0
	for _, c := range s.chosen {
		size += len(c)
	}
	members := make([]int, 0, size)
	for _, c := range s.chosen {
		members = append(members, c...)
	}
	slices.Sort(members)

	if !e.checker.Allows(members, price) {
		return
	}
	key := model.Key(members)
	if s.store.Contains(key) {
		s.duplicates++
		return
	}
	score := e.memo.Score(key, func() float64 {
		return e.scorer.Score(scoring.Input{Pool: e.checker.Pool(), Members: members, Value: value})
	})
	s.store.Offer(key, score, price, model.Squad{
		Members: members,
		Price:   price,
		Value:   value,
		Score:   score,
	})
}

func (s *sweep) overlaps(members []int) bool {
	for _, m := range members {
		if s.taken[m] {
			return true
		}
	}
	return false
}

func (s *sweep) mark(members []int, v bool) {
	for _, m := range members {
		s.taken[m] = v
	}
}
