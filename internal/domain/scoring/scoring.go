// Package scoring defines the contract for ranking complete rosters.
package scoring

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/okian/lineup/internal/domain/model"
)

// Default starting formation constants.
const (
	defaultFormationSize = 11
	defaultMinGoalkeeper = 1
	defaultMaxGoalkeeper = 1
	defaultMinDefender   = 3
	defaultMinMidfielder = 2
	defaultMinForward    = 1
)

// ErrInvalidFormation reports a formation no roster can satisfy.
var ErrInvalidFormation = errors.New("invalid formation")

// Input is a complete roster handed to a Scorer.
type Input struct {
	Pool    *model.Pool
	Members []int   // ascending pool ordinals
	Value   float64 // aggregate value of Members
}

// Scorer ranks a complete roster. Implementations must be deterministic.
type Scorer interface {
	Score(in Input) float64
}

// Bounder is implemented by scorers that can cap the score of any roster
// whose aggregate value is at most v, provided no member value is negative.
type Bounder interface {
	Bound(v float64) float64
}

// Formation is the shape of the best starting subset: Size members with
// per-category minimums and maximums. A zero maximum means unbounded.
type Formation struct {
	Size int                    `json:"size"`
	Min  map[model.Category]int `json:"min,omitempty"`
	Max  map[model.Category]int `json:"max,omitempty"`
}

// DefaultFormation is eleven starters with one goalkeeper, at least three
// defenders, two midfielders and one forward.
func DefaultFormation() Formation {
	return Formation{
		Size: defaultFormationSize,
		Min: map[model.Category]int{
			model.Goalkeeper: defaultMinGoalkeeper,
			model.Defender:   defaultMinDefender,
			model.Midfielder: defaultMinMidfielder,
			model.Forward:    defaultMinForward,
		},
		Max: map[model.Category]int{model.Goalkeeper: defaultMaxGoalkeeper},
	}
}

// Validate checks the formation is internally consistent.
func (f Formation) Validate() error {
	if f.Size < 1 {
		return fmt.Errorf("%w: size %d", ErrInvalidFormation, f.Size)
	}
	total := 0
	for c, n := range f.Min {
		if n < 0 {
			return fmt.Errorf("%w: negative minimum for %s", ErrInvalidFormation, c)
		}
		if hi := f.Max[c]; hi > 0 && n > hi {
			return fmt.Errorf("%w: %s minimum %d above maximum %d", ErrInvalidFormation, c, n, hi)
		}
		total += n
	}
	if total > f.Size {
		return fmt.Errorf("%w: minimums need %d of %d slots", ErrInvalidFormation, total, f.Size)
	}
	return nil
}

// Starting returns the highest-value subset of members fitting f, in
// descending value order. Minimums are filled first, then the remaining
// slots go to the best members whose category still has room.
func (f Formation) Starting(pool *model.Pool, members []int) []int {
	ranked := slices.Clone(members)
	slices.SortFunc(ranked, byValue(pool))

	size := min(f.Size, len(ranked))
	picked := make([]bool, len(ranked))
	counts := make(map[model.Category]int, len(f.Min))
	out := make([]int, 0, size)
	for i, m := range ranked {
		c := pool.Category(m)
		if counts[c] < f.Min[c] && len(out) < size {
			picked[i] = true
			counts[c]++
			out = append(out, m)
		}
	}
	for i, m := range ranked {
		if len(out) == size {
			break
		}
		c := pool.Category(m)
		if picked[i] || (f.Max[c] > 0 && counts[c] >= f.Max[c]) {
			continue
		}
		picked[i] = true
		counts[c]++
		out = append(out, m)
	}
	slices.SortFunc(out, byValue(pool))
	return out
}

// byValue orders ordinals by value descending, then ordinal ascending.
func byValue(pool *model.Pool) func(a, b int) int {
	return func(a, b int) int {
		if c := cmp.Compare(pool.Value(b), pool.Value(a)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	}
}

// Option applies a configuration option to the Combined scorer.
type Option func(*Combined)

// WithFormation sets the starting formation.
func WithFormation(f Formation) Option {
	return func(s *Combined) {
		s.formation = &f
	}
}

// WithoutFormation treats the whole roster as the starting subset.
func WithoutFormation() Option {
	return func(s *Combined) {
		s.formation = nil
	}
}

// Combined scores a roster as sqrt(value² + starting value²), rewarding
// both depth and the strength of its best starting subset.
type Combined struct {
	formation *Formation
}

// NewCombined creates a Combined scorer with the default formation.
func NewCombined(opts ...Option) *Combined {
	f := DefaultFormation()
	s := &Combined{formation: &f}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score implements Scorer.
func (s *Combined) Score(in Input) float64 {
	return math.Hypot(in.Value, s.StartingValue(in.Pool, in.Members, in.Value))
}

// StartingValue returns the value of the best starting subset. value is the
// roster's aggregate and is returned as is without a formation.
func (s *Combined) StartingValue(pool *model.Pool, members []int, value float64) float64 {
	if s.formation == nil {
		return value
	}
	_, v := pool.Totals(s.formation.Starting(pool, members))
	return v
}

// Starting returns the best starting subset, or every member without a
// formation.
func (s *Combined) Starting(pool *model.Pool, members []int) []int {
	if s.formation == nil {
		return slices.Clone(members)
	}
	return s.formation.Starting(pool, members)
}

// Bound implements Bounder. With non-negative members the starting value
// never exceeds the aggregate, so the score is at most sqrt(2)·v.
func (s *Combined) Bound(v float64) float64 {
	if v < 0 {
		return math.Inf(-1)
	}
	return math.Sqrt2 * v
}

// Aggregate scores a roster by its aggregate value alone.
type Aggregate struct{}

// Score implements Scorer.
func (Aggregate) Score(in Input) float64 { return in.Value }

// Bound implements Bounder.
func (Aggregate) Bound(v float64) float64 { return v }
