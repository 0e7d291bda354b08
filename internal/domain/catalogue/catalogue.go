// Package catalogue enumerates the fixed-size combinations of one category
// and derives the bounds the search prunes with.
package catalogue

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/okian/lineup/internal/domain/model"
)

// maxPrealloc caps up-front allocation when no limit is configured.
const maxPrealloc = 1 << 20

// Combination is an unordered fixed-size subset of one category. Members
// are pool ordinals in ascending order; Price and Value are their sums.
type Combination struct {
	Members []int
	Price   int
	Value   float64
}

// Bounds are the cached extremes of a catalogue, or sums of them.
type Bounds struct {
	MinPrice int
	MaxPrice int
	MinValue float64
	MaxValue float64
}

// Catalogue is the read-only sorted sequence of combinations for one
// category: value descending, then price descending, then members.
type Catalogue struct {
	Category model.Category
	K        int
	Entries  []Combination
	bounds   Bounds
}

// Len returns the number of combinations.
func (c *Catalogue) Len() int { return len(c.Entries) }

// Empty reports whether the catalogue holds no combination.
func (c *Catalogue) Empty() bool { return len(c.Entries) == 0 }

// Bounds returns the catalogue bounds. MaxValue is the first entry's value.
func (c *Catalogue) Bounds() Bounds { return c.bounds }

// Build enumerates every size-k subset of members (ordinals of one
// category in pool). Fewer than k members yields an empty catalogue.
func Build(pool *model.Pool, cat model.Category, members []int, k int, opts ...Option) (*Catalogue, error) {
	o := buildOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	c := &Catalogue{Category: cat, K: k}
	n := len(members)
	if k < 1 || n < k {
		return c, nil
	}
	total := Count(n, k)
	if o.limit > 0 && total > float64(o.limit) {
		return nil, fmt.Errorf("%w: %s has %.0f combinations of %d, limit %d", ErrCatalogueTooLarge, cat, total, k, o.limit)
	}

	sorted := slices.Clone(members)
	slices.Sort(sorted)
	hint := int(min(total, maxPrealloc))
	arena := make([]int, 0, hint*k)
	entries := make([]Combination, 0, hint)
	var teamCounts []int
	if o.teamQuota > 0 {
		teamCounts = make([]int, pool.Teams())
	}

	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		start := len(arena)
		price, value := 0, 0.0
		for _, i := range idx {
			m := sorted[i]
			arena = append(arena, m)
			price += pool.Price(m)
			value += pool.Value(m)
		}
		subset := arena[start:len(arena):len(arena)]
		if keep(pool, subset, o, teamCounts) {
			entries = append(entries, Combination{Members: subset, Price: price, Value: value})
		} else {
			arena = arena[:start]
		}
		if !next(idx, n) {
			break
		}
	}

	slices.SortFunc(entries, compare)
	c.Entries = entries
	c.bounds = measure(entries)
	return c, nil
}

// Count returns the binomial coefficient n choose k as a float64 so large
// products do not overflow.
func Count(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	r := 1.0
	for i := 1; i <= k; i++ {
		r = r * float64(n-k+i) / float64(i)
	}
	return math.Round(r)
}

// next advances idx to the following k-subset of [0, n) in lexicographic
// order and reports whether one exists.
func next(idx []int, n int) bool {
	k := len(idx)
	i := k - 1
	for i >= 0 && idx[i] == n-k+i {
		i--
	}
	if i < 0 {
		return false
	}
	idx[i]++
	for j := i + 1; j < k; j++ {
		idx[j] = idx[j-1] + 1
	}
	return true
}

func keep(pool *model.Pool, subset []int, o buildOptions, teamCounts []int) bool {
	for _, inc := range o.include {
		if _, ok := slices.BinarySearch(subset, inc); !ok {
			return false
		}
	}
	if teamCounts == nil {
		return true
	}
	ok := true
	for _, m := range subset {
		t := pool.Team(m)
		teamCounts[t]++
		if teamCounts[t] > o.teamQuota {
			ok = false
		}
	}
	for _, m := range subset {
		teamCounts[pool.Team(m)] = 0
	}
	return ok
}

func compare(a, b Combination) int {
	if c := cmp.Compare(b.Value, a.Value); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Price, a.Price); c != 0 {
		return c
	}
	return slices.Compare(a.Members, b.Members)
}

func measure(entries []Combination) Bounds {
	if len(entries) == 0 {
		return Bounds{}
	}
	b := Bounds{
		MinPrice: entries[0].Price,
		MaxPrice: entries[0].Price,
		MinValue: entries[len(entries)-1].Value,
		MaxValue: entries[0].Value,
	}
	for _, e := range entries[1:] {
		b.MinPrice = min(b.MinPrice, e.Price)
		b.MaxPrice = max(b.MaxPrice, e.Price)
	}
	return b
}
