// Package constraint validates roster constraints and checks complete
// selections against them.
package constraint

import (
	"fmt"
	"slices"

	"github.com/okian/lineup/internal/domain/model"
)

// Pair names two categories whose members must not share a team.
type Pair struct {
	A model.Category `json:"a"`
	B model.Category `json:"b"`
}

// Set is the caller-facing constraint set. Zero quotas mean unlimited.
//
// Exclude and ExcludeTeams are hard: no selection may hold those members.
// MinValue and TopPerPrice only shrink the pool candidates are picked from;
// a transfer roster may keep members they drop, and must-includes are
// exempt from them.
type Set struct {
	Lower             int                    `json:"lower"`
	Upper             int                    `json:"upper"`
	MaxPerTeam        int                    `json:"max_per_team"`
	Include           []string               `json:"include,omitempty"`
	Exclude           []string               `json:"exclude,omitempty"`
	ExcludeTeams      []string               `json:"exclude_teams,omitempty"`
	MinValue          *float64               `json:"min_value,omitempty"`
	TopPerPrice       int                    `json:"top_per_price,omitempty"` // keep the N best per category and price
	Pairwise          []Pair                 `json:"pairwise,omitempty"`
	CategoryTeamQuota map[model.Category]int `json:"category_team_quota,omitempty"`
}

// Checker is a Set resolved against one Pool and one composition. It keeps
// scratch buffers, so one Checker serves a single goroutine.
type Checker struct {
	pool      *model.Pool
	reqs      model.Requirements
	set       Set
	include   []int
	inclByCat map[model.Category][]int
	excluded  []bool
	dropped   []bool

	counts []int
	marks  []uint32
	stamp  uint32
}

// Compile validates set against pool and reqs. Every contradiction wraps
// ErrInfeasibleInput.
func Compile(pool *model.Pool, reqs model.Requirements, set Set) (*Checker, error) {
	if err := reqs.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInfeasibleInput, err)
	}
	if set.Lower > set.Upper {
		return nil, fmt.Errorf("%w: budget lower %d above upper %d", ErrInfeasibleInput, set.Lower, set.Upper)
	}
	if set.MaxPerTeam < 0 {
		return nil, fmt.Errorf("%w: negative team quota", ErrInfeasibleInput)
	}
	if set.TopPerPrice < 0 {
		return nil, fmt.Errorf("%w: negative top per price %d", ErrInfeasibleInput, set.TopPerPrice)
	}
	for _, p := range set.Pairwise {
		if p.A == p.B {
			return nil, fmt.Errorf("%w: pairwise rule pairs %s with itself", ErrInfeasibleInput, p.A)
		}
	}
	c := &Checker{
		pool:      pool,
		reqs:      reqs,
		set:       set,
		inclByCat: make(map[model.Category][]int),
		excluded:  make([]bool, pool.Len()),
		dropped:   make([]bool, pool.Len()),
		counts:    make([]int, pool.Teams()),
		marks:     make([]uint32, pool.Teams()),
	}
	for _, id := range set.Exclude {
		// Unknown or ineligible exclusions are already absent.
		if i, ok := pool.Index(id); ok {
			c.excluded[i] = true
		}
	}
	c.excludeTeams(set.ExcludeTeams)
	for _, id := range set.Include {
		i, ok := pool.Index(id)
		if !ok {
			return nil, fmt.Errorf("%w: include %s is not an eligible candidate", ErrInfeasibleInput, id)
		}
		if c.excluded[i] {
			return nil, fmt.Errorf("%w: %s is both included and excluded", ErrInfeasibleInput, id)
		}
		cat := pool.Category(i)
		if reqs.Count(cat) == 0 {
			return nil, fmt.Errorf("%w: include %s has unused category %s", ErrInfeasibleInput, id, cat)
		}
		if slices.Contains(c.inclByCat[cat], i) {
			continue
		}
		c.inclByCat[cat] = append(c.inclByCat[cat], i)
		c.include = append(c.include, i)
	}
	for cat, ids := range c.inclByCat {
		if len(ids) > reqs.Count(cat) {
			return nil, fmt.Errorf("%w: %d includes for %d %s slots", ErrInfeasibleInput, len(ids), reqs.Count(cat), cat)
		}
	}
	c.prefilter()
	if !c.quotasHold(c.include) {
		return nil, fmt.Errorf("%w: included candidates breach a team rule", ErrInfeasibleInput)
	}
	for _, r := range reqs {
		if n := len(c.Eligible(r.Category)); n < r.Count {
			return nil, fmt.Errorf("%w: %d eligible %s for %d slots", ErrInfeasibleInput, n, r.Category, r.Count)
		}
	}
	return c, nil
}

// Pool returns the pool the checker was compiled against.
func (c *Checker) Pool() *model.Pool { return c.pool }

// Requirements returns the roster composition.
func (c *Checker) Requirements() model.Requirements { return c.reqs }

// Set returns the source constraint set.
func (c *Checker) Set() Set { return c.set }

// Eligible returns the ordinals of category cat a selection may pick:
// neither excluded nor dropped by the pool filters.
func (c *Checker) Eligible(cat model.Category) []int {
	all := c.pool.InCategory(cat)
	out := make([]int, 0, len(all))
	for _, i := range all {
		if !c.excluded[i] && !c.dropped[i] {
			out = append(out, i)
		}
	}
	return out
}

// Included returns the must-include ordinals of category cat.
func (c *Checker) Included(cat model.Category) []int { return c.inclByCat[cat] }

// Excluded reports whether ordinal i is excluded.
func (c *Checker) Excluded(i int) bool { return c.excluded[i] }

// Dropped reports whether a pool filter removed ordinal i from selection.
func (c *Checker) Dropped(i int) bool { return c.dropped[i] }

// InBudget reports whether price lies in the budget window.
func (c *Checker) InBudget(price int) bool {
	return price >= c.set.Lower && price <= c.set.Upper
}

// Allows performs the full validation of a complete selection: budget,
// team quotas, pairwise rules and include/exclude sets.
func (c *Checker) Allows(members []int, price int) bool {
	if !c.InBudget(price) {
		return false
	}
	for _, m := range members {
		if c.excluded[m] {
			return false
		}
	}
	for _, i := range c.include {
		if _, found := slices.BinarySearch(members, i); !found {
			return false
		}
	}
	return c.quotasHold(members)
}

// quotasHold checks the team quota, per-category team quotas and pairwise
// rules for members.
func (c *Checker) quotasHold(members []int) bool {
	if c.set.MaxPerTeam > 0 {
		ok := true
		for _, m := range members {
			t := c.pool.Team(m)
			c.counts[t]++
			if c.counts[t] > c.set.MaxPerTeam {
				ok = false
			}
		}
		c.resetCounts(members)
		if !ok {
			return false
		}
	}
	for cat, quota := range c.set.CategoryTeamQuota {
		if quota <= 0 {
			continue
		}
		ok := true
		for _, m := range members {
			if c.pool.Category(m) != cat {
				continue
			}
			t := c.pool.Team(m)
			c.counts[t]++
			if c.counts[t] > quota {
				ok = false
			}
		}
		c.resetCounts(members)
		if !ok {
			return false
		}
	}
	for _, p := range c.set.Pairwise {
		if c.shareTeam(members, p) {
			return false
		}
	}
	return true
}

func (c *Checker) shareTeam(members []int, p Pair) bool {
	c.stamp++
	if c.stamp == 0 {
		clear(c.marks)
		c.stamp = 1
	}
	for _, m := range members {
		if c.pool.Category(m) == p.A {
			c.marks[c.pool.Team(m)] = c.stamp
		}
	}
	for _, m := range members {
		if c.pool.Category(m) == p.B && c.marks[c.pool.Team(m)] == c.stamp {
			return true
		}
	}
	return false
}

func (c *Checker) resetCounts(members []int) {
	for _, m := range members {
		c.counts[c.pool.Team(m)] = 0
	}
}
