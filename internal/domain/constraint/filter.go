package constraint

import (
	"cmp"
	"slices"
	"strings"

	"github.com/okian/lineup/internal/domain/model"
)

// excludeTeams marks every member of the named teams as excluded. Names
// match case-insensitively; unknown teams are ignored.
func (c *Checker) excludeTeams(names []string) {
	if len(names) == 0 {
		return
	}
	banned := make([]bool, c.pool.Teams())
	for t := range banned {
		name := c.pool.TeamName(t)
		banned[t] = slices.ContainsFunc(names, func(n string) bool {
			return strings.EqualFold(strings.TrimSpace(n), name)
		})
	}
	for i := 0; i < c.pool.Len(); i++ {
		if banned[c.pool.Team(i)] {
			c.excluded[i] = true
		}
	}
}

// prefilter applies MinValue, then TopPerPrice, to the members that are not
// excluded. Must-includes always survive.
func (c *Checker) prefilter() {
	exempt := func(i int) bool {
		return c.excluded[i] || slices.Contains(c.include, i)
	}
	if c.set.MinValue != nil {
		for i := 0; i < c.pool.Len(); i++ {
			if !exempt(i) && c.pool.Value(i) < *c.set.MinValue {
				c.dropped[i] = true
			}
		}
	}
	if c.set.TopPerPrice == 0 {
		return
	}

	type group struct {
		cat   model.Category
		price int
	}
	groups := make(map[group][]int)
	for i := 0; i < c.pool.Len(); i++ {
		if c.excluded[i] || c.dropped[i] {
			continue
		}
		g := group{cat: c.pool.Category(i), price: c.pool.Price(i)}
		groups[g] = append(groups[g], i)
	}
	for _, members := range groups {
		if len(members) <= c.set.TopPerPrice {
			continue
		}
		// Best value first; the lower ordinal wins a tie.
		slices.SortFunc(members, func(a, b int) int {
			if v := cmp.Compare(c.pool.Value(b), c.pool.Value(a)); v != 0 {
				return v
			}
			return cmp.Compare(a, b)
		})
		for _, i := range members[c.set.TopPerPrice:] {
			if !exempt(i) {
				c.dropped[i] = true
			}
		}
	}
}
