package model

import (
	"fmt"
	"slices"
	"sort"
)

// Pool is the immutable, indexed set of eligible Candidates for one
// invocation. Every eligible Candidate gets a dense ordinal and every team
// a dense team ordinal so the search can work on plain arrays.
type Pool struct {
	members []Candidate
	value   []float64
	team    []int
	byID    map[string]int
	byCat   map[Category][]int
	teams   []string
	teamIdx map[string]int
	skipped int
}

// NewPool filters out ineligible Candidates and indexes the rest. Ordinals
// follow (category, id) order so the pool is independent of input order.
func NewPool(candidates []Candidate) (*Pool, error) {
	seen := make(map[string]struct{}, len(candidates))
	eligible := make([]Candidate, 0, len(candidates))
	p := &Pool{
		byID:    make(map[string]int, len(candidates)),
		byCat:   make(map[Category][]int),
		teamIdx: make(map[string]int),
	}
	for _, c := range candidates {
		if c.ID == "" {
			return nil, ErrEmptyID
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCandidate, c.ID)
		}
		seen[c.ID] = struct{}{}
		if !c.Eligible() {
			p.skipped++
			continue
		}
		eligible = append(eligible, c)
	}
	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].Category != eligible[j].Category {
			return eligible[i].Category < eligible[j].Category
		}
		return eligible[i].ID < eligible[j].ID
	})

	p.members = eligible
	p.value = make([]float64, len(eligible))
	p.team = make([]int, len(eligible))
	for i, c := range eligible {
		p.byID[c.ID] = i
		p.byCat[c.Category] = append(p.byCat[c.Category], i)
		p.value[i] = *c.Value
		t, ok := p.teamIdx[c.Team]
		if !ok {
			t = len(p.teams)
			p.teamIdx[c.Team] = t
			p.teams = append(p.teams, c.Team)
		}
		p.team[i] = t
	}
	return p, nil
}

// Len returns the number of eligible Candidates.
func (p *Pool) Len() int { return len(p.members) }

// Skipped returns how many input Candidates had no value estimate.
func (p *Pool) Skipped() int { return p.skipped }

// Candidate returns the Candidate at ordinal i.
func (p *Pool) Candidate(i int) Candidate { return p.members[i] }

// Value returns the value estimate at ordinal i.
func (p *Pool) Value(i int) float64 { return p.value[i] }

// Price returns the price at ordinal i.
func (p *Pool) Price(i int) int { return p.members[i].Price }

// Category returns the category at ordinal i.
func (p *Pool) Category(i int) Category { return p.members[i].Category }

// Team returns the team ordinal at ordinal i.
func (p *Pool) Team(i int) int { return p.team[i] }

// Teams returns the number of distinct teams.
func (p *Pool) Teams() int { return len(p.teams) }

// TeamName returns the team identity for team ordinal t.
func (p *Pool) TeamName(t int) string { return p.teams[t] }

// Index returns the ordinal of the Candidate with id.
func (p *Pool) Index(id string) (int, bool) {
	i, ok := p.byID[id]
	return i, ok
}

// InCategory returns the ordinals of category c in ascending order. The
// slice is shared and must not be modified.
func (p *Pool) InCategory(c Category) []int { return p.byCat[c] }

// Resolve maps IDs to ascending ordinals. Every ID must name a distinct
// eligible Candidate.
func (p *Pool) Resolve(ids []string) ([]int, error) {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		i, ok := p.byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCandidate, id)
		}
		out = append(out, i)
	}
	slices.Sort(out)
	for k := 1; k < len(out); k++ {
		if out[k] == out[k-1] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCandidate, p.members[out[k]].ID)
		}
	}
	return out, nil
}

// Composition returns the category counts of members in the order the
// categories first appear among them.
func (p *Pool) Composition(members []int) Requirements {
	var out Requirements
	for _, m := range members {
		c := p.members[m].Category
		found := false
		for i := range out {
			if out[i].Category == c {
				out[i].Count++
				found = true
				break
			}
		}
		if !found {
			out = append(out, Requirement{Category: c, Count: 1})
		}
	}
	return out
}

// IDs maps ordinals to Candidate IDs.
func (p *Pool) IDs(members []int) []string {
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = p.members[m].ID
	}
	return out
}

// Totals returns the aggregate price and value of members.
func (p *Pool) Totals(members []int) (price int, value float64) {
	for _, m := range members {
		price += p.members[m].Price
		value += p.value[m]
	}
	return price, value
}
