// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Category tags the role a Candidate fills in a roster.
type Category string

// Football roster categories.
const (
	Goalkeeper Category = "GKP"
	Defender   Category = "DEF"
	Midfielder Category = "MID"
	Forward    Category = "FWD"
)

// Candidate is an immutable record produced by the upstream pipeline.
// A nil Value means the candidate has no estimate and is not eligible.
type Candidate struct {
	ID       string   // identity
	Name     string   // display name
	Category Category // role tag
	Price    int      // integer price units (e.g. tenths of a million)
	Value    *float64 // model value estimate; nil when absent
	Team     string   // team/group identity used by quotas
}

// Eligible reports whether the candidate carries a usable value estimate.
func (c Candidate) Eligible() bool {
	return c.Value != nil && !math.IsNaN(*c.Value) && !math.IsInf(*c.Value, 0)
}

// Float returns a pointer to v. Handy for building Candidates in code.
func Float(v float64) *float64 { return &v }

// Requirement is the number of Candidates of one category a roster holds.
type Requirement struct {
	Category Category `json:"category" koanf:"category"`
	Count    int      `json:"count" koanf:"count"`
}

// Requirements is the ordered composition of a complete roster.
type Requirements []Requirement

// DefaultRequirements is the 2/5/5/3 football squad.
func DefaultRequirements() Requirements {
	return Requirements{
		{Category: Goalkeeper, Count: 2},
		{Category: Defender, Count: 5},
		{Category: Midfielder, Count: 5},
		{Category: Forward, Count: 3},
	}
}

// Size returns the total roster size.
func (r Requirements) Size() int {
	n := 0
	for _, q := range r {
		n += q.Count
	}
	return n
}

// Count returns the required count for category, or 0.
func (r Requirements) Count(c Category) int {
	for _, q := range r {
		if q.Category == c {
			return q.Count
		}
	}
	return 0
}

// Validate checks the composition is non-empty with unique, positive entries.
func (r Requirements) Validate() error {
	if len(r) == 0 {
		return fmt.Errorf("%w: no categories", ErrInvalidRequirement)
	}
	seen := make(map[Category]struct{}, len(r))
	for _, q := range r {
		if q.Category == "" {
			return fmt.Errorf("%w: empty category", ErrInvalidRequirement)
		}
		if q.Count < 1 {
			return fmt.Errorf("%w: %s count %d", ErrInvalidRequirement, q.Category, q.Count)
		}
		if _, dup := seen[q.Category]; dup {
			return fmt.Errorf("%w: duplicate category %s", ErrInvalidRequirement, q.Category)
		}
		seen[q.Category] = struct{}{}
	}
	return nil
}

// RequirementsFromMap builds Requirements from a category->count map.
// Known football categories come first in GKP, DEF, MID, FWD order; the
// rest follow alphabetically.
func RequirementsFromMap(m map[string]int) Requirements {
	order := map[Category]int{Goalkeeper: 0, Defender: 1, Midfielder: 2, Forward: 3}
	out := make(Requirements, 0, len(m))
	for c, n := range m {
		out = append(out, Requirement{Category: Category(strings.ToUpper(c)), Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		oi, iok := order[out[i].Category]
		oj, jok := order[out[j].Category]
		switch {
		case iok && jok:
			return oi < oj
		case iok != jok:
			return iok
		default:
			return out[i].Category < out[j].Category
		}
	})
	return out
}

// Key encodes an ascending ordinal set as a compact map key. Two member
// sets share a key exactly when they hold the same ordinals.
func Key(members []int) string {
	var b strings.Builder
	b.Grow(len(members) * 4)
	for i, m := range members {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(m))
	}
	return b.String()
}
