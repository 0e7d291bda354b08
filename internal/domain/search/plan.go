package search

import (
	"github.com/okian/lineup/internal/domain/catalogue"
	"github.com/okian/lineup/internal/domain/constraint"
)

// Specs returns one catalogue spec per required category. Excluded
// candidates are left out, must-includes are applied as a post-pass and
// combinations that alone break a team quota are dropped. limit caps each
// catalogue; zero disables the cap.
func Specs(c *constraint.Checker, limit int) []catalogue.Spec {
	set := c.Set()
	specs := make([]catalogue.Spec, 0, len(c.Requirements()))
	for _, r := range c.Requirements() {
		quota := set.MaxPerTeam
		if q := set.CategoryTeamQuota[r.Category]; q > 0 && (quota <= 0 || q < quota) {
			quota = q
		}
		specs = append(specs, catalogue.Spec{
			Category: r.Category,
			Members:  c.Eligible(r.Category),
			K:        r.Count,
			Options: []catalogue.Option{
				catalogue.WithInclude(c.Included(r.Category)),
				catalogue.WithTeamQuota(quota),
				catalogue.WithLimit(limit),
			},
		})
	}
	return specs
}
