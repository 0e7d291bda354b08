package catalogue

// Option configures Build.
type Option func(*buildOptions)

type buildOptions struct {
	include   []int
	teamQuota int
	limit     int
}

// WithInclude keeps only combinations containing every ordinal in include.
func WithInclude(include []int) Option {
	return func(o *buildOptions) {
		o.include = include
	}
}

// WithTeamQuota drops combinations holding more than quota members of one
// team. Any roster containing such a combination breaks the quota anyway.
func WithTeamQuota(quota int) Option {
	return func(o *buildOptions) {
		if quota > 0 {
			o.teamQuota = quota
		}
	}
}

// WithLimit refuses to enumerate more than limit subsets.
func WithLimit(limit int) Option {
	return func(o *buildOptions) {
		if limit > 0 {
			o.limit = limit
		}
	}
}
