package testpool

import "github.com/okian/lineup/internal/domain/model"

// Config holds the shape of a generated pool.
type Config struct {
	Seed        int64                  // generator seed; equal seeds give equal pools
	PerCategory map[model.Category]int // candidates per category
	Teams       int                    // distinct teams
	MinPrice    int                    // inclusive price range
	MaxPrice    int
	MissingRate float64 // share of candidates without a value estimate
}

// DefaultConfig is a small football pool: 6 GKP, 14 DEF, 14 MID, 8 FWD
// over 10 teams, priced 40..130.
func DefaultConfig() Config {
	return Config{
		Seed: 1,
		PerCategory: map[model.Category]int{
			model.Goalkeeper: 6,
			model.Defender:   14,
			model.Midfielder: 14,
			model.Forward:    8,
		},
		Teams:    10,
		MinPrice: 40,
		MaxPrice: 130,
	}
}

// Option adjusts a Config.
type Option func(*Config)

// WithSeed sets the generator seed.
func WithSeed(seed int64) Option {
	return func(c *Config) {
		c.Seed = seed
	}
}

// WithCategory sets the candidate count of one category.
func WithCategory(cat model.Category, n int) Option {
	return func(c *Config) {
		if n >= 0 {
			c.PerCategory[cat] = n
		}
	}
}

// WithTeams sets the number of distinct teams.
func WithTeams(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.Teams = n
		}
	}
}

// WithPriceRange sets the inclusive price range.
func WithPriceRange(lo, hi int) Option {
	return func(c *Config) {
		if lo >= 0 && hi >= lo {
			c.MinPrice, c.MaxPrice = lo, hi
		}
	}
}

// WithMissingRate sets the share of candidates without an estimate.
func WithMissingRate(r float64) Option {
	return func(c *Config) {
		if r >= 0 && r < 1 {
			c.MissingRate = r
		}
	}
}
