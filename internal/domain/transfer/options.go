package transfer

import (
	"github.com/okian/lineup/internal/domain/memo"
	"github.com/okian/lineup/internal/domain/scoring"
	"github.com/okian/lineup/pkg/logger"
)

// Objective selects how plans are ranked.
type Objective string

// Ranking objectives.
const (
	// ObjectiveCombined ranks by the resulting roster's score.
	ObjectiveCombined Objective = "combined"
	// ObjectiveGain ranks by bought value minus sold value.
	ObjectiveGain Objective = "gain"
)

// Option applies a configuration option to the Search.
type Option func(*Search)

// WithKeep sets how many plans are retained.
func WithKeep(n int) Option {
	return func(s *Search) {
		s.keep = n
	}
}

// WithMaxTransfers sets the largest swap count considered.
func WithMaxTransfers(n int) Option {
	return func(s *Search) {
		s.maxTransfers = n
	}
}

// WithObjective sets the ranking objective.
func WithObjective(o Objective) Option {
	return func(s *Search) {
		if o != "" {
			s.objective = o
		}
	}
}

// WithRequireGain rejects plans that buy less value than they sell.
func WithRequireGain(v bool) Option {
	return func(s *Search) {
		s.requireGain = v
	}
}

// WithScorer sets the roster scorer used by ObjectiveCombined.
func WithScorer(sc scoring.Scorer) Option {
	return func(s *Search) {
		if sc != nil {
			s.scorer = sc
		}
	}
}

// WithMemo sets the run-scoped score cache.
func WithMemo(m memo.Memo) Option {
	return func(s *Search) {
		if m != nil {
			s.memo = m
		}
	}
}

// WithLimit caps the size of every sell or buy subset list.
func WithLimit(n int) Option {
	return func(s *Search) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithLogger sets a custom logger for the search.
func WithLogger(l logger.Logger) Option {
	return func(s *Search) {
		if l != nil {
			s.logger = l
		}
	}
}
