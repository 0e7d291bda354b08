package search

import (
	"github.com/okian/lineup/internal/domain/memo"
	"github.com/okian/lineup/internal/domain/scoring"
	"github.com/okian/lineup/pkg/logger"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithKeep sets how many squads the search retains.
func WithKeep(n int) Option {
	return func(e *Engine) {
		e.keep = n
	}
}

// WithDecay sets the factor the threshold is multiplied by each round.
func WithDecay(d float64) Option {
	return func(e *Engine) {
		e.decay = d
	}
}

// WithScorer sets the scorer that ranks retained squads.
func WithScorer(s scoring.Scorer) Option {
	return func(e *Engine) {
		if s != nil {
			e.scorer = s
		}
	}
}

// WithMemo sets the run-scoped score cache. It is reset at the start of
// every Run.
func WithMemo(m memo.Memo) Option {
	return func(e *Engine) {
		if m != nil {
			e.memo = m
		}
	}
}

// WithMaxRounds caps the pruned rounds; the next round is then run
// exhaustively.
func WithMaxRounds(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxRounds = n
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}
