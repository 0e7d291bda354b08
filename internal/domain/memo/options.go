package memo

import "time"

// Option applies a configuration option to the memo.
type Option func(*cacheMemo)

// WithMaxSize sets the maximum number of cached scores.
// If maxSize > 0: bounded mode, flushed when full.
// If maxSize <= 0: unbounded mode.
func WithMaxSize(maxSize int) Option {
	return func(m *cacheMemo) {
		m.maxSize = maxSize
	}
}

// WithTTL expires entries after ttl. Runs are short, so the default is no
// expiration.
func WithTTL(ttl time.Duration) Option {
	return func(m *cacheMemo) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}
