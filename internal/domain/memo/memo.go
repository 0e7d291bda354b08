// Package memo provides the run-scoped score cache shared by one search.
package memo

import (
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
)

// Memo caches roster scores by membership key for the span of one run.
type Memo interface {
	// Score returns the cached score for key, computing and storing it on
	// a miss.
	Score(key string, compute func() float64) float64

	// Reset drops every entry and zeroes the counters. Called at run start
	// so nothing leaks between invocations.
	Reset()

	Size() int
	Hits() uint64
	Misses() uint64
}

// cacheMemo implements Memo on go-cache. In bounded mode (maxSize > 0) the
// cache is flushed once it reaches maxSize; unbounded mode never evicts.
type cacheMemo struct {
	c       *cache.Cache
	maxSize int
	ttl     time.Duration
	hits    atomic.Uint64
	misses  atomic.Uint64
}

// New creates a memo with configuration options.
func New(opts ...Option) Memo {
	m := &cacheMemo{
		maxSize: 1 << 20, // default max size
		ttl:     cache.NoExpiration,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.c = cache.New(m.ttl, cleanupInterval(m.ttl))
	return m
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	return 2 * ttl
}

func (m *cacheMemo) Score(key string, compute func() float64) float64 {
	if v, ok := m.c.Get(key); ok {
		m.hits.Add(1)
		return v.(float64)
	}
	m.misses.Add(1)
	score := compute()
	if m.maxSize > 0 && m.c.ItemCount() >= m.maxSize {
		m.c.Flush()
	}
	m.c.Set(key, score, cache.DefaultExpiration)
	return score
}

func (m *cacheMemo) Reset() {
	m.c.Flush()
	m.hits.Store(0)
	m.misses.Store(0)
}

func (m *cacheMemo) Size() int { return m.c.ItemCount() }

func (m *cacheMemo) Hits() uint64 { return m.hits.Load() }

func (m *cacheMemo) Misses() uint64 { return m.misses.Load() }
