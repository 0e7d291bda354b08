package repository

import (
	"fmt"
)

// Treap-based bounded top-N store.
//
// Ordering: in-order traversal runs from the lowest ranked entry to the
// highest, so the minimum is the leftmost node. Priorities come from the
// discovery sequence through SplitMix64, which keeps the tree shape, and
// with it every result, reproducible.

// maxPresize caps the membership map hint for very large capacities.
const maxPresize = 1024

type node[T any] struct {
	entry Entry[T]
	prio  uint64
	left  *node[T]
	right *node[T]
}

func rotateRight[T any](y *node[T]) *node[T] {
	x := y.left
	y.left = x.right
	x.right = y
	return x
}

func rotateLeft[T any](x *node[T]) *node[T] {
	y := x.right
	x.right = y.left
	y.left = x
	return y
}

func insert[T any](n, fresh *node[T]) *node[T] {
	if n == nil {
		return fresh
	}
	if fresh.entry.Rank.Below(n.entry.Rank) {
		n.left = insert(n.left, fresh)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, fresh)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	return n
}

// deleteMin removes the leftmost node.
func deleteMin[T any](n *node[T]) *node[T] {
	if n.left == nil {
		return n.right
	}
	n.left = deleteMin(n.left)
	return n
}

func collect[T any](n *node[T], out *[]Entry[T]) {
	if n == nil {
		return
	}
	collect(n.left, out)
	*out = append(*out, n.entry)
	collect(n.right, out)
}

// splitmix64 is the SplitMix64 finalizer.
func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	return x ^ (x >> 31)
}

// Store retains at most capacity entries, unique by key. It belongs to one
// search invocation and is not safe for concurrent use.
type Store[T any] struct {
	root     *node[T]
	byKey    map[string]*node[T]
	capacity int
	seq      uint64
	seed     uint64
}

// NewStore creates a store holding at most capacity entries.
func NewStore[T any](capacity int, opts ...Option) (*Store[T], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[T]{
		byKey:    make(map[string]*node[T], min(capacity, maxPresize)),
		capacity: capacity,
		seed:     o.seed,
	}, nil
}

// Offer considers item for retention. Non-duplicate offers consume the next
// discovery sequence. Under capacity the item is stored; at capacity it
// replaces the minimum only if it strictly outranks it. O(log N) expected.
func (s *Store[T]) Offer(key string, score float64, price int, item T) (Outcome, Rank) {
	if _, ok := s.byKey[key]; ok {
		return Duplicate, Rank{}
	}
	s.seq++
	rank := Rank{Score: score, Price: price, Seq: s.seq}
	outcome := Inserted
	if len(s.byKey) >= s.capacity {
		lowest, _ := s.Min()
		if !lowest.Rank.Below(rank) {
			return Rejected, rank
		}
		s.root = deleteMin(s.root)
		delete(s.byKey, lowest.Key)
		outcome = Replaced
	}
	n := &node[T]{
		entry: Entry[T]{Key: key, Rank: rank, Item: item},
		prio:  splitmix64(s.seq ^ s.seed),
	}
	s.root = insert(s.root, n)
	s.byKey[key] = n
	return outcome, rank
}

// Min returns the lowest ranked entry.
func (s *Store[T]) Min() (Entry[T], bool) {
	n := s.root
	if n == nil {
		return Entry[T]{}, false
	}
	for n.left != nil {
		n = n.left
	}
	return n.entry, true
}

// Contains reports whether key is stored.
func (s *Store[T]) Contains(key string) bool {
	_, ok := s.byKey[key]
	return ok
}

// Len returns the number of stored entries.
func (s *Store[T]) Len() int { return len(s.byKey) }

// Cap returns the capacity.
func (s *Store[T]) Cap() int { return s.capacity }

// Full reports whether the store is at capacity.
func (s *Store[T]) Full() bool { return len(s.byKey) >= s.capacity }

// Discovered returns the number of sequences handed out so far.
func (s *Store[T]) Discovered() uint64 { return s.seq }

// Drain returns every entry in ascending rank order and empties the store.
// The discovery counter keeps running.
func (s *Store[T]) Drain() []Entry[T] {
	out := make([]Entry[T], 0, len(s.byKey))
	collect(s.root, &out)
	s.root = nil
	clear(s.byKey)
	return out
}
