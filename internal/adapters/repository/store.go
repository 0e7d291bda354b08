// Package repository holds the bounded, deterministically ordered store that
// retains the best results of one search.
package repository

// Rank orders retained entries. Score ranks first, a higher price wins a
// score tie, and the later discovery wins a full tie. A full store therefore
// evicts the oldest of several equal entries.
type Rank struct {
	Score float64
	Price int
	Seq   uint64
}

// Below reports whether r ranks strictly below o.
func (r Rank) Below(o Rank) bool {
	if r.Score != o.Score {
		return r.Score < o.Score
	}
	if r.Price != o.Price {
		return r.Price < o.Price
	}
	return r.Seq < o.Seq
}

// Entry is one retained item with its membership key and rank.
type Entry[T any] struct {
	Key  string
	Rank Rank
	Item T
}

// Outcome describes what Offer did with an item.
type Outcome int

// Offer outcomes.
const (
	Inserted  Outcome = iota // stored while under capacity
	Replaced                 // evicted the minimum
	Rejected                 // did not outrank the minimum
	Duplicate                // key already stored
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Replaced:
		return "replaced"
	case Rejected:
		return "rejected"
	case Duplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}
