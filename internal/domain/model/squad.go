package model

// Squad is one feasible roster: exactly one Combination per category.
// Members holds pool ordinals in ascending order.
type Squad struct {
	Members []int
	Price   int
	Value   float64
	Score   float64 // ranking score, the combined value by default
	Seq     uint64  // discovery sequence, never reused within a run
}

// Key returns the membership key used for duplicate suppression.
func (s Squad) Key() string { return Key(s.Members) }
