package catalogue

// Suffix holds, for each nesting level i, the summed bounds of levels i and
// deeper. Suffix[len(levels)] is the zero Bounds.
type Suffix []Bounds

// SuffixBounds sums catalogue bounds from the innermost level outwards.
func SuffixBounds(levels []*Catalogue) Suffix {
	s := make(Suffix, len(levels)+1)
	for i := len(levels) - 1; i >= 0; i-- {
		b := levels[i].Bounds()
		s[i] = Bounds{
			MinPrice: s[i+1].MinPrice + b.MinPrice,
			MaxPrice: s[i+1].MaxPrice + b.MaxPrice,
			MinValue: s[i+1].MinValue + b.MinValue,
			MaxValue: s[i+1].MaxValue + b.MaxValue,
		}
	}
	return s
}

// Below returns the summed bounds of the levels strictly deeper than i.
func (s Suffix) Below(i int) Bounds { return s[i+1] }

// Total returns the summed bounds of every level.
func (s Suffix) Total() Bounds { return s[0] }
