package catalogue

import (
	"fmt"

	"github.com/okian/lineup/internal/domain/model"
)

// Spec describes one catalogue to build. Specs are independent, so a set of
// them can be built in any order or in parallel.
type Spec struct {
	Category model.Category
	Members  []int
	K        int
	Options  []Option
}

// Build builds the catalogue described by s.
func (s Spec) Build(pool *model.Pool) (*Catalogue, error) {
	return Build(pool, s.Category, s.Members, s.K, s.Options...)
}

// BuildAll builds every spec in order on the calling goroutine.
func BuildAll(pool *model.Pool, specs []Spec) ([]*Catalogue, error) {
	out := make([]*Catalogue, len(specs))
	for i, s := range specs {
		c, err := s.Build(pool)
		if err != nil {
			return nil, fmt.Errorf("build %s catalogue: %w", s.Category, err)
		}
		out[i] = c
	}
	return out, nil
}
