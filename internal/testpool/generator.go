// Package testpool generates deterministic synthetic candidate pools for
// tests, benchmarks and the CLI.
package testpool

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"slices"
	"strconv"

	"github.com/google/uuid"
	"github.com/okian/lineup/internal/domain/model"
)

// Value tiers, matching a typical points-per-match spread.
const (
	tierCount       = 6
	tierAverage     = 0
	tierHigh        = 1
	tierLow         = 2
	tierElite       = 3
	tierVeryLow     = 4
	averageMin      = 3.0
	averageRange    = 4.0
	highMin         = 7.0
	highRange       = 2.0
	lowMin          = 0.1
	lowRange        = 2.9
	eliteMin        = 9.0
	eliteRange      = 1.0
	veryLowMin      = 0.1
	veryLowRange    = 0.9
	wideMin         = 0.1
	wideRange       = 9.9
	filePermissions = 0o600
)

// namespace scopes the name-based candidate IDs.
var namespace = uuid.MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c8") //nolint:gochecknoglobals // uuid URL namespace

// Generate builds a pool. Candidate IDs are name-based UUIDs derived from
// the seed, so equal configs always produce byte-identical pools.
func Generate(opts ...Option) []model.Candidate {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // seeded for reproducible pools

	cats := make([]model.Category, 0, len(cfg.PerCategory))
	for c := range cfg.PerCategory {
		cats = append(cats, c)
	}
	slices.Sort(cats)

	var out []model.Candidate
	for _, cat := range cats {
		for i := 0; i < cfg.PerCategory[cat]; i++ {
			name := fmt.Sprintf("%s-%d-%d", cat, cfg.Seed, i)
			c := model.Candidate{
				ID:       uuid.NewSHA1(namespace, []byte(name)).String(),
				Name:     name,
				Category: cat,
				Price:    cfg.MinPrice + rng.Intn(cfg.MaxPrice-cfg.MinPrice+1),
				Team:     "T" + strconv.Itoa(rng.Intn(cfg.Teams)),
			}
			v := tieredValue(rng)
			if rng.Float64() >= cfg.MissingRate {
				c.Value = model.Float(v)
			}
			out = append(out, c)
		}
	}
	return out
}

// tieredValue draws a value from a mixed distribution.
func tieredValue(rng *rand.Rand) float64 {
	switch rng.Intn(tierCount) {
	case tierAverage:
		return averageMin + rng.Float64()*averageRange
	case tierHigh:
		return highMin + rng.Float64()*highRange
	case tierLow:
		return lowMin + rng.Float64()*lowRange
	case tierElite:
		return eliteMin + rng.Float64()*eliteRange
	case tierVeryLow:
		return veryLowMin + rng.Float64()*veryLowRange
	default:
		return wideMin + rng.Float64()*wideRange
	}
}

// record is the JSON shape written by WriteFile and read by ingestion.
type record struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Price    int      `json:"price"`
	Value    *float64 `json:"value"`
	Team     string   `json:"team"`
}

// Marshal encodes candidates as a JSON pool.
func Marshal(cands []model.Candidate) ([]byte, error) {
	recs := make([]record, len(cands))
	for i, c := range cands {
		recs[i] = record{ID: c.ID, Name: c.Name, Category: string(c.Category), Price: c.Price, Value: c.Value, Team: c.Team}
	}
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal pool: %w", err)
	}
	return data, nil
}

// WriteFile writes candidates as a JSON pool to path.
func WriteFile(path string, cands []model.Candidate) error {
	data, err := Marshal(cands)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("write pool: %w", err)
	}
	return nil
}
