// Package ingest turns loosely shaped candidate JSON into typed pools.
package ingest

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/okian/lineup/internal/domain/model"
	"github.com/tidwall/gjson"
)

// Field names accepted for each Candidate attribute, canonical name first.
// The rest are the upstream projection's column names.
var (
	idFields       = []string{"id"}
	nameFields     = []string{"name", "webname", "web_name"}
	categoryFields = []string{"category", "position"}
	priceFields    = []string{"price", "now_cost"}
	valueFields    = []string{"value", "xP", "xp"}
	teamFields     = []string{"team", "team_short"}
)

// Decode parses a candidate array, or an object holding one under
// "candidates" or "players". A null or missing value yields a Candidate
// without an estimate; NewPool later skips it.
func Decode(data []byte) ([]model.Candidate, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidPool)
	}
	root := gjson.ParseBytes(data)
	if root.IsObject() {
		root = first(root, []string{"candidates", "players"})
	}
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: expected an array of candidates", ErrInvalidPool)
	}

	var (
		out []model.Candidate
		err error
	)
	root.ForEach(func(k, v gjson.Result) bool {
		var c model.Candidate
		c, err = candidate(int(k.Int()), v)
		if err != nil {
			return false
		}
		out = append(out, c)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DecodePool decodes data and builds a Pool from it.
func DecodePool(data []byte) (*model.Pool, error) {
	candidates, err := Decode(data)
	if err != nil {
		return nil, err
	}
	pool, err := model.NewPool(candidates)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPool, err)
	}
	return pool, nil
}

// LoadFile reads and decodes the pool at path.
func LoadFile(path string) (*model.Pool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	pool, err := DecodePool(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return pool, nil
}

func candidate(i int, v gjson.Result) (model.Candidate, error) {
	if !v.IsObject() {
		return model.Candidate{}, fmt.Errorf("%w: record %d is not an object", ErrInvalidPool, i)
	}
	id := strings.TrimSpace(first(v, idFields).String())
	if id == "" {
		return model.Candidate{}, fmt.Errorf("%w: record %d has no id", ErrInvalidPool, i)
	}
	category := strings.ToUpper(strings.TrimSpace(first(v, categoryFields).String()))
	if category == "" {
		return model.Candidate{}, fmt.Errorf("%w: candidate %s has no category", ErrInvalidPool, id)
	}
	price := first(v, priceFields)
	if price.Type != gjson.Number {
		return model.Candidate{}, fmt.Errorf("%w: candidate %s has no numeric price", ErrInvalidPool, id)
	}
	// Prices are whole units; truncating would understate a squad's cost.
	if p := price.Float(); p != math.Trunc(p) || p > math.MaxInt32 || p < math.MinInt32 {
		return model.Candidate{}, fmt.Errorf("%w: candidate %s has a non-integer price %s", ErrInvalidPool, id, price.Raw)
	}

	c := model.Candidate{
		ID:       id,
		Name:     first(v, nameFields).String(),
		Category: model.Category(category),
		Price:    int(price.Float()),
		Team:     first(v, teamFields).String(),
	}
	if c.Name == "" {
		c.Name = id
	}
	switch value := first(v, valueFields); value.Type {
	case gjson.Number:
		c.Value = model.Float(value.Float())
	case gjson.Null:
	default:
		return model.Candidate{}, fmt.Errorf("%w: candidate %s has a non-numeric value", ErrInvalidPool, id)
	}
	return c, nil
}

// first returns the first present field among names.
func first(v gjson.Result, names []string) gjson.Result {
	for _, n := range names {
		if r := v.Get(n); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}
