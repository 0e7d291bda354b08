// Package types contains the request and response shapes shared by the
// HTTP API, the CLI and the service layer.
package types

import (
	"encoding/json"
	"time"

	"github.com/okian/lineup/internal/domain/constraint"
	"github.com/okian/lineup/internal/domain/scoring"
)

// Scorer names accepted by requests.
const (
	ScorerCombined  = "combined"
	ScorerAggregate = "aggregate"
)

// SquadsRequest is the body of POST /v1/squads. Pool holds the raw
// candidate document; Requirements maps category to count and defaults to
// the 2/5/5/3 football squad.
type SquadsRequest struct {
	Pool         json.RawMessage    `json:"pool"`
	Requirements map[string]int     `json:"requirements,omitempty"`
	Constraints  constraint.Set     `json:"constraints"`
	Keep         int                `json:"keep,omitempty"`
	Decay        float64            `json:"decay,omitempty"`
	Scorer       string             `json:"scorer,omitempty"`
	Formation    *scoring.Formation `json:"formation,omitempty"`
}

// TransfersRequest is the body of POST /v1/transfers.
type TransfersRequest struct {
	Pool         json.RawMessage    `json:"pool"`
	Roster       []string           `json:"roster"`
	MaxTransfers *int               `json:"max_transfers,omitempty"`
	Constraints  constraint.Set     `json:"constraints"`
	Keep         int                `json:"keep,omitempty"`
	Objective    string             `json:"objective,omitempty"`
	RequireGain  bool               `json:"require_gain,omitempty"`
	Formation    *scoring.Formation `json:"formation,omitempty"`
}

// Squad describes one ranked squad.
type Squad struct {
	IDs      []string `json:"ids"`
	Price    int      `json:"price"`
	Value    float64  `json:"value"`
	Combined float64  `json:"combined"`
	Score    float64  `json:"score"`
}

// SearchStats are the diagnostics of one squad search.
type SearchStats struct {
	RunID          string         `json:"run_id"`
	CatalogueSizes map[string]int `json:"catalogue_sizes"`
	Combinations   float64        `json:"combinations"`
	Rounds         int            `json:"rounds"`
	Leaves         uint64         `json:"leaves"`
	Duplicates     uint64         `json:"duplicates"`
	Threshold      float64        `json:"threshold"`
	Exhaustive     bool           `json:"exhaustive"`
	Skipped        int            `json:"skipped"`
	Elapsed        time.Duration  `json:"elapsed_ns"`
}

// SquadsResponse lists squads ascending by score; the last one is best.
type SquadsResponse struct {
	Squads []Squad     `json:"squads"`
	Stats  SearchStats `json:"stats"`
}

// Plan describes one transfer plan.
type Plan struct {
	Sell   []string `json:"sell"`
	Buy    []string `json:"buy"`
	Roster []string `json:"roster"`
	Delta  int      `json:"delta"`
	Price  int      `json:"price"`
	Value  float64  `json:"value"`
	Gain   float64  `json:"gain"`
	Score  float64  `json:"score"`
}

// TransferStats are the diagnostics of one transfer search.
type TransferStats struct {
	RunID    string        `json:"run_id"`
	Pairs    uint64        `json:"pairs"`
	Retained int           `json:"retained"`
	Elapsed  time.Duration `json:"elapsed_ns"`
}

// TransfersResponse lists plans ascending by score. Best is the hold plan
// when Plans is empty.
type TransfersResponse struct {
	Current Plan          `json:"current"`
	Plans   []Plan        `json:"plans"`
	Best    Plan          `json:"best"`
	Stats   TransferStats `json:"stats"`
}

// ServiceStats summarizes the work a service has done since start.
type ServiceStats struct {
	Started         time.Time `json:"started"`
	SquadRuns       uint64    `json:"squad_runs"`
	TransferRuns    uint64    `json:"transfer_runs"`
	Failures        uint64    `json:"failures"`
	Workers         int       `json:"workers"`
	LastRunID       string    `json:"last_run_id,omitempty"`
	LastRunDuration string    `json:"last_run_duration,omitempty"`
}
