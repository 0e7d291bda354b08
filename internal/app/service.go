// Package service wires pool ingestion, catalogue building and the search
// engines into the operations exposed by the HTTP API and the CLI.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/lineup/internal/adapters/ingest"
	"github.com/okian/lineup/internal/adapters/worker"
	"github.com/okian/lineup/internal/domain/constraint"
	"github.com/okian/lineup/internal/domain/memo"
	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/scoring"
	"github.com/okian/lineup/internal/domain/search"
	"github.com/okian/lineup/internal/domain/transfer"
	"github.com/okian/lineup/internal/domain/types"
	"github.com/okian/lineup/pkg/logger"
)

// Default service configuration constants.
const (
	defaultKeep           = 10
	defaultDecay          = 0.9
	defaultMaxRounds      = 500
	defaultMaxTransfers   = 2
	defaultCatalogueLimit = 5_000_000
	defaultMemoSize       = 1 << 20
)

// Service runs squad and transfer searches. Every call builds its own
// pool, catalogues, store and memo, so concurrent calls share nothing but
// the catalogue builder.
type Service struct {
	builder worker.Builder

	// Configuration
	workers        int
	keep           int
	decay          float64
	maxRounds      int
	maxTransfers   int
	catalogueLimit int
	memoSize       int

	// State
	started      time.Time
	squadRuns    atomic.Uint64
	transferRuns atomic.Uint64
	failures     atomic.Uint64

	mu          sync.RWMutex
	lastRunID   string
	lastElapsed time.Duration

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkers sets the number of concurrent catalogue builds.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithKeep sets how many squads or plans a request retains by default.
func WithKeep(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.keep = n
		}
	}
}

// WithDecay sets the default threshold decay.
func WithDecay(d float64) Option {
	return func(s *Service) {
		if d > 0 && d < 1 {
			s.decay = d
		}
	}
}

// WithMaxRounds caps the decaying rounds of a squad search.
func WithMaxRounds(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRounds = n
		}
	}
}

// WithMaxTransfers sets the transfer count used when a request omits it.
func WithMaxTransfers(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxTransfers = n
		}
	}
}

// WithCatalogueLimit caps combinations per catalogue; zero disables it.
func WithCatalogueLimit(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.catalogueLimit = n
		}
	}
}

// WithMemoSize bounds the per-run score memo.
func WithMemoSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.memoSize = n
		}
	}
}

// WithBuilder replaces the catalogue builder.
func WithBuilder(b worker.Builder) Option {
	return func(s *Service) {
		if b != nil {
			s.builder = b
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workers:        runtime.NumCPU(),
		keep:           defaultKeep,
		decay:          defaultDecay,
		maxRounds:      defaultMaxRounds,
		maxTransfers:   defaultMaxTransfers,
		catalogueLimit: defaultCatalogueLimit,
		memoSize:       defaultMemoSize,
		started:        time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.builder == nil {
		s.builder = worker.NewPool(worker.WithWorkers(s.workers), worker.WithLogger(s.logger))
	}
	return s
}

// SearchSquads finds the best squads for req.
func (s *Service) SearchSquads(ctx context.Context, req types.SquadsRequest) (types.SquadsResponse, error) {
	runID := uuid.NewString()
	log := s.logger.With(logger.String("run_id", runID))
	s.squadRuns.Add(1)

	resp, err := s.searchSquads(ctx, runID, log, req)
	if err != nil {
		s.failures.Add(1)
		log.Warn(ctx, "squad search failed", logger.Error(err))
		return types.SquadsResponse{}, err
	}
	s.finish(runID, resp.Stats.Elapsed)
	return resp, nil
}

func (s *Service) searchSquads(ctx context.Context, runID string, log logger.Logger, req types.SquadsRequest) (types.SquadsResponse, error) {
	pool, err := ingest.DecodePool(req.Pool)
	if err != nil {
		return types.SquadsResponse{}, err
	}
	reqs := model.DefaultRequirements()
	if len(req.Requirements) > 0 {
		reqs = model.RequirementsFromMap(req.Requirements)
	}
	combined, err := combinedScorer(req.Formation)
	if err != nil {
		return types.SquadsResponse{}, err
	}
	var scorer scoring.Scorer = combined
	switch req.Scorer {
	case "", types.ScorerCombined:
	case types.ScorerAggregate:
		scorer = scoring.Aggregate{}
	default:
		return types.SquadsResponse{}, fmt.Errorf("%w: unknown scorer %q", ErrInvalidRequest, req.Scorer)
	}

	checker, err := constraint.Compile(pool, reqs, req.Constraints)
	if err != nil {
		return types.SquadsResponse{}, err
	}
	catalogues, err := s.builder.Build(ctx, pool, search.Specs(checker, s.catalogueLimit))
	if err != nil {
		return types.SquadsResponse{}, err
	}

	engine, err := search.New(checker, catalogues,
		search.WithKeep(orDefault(req.Keep, s.keep)),
		search.WithDecay(orDefaultFloat(req.Decay, s.decay)),
		search.WithMaxRounds(s.maxRounds),
		search.WithScorer(scorer),
		search.WithMemo(memo.New(memo.WithMaxSize(s.memoSize))),
		search.WithLogger(log.Named("search")),
	)
	if err != nil {
		return types.SquadsResponse{}, err
	}
	res, err := engine.Run(ctx)
	if err != nil {
		return types.SquadsResponse{}, err
	}

	squads := make([]types.Squad, len(res.Squads))
	for i, sq := range res.Squads {
		squads[i] = types.Squad{
			IDs:      pool.IDs(sq.Members),
			Price:    sq.Price,
			Value:    sq.Value,
			Combined: combined.Score(scoring.Input{Pool: pool, Members: sq.Members, Value: sq.Value}),
			Score:    sq.Score,
		}
	}
	sizes := make(map[string]int, len(res.Stats.CatalogueSizes))
	for c, n := range res.Stats.CatalogueSizes {
		sizes[string(c)] = n
	}
	return types.SquadsResponse{
		Squads: squads,
		Stats: types.SearchStats{
			RunID:          runID,
			CatalogueSizes: sizes,
			Combinations:   res.Stats.Combinations,
			Rounds:         res.Stats.Rounds,
			Leaves:         res.Stats.Leaves,
			Duplicates:     res.Stats.Duplicates,
			Threshold:      res.Stats.Threshold,
			Exhaustive:     res.Stats.Exhaustive,
			Skipped:        pool.Skipped(),
			Elapsed:        res.Stats.Elapsed,
		},
	}, nil
}

// SearchTransfers proposes swaps for the roster in req.
func (s *Service) SearchTransfers(ctx context.Context, req types.TransfersRequest) (types.TransfersResponse, error) {
	runID := uuid.NewString()
	log := s.logger.With(logger.String("run_id", runID))
	s.transferRuns.Add(1)

	resp, err := s.searchTransfers(ctx, runID, log, req)
	if err != nil {
		s.failures.Add(1)
		log.Warn(ctx, "transfer search failed", logger.Error(err))
		return types.TransfersResponse{}, err
	}
	s.finish(runID, resp.Stats.Elapsed)
	return resp, nil
}

func (s *Service) searchTransfers(ctx context.Context, runID string, log logger.Logger, req types.TransfersRequest) (types.TransfersResponse, error) {
	pool, err := ingest.DecodePool(req.Pool)
	if err != nil {
		return types.TransfersResponse{}, err
	}
	roster, err := pool.Resolve(req.Roster)
	if err != nil {
		return types.TransfersResponse{}, err
	}
	combined, err := combinedScorer(req.Formation)
	if err != nil {
		return types.TransfersResponse{}, err
	}
	checker, err := constraint.Compile(pool, pool.Composition(roster), req.Constraints)
	if err != nil {
		return types.TransfersResponse{}, err
	}

	maxTransfers := s.maxTransfers
	if req.MaxTransfers != nil {
		maxTransfers = *req.MaxTransfers
	}
	ts, err := transfer.New(checker, roster,
		transfer.WithKeep(orDefault(req.Keep, s.keep)),
		transfer.WithMaxTransfers(maxTransfers),
		transfer.WithObjective(transfer.Objective(req.Objective)),
		transfer.WithRequireGain(req.RequireGain),
		transfer.WithScorer(combined),
		transfer.WithMemo(memo.New(memo.WithMaxSize(s.memoSize))),
		transfer.WithLimit(s.catalogueLimit),
		transfer.WithLogger(log.Named("transfer")),
	)
	if err != nil {
		return types.TransfersResponse{}, err
	}
	res, err := ts.Run(ctx)
	if err != nil {
		return types.TransfersResponse{}, err
	}

	plans := make([]types.Plan, len(res.Plans))
	for i, p := range res.Plans {
		plans[i] = planOf(pool, p)
	}
	return types.TransfersResponse{
		Current: planOf(pool, res.Current),
		Plans:   plans,
		Best:    planOf(pool, res.Best()),
		Stats: types.TransferStats{
			RunID:    runID,
			Pairs:    res.Stats.Pairs,
			Retained: res.Stats.Retained,
			Elapsed:  res.Stats.Elapsed,
		},
	}, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() types.ServiceStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := types.ServiceStats{
		Started:      s.started,
		SquadRuns:    s.squadRuns.Load(),
		TransferRuns: s.transferRuns.Load(),
		Failures:     s.failures.Load(),
		Workers:      s.workers,
		LastRunID:    s.lastRunID,
	}
	if s.lastRunID != "" {
		stats.LastRunDuration = s.lastElapsed.String()
	}
	return stats
}

func (s *Service) finish(runID string, elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRunID = runID
	s.lastElapsed = elapsed
}

func combinedScorer(f *scoring.Formation) (*scoring.Combined, error) {
	if f == nil {
		return scoring.NewCombined(), nil
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return scoring.NewCombined(scoring.WithFormation(*f)), nil
}

func planOf(pool *model.Pool, p transfer.Plan) types.Plan {
	return types.Plan{
		Sell:   pool.IDs(p.Sell),
		Buy:    pool.IDs(p.Buy),
		Roster: pool.IDs(p.Roster),
		Delta:  p.Delta,
		Price:  p.Price,
		Value:  p.Value,
		Gain:   p.Gain,
		Score:  p.Score,
	}
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func orDefaultFloat(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
