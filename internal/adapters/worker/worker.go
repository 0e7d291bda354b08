// Package worker builds independent catalogues on a bounded goroutine pool.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/okian/lineup/internal/domain/catalogue"
	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/pkg/logger"
	"github.com/okian/lineup/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Builder builds catalogues for a set of specs.
type Builder interface {
	Build(ctx context.Context, pool *model.Pool, specs []catalogue.Spec) ([]*catalogue.Catalogue, error)
}

// Pool builds catalogue specs concurrently, at most workers at a time. It
// holds no per-call state and may be shared.
type Pool struct {
	workers int
	name    string
	logger  logger.Logger
}

var _ Builder = (*Pool)(nil)

// NewPool creates a catalogue build pool.
func NewPool(opts ...Option) *Pool {
	p := &Pool{
		workers: runtime.NumCPU(),
		name:    "catalogue-pool",
		logger:  logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.Named(p.name)
	return p
}

// Workers returns the concurrency limit.
func (p *Pool) Workers() int { return p.workers }

// Build builds every spec and returns the catalogues in spec order. The
// first failure cancels the remaining jobs.
func (p *Pool) Build(ctx context.Context, pool *model.Pool, specs []catalogue.Spec) ([]*catalogue.Catalogue, error) {
	start := time.Now()
	out := make([]*catalogue.Catalogue, len(specs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, s := range specs {
		i, s := i, s
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				metrics.RecordPoolJob("cancelled")
				return fmt.Errorf("build %s catalogue: %w", s.Category, err)
			}
			c, err := s.Build(pool)
			if err != nil {
				metrics.RecordPoolJob("error")
				metrics.RecordErrorByComponent("worker", "catalogue_build")
				return fmt.Errorf("build %s catalogue: %w", s.Category, err)
			}
			metrics.RecordPoolJob("ok")
			metrics.UpdateCatalogueSize(string(s.Category), c.Len())
			out[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		p.logger.Error(ctx, "catalogue build failed", logger.Error(err))
		return nil, err
	}

	elapsed := time.Since(start)
	metrics.RecordCatalogueBuildDuration(float64(elapsed.Microseconds()) / 1000)
	p.logger.Debug(ctx, "catalogues built",
		logger.Int("catalogues", len(out)),
		logger.Int("workers", p.workers),
		logger.Duration("elapsed", elapsed),
	)
	return out, nil
}
