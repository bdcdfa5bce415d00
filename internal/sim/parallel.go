package sim

import (
	"context"
	"math/rand"
	"sync"

	"github.com/san-kum/stardust/internal/config"
	"github.com/san-kum/stardust/internal/geom"
)

// Ensemble runs independent headless simulations with consecutive seeds.
// Each run owns its own Simulation, so they execute in parallel.
type Ensemble struct {
	cfg       *config.Config
	bounds    geom.Bounds
	numRuns   int
	seedStart int64
	driver    func() Driver
}

func NewEnsemble(cfg *config.Config, bounds geom.Bounds, numRuns int, seedStart int64, driver func() Driver) *Ensemble {
	return &Ensemble{cfg: cfg, bounds: bounds, numRuns: numRuns, seedStart: seedStart, driver: driver}
}

func (e *Ensemble) Run(ctx context.Context, rc RunConfig) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			rng := rand.New(rand.NewSource(e.seedStart + int64(idx)))
			s := New(e.cfg.Clone(), e.bounds, rng)

			var d Driver
			if e.driver != nil {
				d = e.driver()
			}
			results[idx], errs[idx] = Run(ctx, s, d, rc)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
