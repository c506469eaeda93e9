package montecarlo

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/talgya/risk-atlas/internal/atlas"
)

// RunBatch runs the Monte Carlo analysis for every location in the
// batch across a bounded worker pool and returns the augmented records
// sorted by (project_type, name). Each location's positional index is
// fixed before dispatch, so output is byte-identical for any worker
// count. The run is all-or-nothing: a panic in any worker fails the
// whole batch, and no partial results are returned.
func RunBatch(ctx context.Context, locations []atlas.LocationRecord, cfg Config) ([]atlas.LocationRecord, error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]atlas.LocationRecord, len(locations))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, loc := range locations {
		i, loc := i, loc
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("location %q: %v", loc.Name, r)
				}
			}()
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			// Each slot is written by exactly one goroutine.
			results[i] = RunLocation(loc, i, cfg)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Completion order is the one observable nondeterminism; the sort
	// removes it from the output contract.
	atlas.Sort(results)
	return results, nil
}
