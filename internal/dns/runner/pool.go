package runner

import (
	"context"

	"golang.org/x/sync/errgroup"

	"diggercli/digger/internal/dns/domain"
)

// DefaultParallelism bounds concurrent tool invocations in a batch run.
const DefaultParallelism = 5

// RunBatch executes all specs with bounded parallelism and returns one
// result per spec, in input order. Cancellation mid-batch still produces a
// full slice: queries cut off by the context come back as well-formed
// timeout results rather than holes.
func (r *Runner) RunBatch(ctx context.Context, specs []domain.QuerySpec, parallelism int) []*domain.QueryResult {
	if parallelism <= 0 {
		parallelism = DefaultParallelism
	}

	results := make([]*domain.QueryResult, len(specs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, spec := range specs {
		g.Go(func() error {
			results[i] = r.Query(gctx, spec)
			return nil
		})
	}
	// Workers never return errors; Wait only fences completion.
	_ = g.Wait()

	return results
}

// Compare runs the same lookup against several resolvers, one spec per
// server, in input order.
func (r *Runner) Compare(ctx context.Context, base domain.QuerySpec, servers []string) []*domain.QueryResult {
	specs := make([]domain.QuerySpec, len(servers))
	for i, server := range servers {
		spec := base
		spec.Server = server
		specs[i] = spec
	}
	return r.RunBatch(ctx, specs, DefaultParallelism)
}
