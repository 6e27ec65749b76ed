// Package parallel runs independent tasks over a slice with bounded concurrency.
package parallel

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Map calls fn for every input on at most workers goroutines and returns the
// results in input order. The first error cancels the context passed to the
// remaining calls and is returned; partial results are discarded.
func Map[T, R any](ctx context.Context, inputs []T, workers int, fn func(ctx context.Context, input T) (R, error)) ([]R, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	if workers <= 0 || workers > len(inputs) {
		workers = len(inputs)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	results := make([]R, len(inputs))
	for i, in := range inputs {
		g.Go(func() error {
			r, err := fn(gctx, in)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
