package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RunMany runs each Driver concurrently (§5 "Permitted parallelism":
// independent captures, each with its own cache and executor connection).
// It returns one Result per driver, in the same order as drivers, and the
// first error encountered across the group (errgroup cancels the shared
// context on the first failure, so the remaining drivers stop promptly).
func RunMany(ctx context.Context, drivers []*Driver) ([]Result, error) {
	results := make([]Result, len(drivers))
	g, gctx := errgroup.WithContext(ctx)

	for i, d := range drivers {
		i, d := i, d
		g.Go(func() error {
			res, err := d.Run(gctx)
			results[i] = res
			return err
		})
	}

	err := g.Wait()
	return results, err
}
