package service

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// fetchAll runs fn for every key with at most limit calls in flight. Results
// keep the order of keys. The first error cancels the remaining calls and is
// returned.
func fetchAll[T any](ctx context.Context, keys []string, limit int, fn func(ctx context.Context, key string) (T, error)) ([]T, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 4
	}

	results := make([]T, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			res, err := fn(gctx, key)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
