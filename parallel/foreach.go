// Package parallel contains the bounded concurrency helpers used by the
// hyperparameter search.
package parallel

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ForEach runs body(i) for every i in [0,length) with at most limit
// goroutines in flight. The first error cancels the remaining iterations
// and is returned; a cancelled parent context stops the loop the same way.
// A non-positive limit falls back to Workers().
func ForEach(parent context.Context, length, limit int, body func(i int) error) error {
	if length <= 0 {
		return parent.Err()
	}
	if limit <= 0 {
		limit = Workers()
	}
	g, ctx := errgroup.WithContext(parent)
	g.SetLimit(limit)
	for i := 0; i < length && ctx.Err() == nil; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return body(i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return parent.Err()
}
