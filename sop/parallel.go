package sop

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// parallelRange runs fn(i) for every i in [0, n) across a bounded
// worker pool, chunked so each goroutine owns a disjoint index range
// (safe for fn bodies that write attribute storage at index i, since
// no two workers ever touch the same index). It is the shared
// primitive behind the per-point passes of NoiseDisplacement, Smooth,
// Scatter, ScatterVolume, CopyToPoints and Extrude.
func parallelRange(n int, fn func(i int) error) error {
	if n == 0 {
		return nil
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	g, _ := errgroup.WithContext(context.Background())
	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := fn(i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
