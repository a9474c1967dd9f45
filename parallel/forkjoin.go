// Package parallel implements the data-parallel fork-join primitive
// mandated by spec.md §5: an operation may split independent index
// ranges across goroutines, but every operation runs to completion (or a
// typed failure) before returning, with no suspension point exposed to
// the caller. The fan-out/fan-in shape follows the sync.WaitGroup
// pattern in gonum.org/v1/gonum's fd/diff.go, generalized with
// golang.org/x/sync/errgroup so a worker's error (e.g. a singular block
// encountered mid-sweep) propagates instead of being silently dropped.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// MinChunk is the smallest range size worth forking; ranges at or below
// this are run inline on the calling goroutine.
const MinChunk = 256

// Range splits [0,n) into contiguous chunks and runs fn(lo, hi) on each
// chunk concurrently, returning the first error encountered (if any)
// after all chunks have completed. The chunk boundaries depend only on n
// and GOMAXPROCS, not on runtime scheduling.
func Range(n int, fn func(lo, hi int) error) error {
	if n <= 0 {
		return nil
	}
	if n <= MinChunk {
		return fn(0, n)
	}

	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	chunk := (n + workers - 1) / workers
	if chunk < MinChunk {
		chunk = MinChunk
	}

	g, _ := errgroup.WithContext(context.Background())
	for lo := 0; lo < n; lo += chunk {
		lo := lo
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		g.Go(func() error {
			return fn(lo, hi)
		})
	}
	return g.Wait()
}

// SumReduce runs fn(lo,hi) on contiguous chunks of [0,n), where each fn
// call returns a partial sum, and combines partial sums with a fixed
// left-to-right tree shape so the total is deterministic irrespective of
// worker count: chunks are always MinChunk long, whatever GOMAXPROCS is,
// and sum order across chunks is always increasing lo.
func SumReduce(n int, fn func(lo, hi int) float64) float64 {
	if n <= 0 {
		return 0
	}
	if n <= MinChunk {
		return fn(0, n)
	}

	chunk := MinChunk
	nChunks := (n + chunk - 1) / chunk
	partials := make([]float64, nChunks)

	g, _ := errgroup.WithContext(context.Background())
	for ci := 0; ci < nChunks; ci++ {
		ci := ci
		lo := ci * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		g.Go(func() error {
			partials[ci] = fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait() // fn here never errors; reduction has no failure mode.

	var total float64
	for _, p := range partials {
		total += p
	}
	return total
}

// Coloring groups indices into color classes so that, within one color,
// all fn calls are mutually independent and may run concurrently; colors
// are processed strictly in order, honoring the "color-by-color
// ordering" requirement for parallel Gauss-Seidel variants in spec.md §5.
type Coloring struct {
	// Classes[c] holds the indices assigned to color c.
	Classes [][]int
}

// RunColored applies fn to every index in each color class, processing
// colors in order and running the indices within a color concurrently.
func RunColored(c Coloring, fn func(i int) error) error {
	for _, class := range c.Classes {
		n := len(class)
		if n == 0 {
			continue
		}
		if err := Range(n, func(lo, hi int) error {
			for k := lo; k < hi; k++ {
				if err := fn(class[k]); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}
