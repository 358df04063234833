package sim

import (
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ErrWorkerPanic wraps a panic recovered from a range function.
var ErrWorkerPanic = errors.New("worker panicked")

// Pool runs index ranges on a fixed number of goroutines. Each Range call is
// a barrier: it returns once every range has finished.
type Pool struct {
	workers int
}

// NewPool returns a pool of the given width, one per CPU when workers <= 0.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{workers: workers}
}

// Workers returns the pool width.
func (p *Pool) Workers() int {
	return p.workers
}

// Range splits [0, n) into at most Workers() contiguous ranges and calls fn
// on each concurrently. It returns the first error, or ErrWorkerPanic if a
// range panicked. Ranges never overlap, so fn may write index i without
// locking.
func (p *Pool) Range(n int, fn func(lo, hi int) error) error {
	if n <= 0 {
		return nil
	}
	chunk := (n + p.workers - 1) / p.workers

	var g errgroup.Group
	g.SetLimit(p.workers)
	for lo := 0; lo < n; lo += chunk {
		lo := lo
		hi := min(lo+chunk, n)
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: range [%d, %d): %v", ErrWorkerPanic, lo, hi, r)
				}
			}()
			return fn(lo, hi)
		})
	}
	return g.Wait()
}
