// Package workerpool implements the parallel CPU execution context of
// spec §5: a persistent pool whose outer-loop work items are claimed
// by atomic work-stealing, with cancellation observed only between
// claims (never mid-item), matching the spec's "cooperative at the
// granularity of one affected-particle's computation" contract.
//
// The pool shape (persistent workers fed over a channel, a
// sync.WaitGroup join barrier, atomic-index work stealing) follows the
// Pool/ParallelForAtomic idiom; this version replaces its plain
// func(i int) with a context-aware variant so BruteForcePairs,
// BruteForceSIMD and BarnesHut can all cancel between affected-particle
// iterations without adding their own goroutine bookkeeping.
package workerpool

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a persistent worker pool reused across many dispatches.
type Pool struct {
	numWorkers int
	workC      chan func()
	closeOnce  sync.Once
	closed     atomic.Bool
}

// New creates a pool with numWorkers persistent goroutines. If
// numWorkers <= 0, GOMAXPROCS is used.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		workC:      make(chan func(), numWorkers*2),
	}
	for range numWorkers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for fn := range p.workC {
		fn()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int { return p.numWorkers }

// Close shuts the pool down. Safe to call more than once.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// ParallelFor runs fn(i) for every i in [0, n), distributed across the
// pool's workers by atomic work stealing, and blocks until every index
// has run or ctx is cancelled. Cancellation is only checked when a
// worker is about to claim its next index, never inside a running fn
// call, per the spec's cooperative-cancellation contract. The first
// context error observed by any worker is returned; nil otherwise.
func (p *Pool) ParallelFor(ctx context.Context, n int, fn func(i int)) error {
	if n <= 0 {
		return nil
	}

	if p.closed.Load() || p.numWorkers == 1 || n == 1 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(i)
		}
		return nil
	}

	workers := min(p.numWorkers, n)

	var nextIdx atomic.Int64
	var firstErr atomic.Value // error
	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		p.workC <- func() {
			defer wg.Done()
			for {
				if err := ctx.Err(); err != nil {
					firstErr.CompareAndSwap(nil, err)
					return
				}
				idx := int(nextIdx.Add(1)) - 1
				if idx >= n {
					return
				}
				fn(idx)
			}
		}
	}

	wg.Wait()

	if v := firstErr.Load(); v != nil {
		return v.(error)
	}
	return nil
}
