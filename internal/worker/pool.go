package worker

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// Pool bounds how many CPU-heavy jobs (password hashing) run at once so that a
// burst of logins cannot monopolize every core.
type Pool struct {
	slots *semaphore.Weighted
	size  int
}

// NewPool creates a pool with size concurrent slots. Non-positive sizes default
// to the number of CPUs.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	return &Pool{slots: semaphore.NewWeighted(int64(size)), size: size}
}

// Size returns the number of concurrent slots.
func (p *Pool) Size() int {
	return p.size
}

// Do runs job on its own goroutine once a slot is free and waits for it.
// If ctx ends first, Do returns ctx.Err(); a job already started still runs to
// completion and releases its slot.
func (p *Pool) Do(ctx context.Context, job func()) error {
	if err := p.slots.Acquire(ctx, 1); err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		defer p.slots.Release(1)
		defer close(done)
		job()
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
