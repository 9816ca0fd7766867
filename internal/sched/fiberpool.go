package sched

import (
	"context"
	"sync/atomic"
)

// fiberPool is the lazily-grown pool of reusable fiber contexts for
// short-lived async tasks (spec.md §4.3 Fiber-pool). Entries are never
// truly "returned" to a free-list here (each task gets a fresh Fiber),
// but the pool tracks how many are currently in flight so Shutdown can
// wait for all of them to drain, matching spec.md §4.3's observable
// contract without needing real stack reuse in a goroutine-based
// implementation.
type fiberPool struct {
	sched  *Scheduler
	active atomic.Int64
}

func newFiberPool(s *Scheduler) *fiberPool {
	return &fiberPool{sched: s}
}

func (p *fiberPool) executeAsync(fn func(ctx context.Context, arg any), arg any) {
	p.active.Add(1)
	f := p.sched.NewFiber("fiberpool", func(ctx context.Context, arg any) any {
		defer p.active.Add(-1)
		fn(ctx, arg)
		return nil
	}, arg)
	f.Start()
}

func (p *fiberPool) activeCount() int {
	return int(p.active.Load())
}
