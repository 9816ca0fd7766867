// Package workerpool implements the fixed-size worker thread pool of
// spec.md §4.2: it isolates the scheduler thread from blocking syscalls
// (most notably synchronous name resolution, see internal/netio) by
// running them on a foreign OS thread and posting the result back
// through an ioport.Port.
package workerpool

import (
	"context"

	"github.com/RevCBH/fiberd/internal/ioport"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Job is a blocking callback executed on a worker goroutine.
type Job func(ctx context.Context) (any, error)

type request struct {
	id   uuid.UUID
	port *ioport.Port
	job  Job
}

// queueDepth is how many requests the internal request channel holds
// while every worker is busy.
const queueDepth = 4096

// Pool is a fixed-size set of worker goroutines. Size is fixed at
// construction; once all workers are busy, further Execute calls queue
// on the internal request channel, up to queueDepth pending requests
// (spec.md §4.2: "new requests queue").
type Pool struct {
	size     int
	requests chan request
	group    *errgroup.Group
	cancel   context.CancelFunc
}

// New starts a pool of size worker goroutines under an errgroup.Group so
// Shutdown can drain them deterministically.
func New(ctx context.Context, size int) *Pool {
	if size < 1 {
		size = 1
	}
	gctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(gctx)

	p := &Pool{
		size:     size,
		requests: make(chan request, queueDepth),
		group:    g,
		cancel:   cancel,
	}

	for i := 0; i < size; i++ {
		g.Go(func() error {
			p.runWorker(gctx)
			return nil
		})
	}
	return p
}

func (p *Pool) runWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-p.requests:
			if !ok {
				return
			}
			value, err := req.job(ctx)
			req.port.Post(req.id, ioport.Result{Value: value, Err: err})
		}
	}
}

// Execute enqueues job to run on a worker goroutine, identified by id for
// completion delivery on port. It does not block the dispatcher thread
// unless queueDepth requests are already waiting for a worker. The
// caller fiber is expected to have already registered id on port and
// to suspend itself immediately after calling Execute.
func (p *Pool) Execute(ctx context.Context, id uuid.UUID, port *ioport.Port, job Job) {
	select {
	case p.requests <- request{id: id, port: port, job: job}:
	case <-ctx.Done():
		port.Post(id, ioport.Result{Err: ctx.Err()})
	}
}

// Size returns the fixed number of worker goroutines.
func (p *Pool) Size() int { return p.size }

// Shutdown stops accepting work and waits for in-flight jobs to drain.
func (p *Pool) Shutdown() error {
	close(p.requests)
	err := p.group.Wait()
	p.cancel()
	return err
}
