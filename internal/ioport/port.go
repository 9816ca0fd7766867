// Package ioport implements the completion-port bridge described in
// spec.md §4.1: a multiplexer that a single dispatcher (the scheduler
// thread) polls for finished async operations, while arbitrary worker
// goroutines post completions from the other side.
//
// Port itself knows nothing about fibers. It maps an opaque overlap
// identity to a Result delivered exactly once. Callers (internal/sched,
// internal/workerpool, internal/netio) keep their own id-to-fiber
// registry and use Port purely as the cross-thread handoff.
package ioport

import (
	"sync"

	"github.com/google/uuid"
)

// Result is the payload delivered when an outstanding operation completes.
type Result struct {
	Value any
	Err   error
}

// Completion pairs a delivered Result with the overlap id it answers.
type Completion struct {
	ID     uuid.UUID
	Result Result
}

// Port is the completion port. Register an overlap before the
// asynchronous side of an operation can complete it; Post is safe to
// call from any goroutine; Completions() must only be drained by the
// dispatcher (scheduler) goroutine.
type Port struct {
	mu          sync.Mutex
	registered  map[uuid.UUID]struct{}
	completions chan Completion

	// observer, if set, is called from Post with whether id was actually
	// registered (true) or the completion was discarded (false). Used by
	// internal/sched to feed a telemetry.Bus without this package needing
	// to know anything about telemetry event types.
	observer func(id uuid.UUID, delivered bool)
}

// NewPort creates an empty completion port.
func NewPort() *Port {
	return &Port{
		registered:  make(map[uuid.UUID]struct{}),
		completions: make(chan Completion, 64),
	}
}

// RegisterOverlap records id as the sole pending operation identity.
// Per spec.md §4.1, at most one registration may exist for a given id at
// a time; registering a duplicate id is a caller bug and panics.
func (p *Port) RegisterOverlap(id uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.registered[id]; exists {
		panic("ioport: overlap already registered: " + id.String())
	}
	p.registered[id] = struct{}{}
}

// DeregisterOverlap removes id's registration without delivering a
// completion, e.g. because a timeout raced the operation and won.
// Returns true if id was registered.
func (p *Port) DeregisterOverlap(id uuid.UUID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.registered[id]; !exists {
		return false
	}
	delete(p.registered, id)
	return true
}

// Outstanding reports the number of registered-but-not-yet-completed
// operations. Used by the scheduler to decide whether shutdown may
// proceed (spec.md §4.3 shutdown preconditions).
func (p *Port) Outstanding() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.registered)
}

// SetObserver installs fn to be called on every Post, reporting whether
// the completion was delivered or discarded. Must be called before any
// concurrent Post; internal/sched installs it once at construction.
func (p *Port) SetObserver(fn func(id uuid.UUID, delivered bool)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observer = fn
}

// Post delivers result for id. If id is not currently registered the
// completion is discarded (spec.md §4.1: "the operation was cancelled").
// Safe to call concurrently from any goroutine.
func (p *Port) Post(id uuid.UUID, result Result) {
	p.mu.Lock()
	if _, exists := p.registered[id]; !exists {
		observer := p.observer
		p.mu.Unlock()
		if observer != nil {
			observer(id, false)
		}
		return
	}
	delete(p.registered, id)
	observer := p.observer
	p.mu.Unlock()

	if observer != nil {
		observer(id, true)
	}
	p.completions <- Completion{ID: id, Result: result}
}

// Completions returns the channel the dispatcher selects on to learn of
// finished operations. Only the scheduler goroutine may receive from it.
func (p *Port) Completions() <-chan Completion {
	return p.completions
}
