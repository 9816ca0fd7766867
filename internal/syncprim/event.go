// Package syncprim implements the synchronization primitives of
// spec.md §4.4: Event, Mutex and Semaphore, all built directly on the
// fiber scheduler's suspend/resume contract (internal/sched) rather than
// OS-level locks; correctness here depends entirely on the invariant
// that at most one fiber ever runs at a time (spec.md §5).
package syncprim

import (
	"time"

	"github.com/RevCBH/fiberd/internal/sched"
)

// Mode selects an Event's clear-on-wake behavior.
type Mode int

const (
	// ModeManual: set state persists across Set until an explicit Reset.
	ModeManual Mode = iota
	// ModeAuto: a successful wait (or a Set with no pending waiter)
	// clears the event again.
	ModeAuto
)

// Event is the two-state latch of spec.md §4.4, with a FIFO wait list.
type Event struct {
	sched   *sched.Scheduler
	mode    Mode
	isSet   bool
	waiters []*sched.Fiber
}

// NewEvent creates an Event in the not-set state.
func NewEvent(s *sched.Scheduler, mode Mode) *Event {
	return &Event{sched: s, mode: mode}
}

// IsSet reports the event's current state.
func (e *Event) IsSet() bool { return e.isSet }

// Reset unconditionally transitions the event to not-set.
func (e *Event) Reset() { e.isSet = false }

// Set transitions the event per spec.md §4.4's state machine: a manual
// event wakes every waiter and stays set; an auto event wakes exactly
// one waiter and stays not-set if any waiter was pending, or else
// becomes set with an empty wait list.
func (e *Event) Set() {
	switch e.mode {
	case ModeManual:
		e.isSet = true
		woken := e.waiters
		e.waiters = nil
		for _, w := range woken {
			e.sched.Wake(w)
		}
	case ModeAuto:
		if len(e.waiters) > 0 {
			w := e.waiters[0]
			e.waiters = e.waiters[1:]
			e.sched.Wake(w)
		} else {
			e.isSet = true
		}
	}
}

// Wait blocks the calling fiber until the event is set.
func (e *Event) Wait() {
	f := e.sched.Current()
	if e.tryConsume() {
		return
	}
	e.waiters = append(e.waiters, f)
	e.sched.Park(f)
}

// WaitWithTimeout blocks until the event is set or d elapses. A timeout
// leaves the event's state unchanged and removes the caller from the
// wait list (spec.md §4.4).
func (e *Event) WaitWithTimeout(d time.Duration) bool {
	f := e.sched.Current()
	if e.tryConsume() {
		return true
	}
	e.waiters = append(e.waiters, f)
	timedOut := e.sched.ParkWithDeadline(time.Now().Add(d))
	if timedOut {
		e.removeWaiter(f)
		return false
	}
	return true
}

// tryConsume reports whether the event was already set, consuming it
// (auto mode) as a successful wait would.
func (e *Event) tryConsume() bool {
	if !e.isSet {
		return false
	}
	if e.mode == ModeAuto {
		e.isSet = false
	}
	return true
}

func (e *Event) removeWaiter(f *sched.Fiber) {
	for i, w := range e.waiters {
		if w == f {
			e.waiters = append(e.waiters[:i], e.waiters[i+1:]...)
			return
		}
	}
}
