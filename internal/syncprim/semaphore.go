package syncprim

import (
	"time"

	"github.com/RevCBH/fiberd/internal/sched"
)

// Semaphore is the counting primitive of spec.md §4.4: an internal
// non-negative value paired with an auto-reset event. up increments the
// value and, on a 0→1 transition, sets the event; down blocks while the
// value is zero and, after claiming a unit, re-sets the event if units
// remain so the wakeup cascades to the next waiter (grounded on
// original_source's ff_semaphore.c).
type Semaphore struct {
	sched *sched.Scheduler
	v     int
	event *Event
}

// NewSemaphore creates a Semaphore with the given non-negative initial
// value.
func NewSemaphore(s *sched.Scheduler, initial int) *Semaphore {
	if initial < 0 {
		sched.Fatal("semaphore.new", "negative initial value")
	}
	return &Semaphore{sched: s, v: initial, event: NewEvent(s, ModeAuto)}
}

// Up increments the value, waking a blocked waiter on a 0→1 transition.
func (s *Semaphore) Up() {
	wasZero := s.v == 0
	s.v++
	if wasZero {
		s.event.Set()
	}
}

// Down blocks the calling fiber until a unit is available, then claims
// it.
func (s *Semaphore) Down() {
	for {
		if s.v > 0 {
			s.v--
			if s.v > 0 {
				s.event.Set()
			}
			return
		}
		s.event.Wait()
	}
}

// DownWithTimeout blocks until a unit is available or d elapses,
// reporting which happened.
func (s *Semaphore) DownWithTimeout(d time.Duration) bool {
	deadline := time.Now().Add(d)
	for {
		if s.v > 0 {
			s.v--
			if s.v > 0 {
				s.event.Set()
			}
			return true
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false
		}
		if !s.event.WaitWithTimeout(remaining) {
			return false
		}
	}
}

// Value returns the current count. Intended for introspection and
// tests; primitives never synchronize on it directly.
func (s *Semaphore) Value() int { return s.v }
