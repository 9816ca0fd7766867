package syncprim

import (
	"time"

	"github.com/RevCBH/fiberd/internal/sched"
)

// Mutex is the exclusive-ownership primitive of spec.md §4.4. It is
// described there as an event plus an owner field; here the FIFO wait
// list plays the event's role directly, so that releasing the lock
// hands ownership to exactly the oldest waiter instead of waking every
// waiter and letting them race for it.
type Mutex struct {
	sched   *sched.Scheduler
	owner   *sched.Fiber
	waiters []*sched.Fiber
}

// NewMutex creates an unlocked Mutex.
func NewMutex(s *sched.Scheduler) *Mutex {
	return &Mutex{sched: s}
}

// Lock acquires the mutex, blocking the calling fiber while it is held
// by another. Uncontended acquisition is constant time.
func (m *Mutex) Lock() {
	f := m.sched.Current()
	if m.owner == nil {
		m.owner = f
		return
	}
	m.waiters = append(m.waiters, f)
	m.sched.Park(f)
}

// LockWithTimeout acquires the mutex or gives up after d, reporting
// which happened.
func (m *Mutex) LockWithTimeout(d time.Duration) bool {
	f := m.sched.Current()
	if m.owner == nil {
		m.owner = f
		return true
	}
	m.waiters = append(m.waiters, f)
	timedOut := m.sched.ParkWithDeadline(time.Now().Add(d))
	if timedOut {
		m.removeWaiter(f)
		return false
	}
	return true
}

// Unlock releases the mutex. Unlocking from a fiber that is not the
// current owner is a precondition violation (spec.md §7 kind 4).
// Ownership passes directly to the oldest waiter, if any, which is
// woken already holding the lock.
func (m *Mutex) Unlock() {
	f := m.sched.Current()
	if m.owner != f {
		sched.Fatal("mutex.unlock", "unlock by non-owner fiber")
	}
	if len(m.waiters) > 0 {
		next := m.waiters[0]
		m.waiters = m.waiters[1:]
		m.owner = next
		m.sched.Wake(next)
		return
	}
	m.owner = nil
}

func (m *Mutex) removeWaiter(f *sched.Fiber) {
	for i, w := range m.waiters {
		if w == f {
			m.waiters = append(m.waiters[:i], m.waiters[i+1:]...)
			return
		}
	}
}
