package sched

import (
	"container/heap"
	"time"

	"github.com/google/uuid"
)

// timerEntry is one pending deadline in the scheduler's timer set
// (spec.md §3 Scheduler Context, §4.3 Timers). Only ever touched by the
// scheduler thread: either the loop goroutine itself, or the single
// fiber currently holding the baton.
type timerEntry struct {
	id        uuid.UUID
	deadline  time.Time
	fiber     *Fiber
	cancelled bool
	index     int // heap.Interface bookkeeping
}

type timerHeap []*timerEntry

func (h timerHeap) Len() int            { return len(h) }
func (h timerHeap) Less(i, j int) bool  { return h[i].deadline.Before(h[j].deadline) }
func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *timerHeap) Push(x any) {
	e := x.(*timerEntry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

type timerSet struct {
	h      timerHeap
	byID   map[uuid.UUID]*timerEntry
}

func newTimerSet() *timerSet {
	return &timerSet{byID: make(map[uuid.UUID]*timerEntry)}
}

// register inserts a new deadline for fiber, returning its id so the
// caller can cancel it if some other wakeup (an event, a completion)
// wins the race first.
func (t *timerSet) register(deadline time.Time, fiber *Fiber) uuid.UUID {
	e := &timerEntry{id: uuid.New(), deadline: deadline, fiber: fiber}
	heap.Push(&t.h, e)
	t.byID[e.id] = e
	return e.id
}

// cancel removes a still-pending timer. Returns false if it already
// fired (or never existed), meaning the caller lost the race.
func (t *timerSet) cancel(id uuid.UUID) bool {
	e, ok := t.byID[id]
	if !ok {
		return false
	}
	delete(t.byID, id)
	if e.index >= 0 && e.index < len(t.h) && t.h[e.index] == e {
		heap.Remove(&t.h, e.index)
	}
	return true
}

// peekDeadline returns the earliest pending deadline, if any.
func (t *timerSet) peekDeadline() (time.Time, bool) {
	if len(t.h) == 0 {
		return time.Time{}, false
	}
	return t.h[0].deadline, true
}

// popDue removes and returns every timer whose deadline is <= now.
func (t *timerSet) popDue(now time.Time) []*timerEntry {
	var due []*timerEntry
	for len(t.h) > 0 && !t.h[0].deadline.After(now) {
		e := heap.Pop(&t.h).(*timerEntry)
		delete(t.byID, e.id)
		due = append(due, e)
	}
	return due
}

func (t *timerSet) len() int { return len(t.h) }
