// Package container implements the bounded blocking containers of
// spec.md §4.5: a FIFO/LIFO sequence with blocking put/take, and an
// object pool with blocking acquire/release and bulk visitation.
package container

import (
	"time"

	"github.com/RevCBH/fiberd/internal/sched"
	"github.com/RevCBH/fiberd/internal/syncprim"
)

// Order selects a Container's removal discipline.
type Order int

const (
	FIFO Order = iota
	LIFO
)

// Container is the bounded blocking queue/stack of spec.md §4.5.
// capacity and order are fixed at creation; entries are opaque.
type Container struct {
	capacity int
	order    Order
	items    []any

	nonFull  *syncprim.Event
	nonEmpty *syncprim.Event
}

// New creates an empty Container with the given capacity and ordering.
func New(s *sched.Scheduler, capacity int, order Order) *Container {
	c := &Container{capacity: capacity, order: order}
	c.nonFull = syncprim.NewEvent(s, syncprim.ModeManual)
	c.nonEmpty = syncprim.NewEvent(s, syncprim.ModeManual)
	c.nonFull.Set()
	return c
}

// Len reports the number of entries currently held.
func (c *Container) Len() int { return len(c.items) }

// Put blocks while the container is full, then appends x.
func (c *Container) Put(x any) {
	for len(c.items) >= c.capacity {
		c.nonFull.Wait()
	}
	c.items = append(c.items, x)
	c.syncEvents()
}

// PutWithTimeout blocks while full, up to d, then appends x. Returns
// false on timeout, leaving the container unchanged.
func (c *Container) PutWithTimeout(x any, d time.Duration) bool {
	deadline := time.Now().Add(d)
	for len(c.items) >= c.capacity {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false
		}
		if !c.nonFull.WaitWithTimeout(remaining) {
			return false
		}
	}
	c.items = append(c.items, x)
	c.syncEvents()
	return true
}

// Take blocks while the container is empty, then removes and returns
// the next entry per the container's ordering.
func (c *Container) Take() any {
	for len(c.items) == 0 {
		c.nonEmpty.Wait()
	}
	x := c.pop()
	c.syncEvents()
	return x
}

// TakeWithTimeout blocks while empty, up to d. Returns false on
// timeout, leaving the container unchanged.
func (c *Container) TakeWithTimeout(d time.Duration) (any, bool) {
	deadline := time.Now().Add(d)
	for len(c.items) == 0 {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, false
		}
		if !c.nonEmpty.WaitWithTimeout(remaining) {
			return nil, false
		}
	}
	x := c.pop()
	c.syncEvents()
	return x, true
}

func (c *Container) pop() any {
	switch c.order {
	case LIFO:
		last := len(c.items) - 1
		x := c.items[last]
		c.items = c.items[:last]
		return x
	default: // FIFO
		x := c.items[0]
		c.items = c.items[1:]
		return x
	}
}

// syncEvents re-levels the non-full/non-empty events after a mutation.
// Both events are manual so a Set when already set is a harmless no-op
// beyond re-waking an (empty) waiter list.
func (c *Container) syncEvents() {
	if len(c.items) < c.capacity {
		c.nonFull.Set()
	} else {
		c.nonFull.Reset()
	}
	if len(c.items) > 0 {
		c.nonEmpty.Set()
	} else {
		c.nonEmpty.Reset()
	}
}
