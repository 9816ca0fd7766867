package container

import (
	"github.com/RevCBH/fiberd/internal/sched"
	"github.com/RevCBH/fiberd/internal/syncprim"
)

// Constructor builds a new pool entry. Destructor releases one.
type Constructor func() any
type Destructor func(any)

type poolEntry struct {
	value    any
	acquired bool
}

// Pool is the bounded, lazily-constructed object pool of spec.md §4.5,
// used by the RPC server (§4.6) to manage its fixed-size connection
// processor set.
type Pool struct {
	capacity  int
	construct Constructor
	destruct  Destructor

	entries []*poolEntry
	free    []*poolEntry
	byValue map[any]*poolEntry

	// available wakes at most one acquire waiter per release, per
	// spec.md §4.5; an auto event gives exactly that semantics.
	available *syncprim.Event
}

// NewPool creates a Pool with the given capacity and entry lifecycle
// callbacks. destruct may be nil if entries need no teardown.
func NewPool(s *sched.Scheduler, capacity int, construct Constructor, destruct Destructor) *Pool {
	return &Pool{
		capacity:  capacity,
		construct: construct,
		destruct:  destruct,
		byValue:   make(map[any]*poolEntry),
		available: syncprim.NewEvent(s, syncprim.ModeAuto),
	}
}

// Acquire returns an entry, constructing one if the pool has not yet
// reached capacity, or blocking until one is released otherwise.
func (p *Pool) Acquire() any {
	for {
		if e, ok := p.popFree(); ok {
			return e.value
		}
		if len(p.entries) < p.capacity {
			return p.constructEntry()
		}
		p.available.Wait()
	}
}

func (p *Pool) popFree() (*poolEntry, bool) {
	if len(p.free) == 0 {
		return nil, false
	}
	e := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	e.acquired = true
	return e, true
}

func (p *Pool) constructEntry() any {
	v := p.construct()
	e := &poolEntry{value: v, acquired: true}
	p.entries = append(p.entries, e)
	p.byValue[v] = e
	return v
}

// Release returns e to the pool, waking at most one acquire waiter.
// Releasing a value the pool did not hand out is a precondition
// violation (spec.md §7 kind 4).
func (p *Pool) Release(e any) {
	entry, ok := p.byValue[e]
	if !ok || !entry.acquired {
		sched.Fatal("pool.release", "value was not an acquired pool entry")
	}
	entry.acquired = false
	p.free = append(p.free, entry)
	p.available.Set()
}

// ForEachEntry invokes visitor over every constructed entry, reporting
// whether it is currently checked out. Used by the RPC server to
// broadcast shutdown to in-flight connection processors.
func (p *Pool) ForEachEntry(visitor func(value any, acquired bool)) {
	for _, e := range p.entries {
		visitor(e.value, e.acquired)
	}
}

// Destroy destructs every constructed entry regardless of acquisition
// state. Destroying a pool with outstanding acquisitions is a caller
// bug and is fatal (spec.md §7 kind 4, §4.5).
func (p *Pool) Destroy() {
	for _, e := range p.entries {
		if e.acquired {
			sched.Fatal("pool.destroy", "entry still acquired")
		}
	}
	if p.destruct != nil {
		for _, e := range p.entries {
			p.destruct(e.value)
		}
	}
	p.entries = nil
	p.free = nil
	p.byValue = make(map[any]*poolEntry)
}
