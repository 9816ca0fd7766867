package sched

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/RevCBH/fiberd/internal/telemetry"
	"github.com/google/uuid"
)

// State is a fiber's position in its run/block/finish lifecycle
// (spec.md §3 Fiber).
type State int32

const (
	StateNew State = iota
	StateReady
	StateRunning
	StateBlocked
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateBlocked:
		return "blocked"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Entry is a fiber's body. It receives the scheduler's context (cancelled
// on Shutdown) and the opaque argument passed to NewFiber, and returns the
// value later handed back by Join.
type Entry func(ctx context.Context, arg any) any

// Fiber is an independently schedulable unit of cooperative execution
// (spec.md §3). At most one fiber runs at any instant on the scheduler
// thread; a fiber suspends only at an explicit suspension point and may
// be joined by exactly one other caller.
type Fiber struct {
	ID   uuid.UUID
	Name string

	sched     *Scheduler
	entry     Entry
	arg       any
	stackSize int

	state atomic.Int32

	resumeCh chan struct{}
	doneCh   chan struct{}
	joinCh   chan struct{}

	result     any
	joined     atomic.Bool
	joinWaiter *Fiber

	// ioResult carries the payload of the completion or timer that most
	// recently woke this fiber, consumed by the suspension point that
	// registered it.
	ioResult any

	// wokenByTimer distinguishes a ParkWithDeadline wakeup caused by
	// timer expiry from one caused by the primitive's own wake call.
	wokenByTimer bool
}

func newFiber(s *Scheduler, name string, stackSize int, entry Entry, arg any) *Fiber {
	f := &Fiber{
		ID:        uuid.New(),
		Name:      name,
		sched:     s,
		entry:     entry,
		arg:       arg,
		stackSize: stackSize,
		resumeCh:  make(chan struct{}),
		doneCh:    make(chan struct{}),
		joinCh:    make(chan struct{}),
	}
	f.state.Store(int32(StateNew))
	return f
}

// State returns the fiber's current lifecycle state.
func (f *Fiber) State() State { return State(f.state.Load()) }

// Start transitions a newly created fiber to ready and makes it eligible
// for dispatch. Starting a fiber that is not new is a precondition
// violation (spec.md §7 kind 4).
func (f *Fiber) Start() {
	if !f.state.CompareAndSwap(int32(StateNew), int32(StateReady)) {
		Fatal("fiber.start", "fiber "+f.ID.String()+" is not new")
	}
	go f.run()
	f.sched.enqueueExternal(f)
}

func (f *Fiber) run() {
	<-f.resumeCh // wait for the scheduler to hand us the baton
	f.sched.emit(telemetry.New(telemetry.FiberStarted).WithFiber(f.ID.String()).WithPayload(f.Name))
	defer func() {
		if r := recover(); r != nil {
			f.sched.emit(telemetry.New(telemetry.FiberFaulted).WithFiber(f.ID.String()).WithPayload(f.Name))
			Fatal("fiber.fault", f.ID.String()+" panicked: "+panicString(r))
		}
	}()

	result := f.entry(f.sched.ctx, f.arg)

	f.result = result
	f.state.Store(int32(StateFinished))
	f.sched.emit(telemetry.New(telemetry.FiberFinished).WithFiber(f.ID.String()).WithPayload(f.Name))
	if f.joinWaiter != nil {
		f.sched.wakeFromRunning(f.joinWaiter)
	}
	close(f.joinCh)
	f.doneCh <- struct{}{}
}

func panicString(r any) string {
	if err, ok := r.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(r)
}

// Join blocks the calling fiber (or, if called from outside any fiber,
// the calling goroutine) until f finishes, then returns its result.
// Joining a fiber more than once is a precondition violation.
func (f *Fiber) Join() any {
	if !f.joined.CompareAndSwap(false, true) {
		Fatal("fiber.join", "fiber "+f.ID.String()+" already has a joiner")
	}

	select {
	case <-f.joinCh:
		return f.result
	default:
	}

	if caller := f.sched.currentFiberOrNil(); caller != nil {
		f.joinWaiter = caller
		f.sched.park(caller)
		return f.result
	}

	<-f.joinCh
	return f.result
}
