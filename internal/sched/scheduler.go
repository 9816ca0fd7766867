// Package sched implements the fiber scheduler of spec.md §4.3: a single
// cooperative dispatcher thread that runs ready fibers to completion or
// suspension, bridged to asynchronous I/O via an ioport.Port and to
// blocking syscalls via a workerpool.Pool.
//
// The implementation models "the scheduler thread" as one background
// goroutine that never runs two fibers concurrently: each Fiber has its
// own goroutine, but the scheduler only ever hands the baton (via an
// unbuffered resume channel) to one of them at a time, and does not move
// on until that fiber yields or finishes. This is the idiomatic Go
// rendering of the stackful-coroutine strategy named in spec.md §9: no
// two fibers' user code ever executes concurrently, matching §5's
// single-threaded serialization, while still using ordinary goroutines
// rather than a hand-rolled stack-switching runtime.
package sched

import (
	"context"
	"sync"
	"time"

	"github.com/RevCBH/fiberd/internal/ioport"
	"github.com/RevCBH/fiberd/internal/telemetry"
	"github.com/RevCBH/fiberd/internal/workerpool"
	"github.com/google/uuid"
)

// Config configures a Scheduler at construction.
type Config struct {
	// WorkerPoolSize is the number of OS threads available for blocking
	// offload (spec.md §4.2). Defaults to 4 if <= 0.
	WorkerPoolSize int
	// DefaultStackSize is used by NewFiber callers that don't specify one.
	DefaultStackSize int
	// Telemetry, if set, receives scheduler/fiber/timer/IO lifecycle
	// events. Nil disables emission entirely.
	Telemetry *telemetry.Bus
}

// Scheduler is the process-wide scheduler context of spec.md §3: it owns
// the current-fiber pointer, the ready queue, the timer set, the
// fiber-pool, and references to the completion port and worker pool.
//
// Per spec.md §9's design note, it is an explicit handle rather than a
// hidden global: construct one with New and pass it to every primitive
// constructor. SetDefault/Default offer an optional process-wide
// convenience accessor for callers that want exactly one scheduler per
// process, as the original C library assumed.
type Scheduler struct {
	cfg  Config
	ctx  context.Context
	stop context.CancelFunc

	port *ioport.Port
	pool *workerpool.Pool

	ready         []*Fiber
	externalReady chan *Fiber
	timers        *timerSet
	ioRegistry    map[uuid.UUID]*Fiber

	current      *Fiber
	blockedCount int
	fiberPool    *fiberPool

	shuttingDown bool
	stoppedCh    chan struct{}

	telemetry *telemetry.Bus

	// introspectMu guards the handful of counters read from goroutines
	// other than the scheduler loop (e.g. a live status dashboard).
	introspectMu sync.Mutex
	stats        Stats
}

// emit is a no-op when no telemetry.Bus was configured.
func (s *Scheduler) emit(e telemetry.Event) {
	if s.telemetry != nil {
		s.telemetry.Emit(e)
	}
}

// Stats is a point-in-time snapshot for diagnostics/dashboards.
type Stats struct {
	FibersCreated  int
	FibersFinished int
	ReadyDepth     int
	TimersPending  int
	IOOutstanding  int
}

var (
	defaultMu  sync.Mutex
	defaultSch *Scheduler
)

// SetDefault installs s as the process-wide default scheduler.
func SetDefault(s *Scheduler) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultSch = s
}

// Default returns the process-wide default scheduler, or nil if none has
// been installed via SetDefault.
func Default() *Scheduler {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultSch
}

// New creates a scheduler context and starts its dispatcher loop.
func New(cfg Config) *Scheduler {
	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = 4
	}
	if cfg.DefaultStackSize <= 0 {
		cfg.DefaultStackSize = 64 * 1024
	}
	ctx, cancel := context.WithCancel(context.Background())

	s := &Scheduler{
		cfg:           cfg,
		ctx:           ctx,
		stop:          cancel,
		port:          ioport.NewPort(),
		externalReady: make(chan *Fiber, 4096),
		timers:        newTimerSet(),
		ioRegistry:    make(map[uuid.UUID]*Fiber),
		stoppedCh:     make(chan struct{}),
		telemetry:     cfg.Telemetry,
	}
	s.pool = workerpool.New(ctx, cfg.WorkerPoolSize)
	s.fiberPool = newFiberPool(s)
	s.port.SetObserver(func(id uuid.UUID, delivered bool) {
		if delivered {
			s.emit(telemetry.New(telemetry.IOCompletionPosted).WithPayload(id.String()))
		} else {
			s.emit(telemetry.New(telemetry.IOCompletionDiscarded).WithPayload(id.String()))
		}
	})

	go s.loop()
	s.emit(telemetry.New(telemetry.SchedulerStarted))
	return s
}

// Port returns the scheduler's completion port, for components (like
// internal/netio) that bridge async I/O into fiber suspension.
func (s *Scheduler) Port() *ioport.Port { return s.port }

// WorkerPool returns the fixed-size blocking-offload pool.
func (s *Scheduler) WorkerPool() *workerpool.Pool { return s.pool }

// Context is cancelled once Shutdown begins.
func (s *Scheduler) Context() context.Context { return s.ctx }

// NewFiber creates a fiber bound to this scheduler. It is not yet
// eligible for dispatch until Start is called.
func (s *Scheduler) NewFiber(name string, entry Entry, arg any) *Fiber {
	stackSize := s.cfg.DefaultStackSize
	f := newFiber(s, name, stackSize, entry, arg)
	s.introspectMu.Lock()
	s.stats.FibersCreated++
	s.introspectMu.Unlock()
	s.emit(telemetry.New(telemetry.FiberCreated).WithFiber(f.ID.String()).WithPayload(name))
	return f
}

// Current returns the fiber currently holding the baton. It is only
// meaningful when called from within a fiber's own entry function (or
// transitively from a primitive it calls); Fatal if called off-fiber.
func (s *Scheduler) Current() *Fiber {
	f := s.current
	if f == nil {
		Fatal("sched.current", "no fiber is running on this scheduler thread")
	}
	return f
}

func (s *Scheduler) currentFiberOrNil() *Fiber { return s.current }

// park suspends f until the scheduler resumes it. The caller must have
// already made whatever wait-list/counter mutation it needed (event wait
// list, semaphore counter, queue slot, ...) before calling park, since
// control does not return here until some other code path re-enqueues f.
func (s *Scheduler) park(f *Fiber) {
	f.state.Store(int32(StateBlocked))
	s.blockedCount++
	f.doneCh <- struct{}{}
	<-f.resumeCh
}

// wakeFromRunning enqueues f onto the ready queue. It must only be
// called by the code path that currently holds the baton (the running
// fiber itself); see the package doc for why that's always safe without
// additional locking.
func (s *Scheduler) wakeFromRunning(f *Fiber) {
	if f.State() == StateBlocked {
		s.blockedCount--
	}
	f.state.Store(int32(StateReady))
	s.ready = append(s.ready, f)
}

// Wake is the public form of wakeFromRunning for primitives in other
// packages (internal/syncprim, internal/container, internal/netio).
func (s *Scheduler) Wake(f *Fiber) { s.wakeFromRunning(f) }

// Park is the public form of park.
func (s *Scheduler) Park(f *Fiber) { s.park(f) }

// enqueueExternal makes f ready from outside the scheduler thread (e.g.
// a bare call to Fiber.Start from program startup code that is not
// itself a fiber). It is the one path into the ready queue that must
// cross a real goroutine boundary, so it goes through a channel rather
// than touching s.ready directly.
func (s *Scheduler) enqueueExternal(f *Fiber) {
	f.state.Store(int32(StateReady))
	s.externalReady <- f
}

// RegisterIO associates id with f for completion delivery, and tells the
// completion port to expect exactly one Post for it (spec.md §4.1).
func (s *Scheduler) RegisterIO(id uuid.UUID, f *Fiber) {
	s.ioRegistry[id] = f
	s.port.RegisterOverlap(id)
}

// AwaitIO parks the current fiber until id's completion is delivered,
// then returns the posted value/error.
func (s *Scheduler) AwaitIO(id uuid.UUID) (any, error) {
	f := s.Current()
	s.park(f)
	res, _ := f.ioResult.(ioport.Result)
	return res.Value, res.Err
}

// CancelIO cancels a registered-but-undelivered I/O operation, as when a
// timeout wins the race against the operation itself.
func (s *Scheduler) CancelIO(id uuid.UUID) bool {
	delete(s.ioRegistry, id)
	return s.port.DeregisterOverlap(id)
}

// Sleep parks the current fiber for d (spec.md §4.3 sleep).
func (s *Scheduler) Sleep(d time.Duration) {
	f := s.Current()
	s.timers.register(time.Now().Add(d), f)
	s.park(f)
}

// ParkWithDeadline parks the current fiber until either some other code
// path wakes it (via Wake) or deadline elapses, whichever comes first,
// atomically cancelling the loser's registration (spec.md §4.3, §5).
// Callers must register the fiber on their own wait list before calling
// this; ParkWithDeadline only owns the timer side of the race.
func (s *Scheduler) ParkWithDeadline(deadline time.Time) (timedOut bool) {
	f := s.Current()
	timerID := s.timers.register(deadline, f)
	f.wokenByTimer = false
	s.park(f)

	if f.wokenByTimer {
		f.wokenByTimer = false
		return true
	}
	s.timers.cancel(timerID)
	return false
}

// FiberPoolExecuteAsync runs fn on a new fiber tracked by the fiber-pool
// (spec.md §4.3 fiber-pool) and returns immediately. Fibers are not
// reused between tasks; the pool only counts tasks in flight, and
// Shutdown waits for that count to reach zero.
func (s *Scheduler) FiberPoolExecuteAsync(fn func(ctx context.Context, arg any), arg any) {
	s.fiberPool.executeAsync(fn, arg)
}

// Shutdown blocks until the ready queue is empty, no timers remain, no
// fiber is blocked, the completion port has no outstanding
// registrations, and every fiber-pool task has completed (spec.md §4.3
// Shutdown). Fibers started after the dispatcher loop has stopped are
// never run.
func (s *Scheduler) Shutdown() {
	s.shuttingDown = true
	// The dispatcher loop may be idle in its select with nothing left to
	// wake it; post a completion no fiber is registered for so it wakes
	// and re-checks the shutdown conditions.
	wake := uuid.New()
	s.port.RegisterOverlap(wake)
	s.port.Post(wake, ioport.Result{})
	<-s.stoppedCh
	s.stop()
	_ = s.pool.Shutdown()
	s.emit(telemetry.New(telemetry.SchedulerShutdown))
}

func (s *Scheduler) loop() {
	for {
		s.drainExternal()
		s.publishStats()

		if len(s.ready) > 0 {
			f := s.popReady()
			s.runOne(f)
			continue
		}

		if s.shuttingDown &&
			s.timers.len() == 0 &&
			s.blockedCount == 0 &&
			s.port.Outstanding() == 0 &&
			s.fiberPool.activeCount() == 0 {
			close(s.stoppedCh)
			return
		}

		var deadlineCh <-chan time.Time
		if d, ok := s.timers.peekDeadline(); ok {
			wait := time.Until(d)
			if wait < 0 {
				wait = 0
			}
			deadlineCh = time.After(wait)
		}

		select {
		case f := <-s.externalReady:
			s.ready = append(s.ready, f)
		case c := <-s.port.Completions():
			if f, ok := s.ioRegistry[c.ID]; ok {
				delete(s.ioRegistry, c.ID)
				f.ioResult = c.Result
				s.wakeFromRunning(f)
			}
		case <-deadlineCh:
			s.fireDueTimers()
		}
	}
}

func (s *Scheduler) drainExternal() {
	for {
		select {
		case f := <-s.externalReady:
			s.ready = append(s.ready, f)
		default:
			return
		}
	}
}

func (s *Scheduler) fireDueTimers() {
	for _, e := range s.timers.popDue(time.Now()) {
		e.fiber.wokenByTimer = true
		s.wakeFromRunning(e.fiber)
		s.emit(telemetry.New(telemetry.TimerFired).WithFiber(e.fiber.ID.String()))
	}
}

func (s *Scheduler) popReady() *Fiber {
	f := s.ready[0]
	s.ready = s.ready[1:]
	return f
}

func (s *Scheduler) runOne(f *Fiber) {
	s.current = f
	f.state.Store(int32(StateRunning))
	f.resumeCh <- struct{}{}
	<-f.doneCh
	s.current = nil

	if f.State() == StateFinished {
		s.introspectMu.Lock()
		s.stats.FibersFinished++
		s.introspectMu.Unlock()
	}
}

// publishStats refreshes the counters Stats() reports, called only from
// the scheduler loop so it may read s.ready/s.timers without racing the
// fiber that currently (if any) holds the baton.
func (s *Scheduler) publishStats() {
	s.introspectMu.Lock()
	s.stats.ReadyDepth = len(s.ready)
	s.stats.TimersPending = s.timers.len()
	s.introspectMu.Unlock()
}

// Stats returns a snapshot of scheduler counters, safe to call from any
// goroutine. The snapshot is
// refreshed once per dispatcher loop iteration, so it may lag slightly
// behind the true instantaneous state.
func (s *Scheduler) Stats() Stats {
	s.introspectMu.Lock()
	snap := s.stats
	s.introspectMu.Unlock()
	snap.IOOutstanding = s.port.Outstanding()
	return snap
}
