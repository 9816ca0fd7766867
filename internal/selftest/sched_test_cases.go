package selftest

import (
	"context"
	"sync"
	"time"

	"github.com/RevCBH/fiberd/internal/sched"
)

func init() {
	register("fiber_fan_out", testFiberFanOut)
	register("join_returns_entry_result", testJoinReturnsEntryResult)
	register("sleep_parks_for_requested_duration", testSleepParksForRequestedDuration)
	register("park_with_deadline_times_out", testParkWithDeadlineTimesOut)
}

// testFiberFanOut is spec.md §8 scenario 1: 10 fibers each increment a
// shared counter then exit; after joining all of them the counter is 10.
func testFiberFanOut(t *T) {
	s := sched.New(sched.Config{WorkerPoolSize: 2})
	defer s.Shutdown()

	var mu sync.Mutex
	a := 0
	fibers := make([]*sched.Fiber, 10)
	for i := range fibers {
		fibers[i] = s.NewFiber("incrementer", func(ctx context.Context, arg any) any {
			mu.Lock()
			a++
			mu.Unlock()
			return nil
		}, nil)
	}
	for _, f := range fibers {
		f.Start()
	}
	for _, f := range fibers {
		f.Join()
	}

	t.Assert(a == 10, "a == 10", "fan-out of 10 incrementer fibers should leave the counter at 10")
}

func testJoinReturnsEntryResult(t *T) {
	s := sched.New(sched.Config{WorkerPoolSize: 2})
	defer s.Shutdown()

	f := s.NewFiber("worker", func(ctx context.Context, arg any) any {
		return 42
	}, nil)
	f.Start()
	result := f.Join()
	t.Assert(result == 42, "f.Join() == 42", "Join must return the fiber entry's result")
}

func testSleepParksForRequestedDuration(t *T) {
	s := sched.New(sched.Config{WorkerPoolSize: 2})
	defer s.Shutdown()

	start := time.Now()
	f := s.NewFiber("sleeper", func(ctx context.Context, arg any) any {
		s.Sleep(15 * time.Millisecond)
		return nil
	}, nil)
	f.Start()
	f.Join()
	t.Assert(time.Since(start) >= 15*time.Millisecond, "elapsed >= 15ms", "Sleep must park for at least the requested duration")
}

func testParkWithDeadlineTimesOut(t *T) {
	s := sched.New(sched.Config{WorkerPoolSize: 2})
	defer s.Shutdown()

	var timedOut bool
	f := s.NewFiber("waiter", func(ctx context.Context, arg any) any {
		timedOut = s.ParkWithDeadline(time.Now().Add(10 * time.Millisecond))
		return nil
	}, nil)
	f.Start()
	f.Join()
	t.Assert(timedOut, "timedOut", "ParkWithDeadline must report a timeout when never explicitly woken")
}
