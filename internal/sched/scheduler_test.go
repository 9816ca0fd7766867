package sched

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s := New(Config{WorkerPoolSize: 2})
	t.Cleanup(s.Shutdown)
	return s
}

// TestFiberFanOut is spec.md §8 scenario 1: 10 fibers each increment a
// shared counter then exit; after joining all of them the counter is 10.
func TestFiberFanOut(t *testing.T) {
	s := newTestScheduler(t)

	var mu sync.Mutex
	a := 0
	fibers := make([]*Fiber, 10)
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

	assert.Equal(t, 10, a)
}

func TestJoinReturnsEntryResult(t *testing.T) {
	s := newTestScheduler(t)
	f := s.NewFiber("worker", func(ctx context.Context, arg any) any {
		return 42
	}, nil)
	f.Start()
	assert.Equal(t, 42, f.Join())
}

func TestJoinFromWithinAnotherFiber(t *testing.T) {
	s := newTestScheduler(t)
	child := s.NewFiber("child", func(ctx context.Context, arg any) any {
		return "child-result"
	}, nil)

	parentDone := make(chan any, 1)
	parent := s.NewFiber("parent", func(ctx context.Context, arg any) any {
		child.Start()
		res := child.Join()
		parentDone <- res
		return nil
	}, nil)
	parent.Start()

	select {
	case res := <-parentDone:
		assert.Equal(t, "child-result", res)
	case <-time.After(time.Second):
		t.Fatal("parent fiber never observed child join result")
	}
	parent.Join()
}

func TestSleepParksForApproximatelyTheRequestedDuration(t *testing.T) {
	s := newTestScheduler(t)
	start := time.Now()
	f := s.NewFiber("sleeper", func(ctx context.Context, arg any) any {
		s.Sleep(20 * time.Millisecond)
		return nil
	}, nil)
	f.Start()
	f.Join()
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestParkWithDeadlineTimesOutWhenNeverWoken(t *testing.T) {
	s := newTestScheduler(t)
	var timedOut bool
	f := s.NewFiber("waiter", func(ctx context.Context, arg any) any {
		timedOut = s.ParkWithDeadline(time.Now().Add(10 * time.Millisecond))
		return nil
	}, nil)
	f.Start()
	f.Join()
	assert.True(t, timedOut)
}

func TestParkWithDeadlineLosesRaceToExplicitWake(t *testing.T) {
	s := newTestScheduler(t)
	var timedOut bool
	f := s.NewFiber("waiter", func(ctx context.Context, arg any) any {
		timedOut = s.ParkWithDeadline(time.Now().Add(time.Hour))
		return nil
	}, nil)
	f.Start()

	// Give the waiter a chance to park, then wake it directly the way a
	// primitive would on a successful wait.
	time.Sleep(10 * time.Millisecond)
	s.fiberPool.executeAsync(func(ctx context.Context, arg any) {
		s.Wake(f)
	}, nil)

	f.Join()
	assert.False(t, timedOut)
}

func TestShutdownWaitsForFiberPoolTasks(t *testing.T) {
	s := New(Config{WorkerPoolSize: 2})
	done := make(chan struct{})
	s.FiberPoolExecuteAsync(func(ctx context.Context, arg any) {
		s.Sleep(15 * time.Millisecond)
		close(done)
	}, nil)

	s.Shutdown()
	select {
	case <-done:
	default:
		t.Fatal("shutdown returned before fiber-pool task finished")
	}
}

func TestRunBlockingViaWorkerPool(t *testing.T) {
	s := newTestScheduler(t)
	f := s.NewFiber("caller", func(ctx context.Context, arg any) any {
		id := uuid.New()
		s.RegisterIO(id, s.Current())
		s.WorkerPool().Execute(ctx, id, s.Port(), func(ctx context.Context) (any, error) {
			return "resolved", nil
		})
		value, err := s.AwaitIO(id)
		require.NoError(t, err)
		return value
	}, nil)
	f.Start()
	assert.Equal(t, "resolved", f.Join())
}
