package selftest

import (
	"context"
	"time"

	"github.com/RevCBH/fiberd/internal/sched"
	"github.com/RevCBH/fiberd/internal/syncprim"
)

func init() {
	register("manual_event_broadcasts_to_all_waiters", testManualEventBroadcastsToAllWaiters)
	register("auto_event_wakes_exactly_one_waiter_per_set", testAutoEventWakesExactlyOneWaiterPerSet)
	register("mutex_serializes_contending_fibers", testMutexSerializesContendingFibers)
	register("semaphore_saturation", testSemaphoreSaturation)
}

// testManualEventBroadcastsToAllWaiters is spec.md §8 scenario 2: three
// fibers block on a manual event; a single Set wakes all three.
func testManualEventBroadcastsToAllWaiters(t *T) {
	s := sched.New(sched.Config{WorkerPoolSize: 2})
	defer s.Shutdown()
	ev := syncprim.NewEvent(s, syncprim.ModeManual)

	woken := make(chan int, 3)
	waiters := make([]*sched.Fiber, 3)
	for i := range waiters {
		i := i
		waiters[i] = s.NewFiber("waiter", func(ctx context.Context, arg any) any {
			ev.Wait()
			woken <- i
			return nil
		}, nil)
		waiters[i].Start()
	}

	setter := s.NewFiber("setter", func(ctx context.Context, arg any) any {
		s.Sleep(10 * time.Millisecond)
		ev.Set()
		return nil
	}, nil)
	setter.Start()

	for _, f := range waiters {
		f.Join()
	}
	setter.Join()

	t.Assert(len(woken) == 3, "len(woken) == 3", "a manual event's Set must wake every blocked waiter")
	t.Assert(ev.IsSet(), "ev.IsSet()", "a manual event stays set after Set")
}

// testAutoEventWakesExactlyOneWaiterPerSet is spec.md §8 scenario 3: an
// auto event set twice against three waiters wakes exactly two of them.
func testAutoEventWakesExactlyOneWaiterPerSet(t *T) {
	s := sched.New(sched.Config{WorkerPoolSize: 2})
	defer s.Shutdown()
	ev := syncprim.NewEvent(s, syncprim.ModeAuto)

	woken := make(chan int, 3)
	waiters := make([]*sched.Fiber, 3)
	for i := range waiters {
		i := i
		waiters[i] = s.NewFiber("waiter", func(ctx context.Context, arg any) any {
			ev.Wait()
			woken <- i
			return nil
		}, nil)
		waiters[i].Start()
	}

	setter := s.NewFiber("setter", func(ctx context.Context, arg any) any {
		s.Sleep(10 * time.Millisecond)
		ev.Set()
		ev.Set()
		return nil
	}, nil)
	setter.Start()
	setter.Join()
	time.Sleep(20 * time.Millisecond)

	t.Assert(len(woken) == 2, "len(woken) == 2", "an auto event must wake exactly one waiter per Set")
	t.Assert(!ev.IsSet(), "!ev.IsSet()", "an auto event with a pending waiter consumed by Set must not remain set")

	// Release the third waiter so the deferred Shutdown, which waits until
	// no fiber is blocked, can return.
	releaser := s.NewFiber("releaser", func(ctx context.Context, arg any) any {
		ev.Set()
		return nil
	}, nil)
	releaser.Start()
	releaser.Join()
}

func testMutexSerializesContendingFibers(t *T) {
	s := sched.New(sched.Config{WorkerPoolSize: 2})
	defer s.Shutdown()
	m := syncprim.NewMutex(s)

	var order []int
	fibers := make([]*sched.Fiber, 5)
	for i := range fibers {
		i := i
		fibers[i] = s.NewFiber("contender", func(ctx context.Context, arg any) any {
			m.Lock()
			order = append(order, i)
			s.Sleep(time.Millisecond)
			m.Unlock()
			return nil
		}, nil)
	}
	for _, f := range fibers {
		f.Start()
	}
	for _, f := range fibers {
		f.Join()
	}

	t.Assert(len(order) == 5, "len(order) == 5", "every contending fiber must eventually acquire the mutex")
	seen := map[int]bool{}
	doubled := false
	for _, i := range order {
		if seen[i] {
			doubled = true
		}
		seen[i] = true
	}
	t.Assert(!doubled, "!doubled", "no fiber may enter the critical section twice concurrently")
}

// testSemaphoreSaturation is spec.md §8 scenario 4: a semaphore created
// at zero, upped ten times, downed ten times successfully, then an
// eleventh down_with_timeout times out.
func testSemaphoreSaturation(t *T) {
	s := sched.New(sched.Config{WorkerPoolSize: 2})
	defer s.Shutdown()
	sem := syncprim.NewSemaphore(s, 0)

	f := s.NewFiber("worker", func(ctx context.Context, arg any) any {
		for i := 0; i < 10; i++ {
			sem.Up()
		}
		for i := 0; i < 10; i++ {
			sem.Down()
		}
		return sem.DownWithTimeout(5 * time.Millisecond)
	}, nil)
	f.Start()

	succeeded := f.Join().(bool)
	t.Assert(succeeded == false, "f.Join() == false", "the eleventh DownWithTimeout must time out")
	t.Assert(sem.Value() == 0, "sem.Value() == 0", "an exhausted semaphore settles at zero")
}
