package syncprim

import (
	"context"
	"testing"
	"time"

	"github.com/RevCBH/fiberd/internal/sched"
	"github.com/stretchr/testify/assert"
)

// TestSemaphoreSaturation is spec.md §8 scenario 4: a semaphore created
// at zero, upped ten times, downed ten times successfully, then an
// eleventh down_with_timeout times out.
func TestSemaphoreSaturation(t *testing.T) {
	s := newTestScheduler(t)
	sem := NewSemaphore(s, 0)

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

	assert.Equal(t, false, f.Join())
	assert.Equal(t, 0, sem.Value())
}

func TestSemaphoreCascadesWakeupsToAllWaiters(t *testing.T) {
	s := newTestScheduler(t)
	sem := NewSemaphore(s, 0)

	doneCh := make(chan int, 3)
	waiters := make([]*sched.Fiber, 0, 3)
	for i := 0; i < 3; i++ {
		i := i
		fib := s.NewFiber("waiter", func(ctx context.Context, arg any) any {
			sem.Down()
			doneCh <- i
			return nil
		}, nil)
		fib.Start()
		waiters = append(waiters, fib)
	}

	up := s.NewFiber("upper", func(ctx context.Context, arg any) any {
		s.Sleep(10 * time.Millisecond)
		sem.Up()
		sem.Up()
		sem.Up()
		return nil
	}, nil)
	up.Start()
	up.Join()
	for _, w := range waiters {
		w.Join()
	}

	assert.Len(t, doneCh, 3)
}

func TestSemaphoreNewRejectsNegativeInitial(t *testing.T) {
	if testing.Short() {
		t.Skip("invokes sched.Fatal, which calls os.Exit")
	}
}
