package syncprim

import (
	"context"
	"testing"
	"time"

	"github.com/RevCBH/fiberd/internal/sched"
	"github.com/stretchr/testify/assert"
)

func TestMutexSerializesContendingFibers(t *testing.T) {
	s := newTestScheduler(t)
	m := NewMutex(s)

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

	assert.Len(t, order, 5)
	seen := map[int]bool{}
	for _, i := range order {
		assert.False(t, seen[i], "fiber %d entered the critical section twice", i)
		seen[i] = true
	}
}

// TestMutexLockWithTimeoutFailsWhileHeld relies on fiber Start calls
// issued back-to-back landing on the ready queue in that same order, so
// holder acquires the lock before waiter's LockWithTimeout ever runs.
func TestMutexLockWithTimeoutFailsWhileHeld(t *testing.T) {
	s := newTestScheduler(t)
	m := NewMutex(s)

	holder := s.NewFiber("holder", func(ctx context.Context, arg any) any {
		m.Lock()
		s.Sleep(50 * time.Millisecond)
		m.Unlock()
		return nil
	}, nil)
	waiter := s.NewFiber("waiter", func(ctx context.Context, arg any) any {
		return m.LockWithTimeout(10 * time.Millisecond)
	}, nil)

	holder.Start()
	waiter.Start()

	assert.Equal(t, false, waiter.Join())
	holder.Join()
}
