package container

import (
	"context"
	"testing"
	"time"

	"github.com/RevCBH/fiberd/internal/sched"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	id int
}

// TestPoolNeverExceedsCapacity exercises spec.md §8's pool capacity
// invariant: acquire never returns more than C distinct entries without
// an intervening release.
func TestPoolNeverExceedsCapacity(t *testing.T) {
	s := newTestScheduler(t)
	next := 0
	p := NewPool(s, 2, func() any {
		next++
		return &widget{id: next}
	}, nil)

	f := s.NewFiber("worker", func(ctx context.Context, arg any) any {
		a := p.Acquire()
		b := p.Acquire()
		assert.NotSame(t, a, b)

		blocker := s.NewFiber("blocker", func(ctx context.Context, arg any) any {
			return p.Acquire()
		}, nil)
		blocker.Start()

		s.Sleep(5 * time.Millisecond)
		assert.Equal(t, sched.StateBlocked, blocker.State(), "third acquire should not have succeeded yet")

		p.Release(a)
		c := blocker.Join()
		return []any{b, c}
	}, nil)
	f.Start()
	out := f.Join().([]any)
	assert.NotSame(t, out[0], out[1])
}

func TestPoolForEachEntryReportsAcquisitionState(t *testing.T) {
	s := newTestScheduler(t)
	p := NewPool(s, 2, func() any { return &widget{} }, nil)

	f := s.NewFiber("worker", func(ctx context.Context, arg any) any {
		a := p.Acquire()
		p.Acquire()
		p.Release(a)
		return nil
	}, nil)
	f.Start()
	f.Join()

	var acquiredCount, freeCount int
	p.ForEachEntry(func(value any, acquired bool) {
		if acquired {
			acquiredCount++
		} else {
			freeCount++
		}
	})
	assert.Equal(t, 1, acquiredCount)
	assert.Equal(t, 1, freeCount)
}

func TestPoolDestroyDestructsAllEntries(t *testing.T) {
	s := newTestScheduler(t)
	var destroyed []int
	p := NewPool(s, 2,
		func() any { return &widget{id: len(destroyed) + 1} },
		func(v any) { destroyed = append(destroyed, v.(*widget).id) },
	)

	f := s.NewFiber("worker", func(ctx context.Context, arg any) any {
		a := p.Acquire()
		p.Release(a)
		return nil
	}, nil)
	f.Start()
	f.Join()

	p.Destroy()
	require.Len(t, destroyed, 1)
}
