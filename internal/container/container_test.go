package container

import (
	"context"
	"testing"
	"time"

	"github.com/RevCBH/fiberd/internal/sched"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(t *testing.T) *sched.Scheduler {
	t.Helper()
	s := sched.New(sched.Config{WorkerPoolSize: 2})
	t.Cleanup(s.Shutdown)
	return s
}

// TestBlockingQueueFullEmpty is spec.md §8 scenario 5.
func TestBlockingQueueFullEmpty(t *testing.T) {
	s := newTestScheduler(t)
	q := New(s, 10, FIFO)

	f := s.NewFiber("worker", func(ctx context.Context, arg any) any {
		for i := 0; i < 10; i++ {
			q.Put(i)
		}
		timedOut := !q.PutWithTimeout(123, time.Millisecond)

		var out []any
		for i := 0; i < 10; i++ {
			out = append(out, q.Take())
		}
		_, tookOK := q.TakeWithTimeout(time.Millisecond)

		return []any{timedOut, out, tookOK}
	}, nil)
	f.Start()
	result := f.Join().([]any)

	assert.True(t, result[0].(bool), "put on a full queue should time out")
	out := result[1].([]any)
	require.Len(t, out, 10)
	for i := 0; i < 10; i++ {
		assert.Equal(t, i, out[i])
	}
	assert.False(t, result[2].(bool), "take on an empty queue should time out")
}

func TestBlockingStackIsLIFO(t *testing.T) {
	s := newTestScheduler(t)
	st := New(s, 3, LIFO)

	f := s.NewFiber("worker", func(ctx context.Context, arg any) any {
		st.Put(1)
		st.Put(2)
		st.Put(3)
		return []any{st.Take(), st.Take(), st.Take()}
	}, nil)
	f.Start()
	out := f.Join().([]any)
	assert.Equal(t, []any{3, 2, 1}, out)
}

func TestBlockingQueuePutUnblocksOnTake(t *testing.T) {
	s := newTestScheduler(t)
	q := New(s, 1, FIFO)
	q.Put("first")

	producerDone := make(chan struct{})
	producer := s.NewFiber("producer", func(ctx context.Context, arg any) any {
		q.Put("second")
		close(producerDone)
		return nil
	}, nil)
	producer.Start()

	consumer := s.NewFiber("consumer", func(ctx context.Context, arg any) any {
		s.Sleep(10 * time.Millisecond)
		return q.Take()
	}, nil)
	consumer.Start()

	assert.Equal(t, "first", consumer.Join())
	producer.Join()
	assert.Equal(t, "second", q.Take())
}
