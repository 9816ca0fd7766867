package selftest

import (
	"context"
	"time"

	"github.com/RevCBH/fiberd/internal/container"
	"github.com/RevCBH/fiberd/internal/sched"
)

func init() {
	register("blocking_queue_full_empty", testBlockingQueueFullEmpty)
	register("blocking_stack_is_lifo", testBlockingStackIsLIFO)
}

// testBlockingQueueFullEmpty is spec.md §8 scenario 5.
func testBlockingQueueFullEmpty(t *T) {
	s := sched.New(sched.Config{WorkerPoolSize: 2})
	defer s.Shutdown()
	q := container.New(s, 10, container.FIFO)

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

	t.Assert(result[0].(bool), "timedOut", "a Put against a full queue must time out")
	out := result[1].([]any)
	inOrder := len(out) == 10
	for i := 0; inOrder && i < 10; i++ {
		inOrder = out[i] == i
	}
	t.Assert(inOrder, "out == [0..9]", "a FIFO queue must yield elements in insertion order")
	t.Assert(!result[2].(bool), "!tookOK", "a Take against an empty queue must time out")
}

func testBlockingStackIsLIFO(t *T) {
	s := sched.New(sched.Config{WorkerPoolSize: 2})
	defer s.Shutdown()
	st := container.New(s, 3, container.LIFO)

	f := s.NewFiber("worker", func(ctx context.Context, arg any) any {
		st.Put(1)
		st.Put(2)
		st.Put(3)
		return []any{st.Take(), st.Take(), st.Take()}
	}, nil)
	f.Start()
	out := f.Join().([]any)

	t.Assert(out[0] == 3 && out[1] == 2 && out[2] == 1, "out == [3, 2, 1]", "a LIFO stack must yield elements in reverse insertion order")
}
