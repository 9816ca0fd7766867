package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerSetOrdersByDeadline(t *testing.T) {
	ts := newTimerSet()
	now := time.Now()
	f1, f2, f3 := &Fiber{}, &Fiber{}, &Fiber{}
	ts.register(now.Add(30*time.Millisecond), f3)
	ts.register(now.Add(10*time.Millisecond), f1)
	ts.register(now.Add(20*time.Millisecond), f2)

	due := ts.popDue(now.Add(25 * time.Millisecond))
	require.Len(t, due, 2)
	assert.Same(t, f1, due[0].fiber)
	assert.Same(t, f2, due[1].fiber)
	assert.Equal(t, 1, ts.len())
}

func TestTimerSetCancel(t *testing.T) {
	ts := newTimerSet()
	f := &Fiber{}
	id := ts.register(time.Now().Add(time.Hour), f)
	assert.True(t, ts.cancel(id))
	assert.False(t, ts.cancel(id))
	assert.Equal(t, 0, ts.len())
}

func TestTimerSetPeekDeadline(t *testing.T) {
	ts := newTimerSet()
	_, ok := ts.peekDeadline()
	assert.False(t, ok)

	deadline := time.Now().Add(5 * time.Millisecond)
	ts.register(deadline, &Fiber{})
	got, ok := ts.peekDeadline()
	require.True(t, ok)
	assert.Equal(t, deadline, got)
}
