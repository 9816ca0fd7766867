package telemetry

import (
	"testing"
	"time"
)

func TestBusDeliversToSubscribedHandlers(t *testing.T) {
	b := NewBus(8)
	defer b.Close()

	received := make(chan Event, 1)
	b.Subscribe(func(e Event) { received <- e })

	b.Emit(New(FiberStarted).WithFiber("f-1"))

	select {
	case e := <-received:
		if e.Type != FiberStarted {
			t.Errorf("expected %s, got %s", FiberStarted, e.Type)
		}
		if e.FiberID != "f-1" {
			t.Errorf("expected fiber id f-1, got %q", e.FiberID)
		}
		if e.Time.IsZero() {
			t.Error("expected Emit to stamp a timestamp")
		}
	case <-time.After(time.Second):
		t.Fatal("handler was never invoked")
	}
}

func TestBusEmitNeverBlocksOnFullBuffer(t *testing.T) {
	b := NewBus(1)
	defer b.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Emit(New(TimerFired))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full buffer")
	}
}
