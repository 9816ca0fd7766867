// Package telemetry is the ambient observability layer for fiberd: an
// event bus that scheduler and RPC server code emit onto, a set of
// handlers (log line, per-type counter) that consume it, and a JSON
// wire form for events. None of it is
// on the hot suspend/resume path described in spec.md §4.3; it is pure
// instrumentation around that core.
package telemetry

import (
	"fmt"
	"strings"
	"time"
)

// EventType identifies what happened.
type EventType string

// Scheduler lifecycle events.
const (
	SchedulerStarted  EventType = "scheduler.started"
	SchedulerShutdown EventType = "scheduler.shutdown"
)

// Fiber lifecycle events.
const (
	FiberCreated  EventType = "fiber.created"
	FiberStarted  EventType = "fiber.started"
	FiberFinished EventType = "fiber.finished"
	FiberFaulted  EventType = "fiber.faulted"
)

// I/O and timer events.
const (
	IOCompletionPosted    EventType = "io.completion.posted"
	IOCompletionDiscarded EventType = "io.completion.discarded"
	TimerFired            EventType = "timer.fired"
)

// RPC server/connection events.
const (
	RPCServerListening    EventType = "rpc.server.listening"
	RPCServerStopped      EventType = "rpc.server.stopped"
	RPCConnectionAccepted EventType = "rpc.connection.accepted"
	RPCConnectionClosed   EventType = "rpc.connection.closed"
	RPCMethodDispatched   EventType = "rpc.method.dispatched"
	RPCFrameError         EventType = "rpc.frame.error"
)

// AllEventTypes lists every declared EventType, in the order the const
// blocks above declare them. Used by dashboards that want to show a
// stable, complete set of counters from tick zero rather than only the
// types that have fired so far.
func AllEventTypes() []EventType {
	return []EventType{
		SchedulerStarted, SchedulerShutdown,
		FiberCreated, FiberStarted, FiberFinished, FiberFaulted,
		IOCompletionPosted, IOCompletionDiscarded, TimerFired,
		RPCServerListening, RPCServerStopped, RPCConnectionAccepted,
		RPCConnectionClosed, RPCMethodDispatched, RPCFrameError,
	}
}

// Event is a single occurrence, timestamped by Emit.
type Event struct {
	Time    time.Time `json:"time"`
	Type    EventType `json:"type"`
	FiberID string    `json:"fiber_id,omitempty"`
	ConnID  string    `json:"conn_id,omitempty"`
	Payload any       `json:"payload,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// New creates an Event with the given type. Time is set by Bus.Emit.
func New(t EventType) Event { return Event{Type: t} }

func (e Event) WithFiber(id string) Event { e.FiberID = id; return e }
func (e Event) WithConn(id string) Event  { e.ConnID = id; return e }
func (e Event) WithPayload(p any) Event   { e.Payload = p; return e }

func (e Event) WithError(err error) Event {
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// IsFailure reports whether this event represents a fault condition.
func (e Event) IsFailure() bool {
	return strings.HasSuffix(string(e.Type), ".faulted") || strings.HasSuffix(string(e.Type), ".error")
}

// String renders a one-line human-readable form.
func (e Event) String() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s]", e.Type))
	if e.FiberID != "" {
		parts = append(parts, "fiber="+e.FiberID)
	}
	if e.ConnID != "" {
		parts = append(parts, "conn="+e.ConnID)
	}
	if e.Error != "" {
		parts = append(parts, "error="+e.Error)
	}
	return strings.Join(parts, " ")
}
