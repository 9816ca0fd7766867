// Package netio is the stream socket wrapper of spec.md §4.1/§6: it
// presents blocking-style Accept/Dial/Read/Write to fiber code while
// actually running the underlying syscall on a workerpool goroutine and
// resuming the caller fiber through the completion port, substituting
// for the platform's IOCP-style completion mechanism the original
// design assumed (see SPEC_FULL.md's domain-stack notes).
package netio

import (
	"context"
	"net"
	"time"

	"github.com/RevCBH/fiberd/internal/sched"
	"github.com/google/uuid"
)

// Conn wraps a net.Conn so Read/Write suspend the calling fiber instead
// of blocking the scheduler thread.
type Conn struct {
	sched *sched.Scheduler
	raw   net.Conn
}

// NewConn adapts an already-established net.Conn.
func NewConn(s *sched.Scheduler, raw net.Conn) *Conn {
	return &Conn{sched: s, raw: raw}
}

func (c *Conn) Read(p []byte) (int, error) {
	return offload(c.sched, func(ctx context.Context) (any, error) {
		return c.raw.Read(p)
	})
}

func (c *Conn) Write(p []byte) (int, error) {
	return offload(c.sched, func(ctx context.Context) (any, error) {
		return c.raw.Write(p)
	})
}

// Close tears down the connection, unblocking any pending Read/Write
// with an error (spec.md §5 cancellation via close).
func (c *Conn) Close() error { return c.raw.Close() }

// RemoteAddr returns the address of the peer.
func (c *Conn) RemoteAddr() net.Addr { return c.raw.RemoteAddr() }

// Listener wraps a net.Listener so Accept suspends the calling fiber.
type Listener struct {
	sched *sched.Scheduler
	raw   net.Listener
}

// Listen binds a listening socket. Binding is a local, non-blocking
// call and runs synchronously on the caller's fiber.
func Listen(s *sched.Scheduler, network, address string) (*Listener, error) {
	raw, err := net.Listen(network, address)
	if err != nil {
		return nil, err
	}
	return &Listener{sched: s, raw: raw}, nil
}

// Accept blocks the calling fiber until a connection arrives.
func (l *Listener) Accept() (*Conn, error) {
	id := uuid.New()
	l.sched.RegisterIO(id, l.sched.Current())
	l.sched.WorkerPool().Execute(l.sched.Context(), id, l.sched.Port(), func(ctx context.Context) (any, error) {
		return l.raw.Accept()
	})
	v, err := l.sched.AwaitIO(id)
	if err != nil {
		return nil, err
	}
	return NewConn(l.sched, v.(net.Conn)), nil
}

// Close stops accepting new connections.
func (l *Listener) Close() error { return l.raw.Close() }

// Addr returns the listener's bound address.
func (l *Listener) Addr() net.Addr { return l.raw.Addr() }

// Dial connects to address, suspending the calling fiber while name
// resolution and connection setup run on the worker pool (spec.md §4.2
// purpose: isolate the scheduler thread from synchronous name
// resolution). timeout bounds the offloaded net.Dial call itself
// (internal/config's name_resolution_timeout_ms); zero means no bound.
func Dial(s *sched.Scheduler, network, address string, timeout time.Duration) (*Conn, error) {
	id := uuid.New()
	s.RegisterIO(id, s.Current())
	s.WorkerPool().Execute(s.Context(), id, s.Port(), func(ctx context.Context) (any, error) {
		if timeout > 0 {
			return net.DialTimeout(network, address, timeout)
		}
		return net.Dial(network, address)
	})
	v, err := s.AwaitIO(id)
	if err != nil {
		return nil, err
	}
	return NewConn(s, v.(net.Conn)), nil
}

func offload(s *sched.Scheduler, job func(ctx context.Context) (any, error)) (int, error) {
	id := uuid.New()
	s.RegisterIO(id, s.Current())
	s.WorkerPool().Execute(s.Context(), id, s.Port(), func(ctx context.Context) (any, error) {
		return job(ctx)
	})
	v, err := s.AwaitIO(id)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, nil
	}
	return v.(int), nil
}
