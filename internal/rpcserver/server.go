// Package rpcserver implements the server half of spec.md §4.6: a
// fixed-size pool of connection processors, an accept loop fiber, and
// per-connection request dispatch through an rpc.Interface's method
// table.
package rpcserver

import (
	"context"

	"github.com/RevCBH/fiberd/internal/container"
	"github.com/RevCBH/fiberd/internal/netio"
	"github.com/RevCBH/fiberd/internal/rpc"
	"github.com/RevCBH/fiberd/internal/sched"
	"github.com/RevCBH/fiberd/internal/telemetry"
)

// defaultConnectionProcessorCount is CONNECTION_PROCESSORS_CNT from the
// original design: a fixed-size pool, not auto-scaled.
const defaultConnectionProcessorCount = 100

// Config parameterizes Create.
type Config struct {
	Interface         *rpc.Interface
	ServiceCtx        any
	ListenAddr        string
	ProcessorPoolSize int // 0 means defaultConnectionProcessorCount
	Telemetry         *telemetry.Bus // optional; nil disables event emission
}

type connectionProcessor struct {
	conn    *netio.Conn
	stopped bool
}

// Server is a bound listening socket plus its connection processor
// pool and accept-loop fiber (spec.md §4.6 Server lifecycle).
type Server struct {
	sched      *sched.Scheduler
	iface      *rpc.Interface
	serviceCtx any
	listener   *netio.Listener
	processors *container.Pool
	mainFiber  *sched.Fiber
	telemetry  *telemetry.Bus

	processorFibers []*sched.Fiber
}

// emit is a nil-safe convenience so every call site doesn't have to
// guard srv.telemetry itself.
func (srv *Server) emit(e telemetry.Event) {
	if srv.telemetry != nil {
		srv.telemetry.Emit(e)
	}
}

// Create binds listen_addr, creates the fixed-size connection processor
// pool, and starts the accept loop.
func Create(s *sched.Scheduler, cfg Config) (*Server, error) {
	size := cfg.ProcessorPoolSize
	if size <= 0 {
		size = defaultConnectionProcessorCount
	}

	listener, err := netio.Listen(s, "tcp", cfg.ListenAddr)
	if err != nil {
		return nil, err
	}

	srv := &Server{
		sched:      s,
		iface:      cfg.Interface,
		serviceCtx: cfg.ServiceCtx,
		listener:   listener,
		telemetry:  cfg.Telemetry,
	}
	srv.processors = container.NewPool(s, size,
		func() any { return &connectionProcessor{} },
		func(any) {},
	)
	srv.mainFiber = s.NewFiber("rpc-server-accept", srv.acceptLoop, nil)
	srv.mainFiber.Start()
	srv.emit(telemetry.New(telemetry.RPCServerListening).WithPayload(srv.Addr()))
	return srv, nil
}

// Addr returns the server's bound listen address.
func (srv *Server) Addr() string { return srv.listener.Addr().String() }

func (srv *Server) acceptLoop(ctx context.Context, arg any) any {
	for {
		conn, err := srv.listener.Accept()
		if err != nil {
			break
		}

		proc := srv.processors.Acquire().(*connectionProcessor)
		proc.conn = conn
		proc.stopped = false
		srv.emit(telemetry.New(telemetry.RPCConnectionAccepted))

		f := srv.sched.NewFiber("rpc-connection-processor", func(ctx context.Context, arg any) any {
			srv.processConnection(proc)
			srv.processors.Release(proc)
			srv.emit(telemetry.New(telemetry.RPCConnectionClosed))
			return nil
		}, nil)
		srv.processorFibers = append(srv.processorFibers, f)
		f.Start()
	}

	srv.processors.ForEachEntry(func(value any, acquired bool) {
		if !acquired {
			return
		}
		proc := value.(*connectionProcessor)
		proc.stopped = true
		if proc.conn != nil {
			proc.conn.Close()
		}
	})
	srv.emit(telemetry.New(telemetry.RPCServerStopped))
	return nil
}

// processConnection runs process_next_rpc in a loop until the stream
// EOFs or a frame error occurs (spec.md §4.6 Method dispatch, Failure
// model). Either condition is handled identically: the connection is
// torn down, nothing is surfaced to the peer.
func (srv *Server) processConnection(proc *connectionProcessor) {
	for !proc.stopped {
		data, err := rpc.ReadRequestFrame(proc.conn, srv.iface)
		if err != nil {
			srv.emit(telemetry.New(telemetry.RPCFrameError).WithError(err))
			break
		}
		data.Method.Callback(data, srv.serviceCtx)
		srv.emit(telemetry.New(telemetry.RPCMethodDispatched).WithPayload(data.Method.Name))
		if err := data.WriteResponseParams(proc.conn); err != nil {
			srv.emit(telemetry.New(telemetry.RPCFrameError).WithError(err))
			break
		}
	}
	proc.conn.Close()
	proc.conn = nil
}

// Delete stops accepting, signals in-flight processors to terminate,
// waits for the main fiber and every processor fiber to finish, then
// destroys the processor pool (spec.md §4.6 Server lifecycle).
func (srv *Server) Delete() {
	srv.listener.Close()
	srv.mainFiber.Join()
	for _, f := range srv.processorFibers {
		f.Join()
	}
	srv.processors.Destroy()
}
