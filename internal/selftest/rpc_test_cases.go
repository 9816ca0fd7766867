package selftest

import (
	"bytes"
	"context"

	"github.com/RevCBH/fiberd/internal/rpc"
	"github.com/RevCBH/fiberd/internal/rpcclient"
	"github.com/RevCBH/fiberd/internal/rpcserver"
	"github.com/RevCBH/fiberd/internal/sched"
)

func init() {
	register("request_frame_round_trip", testRequestFrameRoundTrip)
	register("rpc_echo_round_trip_over_tcp", testRPCEchoRoundTrip)
}

// barInterface implements spec.md §8 scenario 6's echo method: request
// (uint32 a, int64 b, blob c), response (int32 d) where
// d = a + int32(b) + len(c).
func barInterface() *rpc.Interface {
	return &rpc.Interface{Methods: []*rpc.Method{{
		Name:          "bar",
		RequestKinds:  []rpc.Kind{rpc.KindUint32, rpc.KindInt64, rpc.KindBlob},
		ResponseKinds: []rpc.Kind{rpc.KindInt32},
		IsKey:         []bool{true, false, true},
		Callback: func(data *rpc.Data, serviceCtx any) {
			a := data.GetRequestParamValue(0).(uint32)
			b := data.GetRequestParamValue(1).(int64)
			c := data.GetRequestParamValue(2).([]byte)
			data.SetResponseParamValue(0, int32(a)+int32(b)+int32(len(c)))
		},
	}}}
}

// testRequestFrameRoundTrip exercises the wire codec in isolation,
// without a live connection: encode a request, decode it server-side,
// run the callback, encode the response, decode it client-side.
func testRequestFrameRoundTrip(t *T) {
	iface := barInterface()

	client := rpc.NewData(iface.Methods[0], 0)
	client.SetRequestParamValue(0, uint32(7))
	client.SetRequestParamValue(1, int64(-3))
	client.SetRequestParamValue(2, []byte("hi"))

	var wire bytes.Buffer
	if err := rpc.WriteRequestFrame(&wire, client); err != nil {
		t.Assert(false, "WriteRequestFrame(err) == nil", err.Error())
		return
	}

	server, err := rpc.ReadRequestFrame(&wire, iface)
	if err != nil {
		t.Assert(false, "ReadRequestFrame(err) == nil", err.Error())
		return
	}
	t.Assert(server.MethodID == 0, "server.MethodID == 0", "decoded frame must carry the method id it was encoded with")

	server.Method.Callback(server, nil)
	t.Assert(server.GetResponseParamValue(0) == int32(6), "d == 6", "bar(7, -3, \"hi\") must equal 6")

	var respWire bytes.Buffer
	if err := server.WriteResponseParams(&respWire); err != nil {
		t.Assert(false, "WriteResponseParams(err) == nil", err.Error())
		return
	}
	if err := client.ReadResponseParams(&respWire); err != nil {
		t.Assert(false, "ReadResponseParams(err) == nil", err.Error())
		return
	}
	t.Assert(client.GetResponseParamValue(0) == int32(6), "client d == 6", "the client must observe the same response value the server computed")
}

// testRPCEchoRoundTrip is spec.md §8 scenario 6, driven end to end over
// a real loopback TCP connection through the fiber scheduler, the RPC
// server's connection processor pool, and the RPC client.
func testRPCEchoRoundTrip(t *T) {
	s := sched.New(sched.Config{WorkerPoolSize: 4})
	defer s.Shutdown()

	iface := barInterface()
	srv, err := rpcserver.Create(s, rpcserver.Config{
		Interface:  iface,
		ListenAddr: "127.0.0.1:0",
	})
	if err != nil {
		t.Assert(false, "rpcserver.Create(err) == nil", err.Error())
		return
	}
	defer srv.Delete()

	result := make(chan int32, 1)
	resultErr := make(chan error, 1)
	client := s.NewFiber("client", func(ctx context.Context, arg any) any {
		c, err := rpcclient.Dial(s, iface, srv.Addr(), 0)
		if err != nil {
			resultErr <- err
			return nil
		}
		defer c.Close()

		data, err := c.Call(0, func(d *rpc.Data) {
			d.SetRequestParamValue(0, uint32(7))
			d.SetRequestParamValue(1, int64(-3))
			d.SetRequestParamValue(2, []byte("hi"))
		})
		if err != nil {
			resultErr <- err
			return nil
		}
		result <- data.GetResponseParamValue(0).(int32)
		return nil
	}, nil)
	client.Start()
	client.Join()

	select {
	case err := <-resultErr:
		t.Assert(false, "err == nil", err.Error())
		return
	default:
	}
	t.Assert(<-result == 6, "d == 6", "an end-to-end RPC call over TCP must compute the same result as the in-process callback")
}
