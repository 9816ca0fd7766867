// Package rpcclient implements the client half of spec.md §4.6:
// invoke_remote_call writes a request frame and reads back the
// response on the same connection.
package rpcclient

import (
	"time"

	"github.com/RevCBH/fiberd/internal/netio"
	"github.com/RevCBH/fiberd/internal/rpc"
	"github.com/RevCBH/fiberd/internal/sched"
)

// InvokeRemoteCall writes data's method id and request params to conn,
// then reads the response params back into data. The caller owns data
// and its parameter storage across the call (spec.md §4.6 Client call).
func InvokeRemoteCall(conn *netio.Conn, data *rpc.Data) error {
	if err := rpc.WriteRequestFrame(conn, data); err != nil {
		return err
	}
	return data.ReadResponseParams(conn)
}

// Client is a convenience wrapper pairing a dialed connection with the
// interface it speaks.
type Client struct {
	conn  *netio.Conn
	iface *rpc.Interface
}

// Dial connects to address and returns a Client bound to iface. timeout
// bounds the name-resolution/connect step (internal/config's
// name_resolution_timeout_ms); zero means no bound.
func Dial(s *sched.Scheduler, iface *rpc.Interface, address string, timeout time.Duration) (*Client, error) {
	conn, err := netio.Dial(s, "tcp", address, timeout)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, iface: iface}, nil
}

// Call looks up methodID, constructs request/response storage, lets
// setRequest populate the request params, invokes the call, and
// returns the populated Data for the caller to read response params
// from.
func (c *Client) Call(methodID uint8, setRequest func(d *rpc.Data)) (*rpc.Data, error) {
	method, err := c.iface.Lookup(methodID)
	if err != nil {
		return nil, err
	}
	data := rpc.NewData(method, methodID)
	setRequest(data)
	if err := InvokeRemoteCall(c.conn, data); err != nil {
		return nil, err
	}
	return data, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error { return c.conn.Close() }
