package rpc

import (
	"fmt"
	"io"

	"github.com/oklog/ulid/v2"
)

// Callback is a method's service-side implementation. It reads request
// params from data and writes response params into it.
type Callback func(data *Data, serviceCtx any)

// Method is one entry of an Interface's method table (spec.md §3 RPC
// Method): request/response parameter shape, which request params
// participate in request hashing, and the callback that implements it.
type Method struct {
	Name          string
	Callback      Callback
	RequestKinds  []Kind
	ResponseKinds []Kind
	IsKey         []bool // len == len(RequestKinds); nil means no param is a key
}

// Interface is the ordered table of methods indexed by a single-octet
// method id (spec.md §3 RPC Interface).
type Interface struct {
	Methods []*Method
}

// Lookup returns the method at id, or an error if id is out of range;
// the server treats that as a protocol-framing failure (spec.md §7
// kind 3) and closes the connection.
func (iface *Interface) Lookup(id uint8) (*Method, error) {
	if int(id) >= len(iface.Methods) {
		return nil, fmt.Errorf("rpc: method id %d out of range", id)
	}
	return iface.Methods[id], nil
}

// Data is a live request/response invocation (spec.md §3 RPC Data):
// constructed request and response parameter values, created per
// inbound request on the server or per outbound call on the client.
type Data struct {
	Method       *Method
	MethodID     uint8
	InvocationID ulid.ULID
	Request      []*Value
	Response     []*Value
}

// NewData allocates request and response parameter storage for method,
// per its descriptors. InvocationID is a sortable id, used only for
// tracing an invocation through telemetry; it plays no part in the wire
// protocol.
func NewData(method *Method, methodID uint8) *Data {
	d := &Data{Method: method, MethodID: methodID, InvocationID: ulid.Make()}
	d.Request = make([]*Value, len(method.RequestKinds))
	for i, k := range method.RequestKinds {
		d.Request[i] = NewValue(k)
	}
	d.Response = make([]*Value, len(method.ResponseKinds))
	for i, k := range method.ResponseKinds {
		d.Response[i] = NewValue(k)
	}
	return d
}

// GetRequestParamValue returns the value of request parameter idx.
func (d *Data) GetRequestParamValue(idx int) any { return d.Request[idx].Get() }

// SetRequestParamValue sets request parameter idx, used by the client
// before invoking the call.
func (d *Data) SetRequestParamValue(idx int, value any) { d.Request[idx].Set(value) }

// GetResponseParamValue returns the value of response parameter idx,
// used by the client after the call returns.
func (d *Data) GetResponseParamValue(idx int) any { return d.Response[idx].Get() }

// SetResponseParamValue sets response parameter idx, used by a
// method's Callback.
func (d *Data) SetResponseParamValue(idx int, value any) { d.Response[idx].Set(value) }

// ReadRequestParams reads d.Request from r in order.
func (d *Data) ReadRequestParams(r io.Reader) error {
	for _, p := range d.Request {
		if err := p.ReadFrom(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteRequestParams writes d.Request to w in order.
func (d *Data) WriteRequestParams(w io.Writer) error {
	for _, p := range d.Request {
		if err := p.WriteTo(w); err != nil {
			return err
		}
	}
	return nil
}

// ReadResponseParams reads d.Response from r in order.
func (d *Data) ReadResponseParams(r io.Reader) error {
	for _, p := range d.Response {
		if err := p.ReadFrom(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteResponseParams writes d.Response to w in order.
func (d *Data) WriteResponseParams(w io.Writer) error {
	for _, p := range d.Response {
		if err := p.WriteTo(w); err != nil {
			return err
		}
	}
	return nil
}

// RequestHash folds start through hash_combine for every request
// parameter flagged is-key, in parameter order (spec.md §4.6, §8 hash
// determinism property). A method with no IsKey slice hashes nothing
// and returns start unchanged.
func (d *Data) RequestHash(start uint32) uint32 {
	hash := start
	for i, p := range d.Request {
		if d.Method.IsKey != nil && i < len(d.Method.IsKey) && d.Method.IsKey[i] {
			hash = p.HashCombine(hash)
		}
	}
	return hash
}
