package rpc

import "io"

// ReadRequestFrame reads a single request frame from r: the u8 method
// id, then its parameters per iface's method table (spec.md §4.6).
// There is no length prefix at the frame level; each parameter reader
// consumes exactly its own bytes.
func ReadRequestFrame(r io.Reader, iface *Interface) (*Data, error) {
	var idBuf [1]byte
	if _, err := io.ReadFull(r, idBuf[:]); err != nil {
		return nil, err
	}
	method, err := iface.Lookup(idBuf[0])
	if err != nil {
		return nil, err
	}
	d := NewData(method, idBuf[0])
	if err := d.ReadRequestParams(r); err != nil {
		return nil, err
	}
	return d, nil
}

// WriteRequestFrame writes d's method id and request params to w, the
// client side of the same framing ReadRequestFrame parses.
func WriteRequestFrame(w io.Writer, d *Data) error {
	if _, err := w.Write([]byte{d.MethodID}); err != nil {
		return err
	}
	return d.WriteRequestParams(w)
}
