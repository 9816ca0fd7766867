// Package rpc implements the wire framing, parameter descriptors, and
// method table dispatch of spec.md §4.6. Parameters are a closed,
// tagged set of wire types rather than a vtable-per-parameter dynamic
// dispatch (spec.md §9 design note): adding a type means adding a case
// to the switch in this file, not registering function pointers.
package rpc

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"io"
)

// Kind tags a Value's wire type.
type Kind int

const (
	KindUint32 Kind = iota
	KindUint64
	KindInt32
	KindInt64
	KindString
	KindBlob
)

func (k Kind) String() string {
	switch k {
	case KindUint32:
		return "uint32"
	case KindUint64:
		return "uint64"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindString:
		return "string"
	case KindBlob:
		return "blob"
	default:
		return "unknown"
	}
}

// Value holds one constructed parameter instance. Exactly one of the
// typed fields is meaningful, selected by Kind.
type Value struct {
	Kind Kind

	U32 uint32
	U64 uint64
	I32 int32
	I64 int64
	Str string
	Blob []byte
}

// NewValue constructs a zero Value of the given kind: the "construct"
// half of the classic param vtable, collapsed onto the tagged variant.
func NewValue(k Kind) *Value {
	return &Value{Kind: k}
}

// Get returns the parameter's value as an any, unwrapped from its
// typed field.
func (v *Value) Get() any {
	switch v.Kind {
	case KindUint32:
		return v.U32
	case KindUint64:
		return v.U64
	case KindInt32:
		return v.I32
	case KindInt64:
		return v.I64
	case KindString:
		return v.Str
	case KindBlob:
		return v.Blob
	default:
		panic(fmt.Sprintf("rpc: unknown param kind %d", v.Kind))
	}
}

// Set stores val into the field matching v.Kind. A type mismatch
// panics: programmer error in the generated method table, not a wire
// or protocol condition.
func (v *Value) Set(val any) {
	switch v.Kind {
	case KindUint32:
		v.U32 = val.(uint32)
	case KindUint64:
		v.U64 = val.(uint64)
	case KindInt32:
		v.I32 = val.(int32)
	case KindInt64:
		v.I64 = val.(int64)
	case KindString:
		v.Str = val.(string)
	case KindBlob:
		v.Blob = val.([]byte)
	default:
		panic(fmt.Sprintf("rpc: unknown param kind %d", v.Kind))
	}
}

// ReadFrom decodes the wire encoding of §4.6's parameter table directly
// from r: fixed-width little-endian integers, length-prefixed string
// and blob.
func (v *Value) ReadFrom(r io.Reader) error {
	switch v.Kind {
	case KindUint32:
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return err
		}
		v.U32 = binary.LittleEndian.Uint32(buf[:])
	case KindInt32:
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return err
		}
		v.I32 = int32(binary.LittleEndian.Uint32(buf[:]))
	case KindUint64:
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return err
		}
		v.U64 = binary.LittleEndian.Uint64(buf[:])
	case KindInt64:
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return err
		}
		v.I64 = int64(binary.LittleEndian.Uint64(buf[:]))
	case KindString:
		b, err := readLengthPrefixed(r)
		if err != nil {
			return err
		}
		v.Str = string(b)
	case KindBlob:
		b, err := readLengthPrefixed(r)
		if err != nil {
			return err
		}
		v.Blob = b
	default:
		return fmt.Errorf("rpc: unknown param kind %d", v.Kind)
	}
	return nil
}

// WriteTo encodes v per the same wire format ReadFrom consumes.
func (v *Value) WriteTo(w io.Writer) error {
	switch v.Kind {
	case KindUint32:
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], v.U32)
		_, err := w.Write(buf[:])
		return err
	case KindInt32:
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], uint32(v.I32))
		_, err := w.Write(buf[:])
		return err
	case KindUint64:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], v.U64)
		_, err := w.Write(buf[:])
		return err
	case KindInt64:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(v.I64))
		_, err := w.Write(buf[:])
		return err
	case KindString:
		return writeLengthPrefixed(w, []byte(v.Str))
	case KindBlob:
		return writeLengthPrefixed(w, v.Blob)
	default:
		return fmt.Errorf("rpc: unknown param kind %d", v.Kind)
	}
}

func readLengthPrefixed(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func writeLengthPrefixed(w io.Writer, b []byte) error {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(b)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// HashCombine folds v's value into a running FNV-1a hash, matching the
// "hash_combine" step of a param vtable in the original design.
func (v *Value) HashCombine(start uint32) uint32 {
	h := fnv.New32a()
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], start)
	_, _ = h.Write(buf[:])
	_ = v.WriteTo(h)
	return h.Sum32()
}
