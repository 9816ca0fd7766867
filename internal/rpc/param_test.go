package rpc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueRoundTripsEachKind(t *testing.T) {
	cases := []*Value{
		{Kind: KindUint32, U32: 0xdeadbeef},
		{Kind: KindInt32, I32: -7},
		{Kind: KindUint64, U64: 0x1122334455667788},
		{Kind: KindInt64, I64: -9223372036854775808},
		{Kind: KindString, Str: "hello, rpc"},
		{Kind: KindBlob, Blob: []byte{1, 2, 3, 4}},
	}

	for _, v := range cases {
		var buf bytes.Buffer
		require.NoError(t, v.WriteTo(&buf))

		got := NewValue(v.Kind)
		require.NoError(t, got.ReadFrom(&buf))
		assert.Equal(t, v.Get(), got.Get())
	}
}

func TestUint32WireIsLittleEndian(t *testing.T) {
	v := &Value{Kind: KindUint32, U32: 1}
	var buf bytes.Buffer
	require.NoError(t, v.WriteTo(&buf))
	assert.Equal(t, []byte{1, 0, 0, 0}, buf.Bytes())
}

func TestHashDeterminism(t *testing.T) {
	method := &Method{
		Name:         "bar",
		RequestKinds: []Kind{KindUint32, KindInt64, KindBlob},
		IsKey:        []bool{true, false, true},
	}
	d1 := NewData(method, 0)
	d1.SetRequestParamValue(0, uint32(7))
	d1.SetRequestParamValue(1, int64(-3))
	d1.SetRequestParamValue(2, []byte("hi"))

	d2 := NewData(method, 0)
	d2.SetRequestParamValue(0, uint32(7))
	d2.SetRequestParamValue(1, int64(99999)) // not a key param, must not affect the hash
	d2.SetRequestParamValue(2, []byte("hi"))

	assert.Equal(t, d1.RequestHash(0), d2.RequestHash(0))

	d3 := NewData(method, 0)
	d3.SetRequestParamValue(0, uint32(8)) // a key param changes, hash must differ
	d3.SetRequestParamValue(1, int64(-3))
	d3.SetRequestParamValue(2, []byte("hi"))
	assert.NotEqual(t, d1.RequestHash(0), d3.RequestHash(0))
}

func TestInterfaceLookupOutOfRangeIsAnError(t *testing.T) {
	iface := &Interface{Methods: []*Method{{Name: "only"}}}
	_, err := iface.Lookup(0)
	assert.NoError(t, err)
	_, err = iface.Lookup(1)
	assert.Error(t, err)
}
