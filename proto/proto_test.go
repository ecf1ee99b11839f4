package proto_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/mcproto/core/mcerr"
	"github.com/mcproto/core/proto"
	"github.com/mcproto/core/varint"
)

func TestBoolRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		val  bool
		want []byte
	}{
		{"false", false, []byte{0x00}},
		{"true", true, []byte{0x01}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := proto.AppendBool(nil, tt.val)
			if !bytes.Equal(got, tt.want) {
				t.Fatalf("AppendBool(%v) = %x, want %x", tt.val, got, tt.want)
			}
			value, n, err := proto.DecodeBool(got)
			if err != nil || value != tt.val || n != 1 {
				t.Fatalf("DecodeBool = (%v, %d, %v)", value, n, err)
			}
		})
	}
}

func TestBoolInvalid(t *testing.T) {
	_, _, err := proto.DecodeBool([]byte{0x02})
	if !errors.Is(err, mcerr.ErrDecode) {
		t.Fatalf("want ErrDecode, got %v", err)
	}
}

func TestIntRoundTrips(t *testing.T) {
	buf := proto.AppendInt32(nil, -12345)
	v, n, err := proto.DecodeInt32(buf)
	if err != nil || v != -12345 || n != 4 {
		t.Fatalf("int32 round trip failed: %v %d %v", v, n, err)
	}

	buf = proto.AppendInt64(nil, -1)
	v64, n, err := proto.DecodeInt64(buf)
	if err != nil || v64 != -1 || n != 8 {
		t.Fatalf("int64 round trip failed: %v %d %v", v64, n, err)
	}

	buf = proto.AppendFloat64(nil, 3.5)
	fv, n, err := proto.DecodeFloat64(buf)
	if err != nil || fv != 3.5 || n != 8 {
		t.Fatalf("float64 round trip failed: %v %d %v", fv, n, err)
	}
}

func TestFixedStrRoundTrip(t *testing.T) {
	fs, err := proto.NewFixedStr("hello", 16)
	if err != nil {
		t.Fatalf("NewFixedStr: %v", err)
	}
	buf := proto.AppendFixedStr(nil, fs)
	got, n, err := proto.DecodeFixedStr(buf, 16)
	if err != nil || got.Value != "hello" || n != len(buf) {
		t.Fatalf("FixedStr round trip failed: %q %d %v", got.Value, n, err)
	}
}

func TestFixedStrTooLong(t *testing.T) {
	_, err := proto.NewFixedStr("toolong", 3)
	if !errors.Is(err, mcerr.ErrEncode) {
		t.Fatalf("want ErrEncode, got %v", err)
	}
}

func TestFixedStrDecodeExceedsBound(t *testing.T) {
	fs, _ := proto.NewFixedStr("hello", 16)
	buf := proto.AppendFixedStr(nil, fs)
	_, _, err := proto.DecodeFixedStr(buf, 3)
	if !errors.Is(err, mcerr.ErrDecode) {
		t.Fatalf("want ErrDecode, got %v", err)
	}
}

func TestIdentifierDefaultNamespace(t *testing.T) {
	id := proto.NewIdentifier("stone")
	if id.Namespace != "minecraft" || id.Value != "stone" {
		t.Fatalf("got %+v", id)
	}
	if id.String() != "minecraft:stone" {
		t.Fatalf("String() = %q", id.String())
	}

	buf := proto.AppendIdentifier(nil, id)
	got, n, err := proto.DecodeIdentifier(buf)
	if err != nil || got != id || n != len(buf) {
		t.Fatalf("Identifier round trip failed: %+v %d %v", got, n, err)
	}
}

func TestIdentifierExplicitNamespace(t *testing.T) {
	id := proto.NewIdentifier("example:custom_block")
	if id.Namespace != "example" || id.Value != "custom_block" {
		t.Fatalf("got %+v", id)
	}
}

func TestOptionalRoundTrip(t *testing.T) {
	some := proto.Some(int32(42))
	buf := proto.AppendOptional(nil, some, proto.AppendInt32)
	got, n, err := proto.DecodeOptional(buf, proto.DecodeInt32)
	if err != nil || !got.Present || got.Value != 42 || n != len(buf) {
		t.Fatalf("Optional(present) round trip failed: %+v %d %v", got, n, err)
	}

	none := proto.None[int32]()
	buf = proto.AppendOptional(nil, none, proto.AppendInt32)
	if len(buf) != 1 {
		t.Fatalf("absent optional should encode to exactly 1 byte, got %d", len(buf))
	}
	got, n, err = proto.DecodeOptional(buf, proto.DecodeInt32)
	if err != nil || got.Present || n != 1 {
		t.Fatalf("Optional(absent) round trip failed: %+v %d %v", got, n, err)
	}
}

func TestArrayRoundTrip(t *testing.T) {
	items := []int32{1, 2, 3, -4}
	buf := proto.AppendArray(nil, items, proto.AppendInt32)
	got, n, err := proto.DecodeArray(buf, proto.DecodeInt32)
	if err != nil || n != len(buf) {
		t.Fatalf("DecodeArray error: %d %v", n, err)
	}
	if len(got) != len(items) {
		t.Fatalf("got %d items, want %d", len(got), len(items))
	}
	for i := range items {
		if got[i] != items[i] {
			t.Fatalf("item %d = %d, want %d", i, got[i], items[i])
		}
	}
}

func TestEmptyArrayRoundTrip(t *testing.T) {
	buf := proto.AppendArray[int32](nil, nil, proto.AppendInt32)
	got, n, err := proto.DecodeArray(buf, proto.DecodeInt32)
	if err != nil || len(got) != 0 || n != 1 {
		t.Fatalf("empty array round trip failed: %v %d %v", got, n, err)
	}
}

// TestDecodeArrayRejectsOversizedCount guards against a malformed count
// field driving an allocation sized far beyond what the buffer could
// possibly back: a few header bytes claiming billions of elements must be
// rejected before DecodeArray ever calls make.
func TestDecodeArrayRejectsOversizedCount(t *testing.T) {
	buf := varint.AppendVarInt(nil, 1<<30)
	if _, _, err := proto.DecodeArray(buf, proto.DecodeInt32); !errors.Is(err, mcerr.ErrShortBuffer) {
		t.Fatalf("DecodeArray with oversized count = %v, want ErrShortBuffer", err)
	}
}

func TestPositionRoundTrip(t *testing.T) {
	tests := []proto.Position{
		{X: 0, Y: 0, Z: 0},
		{X: 18357644, Y: 831, Z: -20882616},
		{X: -1, Y: -1, Z: -1},
		{X: 33554431, Y: 2047, Z: 33554431},
		{X: -33554432, Y: -2048, Z: -33554432},
	}
	for _, p := range tests {
		buf := proto.AppendPosition(nil, p)
		if len(buf) != 8 {
			t.Fatalf("Position must encode to 8 bytes, got %d", len(buf))
		}
		got, n, err := proto.DecodePosition(buf)
		if err != nil || n != 8 || got != p {
			t.Fatalf("Position round trip failed: got %+v, want %+v (%v)", got, p, err)
		}
	}
}

func TestUUIDRoundTrip(t *testing.T) {
	var u proto.UUID
	for i := range u {
		u[i] = byte(i)
	}
	buf := proto.AppendUUID(nil, u)
	got, n, err := proto.DecodeUUID(buf)
	if err != nil || got != u || n != 16 {
		t.Fatalf("UUID round trip failed: %v %d %v", got, n, err)
	}
}

func TestBitSetRoundTrip(t *testing.T) {
	bs := proto.BitSet{Words: []uint64{0x1, 0xFF00000000000000}}
	buf := proto.AppendBitSet(nil, bs)
	got, n, err := proto.DecodeBitSet(buf)
	if err != nil || n != len(buf) || len(got.Words) != 2 {
		t.Fatalf("BitSet round trip failed: %+v %d %v", got, n, err)
	}
	if !got.Test(0) || got.Test(1) {
		t.Fatalf("bit test mismatch for word 0")
	}
}

func TestFixedBitSetRoundTrip(t *testing.T) {
	b := proto.NewFixedBitSet(12)
	b.Set(0)
	b.Set(11)
	buf := proto.AppendFixedBitSet(nil, b)
	if len(buf) != 2 {
		t.Fatalf("FixedBitSet(12) should occupy 2 bytes, got %d", len(buf))
	}
	got, n, err := proto.DecodeFixedBitSet(buf, 12)
	if err != nil || n != 2 {
		t.Fatalf("DecodeFixedBitSet error: %d %v", n, err)
	}
	if !got.Test(0) || !got.Test(11) || got.Test(5) {
		t.Fatalf("bit test mismatch: %+v", got)
	}
}
