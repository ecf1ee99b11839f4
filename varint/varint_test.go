package varint_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/mcproto/core/varint"
)

func TestVarIntEncode(t *testing.T) {
	tests := []struct {
		name string
		val  int32
		want []byte
	}{
		{"zero", 0, []byte{0x00}},
		{"one", 1, []byte{0x01}},
		{"127", 127, []byte{0x7f}},
		{"128", 128, []byte{0x80, 0x01}},
		{"255", 255, []byte{0xff, 0x01}},
		{"25565", 25565, []byte{0xdd, 0xc7, 0x01}},
		{"max", 2147483647, []byte{0xff, 0xff, 0xff, 0xff, 0x07}},
		{"min", -2147483648, []byte{0x80, 0x80, 0x80, 0x80, 0x08}},
		{"minus one", -1, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := varint.EncodeVarInt(tt.val)
			if !bytes.Equal(got, tt.want) {
				t.Fatalf("EncodeVarInt(%d) = %x, want %x", tt.val, got, tt.want)
			}
			if varint.Len(tt.val) != len(tt.want) {
				t.Fatalf("Len(%d) = %d, want %d", tt.val, varint.Len(tt.val), len(tt.want))
			}

			value, n, err := varint.DecodeVarInt(got)
			if err != nil {
				t.Fatalf("DecodeVarInt: %v", err)
			}
			if value != tt.val || n != len(tt.want) {
				t.Fatalf("DecodeVarInt = (%d, %d), want (%d, %d)", value, n, tt.val, len(tt.want))
			}
		})
	}
}

func TestVarIntRoundTripExhaustive(t *testing.T) {
	samples := []int32{0, 1, -1, 63, 64, 8191, 8192, 1 << 20, -(1 << 20), 2147483647, -2147483648}
	for _, v := range samples {
		enc := varint.EncodeVarInt(v)
		if len(enc) < 1 || len(enc) > varint.MaxVarIntLen {
			t.Fatalf("encoded length %d out of [1,5] for %d", len(enc), v)
		}
		got, n, err := varint.DecodeVarInt(enc)
		if err != nil {
			t.Fatalf("decode(%d): %v", v, err)
		}
		if got != v || n != len(enc) {
			t.Fatalf("round trip mismatch for %d: got %d consumed %d", v, got, n)
		}
	}
}

func TestPeekVarIntNeedsMoreData(t *testing.T) {
	full := varint.EncodeVarInt(2147483647) // 5 bytes, all continuation but the last
	for i := 0; i < len(full)-1; i++ {
		prefix := append([]byte(nil), full[:i]...)
		before := append([]byte(nil), prefix...)
		_, _, err := varint.PeekVarInt(prefix)
		if !errors.Is(err, varint.ErrShortVarInt) {
			t.Fatalf("prefix len %d: want ErrShortVarInt, got %v", i, err)
		}
		if !bytes.Equal(prefix, before) {
			t.Fatalf("PeekVarInt mutated its input on a short read")
		}
	}

	value, n, err := varint.PeekVarInt(full)
	if err != nil || value != 2147483647 || n != len(full) {
		t.Fatalf("final peek = (%d, %d, %v), want (2147483647, %d, nil)", value, n, err, len(full))
	}
}

func TestVarIntTooBig(t *testing.T) {
	junk := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	_, _, err := varint.PeekVarInt(junk)
	if !errors.Is(err, varint.ErrVarIntTooBig) {
		t.Fatalf("want ErrVarIntTooBig, got %v", err)
	}
}

func TestVarLongRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		val  int64
		want []byte
	}{
		{"zero", 0, []byte{0x00}},
		{"max", 9223372036854775807, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f}},
		{"minus one", -1, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := varint.EncodeVarLong(tt.val)
			if !bytes.Equal(got, tt.want) {
				t.Fatalf("EncodeVarLong(%d) = %x, want %x", tt.val, got, tt.want)
			}
			value, n, err := varint.DecodeVarLong(got)
			if err != nil || value != tt.val || n != len(tt.want) {
				t.Fatalf("DecodeVarLong round trip failed: (%d, %d, %v)", value, n, err)
			}
		})
	}
}

func TestVarLongTooBig(t *testing.T) {
	junk := make([]byte, 11)
	for i := range junk {
		junk[i] = 0xff
	}
	_, _, err := varint.PeekVarLong(junk)
	if !errors.Is(err, varint.ErrVarIntTooBig) {
		t.Fatalf("want ErrVarIntTooBig, got %v", err)
	}
}
