package proto

import (
	"encoding/binary"

	"github.com/mcproto/core/mcerr"
	"github.com/mcproto/core/varint"
)

// BitSet is a VarInt-prefixed sequence of 64-bit words, the length-prefixed
// bit set form used by packets whose bit count isn't known ahead of time.
type BitSet struct {
	Words []uint64
}

// Test reports whether bit i is set.
func (b BitSet) Test(i int) bool {
	word := i / 64
	if word >= len(b.Words) {
		return false
	}
	return b.Words[word]&(1<<uint(i%64)) != 0
}

// AppendBitSet appends b's VarInt-prefixed word encoding to buf.
func AppendBitSet(buf []byte, b BitSet) []byte {
	buf = varint.AppendVarInt(buf, int32(len(b.Words)))
	for _, w := range b.Words {
		buf = binary.BigEndian.AppendUint64(buf, w)
	}
	return buf
}

// DecodeBitSet decodes a BitSet from buf.
func DecodeBitSet(buf []byte) (b BitSet, n int, err error) {
	count, countN, err := varint.PeekVarInt(buf)
	if err != nil {
		if err == varint.ErrShortVarInt {
			return BitSet{}, 0, mcerr.ErrShortBuffer
		}
		return BitSet{}, 0, err
	}
	if count < 0 {
		return BitSet{}, 0, mcerr.NewDecodeError("BitSet", 0, "negative word count")
	}
	need := countN + int(count)*8
	if len(buf) < need {
		return BitSet{}, 0, mcerr.ErrShortBuffer
	}
	words := make([]uint64, count)
	pos := countN
	for i := range words {
		words[i] = binary.BigEndian.Uint64(buf[pos:])
		pos += 8
	}
	return BitSet{Words: words}, pos, nil
}

// FixedBitSet is a bit set whose length in bits is fixed by the packet
// schema rather than wire-prefixed; it occupies exactly ceil(Length/8) bytes.
type FixedBitSet struct {
	Length int
	Data   []byte
}

// NewFixedBitSet allocates a zeroed FixedBitSet of the given bit length.
func NewFixedBitSet(length int) FixedBitSet {
	return FixedBitSet{Length: length, Data: make([]byte, (length+7)/8)}
}

// Test reports whether bit i is set.
func (b FixedBitSet) Test(i int) bool {
	if i < 0 || i >= b.Length {
		return false
	}
	return b.Data[i/8]&(1<<uint(i%8)) != 0
}

// Set sets bit i.
func (b FixedBitSet) Set(i int) {
	b.Data[i/8] |= 1 << uint(i%8)
}

// AppendFixedBitSet appends b's raw byte encoding to buf; the reader must
// already know Length from the packet schema to decode it back.
func AppendFixedBitSet(buf []byte, b FixedBitSet) []byte {
	return append(buf, b.Data...)
}

// DecodeFixedBitSet decodes a FixedBitSet of the given bit length from buf.
func DecodeFixedBitSet(buf []byte, length int) (b FixedBitSet, n int, err error) {
	byteLen := (length + 7) / 8
	if len(buf) < byteLen {
		return FixedBitSet{}, 0, mcerr.ErrShortBuffer
	}
	data := make([]byte, byteLen)
	copy(data, buf[:byteLen])
	return FixedBitSet{Length: length, Data: data}, byteLen, nil
}
