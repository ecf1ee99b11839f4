package proto

import (
	"encoding/binary"

	"github.com/mcproto/core/mcerr"
)

// Position is a block coordinate triple bit-packed into a single 64-bit
// big-endian word: x is 26 bits, z is 26 bits, y is 12 bits, each
// two's-complement.
type Position struct {
	X int32
	Y int16
	Z int32
}

// AppendPosition appends p's packed 8-byte encoding to buf.
func AppendPosition(buf []byte, p Position) []byte {
	word := (uint64(uint32(p.X)&0x3FFFFFF) << 38) |
		(uint64(uint32(p.Z)&0x3FFFFFF) << 12) |
		(uint64(uint16(p.Y)) & 0xFFF)
	return binary.BigEndian.AppendUint64(buf, word)
}

// DecodePosition decodes a packed Position from buf, sign-extending each
// field from its native bit width to int32/int16.
func DecodePosition(buf []byte) (p Position, n int, err error) {
	if len(buf) < 8 {
		return Position{}, 0, mcerr.ErrShortBuffer
	}
	word := binary.BigEndian.Uint64(buf)

	x := int32(word >> 38)
	if x >= 1<<25 {
		x -= 1 << 26
	}

	z := int32((word >> 12) & 0x3FFFFFF)
	if z >= 1<<25 {
		z -= 1 << 26
	}

	y := int16(word & 0xFFF)
	if y >= 1<<11 {
		y -= 1 << 12
	}

	return Position{X: x, Y: y, Z: z}, 8, nil
}

// Angle is a 1-byte rotation in 1/256ths of a full turn.
type Angle byte

// NewAngle converts a yaw/pitch in degrees to an Angle.
func NewAngle(degrees float64) Angle {
	turns := degrees / 360.0
	return Angle(byte(int64(turns*256.0)))
}

// Degrees converts an Angle back to degrees in [0, 360).
func (a Angle) Degrees() float64 {
	return float64(a) / 256.0 * 360.0
}

// AppendAngle appends a's single-byte encoding to buf.
func AppendAngle(buf []byte, a Angle) []byte {
	return append(buf, byte(a))
}

// DecodeAngle decodes an Angle from buf.
func DecodeAngle(buf []byte) (a Angle, n int, err error) {
	if len(buf) < 1 {
		return 0, 0, mcerr.ErrShortBuffer
	}
	return Angle(buf[0]), 1, nil
}
