// Package proto implements the fixed-width primitive codec shared by every
// packet: big-endian integers and floats, booleans, bounded UTF-8 strings,
// identifiers, optionals, arrays, positions, angles, bit sets and UUIDs.
//
// Every type here follows the same shape: an Encode that appends to a
// caller-owned []byte, and a Decode that reads from the front of a []byte
// and reports how many bytes it consumed, mirroring varint's calling
// convention so the frame and packet layers can compose them without any
// reflection.
package proto

import (
	"encoding/binary"
	"math"

	"github.com/mcproto/core/mcerr"
)

// AppendBool appends the one-byte boolean encoding of b to buf.
func AppendBool(buf []byte, b bool) []byte {
	if b {
		return append(buf, 0x01)
	}
	return append(buf, 0x00)
}

// DecodeBool decodes a boolean from the front of buf. Any byte other than
// 0x00/0x01 is a decode error, per the wire format's strict boolean rule.
func DecodeBool(buf []byte) (value bool, n int, err error) {
	if len(buf) < 1 {
		return false, 0, mcerr.ErrShortBuffer
	}
	switch buf[0] {
	case 0x00:
		return false, 1, nil
	case 0x01:
		return true, 1, nil
	default:
		return false, 0, mcerr.NewDecodeError("bool", 0, "value must be 0x00 or 0x01")
	}
}

// AppendInt8/DecodeInt8 and the unsigned counterpart.
func AppendInt8(buf []byte, v int8) []byte { return append(buf, byte(v)) }

func DecodeInt8(buf []byte) (value int8, n int, err error) {
	if len(buf) < 1 {
		return 0, 0, mcerr.ErrShortBuffer
	}
	return int8(buf[0]), 1, nil
}

func AppendUint8(buf []byte, v uint8) []byte { return append(buf, v) }

func DecodeUint8(buf []byte) (value uint8, n int, err error) {
	if len(buf) < 1 {
		return 0, 0, mcerr.ErrShortBuffer
	}
	return buf[0], 1, nil
}

func AppendInt16(buf []byte, v int16) []byte {
	return binary.BigEndian.AppendUint16(buf, uint16(v))
}

func DecodeInt16(buf []byte) (value int16, n int, err error) {
	if len(buf) < 2 {
		return 0, 0, mcerr.ErrShortBuffer
	}
	return int16(binary.BigEndian.Uint16(buf)), 2, nil
}

func AppendUint16(buf []byte, v uint16) []byte {
	return binary.BigEndian.AppendUint16(buf, v)
}

func DecodeUint16(buf []byte) (value uint16, n int, err error) {
	if len(buf) < 2 {
		return 0, 0, mcerr.ErrShortBuffer
	}
	return binary.BigEndian.Uint16(buf), 2, nil
}

func AppendInt32(buf []byte, v int32) []byte {
	return binary.BigEndian.AppendUint32(buf, uint32(v))
}

func DecodeInt32(buf []byte) (value int32, n int, err error) {
	if len(buf) < 4 {
		return 0, 0, mcerr.ErrShortBuffer
	}
	return int32(binary.BigEndian.Uint32(buf)), 4, nil
}

func AppendInt64(buf []byte, v int64) []byte {
	return binary.BigEndian.AppendUint64(buf, uint64(v))
}

func DecodeInt64(buf []byte) (value int64, n int, err error) {
	if len(buf) < 8 {
		return 0, 0, mcerr.ErrShortBuffer
	}
	return int64(binary.BigEndian.Uint64(buf)), 8, nil
}

func AppendFloat32(buf []byte, v float32) []byte {
	return binary.BigEndian.AppendUint32(buf, math.Float32bits(v))
}

func DecodeFloat32(buf []byte) (value float32, n int, err error) {
	if len(buf) < 4 {
		return 0, 0, mcerr.ErrShortBuffer
	}
	return math.Float32frombits(binary.BigEndian.Uint32(buf)), 4, nil
}

func AppendFloat64(buf []byte, v float64) []byte {
	return binary.BigEndian.AppendUint64(buf, math.Float64bits(v))
}

func DecodeFloat64(buf []byte) (value float64, n int, err error) {
	if len(buf) < 8 {
		return 0, 0, mcerr.ErrShortBuffer
	}
	return math.Float64frombits(binary.BigEndian.Uint64(buf)), 8, nil
}
