package proto

import (
	"github.com/mcproto/core/mcerr"
	"github.com/mcproto/core/varint"
)

// Optional is a one-byte presence flag followed by the value iff present,
// the generic replacement for the teacher's per-type "PrefixedOptional[T]"
// and reflection-driven "if:Field" struct tag handling.
type Optional[T any] struct {
	Present bool
	Value   T
}

// Some builds a present Optional.
func Some[T any](v T) Optional[T] { return Optional[T]{Present: true, Value: v} }

// None builds an absent Optional.
func None[T any]() Optional[T] { return Optional[T]{} }

// AppendOptional appends opt's wire form to buf using encode to render the
// value when present.
func AppendOptional[T any](buf []byte, opt Optional[T], encode func([]byte, T) []byte) []byte {
	buf = AppendBool(buf, opt.Present)
	if opt.Present {
		buf = encode(buf, opt.Value)
	}
	return buf
}

// DecodeOptional decodes an Optional from buf using decode to read the
// value when the presence flag is set.
func DecodeOptional[T any](buf []byte, decode func([]byte) (T, int, error)) (opt Optional[T], n int, err error) {
	present, n, err := DecodeBool(buf)
	if err != nil {
		return Optional[T]{}, 0, err
	}
	if !present {
		return Optional[T]{}, n, nil
	}
	value, vn, err := decode(buf[n:])
	if err != nil {
		return Optional[T]{}, 0, err
	}
	return Optional[T]{Present: true, Value: value}, n + vn, nil
}

// AppendArray appends a VarInt element count followed by each element's
// wire form, the generic replacement for the teacher's reflected slice
// handling in packet_codec.go.
func AppendArray[T any](buf []byte, items []T, encode func([]byte, T) []byte) []byte {
	buf = varint.AppendVarInt(buf, int32(len(items)))
	for _, item := range items {
		buf = encode(buf, item)
	}
	return buf
}

// DecodeArray decodes a VarInt-prefixed array from buf.
func DecodeArray[T any](buf []byte, decode func([]byte) (T, int, error)) (items []T, n int, err error) {
	count, countN, err := varint.PeekVarInt(buf)
	if err != nil {
		if err == varint.ErrShortVarInt {
			return nil, 0, mcerr.ErrShortBuffer
		}
		return nil, 0, err
	}
	if count < 0 {
		return nil, 0, mcerr.NewDecodeError("Array", 0, "negative element count")
	}
	// Every element is at least one byte on the wire, so this is a lower
	// bound on the buffer a well-formed count could possibly be backed by.
	// Rejects a malformed count (e.g. a few header bytes claiming billions
	// of elements) before it can drive a multi-gigabyte allocation.
	if len(buf)-countN < int(count) {
		return nil, 0, mcerr.ErrShortBuffer
	}
	items = make([]T, 0, count)
	pos := countN
	for i := int32(0); i < count; i++ {
		item, vn, err := decode(buf[pos:])
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
		pos += vn
	}
	return items, pos, nil
}

// AppendFixedArray appends each element's wire form to buf with no length
// prefix; the caller (the packet schema) already knows the element count.
func AppendFixedArray[T any](buf []byte, items []T, encode func([]byte, T) []byte) []byte {
	for _, item := range items {
		buf = encode(buf, item)
	}
	return buf
}

// DecodeFixedArray decodes exactly count elements from buf with no length
// prefix.
func DecodeFixedArray[T any](buf []byte, count int, decode func([]byte) (T, int, error)) (items []T, n int, err error) {
	items = make([]T, 0, count)
	pos := 0
	for i := 0; i < count; i++ {
		item, vn, err := decode(buf[pos:])
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
		pos += vn
	}
	return items, pos, nil
}

// RawBytes reads every remaining byte of buf uninterpreted, used by
// payloads defined as "raw bytes to end" (PluginMessage's data field, the
// opaque-packet passthrough path).
func RawBytes(buf []byte) ([]byte, int, error) {
	return append([]byte(nil), buf...), len(buf), nil
}
