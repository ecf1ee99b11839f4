// Package mcerr defines the error classes shared across the protocol core:
// I/O failures, frame corruption, decode failures, encode failures, and
// protocol-level violations (wrong state, bad version, and so on).
//
// Every exported error is a sentinel meant to be matched with errors.Is, and
// every wrapping helper uses fmt.Errorf's %w so callers can still reach the
// sentinel through layers of context, the same wrapping idiom the teacher
// uses throughout java_protocol.
package mcerr

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per behavioral class.
var (
	// ErrShortBuffer means a decoder was handed fewer bytes than the value
	// it was decoding requires. Callers decoding from a resumable source
	// (frame.Decoder) must treat this the same as varint.ErrShortVarInt:
	// retry once more bytes are available, the input is left untouched.
	ErrShortBuffer = errors.New("mcerr: short buffer")

	// ErrFraming covers corrupt or oversized frame envelopes: a declared
	// length that exceeds frame.MaxPacketData, a compressed frame whose
	// decompressed size disagrees with its declared data length, and so on.
	ErrFraming = errors.New("mcerr: framing violation")

	// ErrDecode covers malformed packet payloads: invalid UTF-8, an enum
	// discriminant outside its valid set, a FixedStr over its bound, a
	// malformed NBT tree.
	ErrDecode = errors.New("mcerr: decode failure")

	// ErrEncode covers host bugs caught at encode time: a value whose
	// declared width would overflow its wire representation.
	ErrEncode = errors.New("mcerr: encode failure")

	// ErrProtocol covers session-level violations: an unexpected packet id
	// for the current state, an unsupported protocol version, a status
	// exchange performed out of order.
	ErrProtocol = errors.New("mcerr: protocol violation")

	// ErrIO covers transport-level read/write failures that aren't framing
	// violations in their own right: the underlying net.Conn misbehaving,
	// an unexpected EOF.
	ErrIO = errors.New("mcerr: i/o failure")

	// ErrConnectionEnded means the peer closed the connection mid-frame:
	// bytes were buffered toward a frame that never completed. A clean
	// close (EOF with nothing buffered) is not this error, it's a nil
	// return from the read loop.
	ErrConnectionEnded = fmt.Errorf("%w: connection ended mid-frame", ErrIO)
)

// DecodeError carries the field name and byte offset of a decode failure,
// the Go-sized stand-in for the original implementation's source-span
// diagnostics: enough to point a caller at the offending bytes without
// carrying a full span/diagnostic-rendering apparatus.
type DecodeError struct {
	Field  string
	Offset int
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("mcerr: decode %s at offset %d: %s", e.Field, e.Offset, e.Reason)
}

func (e *DecodeError) Unwrap() error { return ErrDecode }

// NewDecodeError constructs a DecodeError wrapping ErrDecode.
func NewDecodeError(field string, offset int, reason string) error {
	return &DecodeError{Field: field, Offset: offset, Reason: reason}
}

// Framingf wraps ErrFraming with a formatted reason.
func Framingf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrFraming, fmt.Sprintf(format, args...))
}

// Encodef wraps ErrEncode with a formatted reason.
func Encodef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrEncode, fmt.Sprintf(format, args...))
}

// Protocolf wraps ErrProtocol with a formatted reason.
func Protocolf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrProtocol, fmt.Sprintf(format, args...))
}
