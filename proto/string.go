package proto

import (
	"unicode/utf8"

	"github.com/mcproto/core/mcerr"
	"github.com/mcproto/core/varint"
)

// FixedStr is a UTF-8 string bounded at construction time by Max bytes, the
// bound coming from the packet schema rather than a generic type parameter
// (a max-byte-length generic parameter doesn't fit Go's generics cleanly;
// a plain int field does the same job, the way the teacher's fixed-length
// byte arrays carry their length as a field rather than a type parameter).
type FixedStr struct {
	Value string
	Max   int
}

// NewFixedStr validates s against max and returns a FixedStr, or an encode
// error if s is not valid UTF-8 or exceeds max bytes.
func NewFixedStr(s string, max int) (FixedStr, error) {
	if !utf8.ValidString(s) {
		return FixedStr{}, mcerr.Encodef("FixedStr: invalid UTF-8")
	}
	if len(s) > max {
		return FixedStr{}, mcerr.Encodef("FixedStr: %d bytes exceeds bound %d", len(s), max)
	}
	return FixedStr{Value: s, Max: max}, nil
}

// AppendFixedStr appends s's VarInt-length-prefixed UTF-8 encoding to buf.
// Callers are expected to have validated s via NewFixedStr already; this is
// the unconditional append half used by the packet encoders.
func AppendFixedStr(buf []byte, s FixedStr) []byte {
	buf = varint.AppendVarInt(buf, int32(len(s.Value)))
	return append(buf, s.Value...)
}

// DecodeFixedStr decodes a VarInt-length-prefixed UTF-8 string from buf,
// rejecting a decoded length over max bytes or malformed UTF-8.
func DecodeFixedStr(buf []byte, max int) (value FixedStr, n int, err error) {
	strLen, lenN, err := varint.PeekVarInt(buf)
	if err != nil {
		if err == varint.ErrShortVarInt {
			return FixedStr{}, 0, mcerr.ErrShortBuffer
		}
		return FixedStr{}, 0, err
	}
	if strLen < 0 {
		return FixedStr{}, 0, mcerr.NewDecodeError("FixedStr", 0, "negative length prefix")
	}
	if int(strLen) > max {
		return FixedStr{}, 0, mcerr.NewDecodeError("FixedStr", lenN, "length exceeds bound")
	}
	total := lenN + int(strLen)
	if len(buf) < total {
		return FixedStr{}, 0, mcerr.ErrShortBuffer
	}
	raw := buf[lenN:total]
	if !utf8.Valid(raw) {
		return FixedStr{}, 0, mcerr.NewDecodeError("FixedStr", lenN, "invalid UTF-8")
	}
	return FixedStr{Value: string(raw), Max: max}, total, nil
}

// IdentifierMaxLen is the wire bound for Identifier, per spec: FixedStr<32767>.
const IdentifierMaxLen = 32767

// DefaultNamespace is substituted when an Identifier carries no namespace.
const DefaultNamespace = "minecraft"

// Identifier is a namespace:value pair, wire-encoded as a FixedStr<32767>.
type Identifier struct {
	Namespace string
	Value     string
}

// NewIdentifier parses "namespace:value", defaulting Namespace to
// DefaultNamespace when absent (a bare "value" with no colon).
func NewIdentifier(s string) Identifier {
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			return Identifier{Namespace: s[:i], Value: s[i+1:]}
		}
	}
	return Identifier{Namespace: DefaultNamespace, Value: s}
}

// String renders the identifier back to its "namespace:value" wire text.
func (id Identifier) String() string {
	return id.Namespace + ":" + id.Value
}

// AppendIdentifier appends id's wire form to buf.
func AppendIdentifier(buf []byte, id Identifier) []byte {
	return AppendFixedStr(buf, FixedStr{Value: id.String(), Max: IdentifierMaxLen})
}

// DecodeIdentifier decodes an Identifier from buf.
func DecodeIdentifier(buf []byte) (id Identifier, n int, err error) {
	fs, n, err := DecodeFixedStr(buf, IdentifierMaxLen)
	if err != nil {
		return Identifier{}, 0, err
	}
	return NewIdentifier(fs.Value), n, nil
}
