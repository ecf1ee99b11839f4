package nbt

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/mcproto/core/mcerr"
)

// Writer encodes NBT data to binary format.
type Writer struct {
	w   io.Writer
	buf *bytes.Buffer // only set if we own the buffer
}

// NewWriter creates a Writer that writes to an internal buffer. Use
// Bytes() to retrieve the written data.
func NewWriter() *Writer {
	buf := &bytes.Buffer{}
	return &Writer{w: buf, buf: buf}
}

// NewWriterTo creates a Writer that writes to the given io.Writer.
func NewWriterTo(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Bytes returns the written bytes. Only valid if created with NewWriter.
func (w *Writer) Bytes() []byte {
	if w.buf != nil {
		return w.buf.Bytes()
	}
	return nil
}

// Reset resets the internal buffer. Only valid if created with NewWriter.
func (w *Writer) Reset() {
	if w.buf != nil {
		w.buf.Reset()
	}
}

// WriteTag writes a complete NBT structure with root tag.
//
// If network is true, writes in network format (no root name). If false,
// writes in file format (with root name, typically empty).
func (w *Writer) WriteTag(tag Tag, rootName string, network bool) error {
	if err := w.writeByte(tag.ID()); err != nil {
		return err
	}
	if !network {
		if err := w.writeString(rootName); err != nil {
			return err
		}
	}
	return tag.write(w)
}

// --- Internal write methods ---

func (w *Writer) writeByte(v byte) error {
	_, err := w.w.Write([]byte{v})
	return err
}

func (w *Writer) writeBytes(v []byte) error {
	_, err := w.w.Write(v)
	return err
}

// writeFixed encodes a plain scalar (int16/int32/int64/float32/float64) in
// big-endian form. binary.Write has a type-switch fast path for these that
// never touches reflect, so this stays one call site instead of one
// hand-rolled PutUint*/Float*bits pair per width.
func (w *Writer) writeFixed(v any) error {
	return binary.Write(w.w, binary.BigEndian, v)
}

func (w *Writer) writeShort(v int16) error    { return w.writeFixed(v) }
func (w *Writer) writeInt(v int32) error      { return w.writeFixed(v) }
func (w *Writer) writeLong(v int64) error     { return w.writeFixed(v) }
func (w *Writer) writeFloat(v float32) error  { return w.writeFixed(v) }
func (w *Writer) writeDouble(v float64) error { return w.writeFixed(v) }

// writeString writes an NBT string: a 2-byte unsigned big-endian length
// prefix followed by UTF-8 bytes.
//
// This writes standard UTF-8 rather than Java's modified UTF-8 (which
// re-encodes NUL and surrogate pairs differently); for every string this
// runtime actually produces — chat JSON, identifiers, registry names —
// the two forms coincide.
//
// A string whose UTF-8 form exceeds the tag's 2-byte length prefix can't be
// represented on the wire at all; producing one is a host bug, not a
// recoverable condition, so this fails rather than silently truncating the
// data.
func (w *Writer) writeString(s string) error {
	data := []byte(s)
	if len(data) > 65535 {
		return mcerr.Encodef("nbt: string length %d exceeds 65535-byte tag prefix", len(data))
	}
	if err := w.writeShort(int16(len(data))); err != nil {
		return err
	}
	_, err := w.w.Write(data)
	return err
}

// Encode writes tag as a complete NBT structure and returns the bytes.
func Encode(tag Tag, rootName string, network bool) ([]byte, error) {
	w := NewWriter()
	if err := w.WriteTag(tag, rootName, network); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// EncodeNetwork writes tag in network format (nameless root).
func EncodeNetwork(tag Tag) ([]byte, error) {
	return Encode(tag, "", true)
}

// EncodeFile writes tag in file format (with root name).
func EncodeFile(tag Tag, rootName string) ([]byte, error) {
	return Encode(tag, rootName, false)
}
