package nbt

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Reader decodes NBT data from binary format.
type Reader struct {
	r         io.Reader
	depth     int
	maxDepth  int
	bytesRead int64
	maxBytes  int64
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithMaxDepth sets the maximum nesting depth.
func WithMaxDepth(depth int) ReaderOption {
	return func(r *Reader) { r.maxDepth = depth }
}

// WithMaxBytes sets the maximum bytes that can be read. Zero disables the
// limit.
func WithMaxBytes(n int64) ReaderOption {
	return func(r *Reader) { r.maxBytes = n }
}

// NewReader creates a Reader from a byte slice.
func NewReader(data []byte, opts ...ReaderOption) *Reader {
	return NewReaderFrom(&byteReader{data: data}, opts...)
}

// NewReaderFrom creates a Reader from an io.Reader.
func NewReaderFrom(r io.Reader, opts ...ReaderOption) *Reader {
	reader := &Reader{r: r, maxDepth: MaxDepth, maxBytes: MaxBytes}
	for _, opt := range opts {
		opt(reader)
	}
	return reader
}

// byteReader wraps a byte slice as an io.Reader.
type byteReader struct {
	data []byte
	pos  int
}

func (r *byteReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// ReadTag reads a complete NBT structure.
//
// If network is true, expects network format (no root name); if false,
// expects file format (with root name). Returns the tag, the root name
// (empty for network format), and any error.
//
// Materializing is driven through the same tag-dispatch switch VisitReader
// uses to stream: ReadTag wires a root nodeBuilder in as the Visitor and
// lets visitTagPayload do the actual walking, so there is exactly one
// implementation of "what does tag type N decode to," not a materializing
// copy and a streaming copy.
func (r *Reader) ReadTag(network bool) (Tag, string, error) {
	tagType, err := r.readByte()
	if err != nil {
		return nil, "", fmt.Errorf("nbt: read tag type: %w", err)
	}

	if tagType == TagEnd {
		return End{}, "", nil
	}

	var rootName string
	if !network {
		rootName, err = r.readString()
		if err != nil {
			return nil, "", fmt.Errorf("nbt: read root name: %w", err)
		}
	}

	var tag Tag
	root := newNodeBuilder(func(t Tag) { tag = t })
	if err := visitTagPayload(r, tagType, root); err != nil {
		return nil, "", err
	}

	return tag, rootName, nil
}

// --- Internal read methods ---

func (r *Reader) readFull(p []byte) error {
	if err := r.accountBytes(int64(len(p))); err != nil {
		return err
	}
	_, err := io.ReadFull(r.r, p)
	return err
}

func (r *Reader) readByte() (byte, error) {
	if err := r.accountBytes(1); err != nil {
		return 0, err
	}
	var buf [1]byte
	_, err := io.ReadFull(r.r, buf[:])
	return buf[0], err
}

func (r *Reader) readShort() (int16, error) {
	if err := r.accountBytes(2); err != nil {
		return 0, err
	}
	var buf [2]byte
	if _, err := io.ReadFull(r.r, buf[:]); err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(buf[:])), nil
}

func (r *Reader) readInt() (int32, error) {
	if err := r.accountBytes(4); err != nil {
		return 0, err
	}
	var buf [4]byte
	if _, err := io.ReadFull(r.r, buf[:]); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(buf[:])), nil
}

func (r *Reader) readLong() (int64, error) {
	if err := r.accountBytes(8); err != nil {
		return 0, err
	}
	var buf [8]byte
	if _, err := io.ReadFull(r.r, buf[:]); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(buf[:])), nil
}

func (r *Reader) readFloat() (float32, error) {
	if err := r.accountBytes(4); err != nil {
		return 0, err
	}
	var buf [4]byte
	if _, err := io.ReadFull(r.r, buf[:]); err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(buf[:])), nil
}

func (r *Reader) readDouble() (float64, error) {
	if err := r.accountBytes(8); err != nil {
		return 0, err
	}
	var buf [8]byte
	if _, err := io.ReadFull(r.r, buf[:]); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(buf[:])), nil
}

// readString reads an NBT string: a 2-byte unsigned big-endian length
// prefix followed by UTF-8 bytes.
func (r *Reader) readString() (string, error) {
	if err := r.accountBytes(2); err != nil {
		return "", err
	}
	var buf [2]byte
	if _, err := io.ReadFull(r.r, buf[:]); err != nil {
		return "", err
	}
	length := binary.BigEndian.Uint16(buf[:])

	data := make([]byte, length)
	if err := r.readFull(data); err != nil {
		return "", err
	}

	return string(data), nil
}

// --- Depth and byte accounting ---

func (r *Reader) pushDepth() error {
	r.depth++
	if r.maxDepth > 0 && r.depth > r.maxDepth {
		return fmt.Errorf("nbt: depth exceeds maximum of %d", r.maxDepth)
	}
	return nil
}

func (r *Reader) popDepth() {
	r.depth--
}

func (r *Reader) accountBytes(n int64) error {
	r.bytesRead += n
	if r.maxBytes > 0 && r.bytesRead > r.maxBytes {
		return fmt.Errorf("nbt: data exceeds maximum byte limit of %d", r.maxBytes)
	}
	return nil
}

// checkCount validates a wire-declared element count before the caller
// allocates memory sized by it. A negative count is always rejected; given
// a byte budget, a count that alone would need more bytes than remain in it
// is rejected too, the same "bound the allocation before you make it" rule
// DecodeArray applies against a buffer length, applied here against the
// Reader's remaining byte budget since a Reader may stream from something
// that isn't a fixed-size buffer at all.
func (r *Reader) checkCount(count int32, minElemBytes int64) error {
	if count < 0 {
		return fmt.Errorf("nbt: negative count: %d", count)
	}
	if r.maxBytes > 0 {
		remaining := r.maxBytes - r.bytesRead
		if int64(count)*minElemBytes > remaining {
			return fmt.Errorf("nbt: declared count %d exceeds remaining byte budget", count)
		}
	}
	return nil
}

// Decode reads NBT from a byte slice and returns the tag and root name.
func Decode(data []byte, network bool, opts ...ReaderOption) (Tag, string, error) {
	r := NewReader(data, opts...)
	return r.ReadTag(network)
}

// DecodeNetwork reads NBT in network format (nameless root).
func DecodeNetwork(data []byte, opts ...ReaderOption) (Tag, error) {
	tag, _, err := Decode(data, true, opts...)
	return tag, err
}

// DecodeFile reads NBT in file format (with root name).
func DecodeFile(data []byte, opts ...ReaderOption) (Tag, string, error) {
	return Decode(data, false, opts...)
}

// BytesRead reports how many bytes this Reader has consumed so far.
func (r *Reader) BytesRead() int64 { return r.bytesRead }

// DecodeNetworkPrefix reads one network-format NBT value from the front of
// data and reports how many bytes it consumed, for a caller embedding an
// NBT value inside a larger framed structure rather than decoding a whole
// buffer as NBT (LoginPlay's registry codec field is exactly this case).
func DecodeNetworkPrefix(data []byte, opts ...ReaderOption) (Tag, int, error) {
	r := NewReader(data, opts...)
	tag, _, err := r.ReadTag(true)
	if err != nil {
		return nil, 0, err
	}
	return tag, int(r.BytesRead()), nil
}
