// Package frame implements the length-prefixed, optionally zlib-compressed
// frame codec that every packet travels inside: VarInt length, then either
// a raw (packet id, payload) body or, once compression is enabled, a
// VarInt data_length header followed by a raw or deflated body.
//
// Decoder is built to survive partial socket reads: TryDecode reports
// "need more data" without consuming or mutating its internal buffer, so a
// caller can Feed whatever bytes just arrived and try again.
package frame

import (
	"bytes"
	"compress/zlib"
	"io"

	"github.com/mcproto/core/mcerr"
	"github.com/mcproto/core/varint"
)

// MaxPacketData is the largest body (packet id + payload, before any outer
// length prefix) a single frame may carry — the largest value a 3-byte
// VarInt can express, per the wire format's own length-field cap.
const MaxPacketData = 1<<21 - 1

// DisableCompression is the threshold value meaning "compression off."
const DisableCompression = -1

// SerializedPacket is one decoded frame: a packet id plus its still-opaque
// payload bytes. Typed decoding happens one layer up, in the packet
// registry — the frame layer never looks past the id.
type SerializedPacket struct {
	ID      int32
	Payload []byte
}

// Decoder accumulates bytes read from a connection and extracts complete
// frames from them as they become available.
type Decoder struct {
	buf []byte
}

// NewDecoder returns an empty Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed appends newly read bytes to the decoder's internal buffer.
func (d *Decoder) Feed(data []byte) {
	d.buf = append(d.buf, data...)
}

// Buffered reports how many undecoded bytes are currently held.
func (d *Decoder) Buffered() int { return len(d.buf) }

// TryDecode attempts to extract one SerializedPacket from the buffered
// bytes under the given compression threshold (DisableCompression to
// disable compression). It returns (nil, false, nil) when the buffer does
// not yet hold a complete frame — the buffer is left exactly as it was,
// so the caller can Feed more bytes and try again. A non-nil error is
// fatal to the connection.
func (d *Decoder) TryDecode(threshold int) (*SerializedPacket, bool, error) {
	outerLen, lenN, err := varint.PeekVarInt(d.buf)
	if err != nil {
		if err == varint.ErrShortVarInt {
			return nil, false, nil
		}
		return nil, false, mcerr.Framingf("frame length: %v", err)
	}
	if outerLen < 0 {
		return nil, false, mcerr.Framingf("negative frame length %d", outerLen)
	}
	if outerLen > MaxPacketData {
		return nil, false, mcerr.Framingf("frame length %d exceeds MaxPacketData %d", outerLen, MaxPacketData)
	}

	total := lenN + int(outerLen)
	if len(d.buf) < total {
		return nil, false, nil
	}

	body := d.buf[lenN:total]
	d.buf = d.buf[total:]

	pkt, err := decodeBody(body, threshold)
	if err != nil {
		return nil, false, err
	}
	return pkt, true, nil
}

func decodeBody(body []byte, threshold int) (*SerializedPacket, error) {
	if threshold < 0 {
		return decodeIDAndPayload(body)
	}

	dataLength, n, err := varint.PeekVarInt(body)
	if err != nil {
		return nil, mcerr.Framingf("data_length: %v", err)
	}
	rest := body[n:]

	if dataLength == 0 {
		return decodeIDAndPayload(rest)
	}
	if dataLength < 0 {
		return nil, mcerr.Framingf("negative data_length %d", dataLength)
	}

	inflated, err := inflate(rest)
	if err != nil {
		return nil, mcerr.Framingf("zlib inflate: %v", err)
	}
	if int32(len(inflated)) != dataLength {
		return nil, mcerr.Framingf("data_length %d does not match inflated length %d", dataLength, len(inflated))
	}
	return decodeIDAndPayload(inflated)
}

func decodeIDAndPayload(body []byte) (*SerializedPacket, error) {
	id, n, err := varint.PeekVarInt(body)
	if err != nil {
		return nil, mcerr.Framingf("packet id: %v", err)
	}
	payload := append([]byte(nil), body[n:]...)
	return &SerializedPacket{ID: id, Payload: payload}, nil
}

func inflate(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return io.ReadAll(r)
}

func deflate(data []byte) []byte {
	var out bytes.Buffer
	w := zlib.NewWriter(&out)
	_, _ = w.Write(data)
	_ = w.Close()
	return out.Bytes()
}

// Encode appends one frame carrying id and payload to buf, under the given
// compression threshold (DisableCompression to disable compression).
func Encode(buf []byte, threshold int, id int32, payload []byte) []byte {
	idAndPayload := varint.AppendVarInt(make([]byte, 0, varint.MaxVarIntLen+len(payload)), id)
	idAndPayload = append(idAndPayload, payload...)

	if threshold < 0 {
		buf = varint.AppendVarInt(buf, int32(len(idAndPayload)))
		return append(buf, idAndPayload...)
	}

	if len(idAndPayload) >= threshold {
		compressed := deflate(idAndPayload)
		content := varint.AppendVarInt(make([]byte, 0, varint.MaxVarIntLen+len(compressed)), int32(len(idAndPayload)))
		content = append(content, compressed...)
		buf = varint.AppendVarInt(buf, int32(len(content)))
		return append(buf, content...)
	}

	content := varint.AppendVarInt(make([]byte, 0, 1+len(idAndPayload)), 0)
	content = append(content, idAndPayload...)
	buf = varint.AppendVarInt(buf, int32(len(content)))
	return append(buf, content...)
}
