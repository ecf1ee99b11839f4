package frame_test

import (
	"bytes"
	"testing"

	"github.com/mcproto/core/frame"
)

func TestUncompressedRoundTrip(t *testing.T) {
	payload := []byte("hello world")
	buf := frame.Encode(nil, frame.DisableCompression, 0x05, payload)

	d := frame.NewDecoder()
	d.Feed(buf)

	pkt, ok, err := d.TryDecode(frame.DisableCompression)
	if err != nil || !ok {
		t.Fatalf("TryDecode = (%v, %v, %v)", pkt, ok, err)
	}
	if pkt.ID != 0x05 || !bytes.Equal(pkt.Payload, payload) {
		t.Fatalf("got %+v", pkt)
	}
	if d.Buffered() != 0 {
		t.Fatalf("decoder buffer not fully consumed, %d bytes left", d.Buffered())
	}
}

func TestResumablePartialFeed(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB}, 200)
	buf := frame.Encode(nil, frame.DisableCompression, 1, payload)

	d := frame.NewDecoder()
	for i := 0; i < len(buf)-1; i++ {
		d.Feed(buf[i : i+1])
		pkt, ok, err := d.TryDecode(frame.DisableCompression)
		if err != nil {
			t.Fatalf("TryDecode errored early at byte %d: %v", i, err)
		}
		if ok {
			t.Fatalf("TryDecode reported complete too early at byte %d: %+v", i, pkt)
		}
	}
	d.Feed(buf[len(buf)-1:])
	pkt, ok, err := d.TryDecode(frame.DisableCompression)
	if err != nil || !ok {
		t.Fatalf("final TryDecode = (%v, %v, %v)", pkt, ok, err)
	}
	if pkt.ID != 1 || !bytes.Equal(pkt.Payload, payload) {
		t.Fatalf("got %+v", pkt)
	}
}

func TestCompressionBelowThreshold(t *testing.T) {
	const threshold = 256
	payload := []byte("short")
	buf := frame.Encode(nil, threshold, 2, payload)

	d := frame.NewDecoder()
	d.Feed(buf)
	pkt, ok, err := d.TryDecode(threshold)
	if err != nil || !ok {
		t.Fatalf("TryDecode = (%v, %v, %v)", pkt, ok, err)
	}
	if pkt.ID != 2 || !bytes.Equal(pkt.Payload, payload) {
		t.Fatalf("got %+v", pkt)
	}
}

func TestCompressionAboveThreshold(t *testing.T) {
	const threshold = 32
	payload := bytes.Repeat([]byte("x"), 1024)
	buf := frame.Encode(nil, threshold, 3, payload)

	// Above-threshold frames must actually be smaller on the wire than the
	// uncompressed body would be, for realistically compressible payloads.
	if len(buf) >= len(payload) {
		t.Fatalf("expected compression to shrink the frame: wire=%d payload=%d", len(buf), len(payload))
	}

	d := frame.NewDecoder()
	d.Feed(buf)
	pkt, ok, err := d.TryDecode(threshold)
	if err != nil || !ok {
		t.Fatalf("TryDecode = (%v, %v, %v)", pkt, ok, err)
	}
	if pkt.ID != 3 || !bytes.Equal(pkt.Payload, payload) {
		t.Fatalf("payload mismatch after decompression")
	}
}

func TestThresholdBoundaryExactlyAtThreshold(t *testing.T) {
	const threshold = 16
	// uncompressed body = varint(id=4, 1 byte) + payload(15 bytes) = 16 bytes == threshold, so it MUST compress.
	payload := bytes.Repeat([]byte{0x01}, 15)
	buf := frame.Encode(nil, threshold, 4, payload)

	d := frame.NewDecoder()
	d.Feed(buf)
	pkt, ok, err := d.TryDecode(threshold)
	if err != nil || !ok {
		t.Fatalf("TryDecode = (%v, %v, %v)", pkt, ok, err)
	}
	if pkt.ID != 4 || !bytes.Equal(pkt.Payload, payload) {
		t.Fatalf("got %+v", pkt)
	}
}

func TestMultipleFramesInOneFeed(t *testing.T) {
	var buf []byte
	buf = frame.Encode(buf, frame.DisableCompression, 1, []byte("first"))
	buf = frame.Encode(buf, frame.DisableCompression, 2, []byte("second"))

	d := frame.NewDecoder()
	d.Feed(buf)

	pkt1, ok, err := d.TryDecode(frame.DisableCompression)
	if err != nil || !ok || pkt1.ID != 1 {
		t.Fatalf("first decode = (%+v, %v, %v)", pkt1, ok, err)
	}
	pkt2, ok, err := d.TryDecode(frame.DisableCompression)
	if err != nil || !ok || pkt2.ID != 2 {
		t.Fatalf("second decode = (%+v, %v, %v)", pkt2, ok, err)
	}
	if d.Buffered() != 0 {
		t.Fatalf("expected buffer drained, %d bytes left", d.Buffered())
	}
}

func TestOversizedFrameRejected(t *testing.T) {
	// Hand-craft a frame header declaring a length over MaxPacketData.
	buf := varintAppend(nil, frame.MaxPacketData+1)

	d := frame.NewDecoder()
	d.Feed(buf)
	_, _, err := d.TryDecode(frame.DisableCompression)
	if err == nil {
		t.Fatalf("expected an error for an oversized frame length")
	}
}

// varintAppend is a tiny local helper so this test doesn't need to import
// the varint package just to build one malformed header.
func varintAppend(buf []byte, v int32) []byte {
	value := uint32(v)
	for {
		if value&^uint32(0x7F) == 0 {
			return append(buf, byte(value))
		}
		buf = append(buf, byte(value&0x7F)|0x80)
		value >>= 7
	}
}
