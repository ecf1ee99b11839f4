// Package mcconn is the per-connection duplex driver: three goroutines
// (reader, writer, supervisor) coordinated over a cancellation context and
// two buffered channels, sitting between a raw net.Conn and the frame codec.
//
// Pipeline:
//
//	net.Conn.Read → frame.Decoder.TryDecode (reader goroutine) → inbound chan
//	outbound chan → frame.Encode (writer goroutine) → net.Conn.Write
//	either goroutine's terminal error → supervisor cancels the shared context
//
// State and the two compression thresholds are read-mostly values the
// session layer above mutates between frames; they're held in atomic.Value
// cells rather than behind a mutex so the reader and writer never block on
// them mid-frame.
package mcconn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/mcproto/core/frame"
	"github.com/mcproto/core/mcerr"
	"github.com/mcproto/core/mclog"
	"github.com/mcproto/core/packet"
	"go.uber.org/zap"
)

// inboundQueueSize/outboundQueueSize bound how far the reader can run ahead
// of the session consumer, and how many pending writes a caller can queue
// without blocking — backpressure via channel capacity, per the connection
// driver's design.
const (
	inboundQueueSize  = 64
	outboundQueueSize = 64
	readBufferSize    = 4096
)

// outboundFrame is one queued write: an id and its already-encoded payload,
// framed by the writer goroutine under the outbound threshold that was
// current when Send queued it.
type outboundFrame struct {
	id        int32
	payload   []byte
	threshold int
}

// Conn drives one TCP connection's frame-level read/write pump. It knows
// nothing about packet types — that's the session/packets layer above —
// only about SerializedPacket (id, payload) pairs.
type Conn struct {
	netConn net.Conn
	log     *mclog.Logger

	state             atomicValue[packet.State]
	inboundThreshold  atomicValue[int]
	outboundThreshold atomicValue[int]

	inbound  chan *frame.SerializedPacket
	outbound chan outboundFrame

	ctx    context.Context
	cancel context.CancelCauseFunc
}

// New wraps netConn in a Conn, initially in Handshaking state with
// compression disabled in both directions. Call Start to launch its
// goroutines.
func New(netConn net.Conn, log *mclog.Logger) *Conn {
	if log == nil {
		log = mclog.NewNop()
	}
	ctx, cancel := context.WithCancelCause(context.Background())
	c := &Conn{
		netConn:  netConn,
		log:      log,
		inbound:  make(chan *frame.SerializedPacket, inboundQueueSize),
		outbound: make(chan outboundFrame, outboundQueueSize),
		ctx:      ctx,
		cancel:   cancel,
	}
	c.state.Store(packet.Handshaking)
	c.inboundThreshold.Store(frame.DisableCompression)
	c.outboundThreshold.Store(frame.DisableCompression)
	return c
}

// Start launches the reader, writer, and supervisor goroutines. Must be
// called exactly once.
func (c *Conn) Start() {
	errCh := make(chan error, 2)
	go func() { errCh <- c.readLoop() }()
	go func() { errCh <- c.writeLoop() }()
	go c.supervise(errCh)
}

// supervise waits for the first terminal error from either goroutine,
// cancels the shared context so the other one unwinds, closes the socket,
// and closes the inbound channel so Recv's consumer observes EOF.
func (c *Conn) supervise(errCh chan error) {
	first := <-errCh
	c.cancel(first)
	_ = c.netConn.Close()
	<-errCh
	close(c.inbound)
	if first != nil {
		c.log.Debugf("connection closed", zap.Error(first))
	} else {
		c.log.Debugf("connection closed cleanly")
	}
}

func (c *Conn) readLoop() error {
	dec := frame.NewDecoder()
	buf := make([]byte, readBufferSize)
	for {
		if err := c.drainFrames(dec); err != nil {
			return err
		}

		n, err := c.netConn.Read(buf)
		if n > 0 {
			dec.Feed(buf[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				if drainErr := c.drainFrames(dec); drainErr != nil {
					return drainErr
				}
				if dec.Buffered() == 0 {
					return nil
				}
				return fmt.Errorf("mcconn: read: %w", mcerr.ErrConnectionEnded)
			}
			return fmt.Errorf("mcconn: read: %w", err)
		}
	}
}

// drainFrames hands every frame dec can currently complete to the inbound
// channel, stopping as soon as TryDecode needs more bytes than are buffered.
func (c *Conn) drainFrames(dec *frame.Decoder) error {
	for {
		threshold := c.inboundThreshold.Load()
		pkt, ok, err := dec.TryDecode(threshold)
		if err != nil {
			return fmt.Errorf("mcconn: read: %w", err)
		}
		if !ok {
			return nil
		}
		select {
		case c.inbound <- pkt:
		case <-c.ctx.Done():
			return context.Cause(c.ctx)
		}
	}
}

func (c *Conn) writeLoop() error {
	for {
		select {
		case out := <-c.outbound:
			wire := frame.Encode(nil, out.threshold, out.id, out.payload)
			if _, err := c.netConn.Write(wire); err != nil {
				return fmt.Errorf("mcconn: write: %w", err)
			}
		case <-c.ctx.Done():
			return context.Cause(c.ctx)
		}
	}
}

// Send queues (id, payload) for the writer goroutine, blocking only if the
// outbound queue is full. Returns an error if the connection is already
// shutting down.
func (c *Conn) Send(id int32, payload []byte) error {
	select {
	case c.outbound <- outboundFrame{id: id, payload: payload, threshold: c.outboundThreshold.Load()}:
		return nil
	case <-c.ctx.Done():
		return fmt.Errorf("mcconn: send after close: %w", mcerr.ErrFraming)
	}
}

// Recv returns the next decoded frame, or ok=false once the connection has
// closed and every buffered frame has been drained.
func (c *Conn) Recv() (pkt *frame.SerializedPacket, ok bool) {
	pkt, ok = <-c.inbound
	return pkt, ok
}

// State reports the session state the reader/writer currently assume.
func (c *Conn) State() packet.State { return c.state.Load() }

// SetState updates the session state. Safe to call from the goroutine
// driving the session state machine while reader/writer run concurrently.
func (c *Conn) SetState(s packet.State) { c.state.Store(s) }

// SetInboundThreshold updates the threshold the reader applies to the next
// frame it decodes. Per the SetCompression synchronization rule, the
// receiver must call this before reading the next frame — i.e. before
// handing the SetCompression packet itself back to the caller as "done".
func (c *Conn) SetInboundThreshold(threshold int) { c.inboundThreshold.Store(threshold) }

// SetOutboundThreshold updates the threshold the writer applies to frames
// queued after this call. Per the SetCompression synchronization rule, the
// sender must call this only after the SetCompression packet itself has
// been queued via Send, so it is framed under the old threshold.
func (c *Conn) SetOutboundThreshold(threshold int) { c.outboundThreshold.Store(threshold) }

// Context returns the connection's cancellation context, done once either
// goroutine terminates or Close is called.
func (c *Conn) Context() context.Context { return c.ctx }

// Close cancels the connection's context and closes the underlying socket.
// Safe to call from outside the driver's own goroutines.
func (c *Conn) Close() error {
	c.cancel(fmt.Errorf("mcconn: closed by caller"))
	return c.netConn.Close()
}
