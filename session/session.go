// Package session implements the server- and client-side protocol state
// machines: Handshaking → Status|Login → Play, including the protocol
// version check, the optional SetCompression negotiation and its
// synchronized effect on both directions, and offline-mode UUID
// derivation. It is the layer that gives mcconn's raw frames meaning,
// using packet/packets for typed decode and encode.
package session

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/mcproto/core/mcconfig"
	"github.com/mcproto/core/mcconn"
	"github.com/mcproto/core/mclog"
	"github.com/mcproto/core/packet"
	"github.com/mcproto/core/packets"
	"github.com/mcproto/core/proto"
)

// offlinePlayerUUID derives the offline-mode UUID v3 for name: DNS
// namespace over the ASCII string "OfflinePlayer:"+name, per spec.
func offlinePlayerUUID(name string) proto.UUID {
	id := uuid.NewMD5(uuid.NameSpaceDNS, []byte("OfflinePlayer:"+name))
	var out proto.UUID
	copy(out[:], id[:])
	return out
}

// driver bundles what both the server and client state machines need: the
// raw connection, the packet registry, configuration, and a logger.
type driver struct {
	conn     *mcconn.Conn
	registry *packet.Registry
	cfg      mcconfig.Config
	log      *mclog.Logger
}

func newDriver(conn *mcconn.Conn, cfg mcconfig.Config, log *mclog.Logger) *driver {
	if log == nil {
		log = mclog.NewNop()
	}
	r := packet.NewRegistry()
	packets.RegisterAll(r)
	return &driver{conn: conn, registry: r, cfg: cfg, log: log}
}

func (d *driver) recvTyped(state packet.State, bound packet.Bound) (packet.Packet, error) {
	raw, ok := d.conn.Recv()
	if !ok {
		return nil, io.EOF
	}
	return d.registry.Decode(state, bound, raw.ID, raw.Payload)
}

func (d *driver) sendTyped(p packet.Packet) error {
	payload, err := p.Encode()
	if err != nil {
		return err
	}
	return d.conn.Send(p.ID(), payload)
}

// applyCompression queues a SetCompression packet (server→client) and then
// flips the outbound threshold, in that order: per the compression race
// rule, the sender sets its own outbound threshold only AFTER the
// SetCompression packet itself has been queued, so it is framed under the
// old (disabled) threshold.
func (d *driver) applyCompression(threshold int) error {
	if err := d.sendTyped(&packets.SetCompression{Threshold: int32(threshold)}); err != nil {
		return fmt.Errorf("session: send SetCompression: %w", err)
	}
	d.conn.SetOutboundThreshold(threshold)
	return nil
}

// observeCompression is called by the receiving side on an inbound
// SetCompression: the inbound threshold must flip BEFORE the next frame is
// read, which here just means applying it synchronously in the same call
// that decoded the packet.
func (d *driver) observeCompression(threshold int) {
	d.conn.SetInboundThreshold(threshold)
}

// PlayEvent is one decoded (or opaque) Play-state packet handed to the
// host once a session has entered Play.
type PlayEvent struct {
	Packet packet.Packet
}

// PlayHandler processes one PlayEvent. Returning an error ends the Play
// loop and triggers a DisconnectPlay with the error's message.
type PlayHandler func(PlayEvent) error

func (d *driver) runPlayLoop(bound packet.Bound, handle PlayHandler) error {
	for {
		raw, ok := d.conn.Recv()
		if !ok {
			return nil
		}
		p, err := d.registry.Decode(packet.Play, bound, raw.ID, raw.Payload)
		if err != nil {
			p = packet.DecodeOpaque(raw.ID, raw.Payload)
		}
		if err := handle(PlayEvent{Packet: p}); err != nil {
			_ = d.sendTyped(&packets.DisconnectPlay{Reason: fmt.Sprintf(`{"text":%q}`, err.Error())})
			return err
		}
	}
}

// SendPlay queues a typed packet for a session that has entered Play, for
// the host to push server-initiated Play packets (world state, chat,
// entity updates) between received events.
func (d *driver) SendPlay(p packet.Packet) error {
	return d.sendTyped(p)
}
