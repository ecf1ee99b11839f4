// Package packets holds the concrete packet types for every protocol state,
// each implementing packet.Packet over the proto codec. Field layouts are
// grounded on the Handshake/Status/Login/Play packets of the Java Edition
// protocol, protocol version 763 ("1.20.1").
package packets

import (
	"github.com/mcproto/core/mcerr"
	"github.com/mcproto/core/packet"
	"github.com/mcproto/core/proto"
	"github.com/mcproto/core/varint"
)

// Handshake's NextState values.
const (
	NextStateStatus int32 = 1
	NextStateLogin  int32 = 2
)

// Handshake is "Handshake" (serverbound/handshaking), 0x00 — the first
// packet sent on any connection, naming the protocol version and which
// state to switch into next.
type Handshake struct {
	ProtocolVersion int32
	ServerAddress   proto.FixedStr
	ServerPort      uint16
	NextState       int32
}

func (*Handshake) ID() int32           { return 0x00 }
func (*Handshake) State() packet.State { return packet.Handshaking }
func (*Handshake) Bound() packet.Bound { return packet.Serverbound }

func (h *Handshake) Encode() ([]byte, error) {
	buf := varint.AppendVarInt(nil, h.ProtocolVersion)
	buf = proto.AppendFixedStr(buf, h.ServerAddress)
	buf = proto.AppendUint16(buf, h.ServerPort)
	buf = varint.AppendVarInt(buf, h.NextState)
	return buf, nil
}

func (h *Handshake) Decode(ctx packet.Context, payload []byte) error {
	version, n, err := varint.PeekVarInt(payload)
	if err != nil {
		return mcerr.NewDecodeError("Handshake.ProtocolVersion", 0, err.Error())
	}
	pos := n

	addr, n, err := proto.DecodeFixedStr(payload[pos:], 255)
	if err != nil {
		return mcerr.NewDecodeError("Handshake.ServerAddress", pos, err.Error())
	}
	pos += n

	port, n, err := proto.DecodeUint16(payload[pos:])
	if err != nil {
		return mcerr.NewDecodeError("Handshake.ServerPort", pos, err.Error())
	}
	pos += n

	next, _, err := varint.PeekVarInt(payload[pos:])
	if err != nil {
		return mcerr.NewDecodeError("Handshake.NextState", pos, err.Error())
	}

	h.ProtocolVersion = version
	h.ServerAddress = addr
	h.ServerPort = port
	h.NextState = next
	return nil
}
