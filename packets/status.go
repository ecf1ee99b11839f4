package packets

import (
	"github.com/mcproto/core/mcerr"
	"github.com/mcproto/core/packet"
	"github.com/mcproto/core/proto"
)

// StatusRequest is "Status Request" (serverbound/status), 0x00, with no
// fields. Only valid once, immediately after the handshake.
type StatusRequest struct{}

func (*StatusRequest) ID() int32                                         { return 0x00 }
func (*StatusRequest) State() packet.State                               { return packet.Status }
func (*StatusRequest) Bound() packet.Bound                                { return packet.Serverbound }
func (*StatusRequest) Encode() ([]byte, error)                           { return nil, nil }
func (*StatusRequest) Decode(ctx packet.Context, payload []byte) error {
	if len(payload) != 0 {
		return mcerr.NewDecodeError("StatusRequest", 0, "expected an empty payload")
	}
	return nil
}

// PingRequest is "Ping Request" (serverbound/status), 0x01.
type PingRequest struct {
	Payload int64
}

func (*PingRequest) ID() int32           { return 0x01 }
func (*PingRequest) State() packet.State { return packet.Status }
func (*PingRequest) Bound() packet.Bound { return packet.Serverbound }

func (p *PingRequest) Encode() ([]byte, error) {
	return proto.AppendInt64(nil, p.Payload), nil
}

func (p *PingRequest) Decode(ctx packet.Context, payload []byte) error {
	v, _, err := proto.DecodeInt64(payload)
	if err != nil {
		return mcerr.NewDecodeError("PingRequest.Payload", 0, err.Error())
	}
	p.Payload = v
	return nil
}

// StatusResponse is "Status Response" (clientbound/status), 0x00: a single
// JSON string describing server info (version, players, MOTD, favicon).
type StatusResponse struct {
	JSON string
}

func (*StatusResponse) ID() int32           { return 0x00 }
func (*StatusResponse) State() packet.State { return packet.Status }
func (*StatusResponse) Bound() packet.Bound { return packet.Clientbound }

func (s *StatusResponse) Encode() ([]byte, error) {
	fs, err := proto.NewFixedStr(s.JSON, 32767)
	if err != nil {
		return nil, err
	}
	return proto.AppendFixedStr(nil, fs), nil
}

func (s *StatusResponse) Decode(ctx packet.Context, payload []byte) error {
	fs, _, err := proto.DecodeFixedStr(payload, 32767)
	if err != nil {
		return mcerr.NewDecodeError("StatusResponse.JSON", 0, err.Error())
	}
	s.JSON = fs.Value
	return nil
}

// PongResponse is "Pong Response" (clientbound/status), 0x01, echoing
// PingRequest's Payload unchanged.
type PongResponse struct {
	Payload int64
}

func (*PongResponse) ID() int32           { return 0x01 }
func (*PongResponse) State() packet.State { return packet.Status }
func (*PongResponse) Bound() packet.Bound { return packet.Clientbound }

func (p *PongResponse) Encode() ([]byte, error) {
	return proto.AppendInt64(nil, p.Payload), nil
}

func (p *PongResponse) Decode(ctx packet.Context, payload []byte) error {
	v, _, err := proto.DecodeInt64(payload)
	if err != nil {
		return mcerr.NewDecodeError("PongResponse.Payload", 0, err.Error())
	}
	p.Payload = v
	return nil
}
