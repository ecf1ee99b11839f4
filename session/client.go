package session

import (
	"fmt"

	"github.com/mcproto/core/mcconfig"
	"github.com/mcproto/core/mcconn"
	"github.com/mcproto/core/mclog"
	"github.com/mcproto/core/packet"
	"github.com/mcproto/core/packets"
	"github.com/mcproto/core/proto"
)

// ClientSession drives the client side of one connection: send Handshake,
// send StatusRequest or LoginStart, honor SetCompression, consume
// LoginSuccess, enter Play.
type ClientSession struct {
	*driver
}

// NewClientSession builds a ClientSession over conn, which must not have
// had Start called yet.
func NewClientSession(conn *mcconn.Conn, cfg mcconfig.Config, log *mclog.Logger) *ClientSession {
	return &ClientSession{driver: newDriver(conn, cfg, log)}
}

func (c *ClientSession) handshake(serverAddr string, serverPort uint16, nextState int32) error {
	addr, err := proto.NewFixedStr(serverAddr, 255)
	if err != nil {
		return fmt.Errorf("session: server address: %w", err)
	}
	return c.sendTyped(&packets.Handshake{
		ProtocolVersion: c.cfg.ProtocolVersion,
		ServerAddress:   addr,
		ServerPort:      serverPort,
		NextState:       nextState,
	})
}

// FetchStatus performs the Status exchange: Handshake(next_state=Status),
// StatusRequest, then PingRequest/PongResponse with pingPayload echoed
// back unchanged. Closes the connection on return.
func (c *ClientSession) FetchStatus(serverAddr string, serverPort uint16, pingPayload int64) (statusJSON string, echoed int64, err error) {
	c.conn.Start()
	defer func() { _ = c.conn.Close() }()

	if err := c.handshake(serverAddr, serverPort, packets.NextStateStatus); err != nil {
		return "", 0, err
	}
	c.conn.SetState(packet.Status)

	if err := c.sendTyped(&packets.StatusRequest{}); err != nil {
		return "", 0, fmt.Errorf("session: send StatusRequest: %w", err)
	}
	respPkt, err := c.recvTyped(packet.Status, packet.Clientbound)
	if err != nil {
		return "", 0, fmt.Errorf("session: read StatusResponse: %w", err)
	}
	resp, ok := respPkt.(*packets.StatusResponse)
	if !ok {
		return "", 0, fmt.Errorf("session: expected StatusResponse, got id 0x%02X", respPkt.ID())
	}

	if err := c.sendTyped(&packets.PingRequest{Payload: pingPayload}); err != nil {
		return resp.JSON, 0, fmt.Errorf("session: send PingRequest: %w", err)
	}
	pongPkt, err := c.recvTyped(packet.Status, packet.Clientbound)
	if err != nil {
		return resp.JSON, 0, fmt.Errorf("session: read PongResponse: %w", err)
	}
	pong, ok := pongPkt.(*packets.PongResponse)
	if !ok {
		return resp.JSON, 0, fmt.Errorf("session: expected PongResponse, got id 0x%02X", pongPkt.ID())
	}

	return resp.JSON, pong.Payload, nil
}

// Login performs the Login exchange: Handshake(next_state=Login),
// LoginStart, honoring any SetCompression before LoginSuccess arrives,
// then optionally entering the Play loop. Returns the UUID LoginSuccess
// assigned.
func (c *ClientSession) Login(serverAddr string, serverPort uint16, playerName string, handlePlay PlayHandler) (proto.UUID, error) {
	c.conn.Start()

	if err := c.handshake(serverAddr, serverPort, packets.NextStateLogin); err != nil {
		return proto.UUID{}, err
	}
	c.conn.SetState(packet.Login)

	name, err := proto.NewFixedStr(playerName, 16)
	if err != nil {
		return proto.UUID{}, fmt.Errorf("session: player name: %w", err)
	}
	if err := c.sendTyped(&packets.LoginStart{Name: name, UUID: proto.None[proto.UUID]()}); err != nil {
		return proto.UUID{}, fmt.Errorf("session: send LoginStart: %w", err)
	}

	for {
		p, err := c.recvTyped(packet.Login, packet.Clientbound)
		if err != nil {
			return proto.UUID{}, fmt.Errorf("session: read login packet: %w", err)
		}
		switch pkt := p.(type) {
		case *packets.SetCompression:
			c.observeCompression(int(pkt.Threshold))
		case *packets.DisconnectLogin:
			return proto.UUID{}, fmt.Errorf("session: disconnected during login: %s", pkt.Reason)
		case *packets.EncryptionRequest:
			return proto.UUID{}, fmt.Errorf("session: server requested encryption, which this runtime does not support")
		case *packets.LoginSuccess:
			c.conn.SetState(packet.Play)
			if handlePlay != nil {
				if err := c.runPlayLoop(packet.Clientbound, handlePlay); err != nil {
					return pkt.UUID, err
				}
			}
			return pkt.UUID, nil
		default:
			return proto.UUID{}, fmt.Errorf("session: unexpected packet during login: id 0x%02X", p.ID())
		}
	}
}
