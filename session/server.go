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

// defaultStatusJSON is used when a ServerSession is given no StatusProvider.
func defaultStatusJSON(cfg mcconfig.Config) string {
	return fmt.Sprintf(`{"version":{"name":"1.20.1","protocol":%d},"players":{"max":20,"online":0},"description":{"text":"A Minecraft Server"}}`, cfg.ProtocolVersion)
}

// ServerSession drives the server side of one connection through
// Handshaking, then Status or Login, then (on a successful login) Play.
type ServerSession struct {
	*driver
	// StatusProvider, if set, supplies the JSON body of StatusResponse.
	// Defaults to a minimal static description naming the protocol version.
	StatusProvider func() string
}

// NewServerSession builds a ServerSession over conn, which must not have
// had Start called yet — ServerSession.Run starts it.
func NewServerSession(conn *mcconn.Conn, cfg mcconfig.Config, log *mclog.Logger) *ServerSession {
	return &ServerSession{driver: newDriver(conn, cfg, log)}
}

// Run drives the connection from Handshaking through to either a closed
// Status exchange or a Play session. handlePlay is invoked for every
// decoded (or opaque) Play packet once login succeeds; pass nil to stop
// the state machine right after LoginSuccess without entering a read loop.
func (s *ServerSession) Run(handlePlay PlayHandler) error {
	s.conn.Start()

	hs, err := s.recvTyped(packet.Handshaking, packet.Serverbound)
	if err != nil {
		return fmt.Errorf("session: read Handshake: %w", err)
	}
	handshake, ok := hs.(*packets.Handshake)
	if !ok {
		return fmt.Errorf("session: expected Handshake, got id 0x%02X", hs.ID())
	}

	if handshake.ProtocolVersion != s.cfg.ProtocolVersion {
		reason := fmt.Sprintf(`{"text":"Outdated client or server! This server is on protocol %d, you sent %d."}`,
			s.cfg.ProtocolVersion, handshake.ProtocolVersion)
		_ = s.sendTyped(&packets.DisconnectLogin{Reason: reason})
		_ = s.conn.Close()
		return fmt.Errorf("session: protocol version mismatch: client=%d server=%d",
			handshake.ProtocolVersion, s.cfg.ProtocolVersion)
	}

	switch handshake.NextState {
	case packets.NextStateStatus:
		return s.runStatus()
	case packets.NextStateLogin:
		return s.runLogin(handlePlay)
	default:
		_ = s.conn.Close()
		return fmt.Errorf("session: invalid next_state %d", handshake.NextState)
	}
}

func (s *ServerSession) runStatus() error {
	s.conn.SetState(packet.Status)

	req, err := s.recvTyped(packet.Status, packet.Serverbound)
	if err != nil {
		return fmt.Errorf("session: read StatusRequest: %w", err)
	}
	if _, ok := req.(*packets.StatusRequest); !ok {
		return fmt.Errorf("session: expected StatusRequest, got id 0x%02X", req.ID())
	}

	jsonBody := s.StatusProvider
	body := ""
	if jsonBody != nil {
		body = jsonBody()
	} else {
		body = defaultStatusJSON(s.cfg)
	}
	if err := s.sendTyped(&packets.StatusResponse{JSON: body}); err != nil {
		return fmt.Errorf("session: send StatusResponse: %w", err)
	}

	ping, err := s.recvTyped(packet.Status, packet.Serverbound)
	if err != nil {
		return fmt.Errorf("session: read PingRequest: %w", err)
	}
	pingReq, ok := ping.(*packets.PingRequest)
	if !ok {
		return fmt.Errorf("session: expected PingRequest, got id 0x%02X", ping.ID())
	}
	if err := s.sendTyped(&packets.PongResponse{Payload: pingReq.Payload}); err != nil {
		return fmt.Errorf("session: send PongResponse: %w", err)
	}

	return s.conn.Close()
}

func (s *ServerSession) runLogin(handlePlay PlayHandler) error {
	s.conn.SetState(packet.Login)

	ls, err := s.recvTyped(packet.Login, packet.Serverbound)
	if err != nil {
		return fmt.Errorf("session: read LoginStart: %w", err)
	}
	loginStart, ok := ls.(*packets.LoginStart)
	if !ok {
		return fmt.Errorf("session: expected LoginStart, got id 0x%02X", ls.ID())
	}

	id := loginStart.UUID.Value
	if !loginStart.UUID.Present {
		id = offlinePlayerUUID(loginStart.Name.Value)
	}

	if s.cfg.CompressionThreshold >= 0 {
		if err := s.applyCompression(s.cfg.CompressionThreshold); err != nil {
			return err
		}
	}

	name, err := proto.NewFixedStr(loginStart.Name.Value, 16)
	if err != nil {
		return fmt.Errorf("session: invalid player name: %w", err)
	}
	if err := s.sendTyped(&packets.LoginSuccess{UUID: id, Name: name}); err != nil {
		return fmt.Errorf("session: send LoginSuccess: %w", err)
	}

	s.conn.SetState(packet.Play)
	if handlePlay == nil {
		return nil
	}
	return s.runPlayLoop(packet.Serverbound, handlePlay)
}
