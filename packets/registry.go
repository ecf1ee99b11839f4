package packets

import "github.com/mcproto/core/packet"

// RegisterAll registers every concrete packet type this module knows about
// into r, for both directions it's valid in. A host wanting a narrower
// registry (e.g. a client that never decodes serverbound packets) can build
// its own Registry and call only the Register calls it needs instead.
func RegisterAll(r *packet.Registry) {
	r.Register(packet.Serverbound, func() packet.Packet { return &Handshake{} })

	r.Register(packet.Serverbound, func() packet.Packet { return &StatusRequest{} })
	r.Register(packet.Serverbound, func() packet.Packet { return &PingRequest{} })
	r.Register(packet.Clientbound, func() packet.Packet { return &StatusResponse{} })
	r.Register(packet.Clientbound, func() packet.Packet { return &PongResponse{} })

	r.Register(packet.Serverbound, func() packet.Packet { return &LoginStart{} })
	r.Register(packet.Serverbound, func() packet.Packet { return &EncryptionResponse{} })
	r.Register(packet.Clientbound, func() packet.Packet { return &DisconnectLogin{} })
	r.Register(packet.Clientbound, func() packet.Packet { return &EncryptionRequest{} })
	r.Register(packet.Clientbound, func() packet.Packet { return &LoginSuccess{} })
	r.Register(packet.Clientbound, func() packet.Packet { return &SetCompression{} })

	r.Register(packet.Clientbound, func() packet.Packet { return &LoginPlay{} })
	r.Register(packet.Clientbound, func() packet.Packet { return &DisconnectPlay{} })
	r.Register(packet.Clientbound, func() packet.Packet { return &ChangeDifficulty{} })
	r.Register(packet.Clientbound, func() packet.Packet { return &PlayerAbilities{} })
	r.Register(packet.Clientbound, func() packet.Packet { return clientboundPluginMessageFactory() })
	r.Register(packet.Serverbound, func() packet.Packet { return serverboundPluginMessageFactory() })
	r.Register(packet.Clientbound, func() packet.Packet { return &SetDefaultSpawnPosition{} })
	r.Register(packet.Clientbound, func() packet.Packet { return &KeepAliveClientbound{} })
	r.Register(packet.Serverbound, func() packet.Packet { return &KeepAliveServerbound{} })
	r.Register(packet.Clientbound, func() packet.Packet { return &PlayerPositionAndLookClientbound{} })
	r.Register(packet.Serverbound, func() packet.Packet { return &PlayerPositionAndLookServerbound{} })
}
