package packets

import (
	"github.com/mcproto/core/mcerr"
	"github.com/mcproto/core/nbt"
	"github.com/mcproto/core/packet"
	"github.com/mcproto/core/proto"
	"github.com/mcproto/core/varint"
)

// GlobalPos names a dimension and a block position within it, used by
// LoginPlay's optional last-death location.
type GlobalPos struct {
	Dimension proto.Identifier
	Position  proto.Position
}

func appendGlobalPos(buf []byte, g GlobalPos) []byte {
	buf = proto.AppendIdentifier(buf, g.Dimension)
	buf = proto.AppendPosition(buf, g.Position)
	return buf
}

func decodeGlobalPos(buf []byte) (GlobalPos, int, error) {
	dim, n, err := proto.DecodeIdentifier(buf)
	if err != nil {
		return GlobalPos{}, 0, err
	}
	pos, pn, err := proto.DecodePosition(buf[n:])
	if err != nil {
		return GlobalPos{}, 0, err
	}
	return GlobalPos{Dimension: dim, Position: pos}, n + pn, nil
}

// LoginPlay is "Login (play)" (clientbound/play), 0x28 — the packet that
// actually admits a client into the world. RegistryCodec is carried as an
// opaque NBT compound: its dimension/biome/chat-type contents are server
// configuration data, not protocol framing, and this runtime does not
// model that schema field by field.
type LoginPlay struct {
	EntityID            int32
	IsHardcore          bool
	GameMode            byte
	PrevGameMode        int8
	DimensionNames      []proto.Identifier
	RegistryCodec       *nbt.Compound
	DimensionType       proto.Identifier
	DimensionName       proto.Identifier
	HashedSeed          int64
	MaxPlayers          int32
	ViewDistance        int32
	SimulationDistance  int32
	ReducedDebugInfo    bool
	EnableRespawnScreen bool
	IsDebug             bool
	IsFlat              bool
	DeathLocation       proto.Optional[GlobalPos]
	PortalCooldown      int32
}

func (*LoginPlay) ID() int32           { return 0x28 }
func (*LoginPlay) State() packet.State { return packet.Play }
func (*LoginPlay) Bound() packet.Bound { return packet.Clientbound }

func (l *LoginPlay) Encode() ([]byte, error) {
	buf := proto.AppendInt32(nil, l.EntityID)
	buf = proto.AppendBool(buf, l.IsHardcore)
	buf = proto.AppendUint8(buf, l.GameMode)
	buf = proto.AppendInt8(buf, l.PrevGameMode)
	buf = proto.AppendArray(buf, l.DimensionNames, proto.AppendIdentifier)

	registryCodec := l.RegistryCodec
	if registryCodec == nil {
		registryCodec = nbt.NewCompound()
	}
	nbtBuf, err := nbt.EncodeNetwork(registryCodec)
	if err != nil {
		return nil, mcerr.Encodef("LoginPlay.RegistryCodec: %v", err)
	}
	buf = append(buf, nbtBuf...)

	buf = proto.AppendIdentifier(buf, l.DimensionType)
	buf = proto.AppendIdentifier(buf, l.DimensionName)
	buf = proto.AppendInt64(buf, l.HashedSeed)
	buf = varint.AppendVarInt(buf, l.MaxPlayers)
	buf = varint.AppendVarInt(buf, l.ViewDistance)
	buf = varint.AppendVarInt(buf, l.SimulationDistance)
	buf = proto.AppendBool(buf, l.ReducedDebugInfo)
	buf = proto.AppendBool(buf, l.EnableRespawnScreen)
	buf = proto.AppendBool(buf, l.IsDebug)
	buf = proto.AppendBool(buf, l.IsFlat)
	buf = proto.AppendOptional(buf, l.DeathLocation, appendGlobalPos)
	buf = varint.AppendVarInt(buf, l.PortalCooldown)
	return buf, nil
}

func (l *LoginPlay) Decode(ctx packet.Context, payload []byte) error {
	pos := 0

	entityID, n, err := proto.DecodeInt32(payload[pos:])
	if err != nil {
		return mcerr.NewDecodeError("LoginPlay.EntityID", pos, err.Error())
	}
	pos += n

	hardcore, n, err := proto.DecodeBool(payload[pos:])
	if err != nil {
		return mcerr.NewDecodeError("LoginPlay.IsHardcore", pos, err.Error())
	}
	pos += n

	gameMode, n, err := proto.DecodeUint8(payload[pos:])
	if err != nil {
		return mcerr.NewDecodeError("LoginPlay.GameMode", pos, err.Error())
	}
	pos += n

	prevGameMode, n, err := proto.DecodeInt8(payload[pos:])
	if err != nil {
		return mcerr.NewDecodeError("LoginPlay.PrevGameMode", pos, err.Error())
	}
	pos += n

	dimensionNames, n, err := proto.DecodeArray(payload[pos:], proto.DecodeIdentifier)
	if err != nil {
		return mcerr.NewDecodeError("LoginPlay.DimensionNames", pos, err.Error())
	}
	pos += n

	registryCodec, n, err := nbt.DecodeNetworkPrefix(payload[pos:])
	if err != nil {
		return mcerr.NewDecodeError("LoginPlay.RegistryCodec", pos, err.Error())
	}
	pos += n
	compound, _ := registryCodec.(*nbt.Compound)

	dimensionType, n, err := proto.DecodeIdentifier(payload[pos:])
	if err != nil {
		return mcerr.NewDecodeError("LoginPlay.DimensionType", pos, err.Error())
	}
	pos += n

	dimensionName, n, err := proto.DecodeIdentifier(payload[pos:])
	if err != nil {
		return mcerr.NewDecodeError("LoginPlay.DimensionName", pos, err.Error())
	}
	pos += n

	hashedSeed, n, err := proto.DecodeInt64(payload[pos:])
	if err != nil {
		return mcerr.NewDecodeError("LoginPlay.HashedSeed", pos, err.Error())
	}
	pos += n

	maxPlayers, n, err := varint.PeekVarInt(payload[pos:])
	if err != nil {
		return mcerr.NewDecodeError("LoginPlay.MaxPlayers", pos, err.Error())
	}
	pos += n

	viewDistance, n, err := varint.PeekVarInt(payload[pos:])
	if err != nil {
		return mcerr.NewDecodeError("LoginPlay.ViewDistance", pos, err.Error())
	}
	pos += n

	simulationDistance, n, err := varint.PeekVarInt(payload[pos:])
	if err != nil {
		return mcerr.NewDecodeError("LoginPlay.SimulationDistance", pos, err.Error())
	}
	pos += n

	reducedDebugInfo, n, err := proto.DecodeBool(payload[pos:])
	if err != nil {
		return mcerr.NewDecodeError("LoginPlay.ReducedDebugInfo", pos, err.Error())
	}
	pos += n

	enableRespawnScreen, n, err := proto.DecodeBool(payload[pos:])
	if err != nil {
		return mcerr.NewDecodeError("LoginPlay.EnableRespawnScreen", pos, err.Error())
	}
	pos += n

	isDebug, n, err := proto.DecodeBool(payload[pos:])
	if err != nil {
		return mcerr.NewDecodeError("LoginPlay.IsDebug", pos, err.Error())
	}
	pos += n

	isFlat, n, err := proto.DecodeBool(payload[pos:])
	if err != nil {
		return mcerr.NewDecodeError("LoginPlay.IsFlat", pos, err.Error())
	}
	pos += n

	deathLocation, n, err := proto.DecodeOptional(payload[pos:], decodeGlobalPos)
	if err != nil {
		return mcerr.NewDecodeError("LoginPlay.DeathLocation", pos, err.Error())
	}
	pos += n

	portalCooldown, _, err := varint.PeekVarInt(payload[pos:])
	if err != nil {
		return mcerr.NewDecodeError("LoginPlay.PortalCooldown", pos, err.Error())
	}

	l.EntityID = entityID
	l.IsHardcore = hardcore
	l.GameMode = gameMode
	l.PrevGameMode = prevGameMode
	l.DimensionNames = dimensionNames
	l.RegistryCodec = compound
	l.DimensionType = dimensionType
	l.DimensionName = dimensionName
	l.HashedSeed = hashedSeed
	l.MaxPlayers = maxPlayers
	l.ViewDistance = viewDistance
	l.SimulationDistance = simulationDistance
	l.ReducedDebugInfo = reducedDebugInfo
	l.EnableRespawnScreen = enableRespawnScreen
	l.IsDebug = isDebug
	l.IsFlat = isFlat
	l.DeathLocation = deathLocation
	l.PortalCooldown = portalCooldown
	return nil
}

// DisconnectPlay is "Disconnect (play)" (clientbound/play), 0x1A.
type DisconnectPlay struct {
	Reason string
}

func (*DisconnectPlay) ID() int32           { return 0x1A }
func (*DisconnectPlay) State() packet.State { return packet.Play }
func (*DisconnectPlay) Bound() packet.Bound { return packet.Clientbound }

func (d *DisconnectPlay) Encode() ([]byte, error) {
	fs, err := proto.NewFixedStr(d.Reason, 262144)
	if err != nil {
		return nil, err
	}
	return proto.AppendFixedStr(nil, fs), nil
}

func (d *DisconnectPlay) Decode(ctx packet.Context, payload []byte) error {
	fs, _, err := proto.DecodeFixedStr(payload, 262144)
	if err != nil {
		return mcerr.NewDecodeError("DisconnectPlay.Reason", 0, err.Error())
	}
	d.Reason = fs.Value
	return nil
}

// ChangeDifficulty is "Change Difficulty" (clientbound/play), 0x0B.
type ChangeDifficulty struct {
	Difficulty byte
	Locked     bool
}

func (*ChangeDifficulty) ID() int32           { return 0x0B }
func (*ChangeDifficulty) State() packet.State { return packet.Play }
func (*ChangeDifficulty) Bound() packet.Bound { return packet.Clientbound }

func (c *ChangeDifficulty) Encode() ([]byte, error) {
	buf := proto.AppendUint8(nil, c.Difficulty)
	buf = proto.AppendBool(buf, c.Locked)
	return buf, nil
}

func (c *ChangeDifficulty) Decode(ctx packet.Context, payload []byte) error {
	difficulty, n, err := proto.DecodeUint8(payload)
	if err != nil {
		return mcerr.NewDecodeError("ChangeDifficulty.Difficulty", 0, err.Error())
	}
	locked, _, err := proto.DecodeBool(payload[n:])
	if err != nil {
		return mcerr.NewDecodeError("ChangeDifficulty.Locked", n, err.Error())
	}
	c.Difficulty = difficulty
	c.Locked = locked
	return nil
}

// PlayerAbilities is "Player Abilities" (clientbound/play), 0x36.
type PlayerAbilities struct {
	Flags        byte
	FlyingSpeed  float32
	FOVModifier  float32
}

func (*PlayerAbilities) ID() int32           { return 0x36 }
func (*PlayerAbilities) State() packet.State { return packet.Play }
func (*PlayerAbilities) Bound() packet.Bound { return packet.Clientbound }

func (p *PlayerAbilities) Encode() ([]byte, error) {
	buf := proto.AppendUint8(nil, p.Flags)
	buf = proto.AppendFloat32(buf, p.FlyingSpeed)
	buf = proto.AppendFloat32(buf, p.FOVModifier)
	return buf, nil
}

func (p *PlayerAbilities) Decode(ctx packet.Context, payload []byte) error {
	flags, n, err := proto.DecodeUint8(payload)
	if err != nil {
		return mcerr.NewDecodeError("PlayerAbilities.Flags", 0, err.Error())
	}
	speed, n2, err := proto.DecodeFloat32(payload[n:])
	if err != nil {
		return mcerr.NewDecodeError("PlayerAbilities.FlyingSpeed", n, err.Error())
	}
	n += n2
	fov, _, err := proto.DecodeFloat32(payload[n:])
	if err != nil {
		return mcerr.NewDecodeError("PlayerAbilities.FOVModifier", n, err.Error())
	}
	p.Flags = flags
	p.FlyingSpeed = speed
	p.FOVModifier = fov
	return nil
}

// PluginMessage carries a channel identifier plus raw bytes to the end of
// the payload, used both directions ("Clientbound Plugin Message" 0x17,
// "Serverbound Plugin Message" 0x0C) — the two directions share this Go
// type and differ only in which id/bound pair they're registered under.
type PluginMessage struct {
	Channel proto.Identifier
	Data    []byte
	bound   packet.Bound
	id      int32
}

func NewClientboundPluginMessage(channel proto.Identifier, data []byte) *PluginMessage {
	return &PluginMessage{Channel: channel, Data: data, bound: packet.Clientbound, id: 0x17}
}

func NewServerboundPluginMessage(channel proto.Identifier, data []byte) *PluginMessage {
	return &PluginMessage{Channel: channel, Data: data, bound: packet.Serverbound, id: 0x0C}
}

func (p *PluginMessage) ID() int32           { return p.id }
func (*PluginMessage) State() packet.State   { return packet.Play }
func (p *PluginMessage) Bound() packet.Bound { return p.bound }

func (p *PluginMessage) Encode() ([]byte, error) {
	buf := proto.AppendIdentifier(nil, p.Channel)
	return append(buf, p.Data...), nil
}

func (p *PluginMessage) Decode(ctx packet.Context, payload []byte) error {
	channel, n, err := proto.DecodeIdentifier(payload)
	if err != nil {
		return mcerr.NewDecodeError("PluginMessage.Channel", 0, err.Error())
	}
	data, _, err := proto.RawBytes(payload[n:])
	if err != nil {
		return mcerr.NewDecodeError("PluginMessage.Data", n, err.Error())
	}
	p.Channel = channel
	p.Data = data
	p.bound = ctx.Bound
	p.id = ctx.ID
	return nil
}

// clientboundPluginMessageFactory/serverboundPluginMessageFactory exist so
// the two directions can each have a distinct registry entry despite
// sharing one Go type; see RegisterAll.
func clientboundPluginMessageFactory() packet.Packet {
	return &PluginMessage{bound: packet.Clientbound, id: 0x17}
}

func serverboundPluginMessageFactory() packet.Packet {
	return &PluginMessage{bound: packet.Serverbound, id: 0x0C}
}

// SetDefaultSpawnPosition is "Set Default Spawn Position" (clientbound/
// play), 0x50.
type SetDefaultSpawnPosition struct {
	Location proto.Position
	Angle    float32
}

func (*SetDefaultSpawnPosition) ID() int32           { return 0x50 }
func (*SetDefaultSpawnPosition) State() packet.State { return packet.Play }
func (*SetDefaultSpawnPosition) Bound() packet.Bound { return packet.Clientbound }

func (s *SetDefaultSpawnPosition) Encode() ([]byte, error) {
	buf := proto.AppendPosition(nil, s.Location)
	buf = proto.AppendFloat32(buf, s.Angle)
	return buf, nil
}

func (s *SetDefaultSpawnPosition) Decode(ctx packet.Context, payload []byte) error {
	loc, n, err := proto.DecodePosition(payload)
	if err != nil {
		return mcerr.NewDecodeError("SetDefaultSpawnPosition.Location", 0, err.Error())
	}
	angle, _, err := proto.DecodeFloat32(payload[n:])
	if err != nil {
		return mcerr.NewDecodeError("SetDefaultSpawnPosition.Angle", n, err.Error())
	}
	s.Location = loc
	s.Angle = angle
	return nil
}

// KeepAliveClientbound is "Keep Alive" (clientbound/play), 0x23.
type KeepAliveClientbound struct {
	KeepAliveID int64
}

func (*KeepAliveClientbound) ID() int32           { return 0x23 }
func (*KeepAliveClientbound) State() packet.State { return packet.Play }
func (*KeepAliveClientbound) Bound() packet.Bound { return packet.Clientbound }

func (k *KeepAliveClientbound) Encode() ([]byte, error) {
	return proto.AppendInt64(nil, k.KeepAliveID), nil
}

func (k *KeepAliveClientbound) Decode(ctx packet.Context, payload []byte) error {
	v, _, err := proto.DecodeInt64(payload)
	if err != nil {
		return mcerr.NewDecodeError("KeepAliveClientbound.KeepAliveID", 0, err.Error())
	}
	k.KeepAliveID = v
	return nil
}

// KeepAliveServerbound is "Keep Alive" (serverbound/play), 0x14: the
// client's echo of KeepAliveClientbound's KeepAliveID.
type KeepAliveServerbound struct {
	KeepAliveID int64
}

func (*KeepAliveServerbound) ID() int32           { return 0x14 }
func (*KeepAliveServerbound) State() packet.State { return packet.Play }
func (*KeepAliveServerbound) Bound() packet.Bound { return packet.Serverbound }

func (k *KeepAliveServerbound) Encode() ([]byte, error) {
	return proto.AppendInt64(nil, k.KeepAliveID), nil
}

func (k *KeepAliveServerbound) Decode(ctx packet.Context, payload []byte) error {
	v, _, err := proto.DecodeInt64(payload)
	if err != nil {
		return mcerr.NewDecodeError("KeepAliveServerbound.KeepAliveID", 0, err.Error())
	}
	k.KeepAliveID = v
	return nil
}

// PlayerPositionAndLookClientbound is "Synchronize Player Position"
// (clientbound/play), 0x3C — the entry point into the world loop: a
// client can't usefully do anything observable in Play without at least
// one position sync.
type PlayerPositionAndLookClientbound struct {
	X, Y, Z    float64
	Yaw, Pitch float32
	Flags      byte
	TeleportID int32
}

func (*PlayerPositionAndLookClientbound) ID() int32           { return 0x3C }
func (*PlayerPositionAndLookClientbound) State() packet.State { return packet.Play }
func (*PlayerPositionAndLookClientbound) Bound() packet.Bound { return packet.Clientbound }

func (p *PlayerPositionAndLookClientbound) Encode() ([]byte, error) {
	buf := proto.AppendFloat64(nil, p.X)
	buf = proto.AppendFloat64(buf, p.Y)
	buf = proto.AppendFloat64(buf, p.Z)
	buf = proto.AppendFloat32(buf, p.Yaw)
	buf = proto.AppendFloat32(buf, p.Pitch)
	buf = proto.AppendUint8(buf, p.Flags)
	buf = varint.AppendVarInt(buf, p.TeleportID)
	return buf, nil
}

func (p *PlayerPositionAndLookClientbound) Decode(ctx packet.Context, payload []byte) error {
	pos := 0
	x, n, err := proto.DecodeFloat64(payload[pos:])
	if err != nil {
		return mcerr.NewDecodeError("PlayerPositionAndLook.X", pos, err.Error())
	}
	pos += n
	y, n, err := proto.DecodeFloat64(payload[pos:])
	if err != nil {
		return mcerr.NewDecodeError("PlayerPositionAndLook.Y", pos, err.Error())
	}
	pos += n
	z, n, err := proto.DecodeFloat64(payload[pos:])
	if err != nil {
		return mcerr.NewDecodeError("PlayerPositionAndLook.Z", pos, err.Error())
	}
	pos += n
	yaw, n, err := proto.DecodeFloat32(payload[pos:])
	if err != nil {
		return mcerr.NewDecodeError("PlayerPositionAndLook.Yaw", pos, err.Error())
	}
	pos += n
	pitch, n, err := proto.DecodeFloat32(payload[pos:])
	if err != nil {
		return mcerr.NewDecodeError("PlayerPositionAndLook.Pitch", pos, err.Error())
	}
	pos += n
	flags, n, err := proto.DecodeUint8(payload[pos:])
	if err != nil {
		return mcerr.NewDecodeError("PlayerPositionAndLook.Flags", pos, err.Error())
	}
	pos += n
	teleportID, _, err := varint.PeekVarInt(payload[pos:])
	if err != nil {
		return mcerr.NewDecodeError("PlayerPositionAndLook.TeleportID", pos, err.Error())
	}
	p.X, p.Y, p.Z = x, y, z
	p.Yaw, p.Pitch = yaw, pitch
	p.Flags = flags
	p.TeleportID = teleportID
	return nil
}

// PlayerPositionAndLookServerbound is "Set Player Position and Rotation"
// (serverbound/play), 0x15 — the client's own position and rotation report.
// It carries no teleport id; it is not tied to a particular
// PlayerPositionAndLookClientbound.
type PlayerPositionAndLookServerbound struct {
	X, Y, Z    float64
	Yaw, Pitch float32
	OnGround   bool
}

func (*PlayerPositionAndLookServerbound) ID() int32           { return 0x15 }
func (*PlayerPositionAndLookServerbound) State() packet.State { return packet.Play }
func (*PlayerPositionAndLookServerbound) Bound() packet.Bound { return packet.Serverbound }

func (p *PlayerPositionAndLookServerbound) Encode() ([]byte, error) {
	buf := proto.AppendFloat64(nil, p.X)
	buf = proto.AppendFloat64(buf, p.Y)
	buf = proto.AppendFloat64(buf, p.Z)
	buf = proto.AppendFloat32(buf, p.Yaw)
	buf = proto.AppendFloat32(buf, p.Pitch)
	buf = proto.AppendBool(buf, p.OnGround)
	return buf, nil
}

func (p *PlayerPositionAndLookServerbound) Decode(ctx packet.Context, payload []byte) error {
	pos := 0
	x, n, err := proto.DecodeFloat64(payload[pos:])
	if err != nil {
		return mcerr.NewDecodeError("PlayerPositionAndLookServerbound.X", pos, err.Error())
	}
	pos += n
	y, n, err := proto.DecodeFloat64(payload[pos:])
	if err != nil {
		return mcerr.NewDecodeError("PlayerPositionAndLookServerbound.Y", pos, err.Error())
	}
	pos += n
	z, n, err := proto.DecodeFloat64(payload[pos:])
	if err != nil {
		return mcerr.NewDecodeError("PlayerPositionAndLookServerbound.Z", pos, err.Error())
	}
	pos += n
	yaw, n, err := proto.DecodeFloat32(payload[pos:])
	if err != nil {
		return mcerr.NewDecodeError("PlayerPositionAndLookServerbound.Yaw", pos, err.Error())
	}
	pos += n
	pitch, n, err := proto.DecodeFloat32(payload[pos:])
	if err != nil {
		return mcerr.NewDecodeError("PlayerPositionAndLookServerbound.Pitch", pos, err.Error())
	}
	pos += n
	onGround, _, err := proto.DecodeBool(payload[pos:])
	if err != nil {
		return mcerr.NewDecodeError("PlayerPositionAndLookServerbound.OnGround", pos, err.Error())
	}
	p.X, p.Y, p.Z = x, y, z
	p.Yaw, p.Pitch = yaw, pitch
	p.OnGround = onGround
	return nil
}

// ChunkDataAndUpdateLight is "Chunk Data and Update Light" (clientbound/
// play), 0x21, decoded as an opaque id+bytes pass-through: chunk column
// format is explicitly out of scope, but the frame layer still needs to
// carry it without choking. This is the one concrete example of the
// Play-state opaque escape hatch packet.Opaque provides generically.
func NewChunkDataAndUpdateLight(raw []byte) *packet.Opaque {
	return &packet.Opaque{PacketID: 0x21, PacketData: append([]byte(nil), raw...)}
}
