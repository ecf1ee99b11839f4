package packets

import (
	"github.com/mcproto/core/mcerr"
	"github.com/mcproto/core/packet"
	"github.com/mcproto/core/proto"
	"github.com/mcproto/core/varint"
)

// LoginStart is "Login Start" (serverbound/login), 0x00.
type LoginStart struct {
	Name proto.FixedStr
	UUID proto.Optional[proto.UUID]
}

func (*LoginStart) ID() int32           { return 0x00 }
func (*LoginStart) State() packet.State { return packet.Login }
func (*LoginStart) Bound() packet.Bound { return packet.Serverbound }

func (l *LoginStart) Encode() ([]byte, error) {
	buf := proto.AppendFixedStr(nil, l.Name)
	buf = proto.AppendOptional(buf, l.UUID, proto.AppendUUID)
	return buf, nil
}

func (l *LoginStart) Decode(ctx packet.Context, payload []byte) error {
	name, n, err := proto.DecodeFixedStr(payload, 16)
	if err != nil {
		return mcerr.NewDecodeError("LoginStart.Name", 0, err.Error())
	}
	id, _, err := proto.DecodeOptional(payload[n:], proto.DecodeUUID)
	if err != nil {
		return mcerr.NewDecodeError("LoginStart.UUID", n, err.Error())
	}
	l.Name = name
	l.UUID = id
	return nil
}

// EncryptionResponse is "Encryption Response" (serverbound/login), 0x01.
// Carried here as a wire-shape placeholder only — this runtime never
// enables encryption, but a host layering its own encryption in front of
// the transport still needs the packet framed so the exchange doesn't
// stall on an unregistered id.
type EncryptionResponse struct {
	SharedSecret []byte
	VerifyToken  []byte
}

func (*EncryptionResponse) ID() int32           { return 0x01 }
func (*EncryptionResponse) State() packet.State { return packet.Login }
func (*EncryptionResponse) Bound() packet.Bound { return packet.Serverbound }

func (e *EncryptionResponse) Encode() ([]byte, error) {
	buf := proto.AppendArray(nil, e.SharedSecret, proto.AppendUint8)
	buf = proto.AppendArray(buf, e.VerifyToken, proto.AppendUint8)
	return buf, nil
}

func (e *EncryptionResponse) Decode(ctx packet.Context, payload []byte) error {
	secret, n, err := proto.DecodeArray(payload, proto.DecodeUint8)
	if err != nil {
		return mcerr.NewDecodeError("EncryptionResponse.SharedSecret", 0, err.Error())
	}
	token, _, err := proto.DecodeArray(payload[n:], proto.DecodeUint8)
	if err != nil {
		return mcerr.NewDecodeError("EncryptionResponse.VerifyToken", n, err.Error())
	}
	e.SharedSecret = secret
	e.VerifyToken = token
	return nil
}

// EncryptionRequest is "Encryption Request" (clientbound/login), 0x01, the
// wire-shape counterpart of EncryptionResponse — never actually sent by
// this runtime's session driver, since login encryption is out of scope,
// but decodable so a host is never surprised by an unknown id.
type EncryptionRequest struct {
	ServerID    proto.FixedStr
	PublicKey   []byte
	VerifyToken []byte
}

func (*EncryptionRequest) ID() int32           { return 0x01 }
func (*EncryptionRequest) State() packet.State { return packet.Login }
func (*EncryptionRequest) Bound() packet.Bound { return packet.Clientbound }

func (e *EncryptionRequest) Encode() ([]byte, error) {
	buf := proto.AppendFixedStr(nil, e.ServerID)
	buf = proto.AppendArray(buf, e.PublicKey, proto.AppendUint8)
	buf = proto.AppendArray(buf, e.VerifyToken, proto.AppendUint8)
	return buf, nil
}

func (e *EncryptionRequest) Decode(ctx packet.Context, payload []byte) error {
	serverID, n, err := proto.DecodeFixedStr(payload, 20)
	if err != nil {
		return mcerr.NewDecodeError("EncryptionRequest.ServerID", 0, err.Error())
	}
	pub, n2, err := proto.DecodeArray(payload[n:], proto.DecodeUint8)
	if err != nil {
		return mcerr.NewDecodeError("EncryptionRequest.PublicKey", n, err.Error())
	}
	n += n2
	tok, _, err := proto.DecodeArray(payload[n:], proto.DecodeUint8)
	if err != nil {
		return mcerr.NewDecodeError("EncryptionRequest.VerifyToken", n, err.Error())
	}
	e.ServerID = serverID
	e.PublicKey = pub
	e.VerifyToken = tok
	return nil
}

// DisconnectLogin is "Disconnect (login)" (clientbound/login), 0x00: a
// chat-component JSON string giving the disconnect reason.
type DisconnectLogin struct {
	Reason string
}

func (*DisconnectLogin) ID() int32           { return 0x00 }
func (*DisconnectLogin) State() packet.State { return packet.Login }
func (*DisconnectLogin) Bound() packet.Bound { return packet.Clientbound }

func (d *DisconnectLogin) Encode() ([]byte, error) {
	fs, err := proto.NewFixedStr(d.Reason, 262144)
	if err != nil {
		return nil, err
	}
	return proto.AppendFixedStr(nil, fs), nil
}

func (d *DisconnectLogin) Decode(ctx packet.Context, payload []byte) error {
	fs, _, err := proto.DecodeFixedStr(payload, 262144)
	if err != nil {
		return mcerr.NewDecodeError("DisconnectLogin.Reason", 0, err.Error())
	}
	d.Reason = fs.Value
	return nil
}

// Property is one entry of LoginSuccess's Properties array (e.g. a signed
// skin texture property in online mode; empty in offline mode).
type Property struct {
	Name      string
	Value     string
	Signature proto.Optional[string]
}

func appendString(buf []byte, s string) []byte {
	return proto.AppendFixedStr(buf, proto.FixedStr{Value: s, Max: 32767})
}

func decodeString(buf []byte) (string, int, error) {
	fs, n, err := proto.DecodeFixedStr(buf, 32767)
	return fs.Value, n, err
}

func appendProperty(buf []byte, p Property) []byte {
	buf = appendString(buf, p.Name)
	buf = appendString(buf, p.Value)
	buf = proto.AppendOptional(buf, p.Signature, appendString)
	return buf
}

func decodeProperty(buf []byte) (Property, int, error) {
	name, n, err := decodeString(buf)
	if err != nil {
		return Property{}, 0, err
	}
	value, vn, err := decodeString(buf[n:])
	if err != nil {
		return Property{}, 0, err
	}
	n += vn
	sig, sn, err := proto.DecodeOptional(buf[n:], decodeString)
	if err != nil {
		return Property{}, 0, err
	}
	n += sn
	return Property{Name: name, Value: value, Signature: sig}, n, nil
}

// LoginSuccess is "Login Success" (clientbound/login), 0x02. Properties is
// the skin/texture property array the teacher's S2CLoginSuccessPacketData
// omits entirely; the wire format always carries the array, empty or not.
type LoginSuccess struct {
	UUID       proto.UUID
	Name       proto.FixedStr
	Properties []Property
}

func (*LoginSuccess) ID() int32           { return 0x02 }
func (*LoginSuccess) State() packet.State { return packet.Login }
func (*LoginSuccess) Bound() packet.Bound { return packet.Clientbound }

func (l *LoginSuccess) Encode() ([]byte, error) {
	buf := proto.AppendUUID(nil, l.UUID)
	buf = proto.AppendFixedStr(buf, l.Name)
	buf = proto.AppendArray(buf, l.Properties, appendProperty)
	return buf, nil
}

func (l *LoginSuccess) Decode(ctx packet.Context, payload []byte) error {
	id, n, err := proto.DecodeUUID(payload)
	if err != nil {
		return mcerr.NewDecodeError("LoginSuccess.UUID", 0, err.Error())
	}
	name, n2, err := proto.DecodeFixedStr(payload[n:], 16)
	if err != nil {
		return mcerr.NewDecodeError("LoginSuccess.Name", n, err.Error())
	}
	n += n2
	props, _, err := proto.DecodeArray(payload[n:], decodeProperty)
	if err != nil {
		return mcerr.NewDecodeError("LoginSuccess.Properties", n, err.Error())
	}
	l.UUID = id
	l.Name = name
	l.Properties = props
	return nil
}

// SetCompression is "Set Compression" (clientbound/login), 0x04. Receipt
// of this packet is the synchronization point described in §6/§7 of the
// connection driver: the receiver must apply Threshold before decoding the
// next frame, and the sender must apply it after this one is queued.
type SetCompression struct {
	Threshold int32
}

func (*SetCompression) ID() int32           { return 0x04 }
func (*SetCompression) State() packet.State { return packet.Login }
func (*SetCompression) Bound() packet.Bound { return packet.Clientbound }

func (s *SetCompression) Encode() ([]byte, error) {
	return varint.AppendVarInt(nil, s.Threshold), nil
}

func (s *SetCompression) Decode(ctx packet.Context, payload []byte) error {
	v, _, err := varint.PeekVarInt(payload)
	if err != nil {
		return mcerr.NewDecodeError("SetCompression.Threshold", 0, err.Error())
	}
	s.Threshold = v
	return nil
}
