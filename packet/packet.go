// Package packet defines the state/direction-aware packet registry: the
// layer that sits between frame's untyped (id, payload) pairs and the
// concrete packet types in the packets package.
package packet

import (
	"fmt"

	"github.com/mcproto/core/mcerr"
)

// State is the protocol phase a connection is in. Transitions are one-way:
// Handshaking moves to Status or Login, Login moves to Play.
type State uint8

const (
	Handshaking State = iota
	Status
	Login
	Play
)

func (s State) String() string {
	switch s {
	case Handshaking:
		return "Handshaking"
	case Status:
		return "Status"
	case Login:
		return "Login"
	case Play:
		return "Play"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Bound is the direction a packet travels.
type Bound uint8

const (
	// Serverbound: client to server.
	Serverbound Bound = iota
	// Clientbound: server to client.
	Clientbound
)

// Packet is implemented by every concrete packet type. ID and State are
// constant per type; Encode/Decode carry the type's own field layout.
type Packet interface {
	ID() int32
	State() State
	Bound() Bound
	Encode() ([]byte, error)
	Decode(ctx Context, payload []byte) error
}

// Context is handed to a typed decoder so it can defensively reject a
// payload whose id doesn't belong in the state it arrived in.
type Context struct {
	State State
	Bound Bound
	ID    int32
}

// ErrInvalidPacketID is returned when a (state, bound, id) triple has no
// registered packet type.
var ErrInvalidPacketID = mcerr.Protocolf("no packet registered for this (state, bound, id)")

// Factory constructs a fresh, zero-valued Packet of one registered type.
type Factory func() Packet

type registryKey struct {
	state State
	bound Bound
	id    int32
}

// Registry maps (state, bound, id) triples to packet factories.
type Registry struct {
	byKey map[registryKey]Factory
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byKey: make(map[registryKey]Factory)}
}

// Register adds one packet type to the registry, keyed by its own State and
// ID and by the bound argument (the packet's own Bound method is not
// consulted). Panics on a duplicate (state, bound, id) registration —
// that can only happen from a programming mistake at startup, never from
// network input.
func (r *Registry) Register(bound Bound, factory Factory) {
	p := factory()
	key := registryKey{state: p.State(), bound: bound, id: p.ID()}
	if _, exists := r.byKey[key]; exists {
		panic(fmt.Sprintf("packet: duplicate registration for state=%s bound=%d id=0x%02X", p.State(), bound, p.ID()))
	}
	r.byKey[key] = factory
}

// Lookup returns the factory registered for (state, bound, id), or false
// if none is registered.
func (r *Registry) Lookup(state State, bound Bound, id int32) (Factory, bool) {
	f, ok := r.byKey[registryKey{state: state, bound: bound, id: id}]
	return f, ok
}

// Decode constructs and decodes the packet registered for (state, bound,
// id), or returns ErrInvalidPacketID if no such packet is registered.
func (r *Registry) Decode(state State, bound Bound, id int32, payload []byte) (Packet, error) {
	factory, ok := r.Lookup(state, bound, id)
	if !ok {
		return nil, fmt.Errorf("packet: id 0x%02X in state %s: %w", id, state, ErrInvalidPacketID)
	}
	p := factory()
	ctx := Context{State: state, Bound: bound, ID: id}
	if err := p.Decode(ctx, payload); err != nil {
		return nil, err
	}
	return p, nil
}

// Opaque is the escape hatch for Play-state packets nobody has registered
// a typed decoder for: the id and raw payload, carried through unexamined.
// Handshaking/Status/Login never fall back to Opaque — an unregistered id
// there is fatal, per the session protocol's strict state discipline.
type Opaque struct {
	PacketID   int32
	PacketData []byte
}

func (o Opaque) ID() int32       { return o.PacketID }
func (Opaque) State() State      { return Play }
func (Opaque) Bound() Bound      { return Clientbound }
func (o Opaque) Encode() ([]byte, error) {
	return append([]byte(nil), o.PacketData...), nil
}
func (o *Opaque) Decode(ctx Context, payload []byte) error {
	o.PacketID = ctx.ID
	o.PacketData = append([]byte(nil), payload...)
	return nil
}

// DecodeOpaque wraps payload as an Opaque Play packet regardless of id,
// for a caller that has chosen to accept unknown Play packets rather than
// treat them as fatal.
func DecodeOpaque(id int32, payload []byte) *Opaque {
	return &Opaque{PacketID: id, PacketData: append([]byte(nil), payload...)}
}
