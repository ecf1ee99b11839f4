package proto

import (
	"fmt"

	"github.com/mcproto/core/mcerr"
)

// UUID is a 128-bit identifier, wire-encoded big-endian (not the
// "mixed-endian" byte order some other Minecraft tooling uses).
type UUID [16]byte

// Nil is the zero UUID.
var Nil UUID

// String renders the UUID in canonical dashed hex form.
func (u UUID) String() string {
	return fmt.Sprintf("%x-%x-%x-%x-%x", u[0:4], u[4:6], u[6:8], u[8:10], u[10:16])
}

// AppendUUID appends u's 16-byte encoding to buf.
func AppendUUID(buf []byte, u UUID) []byte {
	return append(buf, u[:]...)
}

// DecodeUUID decodes a UUID from buf.
func DecodeUUID(buf []byte) (u UUID, n int, err error) {
	if len(buf) < 16 {
		return UUID{}, 0, mcerr.ErrShortBuffer
	}
	copy(u[:], buf[:16])
	return u, 16, nil
}
