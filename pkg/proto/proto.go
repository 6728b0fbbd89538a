// Package proto defines the frames of the Beta 1.7.3 game protocol
// (protocol version 14) and the tag table used to decode them.
//
// A frame is a one-byte tag followed by a fixed field list chosen by that
// tag. There is no length prefix, so the table is the only thing that knows
// where a frame ends.
package proto

import (
	"errors"
	"fmt"

	"github.com/blockwire/blockwire/internal/wire"
)

const (
	// ProtocolVersion is sent in the client's Login frame.
	ProtocolVersion = 14

	// DefaultPort is used when a server address carries no port.
	DefaultPort = 25565
)

// ErrUnknownTag is returned for tags the protocol does not assign. The
// stream cannot be realigned after one.
var ErrUnknownTag = errors.New("proto: unknown frame tag")

// Tag is the one-byte discriminator in front of every frame.
type Tag uint8

// String returns the schema name of the tag.
func (t Tag) String() string {
	if s, ok := Lookup(t); ok {
		return s.Name
	}
	return fmt.Sprintf("unknown(0x%02x)", uint8(t))
}

// Frame is one decoded or outgoing protocol message.
//
// Decode reads the body that follows the tag; Encode writes it. Both work
// on a zero value obtained from the tag table, and neither touches the tag
// byte itself.
type Frame interface {
	Tag() Tag
	Decode(d *wire.Decoder)
	Encode(e *wire.Encoder)
}

// Marshal encodes f with its tag.
func Marshal(f Frame) []byte {
	e := wire.NewEncoder()
	Append(e, f)
	return e.Bytes()
}

// Append encodes f with its tag onto e.
func Append(e *wire.Encoder, f Frame) {
	e.WriteUint8(uint8(f.Tag()))
	f.Encode(e)
}

// Unmarshal decodes one frame from the front of b and returns it with the
// number of bytes it occupied.
func Unmarshal(b []byte) (Frame, int, error) {
	w := wire.NewBytesWindow(b)
	d := wire.NewDecoder(w)

	tag := Tag(d.Uint8())
	if err := w.Err(); err != nil {
		return nil, 0, err
	}
	f, err := Decode(tag, d)
	if err != nil {
		return nil, 0, err
	}
	if err := w.Err(); err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", tag, err)
	}
	return f, w.Pos(), nil
}
