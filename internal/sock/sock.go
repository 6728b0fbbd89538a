// Package sock provides the stream sockets the client reads frames from.
//
// Both implementations expose the same contract: bytes can be peeked at the
// head of the stream any number of times and are only removed by Discard,
// and a non-blocking socket reports wire.ErrWouldBlock instead of waiting.
package sock

import (
	"errors"
	"fmt"
	"net/netip"
	"time"

	"github.com/blockwire/blockwire/internal/wire"
)

// Transport names a Socket implementation.
type Transport string

const (
	// TransportPeek uses the kernel receive queue as the staging area.
	TransportPeek Transport = "peek"
	// TransportBuffered keeps pending bytes in user space over a net.Conn.
	TransportBuffered Transport = "buffered"
)

// ErrNotOpen is returned by operations on a closed or never connected socket.
var ErrNotOpen = errors.New("sock: socket not open")

// ErrUnsupported is returned when a transport is not available on this
// platform.
var ErrUnsupported = errors.New("sock: transport not supported on this platform")

// Socket is a TCP stream that can be read speculatively.
//
// Connect starts an asynchronous connect and returns before the handshake
// completes; Peek and Send report wire.ErrWouldBlock until it does. Peek
// returns io.EOF once the peer has closed and nothing is pending.
type Socket interface {
	wire.Source
	Connect(addr netip.AddrPort) error
	Send(p []byte) (int, error)
	SetBlocking(blocking bool) error
	Close() error
}

// Dialer creates fresh sockets of the configured transport.
type Dialer struct {
	Transport Transport
	// PollWait bounds how long a non-blocking buffered read or write may
	// wait before reporting ErrWouldBlock.
	PollWait time.Duration
	// DialTimeout bounds the buffered transport's background connect.
	DialTimeout time.Duration
}

// Default timings for the buffered transport.
const (
	DefaultPollWait    = time.Millisecond
	DefaultDialTimeout = 10 * time.Second
)

// New returns an unconnected socket.
func (d Dialer) New() (Socket, error) {
	switch d.Transport {
	case TransportPeek:
		return newPeekSocket()
	case TransportBuffered, "":
		return NewBufferedSocket(d.PollWait, d.DialTimeout), nil
	default:
		return nil, fmt.Errorf("sock: unknown transport %q", d.Transport)
	}
}
