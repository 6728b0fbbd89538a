//go:build linux

package sock

import (
	"errors"
	"fmt"
	"io"
	"net/netip"

	"golang.org/x/sys/unix"

	"github.com/blockwire/blockwire/internal/wire"
)

// PeekSocket is a raw non-blocking TCP socket. Pending bytes stay in the
// kernel receive queue until Discard reads them out.
type PeekSocket struct {
	fd      int
	scratch []byte
}

func newPeekSocket() (Socket, error) {
	return NewPeekSocket()
}

// NewPeekSocket creates a non-blocking IPv4 stream socket.
func NewPeekSocket() (*PeekSocket, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, unix.IPPROTO_TCP)
	if err != nil {
		return nil, fmt.Errorf("socket create: %w", err)
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("set nonblock: %w", err)
	}
	_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1)
	return &PeekSocket{fd: fd, scratch: make([]byte, 4096)}, nil
}

// Connect starts connecting to addr. An in-progress connect is success.
func (s *PeekSocket) Connect(addr netip.AddrPort) error {
	if s.fd < 0 {
		return ErrNotOpen
	}
	if !addr.Addr().Is4() {
		return fmt.Errorf("connect %s: only IPv4 is supported", addr)
	}
	sa := &unix.SockaddrInet4{Port: int(addr.Port()), Addr: addr.Addr().As4()}
	err := unix.Connect(s.fd, sa)
	if err != nil && !errors.Is(err, unix.EINPROGRESS) {
		return fmt.Errorf("connect %s: %w", addr, err)
	}
	return nil
}

// Peek copies pending bytes into p without removing them.
func (s *PeekSocket) Peek(p []byte) (int, error) {
	if s.fd < 0 {
		return 0, ErrNotOpen
	}
	for {
		n, _, err := unix.Recvfrom(s.fd, p, unix.MSG_PEEK)
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case isWouldBlock(err):
			return 0, wire.ErrWouldBlock
		case err != nil:
			return 0, fmt.Errorf("recv: %w", err)
		case n == 0 && len(p) > 0:
			return 0, io.EOF
		}
		return n, nil
	}
}

// Discard removes n bytes from the receive queue.
func (s *PeekSocket) Discard(n int) error {
	if s.fd < 0 {
		return ErrNotOpen
	}
	for n > 0 {
		got, _, err := unix.Recvfrom(s.fd, s.scratch[:min(n, len(s.scratch))], 0)
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case err != nil:
			return fmt.Errorf("recv: %w", err)
		case got == 0:
			return io.ErrUnexpectedEOF
		}
		n -= got
	}
	return nil
}

// Send writes p. SIGPIPE is suppressed; a reset peer shows up as an error.
func (s *PeekSocket) Send(p []byte) (int, error) {
	if s.fd < 0 {
		return 0, ErrNotOpen
	}
	for {
		n, err := unix.SendmsgN(s.fd, p, nil, nil, unix.MSG_NOSIGNAL)
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case isWouldBlock(err):
			return 0, wire.ErrWouldBlock
		case err != nil:
			return n, fmt.Errorf("send: %w", err)
		}
		return n, nil
	}
}

// SetBlocking switches the descriptor between blocking and non-blocking
// mode.
func (s *PeekSocket) SetBlocking(blocking bool) error {
	if s.fd < 0 {
		return ErrNotOpen
	}
	return unix.SetNonblock(s.fd, !blocking)
}

// Close releases the descriptor. Closing twice is a no-op.
func (s *PeekSocket) Close() error {
	if s.fd < 0 {
		return nil
	}
	err := unix.Close(s.fd)
	s.fd = -1
	return err
}

func isWouldBlock(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK)
}
