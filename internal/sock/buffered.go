package sock

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/netip"
	"os"
	"time"

	"github.com/blockwire/blockwire/internal/wire"
)

type dialResult struct {
	conn net.Conn
	err  error
}

// BufferedSocket is a Socket over net.Conn for platforms without a peek
// system call. Bytes read from the connection are held in a pending buffer
// that only Discard shrinks.
type BufferedSocket struct {
	pollWait    time.Duration
	dialTimeout time.Duration

	dialing <-chan dialResult
	cancel  context.CancelFunc
	conn    net.Conn

	pending  []byte
	scratch  []byte
	eof      bool
	readErr  error
	blocking bool
}

// NewBufferedSocket creates an unconnected socket. Zero durations select
// DefaultPollWait and DefaultDialTimeout.
func NewBufferedSocket(pollWait, dialTimeout time.Duration) *BufferedSocket {
	if pollWait <= 0 {
		pollWait = DefaultPollWait
	}
	if dialTimeout <= 0 {
		dialTimeout = DefaultDialTimeout
	}
	return &BufferedSocket{
		pollWait:    pollWait,
		dialTimeout: dialTimeout,
		scratch:     make([]byte, 16*1024),
	}
}

// Connect dials addr in the background.
func (s *BufferedSocket) Connect(addr netip.AddrPort) error {
	if s.conn != nil || s.dialing != nil {
		return fmt.Errorf("connect %s: socket already in use", addr)
	}
	if !addr.Addr().Is4() {
		return fmt.Errorf("connect %s: only IPv4 is supported", addr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.dialTimeout)
	ch := make(chan dialResult, 1)
	go func() {
		var d net.Dialer
		c, err := d.DialContext(ctx, "tcp4", addr.String())
		ch <- dialResult{conn: c, err: err}
	}()
	s.dialing = ch
	s.cancel = cancel
	return nil
}

// ready resolves a pending connect. In non-blocking mode it returns
// ErrWouldBlock while the dial is still running.
func (s *BufferedSocket) ready() error {
	if s.conn != nil {
		return nil
	}
	if s.dialing == nil {
		return ErrNotOpen
	}

	var r dialResult
	if s.blocking {
		r = <-s.dialing
	} else {
		select {
		case r = <-s.dialing:
		default:
			return wire.ErrWouldBlock
		}
	}
	s.dialing = nil
	s.cancel()
	if r.err != nil {
		return fmt.Errorf("connect: %w", r.err)
	}
	s.conn = r.conn
	return nil
}

func (s *BufferedSocket) deadline() time.Time {
	if s.blocking {
		return time.Time{}
	}
	return time.Now().Add(s.pollWait)
}

// Peek copies pending bytes into p, reading from the connection only when
// fewer than len(p) bytes are pending.
//
// Once the connection has failed or reached EOF, a request the pending bytes
// cannot satisfy reports that failure instead of a short count.
func (s *BufferedSocket) Peek(p []byte) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	if len(s.pending) < len(p) && !s.eof && s.readErr == nil {
		if err := s.fill(); err != nil && len(s.pending) == 0 {
			return 0, err
		}
	}
	if len(s.pending) < len(p) {
		switch {
		case s.readErr != nil:
			return 0, s.readErr
		case s.eof:
			return 0, io.EOF
		}
	}
	return copy(p, s.pending), nil
}

func (s *BufferedSocket) fill() error {
	if err := s.conn.SetReadDeadline(s.deadline()); err != nil {
		return fmt.Errorf("set read deadline: %w", err)
	}
	n, err := s.conn.Read(s.scratch)
	s.pending = append(s.pending, s.scratch[:n]...)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		s.eof = true
		return nil
	case errors.Is(err, os.ErrDeadlineExceeded):
		return wire.ErrWouldBlock
	default:
		s.readErr = fmt.Errorf("recv: %w", err)
		return s.readErr
	}
}

// Discard drops n pending bytes.
func (s *BufferedSocket) Discard(n int) error {
	if n > len(s.pending) {
		return fmt.Errorf("discard %d bytes: only %d pending", n, len(s.pending))
	}
	s.pending = s.pending[n:]
	if len(s.pending) == 0 {
		s.pending = nil
	}
	return nil
}

// Send writes p. In non-blocking mode a write that times out reports what
// was accepted, or ErrWouldBlock if nothing was.
func (s *BufferedSocket) Send(p []byte) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	if err := s.conn.SetWriteDeadline(s.deadline()); err != nil {
		return 0, fmt.Errorf("set write deadline: %w", err)
	}
	n, err := s.conn.Write(p)
	if errors.Is(err, os.ErrDeadlineExceeded) {
		if n == 0 {
			return 0, wire.ErrWouldBlock
		}
		return n, nil
	}
	if err != nil {
		return n, fmt.Errorf("send: %w", err)
	}
	return n, nil
}

// SetBlocking switches between waiting and deadline-bounded I/O.
func (s *BufferedSocket) SetBlocking(blocking bool) error {
	s.blocking = blocking
	return nil
}

// Close abandons a pending dial or closes the connection.
func (s *BufferedSocket) Close() error {
	s.pending = nil
	s.eof = false
	s.readErr = nil
	if s.dialing != nil {
		s.cancel()
		ch := s.dialing
		s.dialing = nil
		go func() {
			if r := <-ch; r.conn != nil {
				_ = r.conn.Close()
			}
		}()
		return nil
	}
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
