package sock

import (
	"fmt"
	"io"
	"net"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockwire/blockwire/internal/wire"
)

type readStep struct {
	data []byte
	err  error
}

// scriptedConn replays reads and accepts every write.
type scriptedConn struct {
	reads []readStep
}

func (c *scriptedConn) Read(p []byte) (int, error) {
	if len(c.reads) == 0 {
		return 0, errTimeout
	}
	step := c.reads[0]
	c.reads = c.reads[1:]
	return copy(p, step.data), step.err
}

func (c *scriptedConn) Write(p []byte) (int, error)      { return len(p), nil }
func (c *scriptedConn) Close() error                     { return nil }
func (c *scriptedConn) LocalAddr() net.Addr              { return nil }
func (c *scriptedConn) RemoteAddr() net.Addr             { return nil }
func (c *scriptedConn) SetDeadline(time.Time) error      { return nil }
func (c *scriptedConn) SetReadDeadline(time.Time) error  { return nil }
func (c *scriptedConn) SetWriteDeadline(time.Time) error { return nil }

// errTimeout is what a read deadline expiring with nothing to read looks like.
var errTimeout = fmt.Errorf("read tcp: %w", os.ErrDeadlineExceeded)

func connectedBuffered(reads ...readStep) *BufferedSocket {
	s := NewBufferedSocket(0, 0)
	s.conn = &scriptedConn{reads: reads}
	return s
}

// decodeChat makes one attempt at a tag followed by a wide string.
func decodeChat(src wire.Source) error {
	r := wire.NewSpeculative(src, 1024)
	d := wire.NewDecoder(r)
	r.Begin()
	d.Uint8()
	d.WideString()
	if err := r.Err(); err != nil {
		return err
	}
	_, err := r.Commit()
	return err
}

func TestBufferedSocket_ResetAfterPartialFrame(t *testing.T) {
	s := connectedBuffered(
		readStep{data: []byte{0x03, 0x00}},
		readStep{err: syscall.ECONNRESET},
	)

	for i := 0; i < 3; i++ {
		err := decodeChat(s)
		require.Error(t, err)
		assert.False(t, wire.IsTransient(err), "attempt %d: %v", i, err)
		assert.ErrorIs(t, err, syscall.ECONNRESET)
	}
}

func TestBufferedSocket_PendingBytesSurviveReadError(t *testing.T) {
	s := connectedBuffered(
		readStep{data: []byte{1, 2, 3}},
		readStep{err: syscall.ECONNRESET},
	)

	buf := make([]byte, 2)
	n, err := s.Peek(buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, buf[:n])

	_, err = s.Peek(make([]byte, 4))
	assert.ErrorIs(t, err, syscall.ECONNRESET)

	// What already arrived is still served.
	n, err = s.Peek(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, s.Close())
	assert.Nil(t, s.readErr)
}

func TestBufferedSocket_EOFMidFrame(t *testing.T) {
	s := connectedBuffered(
		readStep{data: []byte{0x03, 0x00, 0x05}, err: io.EOF},
	)

	err := decodeChat(s)
	assert.ErrorIs(t, err, wire.ErrClosed)
}

func TestBufferedSocket_WouldBlockIsNotSticky(t *testing.T) {
	s := connectedBuffered(
		readStep{data: []byte{0x03, 0x00}},
		readStep{err: errTimeout},
		readStep{data: []byte{0x01, 0x00, 0x41}},
	)

	assert.True(t, wire.IsTransient(decodeChat(s)))
	assert.NoError(t, decodeChat(s))
}
