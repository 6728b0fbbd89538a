package wire

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trickleSource exposes only the first avail bytes of data.
type trickleSource struct {
	data     []byte
	avail    int
	consumed int
	peeks    int
	closed   bool
	err      error
}

func (s *trickleSource) Peek(p []byte) (int, error) {
	s.peeks++
	if s.err != nil {
		return 0, s.err
	}
	pending := s.data[s.consumed:s.avail]
	if len(pending) == 0 {
		if s.closed {
			return 0, io.EOF
		}
		return 0, ErrWouldBlock
	}
	return copy(p, pending), nil
}

func (s *trickleSource) Discard(n int) error {
	if s.consumed+n > s.avail {
		return errors.New("discard past pending data")
	}
	s.consumed += n
	return nil
}

func TestSpeculative_CompleteAttemptCommits(t *testing.T) {
	src := &trickleSource{data: []byte{0x00, 0x05, 0x01, 0x02, 0x03, 0x04, 0xaa}, avail: 7}
	s := NewSpeculative(src, 0)
	d := NewDecoder(s)

	s.Begin()
	assert.Equal(t, int16(5), d.Int16())
	assert.Equal(t, int32(0x01020304), d.Int32())
	require.NoError(t, s.Err())
	assert.Equal(t, Checkpoint{Consumed: 6}, s.Checkpoint())
	assert.Equal(t, 0, src.consumed, "peeking must not consume")

	n, err := s.Commit()
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, 6, src.consumed)
	assert.Equal(t, 0, s.Checkpoint().Consumed)
}

func TestSpeculative_PartialAbortsWithoutConsuming(t *testing.T) {
	src := &trickleSource{data: []byte{0x00, 0x05, 0x01, 0x02, 0x03, 0x04}, avail: 4}
	s := NewSpeculative(src, 0)
	d := NewDecoder(s)

	s.Begin()
	d.Int16()
	d.Int32()
	peeks := src.peeks
	d.Int64() // after abort no more peeks happen

	cp := s.Checkpoint()
	assert.True(t, cp.Aborted)
	assert.ErrorIs(t, cp.Err, ErrIncomplete)
	assert.True(t, IsTransient(cp.Err))
	assert.Equal(t, 2, cp.Consumed, "aborted attempt keeps its cursor")
	assert.Equal(t, peeks, src.peeks)

	_, err := s.Commit()
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.Equal(t, 0, src.consumed)

	// Once the rest arrives, a new attempt succeeds from the head.
	src.avail = 6
	s.Begin()
	assert.Equal(t, int16(5), d.Int16())
	assert.Equal(t, int32(0x01020304), d.Int32())
	n, err := s.Commit()
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestSpeculative_Classification(t *testing.T) {
	tests := []struct {
		name    string
		src     *trickleSource
		want    error
		transit bool
	}{
		{"would block", &trickleSource{}, ErrIncomplete, true},
		{"eof", &trickleSource{closed: true}, ErrClosed, false},
		{"socket error", &trickleSource{err: errors.New("connection reset")}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSpeculative(tt.src, 0)
			s.Begin()
			assert.Nil(t, s.Next(1))
			require.Error(t, s.Err())
			if tt.want != nil {
				assert.ErrorIs(t, s.Err(), tt.want)
			}
			assert.Equal(t, tt.transit, IsTransient(s.Err()))
		})
	}
}

func TestSpeculative_ZeroLengthPeekIsClosed(t *testing.T) {
	s := NewSpeculative(zeroSource{}, 0)
	s.Begin()
	assert.Nil(t, s.Next(1))
	assert.ErrorIs(t, s.Err(), ErrClosed)
}

type zeroSource struct{}

func (zeroSource) Peek([]byte) (int, error) { return 0, nil }
func (zeroSource) Discard(int) error        { return nil }

func TestSpeculative_FrameTooLarge(t *testing.T) {
	src := &trickleSource{data: make([]byte, 64), avail: 64}
	s := NewSpeculative(src, 16)
	d := NewDecoder(s)

	s.Begin()
	d.Bytes(8)
	d.Bytes(9)
	assert.ErrorIs(t, s.Err(), ErrFrameTooLarge)
	assert.False(t, IsTransient(s.Err()))
}

func TestSpeculative_FailFromSchema(t *testing.T) {
	src := &trickleSource{data: []byte{0x80, 0x00}, avail: 2}
	s := NewSpeculative(src, 0)
	d := NewDecoder(s)

	s.Begin()
	d.WideString()
	assert.ErrorIs(t, s.Err(), ErrNegativeLength)
	_, err := s.Commit()
	assert.Error(t, err)
	assert.Equal(t, 0, src.consumed)
}

func TestSpeculative_Reset(t *testing.T) {
	src := &trickleSource{data: []byte{1, 2}, avail: 1}
	s := NewSpeculative(src, 0)
	s.Begin()
	s.Next(2)
	require.Error(t, s.Err())

	s.Reset()
	assert.Equal(t, Checkpoint{}, s.Checkpoint())
}
