package wire

import (
	"errors"
	"fmt"
	"io"
)

// DefaultStagingSize bounds how large a single frame may be.
const DefaultStagingSize = 32 * 1024

// Source is a byte stream that can be inspected before it is consumed.
//
// Peek copies up to len(p) pending bytes into p, always starting at the head
// of the stream, and leaves them pending. It returns ErrWouldBlock when
// nothing is pending and io.EOF (or 0, nil) when the stream is closed.
// Discard removes n bytes that a previous Peek has already shown.
type Source interface {
	Peek(p []byte) (int, error)
	Discard(n int) error
}

// Checkpoint describes the progress of one decode attempt.
type Checkpoint struct {
	// Consumed is the number of bytes tentatively taken by the attempt.
	Consumed int
	// Aborted is set once the attempt could not obtain a field.
	Aborted bool
	// Err is the reason the attempt aborted.
	Err error
}

// Speculative is a Window over a Source that only peeks.
//
// Each Next(n) peeks Consumed+n bytes from the head of the stream. If they
// are not all there the attempt aborts: the window turns sticky, nothing is
// consumed, and every later read returns nil without touching the source.
// A successful attempt is made permanent with Commit, which consumes exactly
// the bytes the attempt used.
type Speculative struct {
	src      Source
	buf      []byte
	consumed int
	err      error
}

// NewSpeculative creates a reader over src whose frames may be at most size
// bytes long. A size of zero selects DefaultStagingSize.
func NewSpeculative(src Source, size int) *Speculative {
	if size <= 0 {
		size = DefaultStagingSize
	}
	return &Speculative{
		src: src,
		buf: make([]byte, size),
	}
}

// Begin starts a new attempt at the head of the stream.
func (s *Speculative) Begin() {
	s.consumed = 0
	s.err = nil
}

// Next implements Window.
func (s *Speculative) Next(n int) []byte {
	if s.err != nil {
		return nil
	}
	if n < 0 {
		s.err = fmt.Errorf("%w: %d", ErrNegativeLength, n)
		return nil
	}

	want := s.consumed + n
	if want > len(s.buf) {
		s.err = fmt.Errorf("%w: need %d bytes, buffer holds %d", ErrFrameTooLarge, want, len(s.buf))
		return nil
	}
	if n == 0 {
		return s.buf[s.consumed:s.consumed]
	}

	got, err := s.src.Peek(s.buf[:want])
	switch {
	case errors.Is(err, ErrWouldBlock):
		s.err = ErrIncomplete
	case errors.Is(err, io.EOF):
		s.err = ErrClosed
	case err != nil:
		s.err = fmt.Errorf("peek: %w", err)
	case got == 0:
		s.err = ErrClosed
	case got < want:
		s.err = ErrIncomplete
	}
	if s.err != nil {
		return nil
	}

	start := s.consumed
	s.consumed = want
	return s.buf[start:want]
}

// Fail aborts the attempt with err unless it already aborted.
func (s *Speculative) Fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

// Err returns the reason the current attempt aborted, if it did.
func (s *Speculative) Err() error {
	return s.err
}

// Checkpoint reports the state of the current attempt.
func (s *Speculative) Checkpoint() Checkpoint {
	return Checkpoint{
		Consumed: s.consumed,
		Aborted:  s.err != nil,
		Err:      s.err,
	}
}

// Commit consumes the bytes of a completed attempt and resets the cursor.
// An aborted attempt cannot be committed and consumes nothing.
func (s *Speculative) Commit() (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	n := s.consumed
	s.consumed = 0
	if n == 0 {
		return 0, nil
	}
	if err := s.src.Discard(n); err != nil {
		return 0, fmt.Errorf("consume %d bytes: %w", n, err)
	}
	return n, nil
}

// Reset drops all attempt state. It is used when the connection goes away.
func (s *Speculative) Reset() {
	s.consumed = 0
	s.err = nil
}
