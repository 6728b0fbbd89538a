// Package wire implements the field codec of the Beta game protocol and the
// speculative reader that frames are decoded from.
//
// Every integer on the wire is big-endian. Floats and doubles travel as the
// bit pattern of the integer of the same width, so decoding reinterprets bits
// and never converts numerically.
package wire

import "errors"

// MaxStringLength is the largest length a 16-bit signed prefix can carry.
const MaxStringLength = 1<<15 - 1

var (
	// ErrIncomplete means the stream does not yet hold the whole frame.
	// It is transient: the attempt is retried on the next poll.
	ErrIncomplete = errors.New("wire: incomplete frame")

	// ErrClosed means the peer closed the stream.
	ErrClosed = errors.New("wire: stream closed")

	// ErrWouldBlock is returned by non-blocking sources and sinks when no
	// progress can be made right now.
	ErrWouldBlock = errors.New("wire: operation would block")

	// ErrFrameTooLarge means a frame does not fit the staging buffer.
	ErrFrameTooLarge = errors.New("wire: frame exceeds staging buffer")

	// ErrNegativeLength means a length prefix was below zero.
	ErrNegativeLength = errors.New("wire: negative length prefix")
)

// Window yields consecutive bytes of one pending frame.
//
// Next returns exactly n bytes or nil. Once a window returns nil it has
// failed and keeps returning nil. Fail records a decoding error found by
// the caller, such as an impossible length. Err reports the first failure.
type Window interface {
	Next(n int) []byte
	Fail(err error)
	Err() error
}

// IsTransient reports whether err only means "try again later".
func IsTransient(err error) bool {
	return errors.Is(err, ErrIncomplete)
}
