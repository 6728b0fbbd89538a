package wire

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Decoder reads typed fields from a Window.
//
// A Decoder never returns errors. When the window fails, every following
// read returns the zero value without touching the window's source, and the
// owner of the window inspects the failure once the frame is assembled.
type Decoder struct {
	w Window
}

// NewDecoder creates a decoder over w.
func NewDecoder(w Window) *Decoder {
	return &Decoder{w: w}
}

// Uint8 reads one unsigned byte.
func (d *Decoder) Uint8() uint8 {
	b := d.w.Next(1)
	if b == nil {
		return 0
	}
	return b[0]
}

// Int8 reads one signed byte.
func (d *Decoder) Int8() int8 {
	return int8(d.Uint8())
}

// Bool reads one byte; any non-zero value is true.
func (d *Decoder) Bool() bool {
	return d.Uint8() != 0
}

// Int16 reads a big-endian 16-bit integer.
func (d *Decoder) Int16() int16 {
	b := d.w.Next(2)
	if b == nil {
		return 0
	}
	return int16(binary.BigEndian.Uint16(b))
}

// Int32 reads a big-endian 32-bit integer.
func (d *Decoder) Int32() int32 {
	b := d.w.Next(4)
	if b == nil {
		return 0
	}
	return int32(binary.BigEndian.Uint32(b))
}

// Int64 reads a big-endian 64-bit integer.
func (d *Decoder) Int64() int64 {
	b := d.w.Next(8)
	if b == nil {
		return 0
	}
	return int64(binary.BigEndian.Uint64(b))
}

// Float32 reinterprets a 32-bit big-endian pattern as an IEEE-754 float.
func (d *Decoder) Float32() float32 {
	return math.Float32frombits(uint32(d.Int32()))
}

// Float64 reinterprets a 64-bit big-endian pattern as an IEEE-754 double.
func (d *Decoder) Float64() float64 {
	return math.Float64frombits(uint64(d.Int64()))
}

// Length reads a 16-bit signed length prefix. A negative prefix fails the
// window and yields 0.
func (d *Decoder) Length() int {
	n := d.Int16()
	if n < 0 {
		d.w.Fail(fmt.Errorf("%w: %d", ErrNegativeLength, n))
		return 0
	}
	return int(n)
}

// ShortString reads a length-prefixed string of single-byte code units.
// The bytes are kept as they are; no character set is applied.
func (d *Decoder) ShortString() string {
	n := d.Length()
	if n == 0 {
		return ""
	}
	b := d.w.Next(n)
	if b == nil {
		return ""
	}
	return string(b)
}

// WideString reads a length-prefixed string of UTF-16 code units.
// Surrogate halves pass through unchecked.
func (d *Decoder) WideString() WideString {
	n := d.Length()
	if n == 0 {
		return WideString{}
	}
	b := d.w.Next(2 * n)
	if b == nil {
		return nil
	}
	s := make(WideString, n)
	for i := range s {
		s[i] = binary.BigEndian.Uint16(b[2*i:])
	}
	return s
}

// Bytes reads n raw bytes into a fresh slice owned by the caller.
func (d *Decoder) Bytes(n int) []byte {
	if n < 0 {
		d.w.Fail(fmt.Errorf("%w: %d", ErrNegativeLength, n))
		return nil
	}
	if n == 0 {
		return []byte{}
	}
	b := d.w.Next(n)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// Fail forwards a schema-level error to the underlying window.
func (d *Decoder) Fail(err error) {
	d.w.Fail(err)
}

// Err reports whether the underlying window has failed. Loops whose end is
// marked in-band must check it, since a failed window reads as zeros.
func (d *Decoder) Err() error {
	return d.w.Err()
}
