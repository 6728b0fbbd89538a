package wire

import (
	"encoding/binary"
	"math"
)

// Encoder appends typed fields to a growable buffer.
//
// Appending cannot fail, so no method returns an error. Strings longer than
// MaxStringLength units are truncated to fit their prefix.
type Encoder struct {
	buf []byte
}

// NewEncoder creates an encoder with a small initial capacity.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 64)}
}

// Bytes returns the encoded bytes. The slice is valid until the next Reset.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Len returns the number of encoded bytes.
func (e *Encoder) Len() int {
	return len(e.buf)
}

// Reset empties the encoder and keeps its buffer.
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

// WriteUint8 appends one unsigned byte.
func (e *Encoder) WriteUint8(v uint8) {
	e.buf = append(e.buf, v)
}

// WriteInt8 appends one signed byte.
func (e *Encoder) WriteInt8(v int8) {
	e.buf = append(e.buf, byte(v))
}

// WriteBool appends 1 or 0.
func (e *Encoder) WriteBool(v bool) {
	if v {
		e.buf = append(e.buf, 1)
		return
	}
	e.buf = append(e.buf, 0)
}

// WriteInt16 appends a big-endian 16-bit integer.
func (e *Encoder) WriteInt16(v int16) {
	e.buf = binary.BigEndian.AppendUint16(e.buf, uint16(v))
}

// WriteInt32 appends a big-endian 32-bit integer.
func (e *Encoder) WriteInt32(v int32) {
	e.buf = binary.BigEndian.AppendUint32(e.buf, uint32(v))
}

// WriteInt64 appends a big-endian 64-bit integer.
func (e *Encoder) WriteInt64(v int64) {
	e.buf = binary.BigEndian.AppendUint64(e.buf, uint64(v))
}

// WriteFloat32 appends the bit pattern of v.
func (e *Encoder) WriteFloat32(v float32) {
	e.buf = binary.BigEndian.AppendUint32(e.buf, math.Float32bits(v))
}

// WriteFloat64 appends the bit pattern of v.
func (e *Encoder) WriteFloat64(v float64) {
	e.buf = binary.BigEndian.AppendUint64(e.buf, math.Float64bits(v))
}

// WriteShortString appends a 16-bit length and the raw bytes of s.
func (e *Encoder) WriteShortString(s string) {
	if len(s) > MaxStringLength {
		s = s[:MaxStringLength]
	}
	e.WriteInt16(int16(len(s)))
	e.buf = append(e.buf, s...)
}

// WriteWideString appends a 16-bit length and the code units of s.
func (e *Encoder) WriteWideString(s WideString) {
	if len(s) > MaxStringLength {
		s = s[:MaxStringLength]
	}
	e.WriteInt16(int16(len(s)))
	for _, u := range s {
		e.buf = binary.BigEndian.AppendUint16(e.buf, u)
	}
}

// WriteBytes appends b without a prefix.
func (e *Encoder) WriteBytes(b []byte) {
	e.buf = append(e.buf, b...)
}
