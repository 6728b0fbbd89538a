package wire

import "unicode/utf16"

// WideString holds UTF-16 code units exactly as they crossed the wire.
type WideString []uint16

// WideFromString converts a Go string to UTF-16 code units.
func WideFromString(s string) WideString {
	return WideString(utf16.Encode([]rune(s)))
}

// String renders the code units as a Go string. Unpaired surrogates become
// U+FFFD here only; the code units themselves are left alone.
func (w WideString) String() string {
	return string(utf16.Decode(w))
}
