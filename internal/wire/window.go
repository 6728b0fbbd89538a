package wire

// BytesWindow is a Window over a complete, in-memory byte slice.
type BytesWindow struct {
	buf []byte
	pos int
	err error
}

// NewBytesWindow creates a window over b.
func NewBytesWindow(b []byte) *BytesWindow {
	return &BytesWindow{buf: b}
}

// Next returns the next n bytes, or nil if fewer remain.
func (w *BytesWindow) Next(n int) []byte {
	if w.err != nil {
		return nil
	}
	if n < 0 {
		w.err = ErrNegativeLength
		return nil
	}
	if n > len(w.buf)-w.pos {
		w.err = ErrIncomplete
		return nil
	}
	b := w.buf[w.pos : w.pos+n]
	w.pos += n
	return b
}

// Fail records err unless the window already failed.
func (w *BytesWindow) Fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

// Err returns the first failure, if any.
func (w *BytesWindow) Err() error {
	return w.err
}

// Pos returns the number of bytes handed out so far.
func (w *BytesWindow) Pos() int {
	return w.pos
}
