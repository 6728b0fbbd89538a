//go:build !linux

package sock

func newPeekSocket() (Socket, error) {
	return nil, ErrUnsupported
}
