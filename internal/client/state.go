package client

import (
	"errors"
	"fmt"
)

// State is the connection lifecycle of a Client.
type State int

const (
	// Disconnected means there is no socket. Only Connect is accepted.
	Disconnected State = iota
	// Connecting means the socket exists but no frame has arrived yet.
	Connecting
	// Connected means the server has been heard from.
	Connected
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	// ErrNotDisconnected is returned by Connect on a live client.
	ErrNotDisconnected = errors.New("client: already connected or connecting")

	// ErrNotConnected is returned by Disconnect on an idle client.
	ErrNotConnected = errors.New("client: not connected")
)
