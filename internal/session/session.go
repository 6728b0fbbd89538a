// Package session logs a player into a server over a client.Client and
// exposes the handful of actions a console user can take.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/blockwire/blockwire/internal/client"
	"github.com/blockwire/blockwire/internal/wire"
	"github.com/blockwire/blockwire/pkg/proto"
)

// OfflineHash is the connection hash of a server that does not verify
// accounts.
const OfflineHash = "-"

// HotbarSlots is the number of selectable hotbar slots.
const HotbarSlots = 9

var (
	// ErrNotConnected is returned by actions that need a logged-in link.
	ErrNotConnected = errors.New("session: not connected")

	// ErrBadSlot is returned by SelectSlot for a slot outside the hotbar.
	ErrBadSlot = errors.New("session: slot out of range")
)

// Session is the login collaborator of one client. It implements
// client.Handler.
type Session struct {
	username string
	client   *client.Client
	mux      *client.Mux
	world    World
	slot     int16
}

// New creates a session that logs in as username.
func New(username string) *Session {
	s := &Session{username: username}
	s.mux = client.NewMux()
	s.routes()
	return s
}

// HandleFrame implements client.Handler.
func (s *Session) HandleFrame(c *client.Client, f proto.Frame) {
	s.mux.HandleFrame(c, f)
}

// World returns a snapshot of what the server has told the session.
func (s *Session) World() World {
	w := s.world
	w.Entities = len(s.world.entities)
	w.entities = nil
	return w
}

// Join connects c to host:port and queues the opening handshake. c must
// have been created with s as its handler.
func (s *Session) Join(ctx context.Context, c *client.Client, host string, port uint16) error {
	if err := c.Connect(ctx, host, port); err != nil {
		return fmt.Errorf("connect %s:%d: %w", host, port, err)
	}
	s.client = c
	s.world = World{}
	s.slot = 0
	c.Enqueue(&proto.Handshake{Value: wire.WideFromString(s.username)})
	return nil
}

// Leave disconnects the client.
func (s *Session) Leave() error {
	if s.client == nil {
		return ErrNotConnected
	}
	return s.client.Disconnect()
}

// Say sends a chat line.
func (s *Session) Say(msg string) error {
	if err := s.connected(); err != nil {
		return err
	}
	s.client.Enqueue(&proto.Chat{Message: wire.WideFromString(msg)})
	return nil
}

// Respawn asks the server to respawn the player in the overworld.
func (s *Session) Respawn() error {
	if err := s.connected(); err != nil {
		return err
	}
	s.client.Enqueue(&proto.Respawn{Dimension: 0})
	return nil
}

// DropItem drops the held item.
func (s *Session) DropItem() error {
	if err := s.connected(); err != nil {
		return err
	}
	s.client.Enqueue(&proto.BlockDig{Status: proto.DigDropItem})
	return nil
}

// SelectSlot changes the held hotbar slot.
func (s *Session) SelectSlot(slot int) error {
	if slot < 0 || slot >= HotbarSlots {
		return fmt.Errorf("%w: %d", ErrBadSlot, slot)
	}
	if err := s.connected(); err != nil {
		return err
	}
	s.slot = int16(slot)
	s.client.Enqueue(&proto.HoldingChange{Slot: s.slot})
	return nil
}

// NextSlot selects the slot after the current one, wrapping around.
func (s *Session) NextSlot() error {
	return s.SelectSlot((int(s.slot) + 1) % HotbarSlots)
}

// PrevSlot selects the slot before the current one, wrapping around.
func (s *Session) PrevSlot() error {
	return s.SelectSlot((int(s.slot) + HotbarSlots - 1) % HotbarSlots)
}

func (s *Session) connected() error {
	if s.client == nil || s.client.State() != client.Connected {
		return ErrNotConnected
	}
	return nil
}
