package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/blockwire/blockwire/internal/session"
)

// commandPrefix marks a line as a local command rather than chat.
const commandPrefix = "."

var errQuit = errors.New("quit requested")

// actions is the part of a session the console drives.
type actions interface {
	Say(msg string) error
	Respawn() error
	DropItem() error
	SelectSlot(slot int) error
	NextSlot() error
	PrevSlot() error
	World() session.World
}

type console struct {
	actions actions
}

// exec runs one line of console input.
func (c *console) exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if !strings.HasPrefix(line, commandPrefix) {
		return c.actions.Say(line)
	}

	fields := strings.Fields(strings.TrimPrefix(line, commandPrefix))
	if len(fields) == 0 {
		return fmt.Errorf("empty command")
	}
	switch fields[0] {
	case "quit", "disconnect":
		return errQuit
	case "say":
		if len(fields) < 2 {
			return fmt.Errorf("usage: .say <message>")
		}
		return c.actions.Say(strings.Join(fields[1:], " "))
	case "respawn":
		return c.actions.Respawn()
	case "drop", "dropitem":
		return c.actions.DropItem()
	case "slot":
		if len(fields) != 2 {
			return fmt.Errorf("usage: .slot N|next|prev")
		}
		switch fields[1] {
		case "next":
			return c.actions.NextSlot()
		case "prev":
			return c.actions.PrevSlot()
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("invalid slot %q", fields[1])
		}
		return c.actions.SelectSlot(n)
	case "status":
		w := c.actions.World()
		log.Info().
			Bool("logged_in", w.LoggedIn).
			Int32("entity", w.EntityID).
			Int64("time", w.Time).
			Int16("health", w.Health).
			Int("entities", w.Entities).
			Float64("x", w.Position.X).
			Float64("y", w.Position.Y).
			Float64("z", w.Position.Z).
			Msg("status")
		return nil
	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
}
