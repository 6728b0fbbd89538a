package client

import (
	"errors"
	"fmt"

	"github.com/blockwire/blockwire/internal/wire"
	"github.com/blockwire/blockwire/pkg/proto"
)

// flush writes queued frames in order. A write error drops the connection
// and the rest of the queue with it.
func (c *Client) flush() {
	for c.state != Disconnected && c.out.Length() > 0 {
		f := c.out.Remove().(proto.Frame)
		if err := c.write(f); err != nil {
			c.drop("write_error", err)
			return
		}
	}
}

// write encodes and sends one frame. Writes are suppressed while
// disconnected, except for the final frame of a disconnect.
func (c *Client) write(f proto.Frame) error {
	if c.sock == nil || (c.state == Disconnected && !c.disconnecting) {
		return nil
	}

	c.enc.Reset()
	proto.Append(c.enc, f)
	b := c.enc.Bytes()

	if err := c.send(b); err != nil {
		return fmt.Errorf("write %s: %w", f.Tag(), err)
	}
	c.sent += int64(len(b))
	c.opts.Metrics.FrameSent(f.Tag().String(), len(b))
	c.log.Trace().Str("tag", f.Tag().String()).Int("bytes", len(b)).Msg("frame sent")
	return nil
}

// send writes b with the non-blocking socket, finishing in blocking mode
// when the socket cannot take all of it right away.
func (c *Client) send(b []byte) error {
	n, err := c.sock.Send(b)
	switch {
	case errors.Is(err, wire.ErrWouldBlock):
		c.log.Debug().Int("bytes", len(b)).Msg("send would block, retrying in blocking mode")
		return c.sendBlocking(b)
	case err != nil:
		return err
	case n < len(b):
		c.log.Debug().Int("sent", n).Int("bytes", len(b)).Msg("partial send, finishing in blocking mode")
		return c.sendBlocking(b[n:])
	}
	return nil
}

func (c *Client) sendBlocking(b []byte) error {
	c.opts.Metrics.BlockingFallback()
	if err := c.sock.SetBlocking(true); err != nil {
		return fmt.Errorf("set blocking: %w", err)
	}
	for len(b) > 0 {
		n, err := c.sock.Send(b)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("send made no progress")
		}
		b = b[n:]
	}
	if c.disconnecting {
		return nil
	}
	if err := c.sock.SetBlocking(false); err != nil {
		return fmt.Errorf("set nonblocking: %w", err)
	}
	return nil
}
