// Package client drives one connection to a game server: it decodes frames
// from a speculatively read socket, dispatches them in order, and writes
// queued frames back.
//
// A Client is not safe for concurrent use. The host calls Poll from its main
// loop and observes the outcome through State; errors on the connection
// never escape Poll.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/netip"

	"github.com/eapache/queue"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/blockwire/blockwire/internal/metrics"
	"github.com/blockwire/blockwire/internal/resolve"
	"github.com/blockwire/blockwire/internal/sock"
	"github.com/blockwire/blockwire/internal/wire"
	"github.com/blockwire/blockwire/pkg/bytesize"
	"github.com/blockwire/blockwire/pkg/proto"
)

// QuitReason is sent in the Kick frame that ends a client-initiated
// disconnect.
const QuitReason = "Quitting"

// SocketFactory creates a fresh, unconnected socket per connection.
type SocketFactory interface {
	New() (sock.Socket, error)
}

// Resolver maps a host and port to an IPv4 socket address.
type Resolver interface {
	Resolve(ctx context.Context, host string, port uint16) (netip.AddrPort, error)
}

// Options configures a Client.
type Options struct {
	// Sockets creates the socket for each connection. Defaults to a
	// buffered sock.Dialer.
	Sockets SocketFactory
	// Resolver defaults to a plain resolve.Resolver.
	Resolver Resolver
	// Handler receives decoded frames. It may be nil.
	Handler Handler
	// Metrics may be nil.
	Metrics *metrics.ClientMetrics
	// StagingSize bounds the size of one frame; zero selects
	// wire.DefaultStagingSize.
	StagingSize int
	// OnDrop, if set, is called after the connection is torn down by an
	// error. reason is the same label used for the disconnect metric.
	OnDrop func(c *Client, reason string, err error)
}

// Client is a connection to one server at a time.
type Client struct {
	opts Options

	state         State
	disconnecting bool

	sock   sock.Socket
	reader *wire.Speculative
	dec    *wire.Decoder
	enc    *wire.Encoder
	out    *queue.Queue

	addr     netip.AddrPort
	session  string
	received int64
	sent     int64
	log      zerolog.Logger
}

// New creates a disconnected client.
func New(opts Options) *Client {
	if opts.Sockets == nil {
		opts.Sockets = sock.Dialer{Transport: sock.TransportBuffered}
	}
	if opts.Resolver == nil {
		opts.Resolver = &resolve.Resolver{}
	}
	if opts.StagingSize <= 0 {
		opts.StagingSize = wire.DefaultStagingSize
	}
	return &Client{
		opts: opts,
		enc:  wire.NewEncoder(),
		out:  queue.New(),
		log:  log.Logger,
	}
}

// State returns the current connection state.
func (c *Client) State() State { return c.state }

// Session returns the id of the current or last connection.
func (c *Client) Session() string { return c.session }

// Addr returns the address of the current or last connection.
func (c *Client) Addr() netip.AddrPort { return c.addr }

// Traffic returns the frame bytes received and sent on the current or last
// connection.
func (c *Client) Traffic() (received, sent int64) { return c.received, c.sent }

// Connect resolves host and starts connecting to it. The client moves to
// Connecting once the socket is open; the handshake completes in the
// background and is observed by Poll.
func (c *Client) Connect(ctx context.Context, host string, port uint16) error {
	if c.state != Disconnected {
		return ErrNotDisconnected
	}

	addr, err := c.opts.Resolver.Resolve(ctx, host, port)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", host, err)
	}

	s, err := c.opts.Sockets.New()
	if err != nil {
		return fmt.Errorf("create socket: %w", err)
	}
	if err := s.Connect(addr); err != nil {
		_ = s.Close()
		return err
	}

	c.sock = s
	c.reader = wire.NewSpeculative(s, c.opts.StagingSize)
	c.dec = wire.NewDecoder(c.reader)
	c.out = queue.New()
	c.addr = addr
	c.session = uuid.NewString()
	c.received, c.sent = 0, 0
	c.log = log.With().
		Str("session", c.session).
		Str("server", addr.String()).
		Logger()
	c.setState(Connecting)

	c.log.Info().Str("host", host).Msg("connecting")
	return nil
}

// MarkConnected promotes a Connecting client to Connected. It lets a
// collaborator that knows the handshake succeeded skip waiting for the
// first frame.
func (c *Client) MarkConnected() {
	if c.state == Connecting {
		c.setState(Connected)
		c.log.Info().Msg("connected")
	}
}

// Enqueue appends f to the outbound queue. Frames are written at the end of
// the next Poll, in the order they were enqueued. Frames enqueued while
// disconnected are dropped.
func (c *Client) Enqueue(f proto.Frame) {
	if c.state == Disconnected && !c.disconnecting {
		c.log.Debug().Str("tag", f.Tag().String()).Msg("not connected, dropping frame")
		return
	}
	c.out.Add(f)
}

// Pending returns the number of queued frames.
func (c *Client) Pending() int { return c.out.Length() }

// Poll decodes and dispatches every complete frame the socket holds, then
// flushes the outbound queue. It returns immediately when disconnected.
func (c *Client) Poll() {
	if c.state == Disconnected {
		return
	}
	for c.state != Disconnected && c.readFrame() {
	}
	c.flush()
}

// readFrame runs one decode attempt. It reports whether a frame was
// consumed and the loop should try again.
func (c *Client) readFrame() bool {
	c.reader.Begin()

	tag := proto.Tag(c.dec.Uint8())
	if err := c.reader.Err(); err != nil {
		c.aborted(err)
		return false
	}

	f, err := proto.Decode(tag, c.dec)
	if err != nil {
		c.drop("unknown_tag", err)
		return false
	}

	n, err := c.reader.Commit()
	if err != nil {
		c.aborted(fmt.Errorf("decode %s: %w", tag, err))
		return false
	}

	c.received += int64(n)
	c.opts.Metrics.FrameReceived(tag.String(), n)
	c.log.Trace().Str("tag", tag.String()).Int("bytes", n).Msg("frame received")
	if c.state == Connecting {
		c.MarkConnected()
	}

	if tag == proto.TagKeepAlive {
		c.Enqueue(&proto.KeepAlive{})
		return true
	}
	if c.opts.Handler != nil {
		c.opts.Handler.HandleFrame(c, f)
	}
	return true
}

// aborted classifies a decode attempt that produced no frame.
func (c *Client) aborted(err error) {
	switch {
	case wire.IsTransient(err):
		// A frame that has started arriving is worth counting; an empty
		// socket is the normal end of every poll.
		if c.reader.Checkpoint().Consumed > 0 {
			c.opts.Metrics.DecodeAborted("partial")
		}
	case errors.Is(err, wire.ErrClosed):
		c.opts.Metrics.DecodeAborted("closed")
		c.drop("closed", err)
	case errors.Is(err, wire.ErrFrameTooLarge):
		c.opts.Metrics.DecodeAborted("too_large")
		c.drop("desync", err)
	case errors.Is(err, wire.ErrNegativeLength), errors.Is(err, proto.ErrBadMetadata):
		c.opts.Metrics.DecodeAborted("malformed")
		c.drop("desync", err)
	default:
		c.opts.Metrics.DecodeAborted("io")
		c.drop("read_error", err)
	}
}

// Disconnect ends the connection from the client side. Queued frames are
// discarded and a single Kick frame is written in blocking mode before the
// socket is released.
func (c *Client) Disconnect() error {
	if c.state == Disconnected {
		return ErrNotConnected
	}

	if dropped := c.out.Length(); dropped > 0 {
		c.log.Debug().Int("frames", dropped).Msg("discarding unsent frames")
	}
	c.out = queue.New()

	c.disconnecting = true
	defer func() { c.disconnecting = false }()
	c.setState(Disconnected)

	var err error
	if serr := c.sock.SetBlocking(true); serr != nil {
		err = fmt.Errorf("set blocking: %w", serr)
	} else {
		err = c.write(&proto.Kick{Reason: wire.WideFromString(QuitReason)})
	}

	c.release()
	c.opts.Metrics.Disconnected("quit")
	c.log.Info().
		Str("received", bytesize.Format(c.received)).
		Str("sent", bytesize.Format(c.sent)).
		Msg("disconnected")
	return err
}

// drop tears the connection down after a fatal error without notifying the
// server.
func (c *Client) drop(reason string, err error) {
	if c.sock == nil {
		return
	}
	ev := c.log.Warn()
	if errors.Is(err, wire.ErrClosed) {
		ev = c.log.Info()
	}
	ev.Err(err).
		Str("reason", reason).
		Str("received", bytesize.Format(c.received)).
		Str("sent", bytesize.Format(c.sent)).
		Msg("connection lost")
	c.opts.Metrics.Disconnected(reason)
	c.release()
	if c.opts.OnDrop != nil {
		c.opts.OnDrop(c, reason, err)
	}
}

// release closes the socket and resets all per-connection state.
func (c *Client) release() {
	if c.sock != nil {
		if err := c.sock.Close(); err != nil {
			c.log.Debug().Err(err).Msg("close socket")
		}
	}
	c.sock = nil
	if c.reader != nil {
		c.reader.Reset()
	}
	c.reader = nil
	c.dec = nil
	c.out = queue.New()
	c.setState(Disconnected)
}

func (c *Client) setState(s State) {
	c.state = s
	c.opts.Metrics.SetState(int(s))
}
