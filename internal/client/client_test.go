package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/netip"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockwire/blockwire/internal/metrics"
	"github.com/blockwire/blockwire/internal/sock"
	"github.com/blockwire/blockwire/internal/wire"
	"github.com/blockwire/blockwire/pkg/proto"
)

type sendStep int

const (
	sendOK sendStep = iota
	sendWouldBlock
	sendPartial
	sendFail
)

// mockSocket is an in-memory sock.Socket. Bytes in `in` are what the server
// has delivered so far.
type mockSocket struct {
	in       []byte
	eof      bool
	peeks    int
	consumed int

	out      bytes.Buffer
	sends    int
	script   []sendStep
	blocking bool
	modes    []bool // every SetBlocking argument, in order
	// blockingAtSend records the blocking flag seen by each Send call.
	blockingAtSend []bool

	connectErr error
	connected  netip.AddrPort
	closed     bool
}

func (m *mockSocket) Connect(addr netip.AddrPort) error {
	m.connected = addr
	return m.connectErr
}

func (m *mockSocket) Peek(p []byte) (int, error) {
	if m.closed {
		return 0, sock.ErrNotOpen
	}
	m.peeks++
	if len(m.in) == 0 {
		if m.eof {
			return 0, io.EOF
		}
		return 0, wire.ErrWouldBlock
	}
	return copy(p, m.in), nil
}

func (m *mockSocket) Discard(n int) error {
	if n > len(m.in) {
		return errors.New("discard beyond pending")
	}
	m.in = m.in[n:]
	m.consumed += n
	return nil
}

func (m *mockSocket) Send(p []byte) (int, error) {
	m.sends++
	m.blockingAtSend = append(m.blockingAtSend, m.blocking)
	step := sendOK
	if len(m.script) > 0 {
		step, m.script = m.script[0], m.script[1:]
	}
	switch step {
	case sendWouldBlock:
		return 0, wire.ErrWouldBlock
	case sendPartial:
		n := len(p) / 2
		m.out.Write(p[:n])
		return n, nil
	case sendFail:
		return 0, errors.New("connection reset by peer")
	}
	m.out.Write(p)
	return len(p), nil
}

func (m *mockSocket) SetBlocking(blocking bool) error {
	m.blocking = blocking
	m.modes = append(m.modes, blocking)
	return nil
}

func (m *mockSocket) Close() error {
	m.closed = true
	return nil
}

func (m *mockSocket) deliver(b []byte) { m.in = append(m.in, b...) }

// mockFactory hands out a fresh mockSocket per connection.
type mockFactory struct {
	sockets []*mockSocket
	next    func() *mockSocket
}

func (f *mockFactory) New() (sock.Socket, error) {
	s := &mockSocket{}
	if f.next != nil {
		s = f.next()
	}
	f.sockets = append(f.sockets, s)
	return s, nil
}

func (f *mockFactory) last() *mockSocket { return f.sockets[len(f.sockets)-1] }

type staticResolver struct {
	err error
}

func (r staticResolver) Resolve(_ context.Context, _ string, port uint16) (netip.AddrPort, error) {
	if r.err != nil {
		return netip.AddrPort{}, r.err
	}
	return netip.AddrPortFrom(netip.MustParseAddr("127.0.0.1"), port), nil
}

// recorder collects dispatched frames.
type recorder struct {
	frames []proto.Frame
}

func (r *recorder) HandleFrame(_ *Client, f proto.Frame) { r.frames = append(r.frames, f) }

func newTestClient(t *testing.T, h Handler) (*Client, *mockFactory) {
	t.Helper()
	f := &mockFactory{}
	c := New(Options{Sockets: f, Resolver: staticResolver{}, Handler: h})
	require.NoError(t, c.Connect(context.Background(), "localhost", 25565))
	return c, f
}

func marshalAll(frames ...proto.Frame) ([]byte, []int) {
	var out []byte
	var ends []int
	for _, f := range frames {
		out = append(out, proto.Marshal(f)...)
		ends = append(ends, len(out))
	}
	return out, ends
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "disconnected", Disconnected.String())
	assert.Equal(t, "connecting", Connecting.String())
	assert.Equal(t, "connected", Connected.String())
	assert.Equal(t, "state(7)", State(7).String())
}

func TestConnect(t *testing.T) {
	c, f := newTestClient(t, nil)
	assert.Equal(t, Connecting, c.State())
	assert.Equal(t, netip.MustParseAddrPort("127.0.0.1:25565"), f.last().connected)
	assert.NotEmpty(t, c.Session())

	err := c.Connect(context.Background(), "localhost", 25565)
	assert.ErrorIs(t, err, ErrNotDisconnected)
	assert.Len(t, f.sockets, 1)
}

func TestConnect_SocketFailureStaysDisconnected(t *testing.T) {
	f := &mockFactory{next: func() *mockSocket {
		return &mockSocket{connectErr: errors.New("network unreachable")}
	}}
	c := New(Options{Sockets: f, Resolver: staticResolver{}})

	err := c.Connect(context.Background(), "localhost", 25565)
	require.Error(t, err)
	assert.Equal(t, Disconnected, c.State())
	assert.True(t, f.last().closed)
}

func TestConnect_ResolveFailure(t *testing.T) {
	f := &mockFactory{}
	c := New(Options{Sockets: f, Resolver: staticResolver{err: errors.New("nxdomain")}})

	err := c.Connect(context.Background(), "nowhere", 25565)
	require.Error(t, err)
	assert.Equal(t, Disconnected, c.State())
	assert.Empty(t, f.sockets)
}

func TestPoll_DisconnectedIsNoop(t *testing.T) {
	f := &mockFactory{}
	c := New(Options{Sockets: f, Resolver: staticResolver{}})
	c.Poll()
	assert.Equal(t, Disconnected, c.State())
	assert.Empty(t, f.sockets)
}

func TestPoll_AtomicAtEverySplitPoint(t *testing.T) {
	frames := []proto.Frame{
		&proto.Chat{Message: wire.WideFromString("hello")},
		&proto.SpawnPosition{X: 1, Y: 64, Z: -3},
		&proto.MobSpawn{EntityID: 9, Type: 90, X: 1, Y: 2, Z: 3, Metadata: proto.Metadata{
			{Key: 0, Type: proto.MetaByte, Value: int8(0)},
			{Key: 16, Type: proto.MetaString, Value: wire.WideFromString("x")},
		}},
		&proto.WindowItems{Window: 0, Items: []proto.ItemStack{{ID: proto.EmptySlot}, {ID: 3, Count: 1}}},
		&proto.TimeUpdate{Time: 6000},
	}
	stream, ends := marshalAll(frames...)

	for split := 0; split <= len(stream); split++ {
		rec := &recorder{}
		c, f := newTestClient(t, rec)
		s := f.last()

		s.deliver(stream[:split])
		c.Poll()

		complete := 0
		boundary := 0
		for _, e := range ends {
			if e <= split {
				complete++
				boundary = e
			}
		}
		require.Len(t, rec.frames, complete, "split %d", split)
		require.Equal(t, boundary, s.consumed, "split %d: consumed only whole frames", split)
		require.NotEqual(t, Disconnected, c.State(), "split %d", split)

		s.deliver(stream[split:])
		c.Poll()

		require.Equal(t, len(stream), s.consumed, "split %d", split)
		require.Equal(t, frames, rec.frames, "split %d", split)
	}
}

func TestPoll_PartialFrameNotDispatched(t *testing.T) {
	rec := &recorder{}
	c, f := newTestClient(t, rec)
	s := f.last()

	frame := proto.Marshal(&proto.Kick{Reason: wire.WideFromString("bye")})
	s.deliver(frame[:len(frame)-1])
	for i := 0; i < 3; i++ {
		c.Poll()
	}
	assert.Empty(t, rec.frames)
	assert.Zero(t, s.consumed)
	assert.Equal(t, Connecting, c.State(), "no frame yet, so not promoted")

	s.deliver(frame[len(frame)-1:])
	c.Poll()
	require.Len(t, rec.frames, 1)
	assert.Equal(t, Connected, c.State())
}

func TestPoll_KeepAliveEchoed(t *testing.T) {
	rec := &recorder{}
	c, f := newTestClient(t, rec)
	s := f.last()

	s.deliver([]byte{0x00})
	c.Poll()

	assert.Equal(t, []byte{0x00}, s.out.Bytes())
	assert.Equal(t, 1, s.consumed)
	received, sent := c.Traffic()
	assert.Equal(t, int64(1), received)
	assert.Equal(t, int64(1), sent)
	assert.Equal(t, Connected, c.State())
	assert.Empty(t, rec.frames, "keep-alive is answered, not dispatched")
}

func TestPoll_KeepAliveBetweenFrames(t *testing.T) {
	rec := &recorder{}
	c, f := newTestClient(t, rec)
	s := f.last()

	chat, _ := marshalAll(&proto.Chat{Message: wire.WideFromString("a")})
	health, _ := marshalAll(&proto.UpdateHealth{Health: 7})
	in := append(append(append([]byte{}, chat...), 0x00), health...)
	s.deliver(in)
	c.Poll()

	assert.Equal(t, []byte{0x00}, s.out.Bytes())
	require.Len(t, rec.frames, 2)
	assert.IsType(t, &proto.Chat{}, rec.frames[0])
	assert.IsType(t, &proto.UpdateHealth{}, rec.frames[1])
}

func TestPoll_UnknownTagTearsDown(t *testing.T) {
	rec := &recorder{}
	c, f := newTestClient(t, rec)
	s := f.last()

	chat, _ := marshalAll(&proto.Chat{Message: wire.WideFromString("hi")})
	s.deliver(append(chat, 0xFE, 0x00, 0x00))
	c.Enqueue(&proto.Chat{Message: wire.WideFromString("unsent")})
	c.Poll()

	require.Len(t, rec.frames, 1, "frames before the bad tag are delivered")
	assert.Equal(t, Disconnected, c.State())
	assert.True(t, s.closed)
	assert.Zero(t, s.out.Len(), "nothing is written after a desync")
	assert.Zero(t, c.Pending())
}

func TestOnDrop_ReportsReason(t *testing.T) {
	tests := []struct {
		name   string
		input  []byte
		eof    bool
		reason string
	}{
		{name: "unknown tag", input: []byte{0xFE}, reason: "unknown_tag"},
		{name: "negative length", input: []byte{byte(proto.TagChat), 0x80, 0x00}, reason: "desync"},
		{name: "bad metadata", input: []byte{byte(proto.TagEntityMetadata), 0, 0, 0, 1, 0xE0}, reason: "desync"},
		{name: "peer closed", eof: true, reason: "closed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reasons []string
			f := &mockFactory{}
			c := New(Options{
				Sockets:  f,
				Resolver: staticResolver{},
				OnDrop: func(c *Client, reason string, err error) {
					assert.Equal(t, Disconnected, c.State())
					assert.Error(t, err)
					reasons = append(reasons, reason)
				},
			})
			require.NoError(t, c.Connect(context.Background(), "localhost", 25565))
			f.last().deliver(tt.input)
			f.last().eof = tt.eof

			c.Poll()
			assert.Equal(t, []string{tt.reason}, reasons)
		})
	}
}

func TestOnDrop_NotCalledOnDisconnect(t *testing.T) {
	called := false
	f := &mockFactory{}
	c := New(Options{Sockets: f, Resolver: staticResolver{}, OnDrop: func(*Client, string, error) { called = true }})
	require.NoError(t, c.Connect(context.Background(), "localhost", 25565))
	require.NoError(t, c.Disconnect())
	assert.False(t, called)
}

func TestPoll_ServerClosed(t *testing.T) {
	c, f := newTestClient(t, nil)
	s := f.last()
	s.eof = true

	c.Poll()
	assert.Equal(t, Disconnected, c.State())
	assert.True(t, s.closed)
}

func TestPoll_FrameTooLarge(t *testing.T) {
	f := &mockFactory{}
	c := New(Options{Sockets: f, Resolver: staticResolver{}, StagingSize: 16})
	require.NoError(t, c.Connect(context.Background(), "localhost", 25565))

	f.last().deliver(proto.Marshal(&proto.Chat{Message: wire.WideFromString("this message is too long")}))
	c.Poll()
	assert.Equal(t, Disconnected, c.State())
}

func TestPoll_MalformedLengthTearsDown(t *testing.T) {
	c, f := newTestClient(t, nil)
	f.last().deliver([]byte{byte(proto.TagChat), 0xFF, 0xFF})
	c.Poll()
	assert.Equal(t, Disconnected, c.State())
}

func TestEnqueue_WrittenInOrder(t *testing.T) {
	c, f := newTestClient(t, nil)
	s := f.last()

	frames := []proto.Frame{
		&proto.Handshake{Value: wire.WideFromString("steve")},
		&proto.HoldingChange{Slot: 3},
		&proto.Chat{Message: wire.WideFromString("hi")},
	}
	for _, fr := range frames {
		c.Enqueue(fr)
	}
	assert.Equal(t, 3, c.Pending())
	assert.Zero(t, s.out.Len(), "nothing is sent before Poll")

	c.Poll()
	want, _ := marshalAll(frames...)
	assert.Equal(t, want, s.out.Bytes())
	assert.Zero(t, c.Pending())

	_, sent := c.Traffic()
	assert.Equal(t, int64(len(want)), sent)
}

func TestEnqueue_DroppedWhenDisconnected(t *testing.T) {
	c := New(Options{Sockets: &mockFactory{}, Resolver: staticResolver{}})
	c.Enqueue(&proto.Chat{Message: wire.WideFromString("lost")})
	assert.Zero(t, c.Pending())
}

func TestWriter_WouldBlockFallsBackToBlocking(t *testing.T) {
	c, f := newTestClient(t, nil)
	s := f.last()
	s.script = []sendStep{sendWouldBlock}

	c.Enqueue(&proto.Chat{Message: wire.WideFromString("hi")})
	c.Poll()

	assert.Equal(t, proto.Marshal(&proto.Chat{Message: wire.WideFromString("hi")}), s.out.Bytes())
	assert.Equal(t, []bool{true, false}, s.modes)
	assert.Equal(t, []bool{false, true}, s.blockingAtSend)
	assert.NotEqual(t, Disconnected, c.State())
}

func TestWriter_PartialSendFinishesBlocking(t *testing.T) {
	c, f := newTestClient(t, nil)
	s := f.last()
	s.script = []sendStep{sendPartial}

	frame := &proto.Chat{Message: wire.WideFromString("a longer chat line")}
	c.Enqueue(frame)
	c.Poll()

	assert.Equal(t, proto.Marshal(frame), s.out.Bytes())
	assert.Equal(t, []bool{true, false}, s.modes)
	assert.Equal(t, 2, s.sends)
}

func TestWriter_SendErrorDisconnects(t *testing.T) {
	c, f := newTestClient(t, nil)
	s := f.last()
	s.script = []sendStep{sendFail}

	c.Enqueue(&proto.KeepAlive{})
	c.Enqueue(&proto.KeepAlive{})
	c.Poll()

	assert.Equal(t, Disconnected, c.State())
	assert.True(t, s.closed)
	assert.Equal(t, 1, s.sends)
	assert.Zero(t, c.Pending())
}

func TestDisconnect_Sequence(t *testing.T) {
	c, f := newTestClient(t, nil)
	s := f.last()
	c.MarkConnected()
	// The first send of the final frame would block.
	s.script = []sendStep{sendWouldBlock}

	c.Enqueue(&proto.Chat{Message: wire.WideFromString("never sent")})
	require.NoError(t, c.Disconnect())

	kick := proto.Marshal(&proto.Kick{Reason: wire.WideFromString(QuitReason)})
	assert.Equal(t, kick, s.out.Bytes(), "exactly one Kick, nothing queued before it")
	require.NotEmpty(t, s.modes)
	assert.True(t, s.modes[0], "socket switched to blocking before the write")
	assert.True(t, s.blockingAtSend[0])
	assert.True(t, s.closed)
	assert.Equal(t, Disconnected, c.State())
	assert.Zero(t, c.Pending())

	assert.ErrorIs(t, c.Disconnect(), ErrNotConnected)
}

func TestDisconnect_FromConnecting(t *testing.T) {
	c, f := newTestClient(t, nil)
	require.Equal(t, Connecting, c.State())
	require.NoError(t, c.Disconnect())
	assert.Equal(t, Disconnected, c.State())
	assert.True(t, f.last().closed)
}

func TestDisconnect_FromHandlerStopsDispatch(t *testing.T) {
	mux := NewMux()
	var seen []proto.Tag
	mux.Fallback(func(c *Client, f proto.Frame) { seen = append(seen, f.Tag()) })
	mux.Handle(proto.TagKick, func(c *Client, f proto.Frame) {
		seen = append(seen, f.Tag())
		require.NoError(t, c.Disconnect())
	})

	c, fac := newTestClient(t, mux)
	s := fac.last()
	stream, ends := marshalAll(
		&proto.TimeUpdate{Time: 1},
		&proto.Kick{Reason: wire.WideFromString("Server closed")},
		&proto.Chat{Message: wire.WideFromString("after")},
	)
	s.deliver(stream)
	c.Poll()

	assert.Equal(t, []proto.Tag{proto.TagTimeUpdate, proto.TagKick}, seen)
	assert.Equal(t, ends[1], s.consumed)
	assert.Equal(t, Disconnected, c.State())
}

func TestReconnect_UsesFreshSocket(t *testing.T) {
	c, f := newTestClient(t, nil)
	first := c.Session()
	require.NoError(t, c.Disconnect())

	require.NoError(t, c.Connect(context.Background(), "localhost", 25566))
	require.Len(t, f.sockets, 2)
	assert.NotSame(t, f.sockets[0], f.sockets[1])
	assert.False(t, f.last().closed)
	assert.NotEqual(t, first, c.Session())
	assert.Equal(t, uint16(25566), c.Addr().Port())
}

func TestMux(t *testing.T) {
	mux := NewMux()
	var chats, other int
	mux.Handle(proto.TagChat, func(*Client, proto.Frame) { chats++ })

	mux.HandleFrame(nil, &proto.Chat{})
	mux.HandleFrame(nil, &proto.KeepAlive{})
	assert.Equal(t, 1, chats)

	mux.Fallback(func(*Client, proto.Frame) { other++ })
	mux.HandleFrame(nil, &proto.KeepAlive{})
	mux.HandleFrame(nil, &proto.Chat{})
	assert.Equal(t, 2, chats)
	assert.Equal(t, 1, other)
}

func counterValue(t *testing.T, c prometheus.Collector) float64 {
	t.Helper()
	ch := make(chan prometheus.Metric, 1)
	c.Collect(ch)
	var pb dto.Metric
	require.NoError(t, (<-ch).Write(&pb))
	if pb.Counter != nil {
		return pb.GetCounter().GetValue()
	}
	return pb.GetGauge().GetValue()
}

func TestMetrics_Recorded(t *testing.T) {
	old := metrics.Registry
	metrics.Registry = prometheus.NewRegistry()
	t.Cleanup(func() { metrics.Registry = old })

	m := metrics.InitMetrics("127.0.0.1:25565", "steve", "test")
	f := &mockFactory{}
	c := New(Options{Sockets: f, Resolver: staticResolver{}, Metrics: m})
	require.NoError(t, c.Connect(context.Background(), "localhost", 25565))
	assert.Equal(t, float64(Connecting), counterValue(t, m.ConnectionState))

	s := f.last()
	chat := proto.Marshal(&proto.Chat{Message: wire.WideFromString("hi")})
	s.deliver(append([]byte{0x00}, chat[:2]...))
	s.script = []sendStep{sendWouldBlock}
	c.Poll()

	assert.Equal(t, float64(Connected), counterValue(t, m.ConnectionState))
	assert.Equal(t, 1.0, counterValue(t, m.FramesReceived.WithLabelValues("keep_alive")))
	assert.Equal(t, 1.0, counterValue(t, m.FramesSent.WithLabelValues("keep_alive")))
	assert.Equal(t, 1.0, counterValue(t, m.BytesReceived))
	assert.Equal(t, 1.0, counterValue(t, m.DecodeAborts.WithLabelValues("partial")))
	assert.Equal(t, 1.0, counterValue(t, m.BlockingFallbacks))

	require.NoError(t, c.Disconnect())
	assert.Equal(t, float64(Disconnected), counterValue(t, m.ConnectionState))
	assert.Equal(t, 1.0, counterValue(t, m.Disconnects.WithLabelValues("quit")))
}
