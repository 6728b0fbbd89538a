package client

import "github.com/blockwire/blockwire/pkg/proto"

// Handler receives every frame the client decodes, in arrival order, after
// the frame's bytes have been consumed from the stream.
type Handler interface {
	HandleFrame(c *Client, f proto.Frame)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(c *Client, f proto.Frame)

// HandleFrame calls h(c, f).
func (h HandlerFunc) HandleFrame(c *Client, f proto.Frame) { h(c, f) }

// Mux routes frames to handlers by tag.
type Mux struct {
	routes   [256]HandlerFunc
	fallback HandlerFunc
}

// NewMux creates an empty Mux. Frames without a route are ignored until a
// fallback is set.
func NewMux() *Mux {
	return &Mux{}
}

// Handle routes frames with tag to h, replacing any earlier route.
func (m *Mux) Handle(tag proto.Tag, h HandlerFunc) {
	m.routes[tag] = h
}

// Fallback sets the handler for frames without a route.
func (m *Mux) Fallback(h HandlerFunc) {
	m.fallback = h
}

// HandleFrame implements Handler.
func (m *Mux) HandleFrame(c *Client, f proto.Frame) {
	if h := m.routes[f.Tag()]; h != nil {
		h(c, f)
		return
	}
	if m.fallback != nil {
		m.fallback(c, f)
	}
}
