// Package metrics provides Prometheus metrics for the blockwire client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the Prometheus registry for all blockwire metrics.
var Registry = prometheus.NewRegistry()

// ClientMetrics holds all Prometheus metrics for one client connection.
// A nil *ClientMetrics is valid and records nothing.
type ClientMetrics struct {
	// Frame traffic (labeled by tag name)
	FramesReceived *prometheus.CounterVec
	FramesSent     *prometheus.CounterVec
	BytesReceived  prometheus.Counter
	BytesSent      prometheus.Counter

	// Decode attempts that ended without a frame, labeled by reason
	DecodeAborts *prometheus.CounterVec

	// Writes that fell back to blocking mode
	BlockingFallbacks prometheus.Counter

	// Connection lifecycle
	ConnectionState prometheus.Gauge       // 0 disconnected, 1 connecting, 2 connected
	Disconnects     *prometheus.CounterVec // labels: reason

	// Client info (constant labels exposed as a gauge)
	ClientInfo *prometheus.GaugeVec // labels: username, version
}

func init() {
	// Register standard Go metrics
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// InitMetrics initializes all metrics with the given server as a constant label.
func InitMetrics(server, username, version string) *ClientMetrics {
	constLabels := prometheus.Labels{
		"server": server,
	}

	m := &ClientMetrics{
		FramesReceived: promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
			Name:        "blockwire_frames_received_total",
			Help:        "Total frames decoded from the server",
			ConstLabels: constLabels,
		}, []string{"tag"}),
		FramesSent: promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
			Name:        "blockwire_frames_sent_total",
			Help:        "Total frames written to the server",
			ConstLabels: constLabels,
		}, []string{"tag"}),
		BytesReceived: promauto.With(Registry).NewCounter(prometheus.CounterOpts{
			Name:        "blockwire_bytes_received_total",
			Help:        "Total bytes consumed by decoded frames",
			ConstLabels: constLabels,
		}),
		BytesSent: promauto.With(Registry).NewCounter(prometheus.CounterOpts{
			Name:        "blockwire_bytes_sent_total",
			Help:        "Total bytes written to the server",
			ConstLabels: constLabels,
		}),
		DecodeAborts: promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
			Name:        "blockwire_decode_aborts_total",
			Help:        "Decode attempts that ended without a complete frame",
			ConstLabels: constLabels,
		}, []string{"reason"}),
		BlockingFallbacks: promauto.With(Registry).NewCounter(prometheus.CounterOpts{
			Name:        "blockwire_blocking_fallbacks_total",
			Help:        "Writes that had to finish in blocking mode",
			ConstLabels: constLabels,
		}),
		ConnectionState: promauto.With(Registry).NewGauge(prometheus.GaugeOpts{
			Name:        "blockwire_connection_state",
			Help:        "Connection state (0=disconnected, 1=connecting, 2=connected)",
			ConstLabels: constLabels,
		}),
		Disconnects: promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
			Name:        "blockwire_disconnects_total",
			Help:        "Connections that ended, by reason",
			ConstLabels: constLabels,
		}, []string{"reason"}),
		ClientInfo: promauto.With(Registry).NewGaugeVec(prometheus.GaugeOpts{
			Name:        "blockwire_client_info",
			Help:        "Client information",
			ConstLabels: constLabels,
		}, []string{"username", "version"}),
	}

	m.ClientInfo.WithLabelValues(username, version).Set(1)

	return m
}

// FrameReceived counts one decoded frame of size n.
func (m *ClientMetrics) FrameReceived(tag string, n int) {
	if m == nil {
		return
	}
	m.FramesReceived.WithLabelValues(tag).Inc()
	m.BytesReceived.Add(float64(n))
}

// FrameSent counts one written frame of size n.
func (m *ClientMetrics) FrameSent(tag string, n int) {
	if m == nil {
		return
	}
	m.FramesSent.WithLabelValues(tag).Inc()
	m.BytesSent.Add(float64(n))
}

// DecodeAborted counts a decode attempt that produced no frame.
func (m *ClientMetrics) DecodeAborted(reason string) {
	if m == nil {
		return
	}
	m.DecodeAborts.WithLabelValues(reason).Inc()
}

// BlockingFallback counts a write that finished in blocking mode.
func (m *ClientMetrics) BlockingFallback() {
	if m == nil {
		return
	}
	m.BlockingFallbacks.Inc()
}

// SetState records the connection state.
func (m *ClientMetrics) SetState(state int) {
	if m == nil {
		return
	}
	m.ConnectionState.Set(float64(state))
}

// Disconnected counts a connection that ended for reason.
func (m *ClientMetrics) Disconnected(reason string) {
	if m == nil {
		return
	}
	m.Disconnects.WithLabelValues(reason).Inc()
}
