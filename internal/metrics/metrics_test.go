package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freshRegistry(t *testing.T) {
	t.Helper()
	oldRegistry := Registry
	Registry = prometheus.NewRegistry()
	t.Cleanup(func() { Registry = oldRegistry })
}

// value reads the current value of a counter or gauge.
func value(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var pb dto.Metric
	require.NoError(t, m.Write(&pb))
	if pb.Counter != nil {
		return pb.GetCounter().GetValue()
	}
	return pb.GetGauge().GetValue()
}

func TestInitMetrics(t *testing.T) {
	freshRegistry(t)

	m := InitMetrics("localhost:25565", "steve", "1.0.0")
	require.NotNil(t, m)

	tests := []struct {
		name   string
		metric interface{}
	}{
		{"FramesReceived", m.FramesReceived},
		{"FramesSent", m.FramesSent},
		{"BytesReceived", m.BytesReceived},
		{"BytesSent", m.BytesSent},
		{"DecodeAborts", m.DecodeAborts},
		{"BlockingFallbacks", m.BlockingFallbacks},
		{"ConnectionState", m.ConnectionState},
		{"Disconnects", m.Disconnects},
		{"ClientInfo", m.ClientInfo},
	}
	for _, tt := range tests {
		assert.NotNil(t, tt.metric, tt.name)
	}

	assert.Equal(t, 1.0, value(t, m.ClientInfo.WithLabelValues("steve", "1.0.0")))
}

func TestClientMetrics_Recorders(t *testing.T) {
	freshRegistry(t)
	m := InitMetrics("localhost:25565", "steve", "dev")

	m.FrameReceived("chat", 10)
	m.FrameReceived("chat", 6)
	m.FrameReceived("keep_alive", 1)
	m.FrameSent("keep_alive", 1)
	m.DecodeAborted("incomplete")
	m.BlockingFallback()
	m.SetState(2)
	m.Disconnected("kicked")

	assert.Equal(t, 2.0, value(t, m.FramesReceived.WithLabelValues("chat")))
	assert.Equal(t, 17.0, value(t, m.BytesReceived))
	assert.Equal(t, 1.0, value(t, m.FramesSent.WithLabelValues("keep_alive")))
	assert.Equal(t, 1.0, value(t, m.BytesSent))
	assert.Equal(t, 1.0, value(t, m.DecodeAborts.WithLabelValues("incomplete")))
	assert.Equal(t, 1.0, value(t, m.BlockingFallbacks))
	assert.Equal(t, 2.0, value(t, m.ConnectionState))
	assert.Equal(t, 1.0, value(t, m.Disconnects.WithLabelValues("kicked")))
}

func TestClientMetrics_NilIsNoop(t *testing.T) {
	var m *ClientMetrics
	assert.NotPanics(t, func() {
		m.FrameReceived("chat", 1)
		m.FrameSent("chat", 1)
		m.DecodeAborted("closed")
		m.BlockingFallback()
		m.SetState(0)
		m.Disconnected("user")
	})
}
