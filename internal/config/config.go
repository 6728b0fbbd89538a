// Package config handles configuration loading and validation for blockwire.
package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/blockwire/blockwire/pkg/bytesize"
)

// Defaults applied by Load and Default.
const (
	DefaultPollInterval = "50ms"
	DefaultTransport    = "peek"
	DefaultReadBuffer   = "32KB"
	DefaultMetricsAddr  = "127.0.0.1:9465"
	DefaultTraceDir     = "traces"
	DefaultTraceBuffer  = "4MB"

	// MaxUsernameLength is the longest name the server accepts.
	MaxUsernameLength = 16
)

// Bounds on read_buffer.
const (
	MinReadBuffer = bytesize.KB
	MaxReadBuffer = bytesize.MB
)

// ResolverConfig controls server address resolution.
type ResolverConfig struct {
	SRV        bool   `yaml:"srv"`        // Look up _minecraft._tcp records before the plain host
	Nameserver string `yaml:"nameserver"` // host:port; empty uses /etc/resolv.conf
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// TraceConfig controls runtime trace capture on protocol desyncs.
type TraceConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
	Buffer  string `yaml:"buffer"` // Ring size, e.g. "4MB"
}

// ClientConfig holds configuration for the game client.
type ClientConfig struct {
	Server       string         `yaml:"server"` // host[:port]
	Username     string         `yaml:"username"`
	LogLevel     string         `yaml:"log_level"`
	PollInterval string         `yaml:"poll_interval"` // Duration string, e.g. "50ms"
	Transport    string         `yaml:"transport"`     // peek or buffered
	ReadBuffer   string         `yaml:"read_buffer"`   // Largest frame the reader can stage, e.g. "32KB"
	Resolver     ResolverConfig `yaml:"resolver"`
	Metrics      MetricsConfig  `yaml:"metrics"`
	Trace        TraceConfig    `yaml:"trace"`
}

// Default returns a configuration with every default applied.
func Default() *ClientConfig {
	cfg := &ClientConfig{}
	cfg.applyDefaults()
	return cfg
}

// Load loads client configuration from a YAML file.
func Load(path string) (*ClientConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &ClientConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	cfg.applyDefaults()

	return cfg, nil
}

func (c *ClientConfig) applyDefaults() {
	if c.PollInterval == "" {
		c.PollInterval = DefaultPollInterval
	}
	if c.Transport == "" {
		c.Transport = DefaultTransport
	}
	if c.ReadBuffer == "" {
		c.ReadBuffer = DefaultReadBuffer
	}
	if c.Metrics.Listen == "" {
		c.Metrics.Listen = DefaultMetricsAddr
	}
	if c.Trace.Dir == "" {
		c.Trace.Dir = DefaultTraceDir
	}
	if c.Trace.Buffer == "" {
		c.Trace.Buffer = DefaultTraceBuffer
	}
}

// PollDuration returns the parsed poll interval.
func (c *ClientConfig) PollDuration() time.Duration {
	d, err := time.ParseDuration(c.PollInterval)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultPollInterval)
	}
	return d
}

// ReadBufferBytes returns the staging buffer size in bytes, or the default
// when read_buffer does not parse.
func (c *ClientConfig) ReadBufferBytes() int {
	n, err := bytesize.Parse(c.ReadBuffer)
	if err != nil || n < MinReadBuffer || n > MaxReadBuffer {
		n = bytesize.MustParse(DefaultReadBuffer)
	}
	return int(n)
}

// Validate checks if the client configuration is valid.
func (c *ClientConfig) Validate() error {
	if c.Server == "" {
		return fmt.Errorf("server is required")
	}
	if c.Username == "" {
		return fmt.Errorf("username is required")
	}
	if len(c.Username) > MaxUsernameLength {
		return fmt.Errorf("username must be at most %d characters", MaxUsernameLength)
	}
	if strings.ContainsAny(c.Username, " \t\n") {
		return fmt.Errorf("username must not contain whitespace")
	}
	d, err := time.ParseDuration(c.PollInterval)
	if err != nil {
		return fmt.Errorf("invalid poll_interval: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("poll_interval must be positive")
	}
	switch c.Transport {
	case "peek", "buffered":
	default:
		return fmt.Errorf("transport must be peek or buffered, got %q", c.Transport)
	}
	n, err := bytesize.Parse(c.ReadBuffer)
	if err != nil {
		return fmt.Errorf("invalid read_buffer: %w", err)
	}
	if n < MinReadBuffer || n > MaxReadBuffer {
		return fmt.Errorf("read_buffer must be between %s and %s",
			bytesize.Format(MinReadBuffer), bytesize.Format(MaxReadBuffer))
	}
	if c.Resolver.Nameserver != "" {
		if _, _, err := net.SplitHostPort(c.Resolver.Nameserver); err != nil {
			return fmt.Errorf("invalid resolver.nameserver: %w", err)
		}
	}
	if c.Metrics.Enabled {
		if _, _, err := net.SplitHostPort(c.Metrics.Listen); err != nil {
			return fmt.Errorf("invalid metrics.listen: %w", err)
		}
	}
	if c.Trace.Enabled {
		if _, err := bytesize.Parse(c.Trace.Buffer); err != nil {
			return fmt.Errorf("invalid trace.buffer: %w", err)
		}
	}
	return nil
}

// TraceBufferBytes returns the trace ring size in bytes, zero when
// trace.buffer does not parse.
func (c *ClientConfig) TraceBufferBytes() int {
	n, err := bytesize.Parse(c.Trace.Buffer)
	if err != nil {
		return 0
	}
	return int(n)
}

// ApplyLogLevel sets the global zerolog level from a config string.
// It reports whether a level was applied.
func ApplyLogLevel(level string) bool {
	if level == "" {
		return false
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return false
	}
	zerolog.SetGlobalLevel(lvl)
	return true
}
