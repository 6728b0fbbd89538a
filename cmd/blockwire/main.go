// blockwire is a headless client for Minecraft Beta 1.7.3 servers.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/blockwire/blockwire/internal/client"
	"github.com/blockwire/blockwire/internal/config"
	"github.com/blockwire/blockwire/internal/metrics"
	"github.com/blockwire/blockwire/internal/resolve"
	"github.com/blockwire/blockwire/internal/session"
	"github.com/blockwire/blockwire/internal/sock"
	"github.com/blockwire/blockwire/internal/tracing"
	"github.com/blockwire/blockwire/pkg/bytesize"
	"github.com/blockwire/blockwire/pkg/proto"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var (
	cfgFile   string
	logLevel  string
	username  string
	transport string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "blockwire",
		Short: "Headless Minecraft Beta 1.7.3 client",
		Long: `blockwire speaks protocol 14 to a Minecraft Beta 1.7.3 server.

It logs in, answers keep-alives, prints chat and sends what you type.

Examples:
  # Connect with a config file
  blockwire connect --config blockwire.yaml

  # Connect without one
  blockwire connect play.example.net --username steve

Console commands (anything else is sent as chat):
  .quit            disconnect and exit
  .respawn         respawn after dying
  .drop            drop the held item
  .slot N|next|prev  select a hotbar slot
  .status          print what the server has told us`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "log level")

	connectCmd := &cobra.Command{
		Use:   "connect [server]",
		Short: "Connect to a server and stay in the game until interrupted",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConnect,
	}
	connectCmd.Flags().StringVarP(&username, "username", "u", "", "player name (overrides config)")
	connectCmd.Flags().StringVar(&transport, "transport", "", "socket transport: peek or buffered (overrides config)")
	rootCmd.AddCommand(connectCmd)

	framesCmd := &cobra.Command{
		Use:   "frames",
		Short: "List the frame tags this client understands",
		Run: func(cmd *cobra.Command, args []string) {
			printFrames(os.Stdout)
		},
	}
	rootCmd.AddCommand(framesCmd)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("blockwire %s (protocol %d)\n", Version, proto.ProtocolVersion)
			fmt.Printf("  Commit:     %s\n", Commit)
			fmt.Printf("  Build Time: %s\n", BuildTime)
		},
	}
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

// loadConfig reads --config when given and applies command line overrides.
func loadConfig(cmd *cobra.Command, args []string) (*config.ClientConfig, error) {
	cfg := config.Default()
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if len(args) > 0 {
		cfg.Server = args[0]
	}
	if username != "" {
		cfg.Username = username
	}
	if transport != "" {
		cfg.Transport = transport
	}
	// An explicit --log-level wins over the file.
	if !cmd.Flags().Changed("log-level") {
		config.ApplyLogLevel(cfg.LogLevel)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func runConnect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res := &resolve.Resolver{
		SRV:        cfg.Resolver.SRV,
		Nameserver: cfg.Resolver.Nameserver,
	}
	host, port, err := res.Locate(ctx, cfg.Server)
	if err != nil {
		return err
	}

	var m *metrics.ClientMetrics
	if cfg.Metrics.Enabled {
		m = metrics.InitMetrics(cfg.Server, cfg.Username, Version)
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Listen); err != nil {
				log.Error().Err(err).Str("listen", cfg.Metrics.Listen).Msg("metrics endpoint failed")
			}
		}()
	}

	var rec *tracing.Recorder
	if cfg.Trace.Enabled {
		rec, err = tracing.Start(cfg.Trace.Dir, cfg.TraceBufferBytes())
		if err != nil {
			return err
		}
		defer rec.Stop()
	}

	sess := session.New(cfg.Username)
	c := client.New(client.Options{
		Sockets: sock.Dialer{
			Transport:   sock.Transport(cfg.Transport),
			PollWait:    sock.DefaultPollWait,
			DialTimeout: sock.DefaultDialTimeout,
		},
		Resolver:    res,
		Handler:     sess,
		Metrics:     m,
		StagingSize: cfg.ReadBufferBytes(),
		OnDrop:      captureDesync(rec),
	})

	log.Info().
		Str("server", cfg.Server).
		Str("username", cfg.Username).
		Str("transport", cfg.Transport).
		Str("read_buffer", bytesize.Format(int64(cfg.ReadBufferBytes()))).
		Bool("trace", rec.Enabled()).
		Msg("starting blockwire")

	if err := sess.Join(ctx, c, host, port); err != nil {
		return err
	}

	return runLoop(ctx, c, &console{actions: sess}, readLines(os.Stdin), cfg.PollDuration())
}

// runLoop polls c every interval and feeds console lines to con. All client
// calls happen on this goroutine.
func runLoop(ctx context.Context, c *client.Client, con *console, lines <-chan string, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return leave(c)
		case line, ok := <-lines:
			if !ok {
				lines = nil
				continue
			}
			if err := con.exec(line); err != nil {
				if errors.Is(err, errQuit) {
					return leave(c)
				}
				log.Warn().Err(err).Str("input", line).Msg("command failed")
			}
		case <-ticker.C:
			c.Poll()
			if c.State() == client.Disconnected {
				log.Info().Msg("connection closed")
				return nil
			}
		}
	}
}

// captureDesync writes a runtime trace when the stream could not be
// decoded. Ordinary disconnects are not captured.
func captureDesync(rec *tracing.Recorder) func(*client.Client, string, error) {
	return func(c *client.Client, reason string, _ error) {
		if !rec.Enabled() || (reason != "desync" && reason != "unknown_tag") {
			return
		}
		path, err := rec.Capture(c.Session(), reason)
		if err != nil {
			log.Warn().Err(err).Msg("trace capture failed")
			return
		}
		log.Info().Str("path", path).Msg("trace captured")
	}
}

func leave(c *client.Client) error {
	if c.State() == client.Disconnected {
		return nil
	}
	if err := c.Disconnect(); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	return nil
}

// readLines forwards non-empty lines from r until it is exhausted.
func readLines(r io.Reader) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			if line := sc.Text(); line != "" {
				out <- line
			}
		}
	}()
	return out
}

func printFrames(w io.Writer) {
	fmt.Fprintf(w, "%-6s %s\n", "TAG", "NAME")
	for _, s := range proto.Specs() {
		fmt.Fprintf(w, "0x%02X   %s\n", uint8(s.Tag), s.Name)
	}
}
