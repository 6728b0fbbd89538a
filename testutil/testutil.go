// Package testutil provides shared test utilities for blockwire tests.
package testutil

import (
	"net"
	"net/netip"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TempDir creates a temporary directory for testing and returns a cleanup function.
func TempDir(t *testing.T) (string, func()) {
	t.Helper()
	dir, err := os.MkdirTemp("", "blockwire-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	return dir, func() {
		_ = os.RemoveAll(dir)
	}
}

// TempFile creates a temporary file with the given content and returns its path.
func TempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

// FreePort returns an available TCP port on localhost.
func FreePort(t *testing.T) int {
	t.Helper()

	addr, err := net.ResolveTCPAddr("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to resolve address: %v", err)
	}

	l, err := net.ListenTCP("tcp4", addr)
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	defer func() { _ = l.Close() }()

	return l.Addr().(*net.TCPAddr).Port
}

// Loopback listens on an IPv4 loopback port and hands out accepted
// connections. The listener and every accepted connection are closed when
// the test ends.
type Loopback struct {
	t     *testing.T
	ln    net.Listener
	conns chan net.Conn
}

// NewLoopback starts a listener on 127.0.0.1.
func NewLoopback(t *testing.T) *Loopback {
	t.Helper()

	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	l := &Loopback{t: t, ln: ln, conns: make(chan net.Conn, 4)}
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				close(l.conns)
				return
			}
			l.conns <- c
		}
	}()
	t.Cleanup(func() { _ = ln.Close() })
	return l
}

// Addr returns the listening address.
func (l *Loopback) Addr() netip.AddrPort {
	ap := l.ln.Addr().(*net.TCPAddr).AddrPort()
	return netip.AddrPortFrom(ap.Addr().Unmap(), ap.Port())
}

// Accept waits for the next connection.
func (l *Loopback) Accept() net.Conn {
	l.t.Helper()
	select {
	case c, ok := <-l.conns:
		if !ok {
			l.t.Fatal("listener closed")
		}
		l.t.Cleanup(func() { _ = c.Close() })
		return c
	case <-time.After(5 * time.Second):
		l.t.Fatal("timed out waiting for connection")
		return nil
	}
}
