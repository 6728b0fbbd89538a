// Package tracing keeps a rolling runtime trace and writes it out when a
// connection fails in a way worth debugging.
package tracing

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/trace"
	"sync"
	"time"
)

// DefaultBufferSize is the default size of the trace ring buffer (4MB).
const DefaultBufferSize = 4 * 1024 * 1024

// minAge is how much history the ring keeps regardless of size.
const minAge = 10 * time.Second

// ErrNotEnabled is returned by a Recorder that was never started.
var ErrNotEnabled = errors.New("tracing not enabled")

// Recorder wraps a runtime flight recorder. Only one can run per process.
type Recorder struct {
	mu  sync.Mutex
	fr  *trace.FlightRecorder
	dir string
	now func() time.Time
}

// Start begins recording into a ring of bufferSize bytes. Captures are
// written to dir.
func Start(dir string, bufferSize int) (*Recorder, error) {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create trace dir: %w", err)
	}

	fr := trace.NewFlightRecorder(trace.FlightRecorderConfig{
		MinAge:   minAge,
		MaxBytes: uint64(bufferSize),
	})
	if err := fr.Start(); err != nil {
		return nil, fmt.Errorf("start flight recorder: %w", err)
	}
	return &Recorder{fr: fr, dir: dir, now: time.Now}, nil
}

// Enabled reports whether r is recording. A nil Recorder is not.
func (r *Recorder) Enabled() bool {
	if r == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fr != nil
}

// Snapshot writes the current ring to w in `go tool trace` format.
func (r *Recorder) Snapshot(w io.Writer) error {
	if r == nil {
		return ErrNotEnabled
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fr == nil {
		return ErrNotEnabled
	}
	_, err := r.fr.WriteTo(w)
	return err
}

// Capture writes a snapshot to a new file named after session and reason
// and returns its path.
func (r *Recorder) Capture(session, reason string) (string, error) {
	if !r.Enabled() {
		return "", ErrNotEnabled
	}
	name := fmt.Sprintf("blockwire-%s-%s-%s.trace", r.now().UTC().Format("20060102T150405"), reason, session)
	path := filepath.Join(r.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create trace file: %w", err)
	}
	if err := r.Snapshot(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close trace file: %w", err)
	}
	return path, nil
}

// Stop ends recording. It is safe to call more than once.
func (r *Recorder) Stop() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fr != nil {
		r.fr.Stop()
		r.fr = nil
	}
}
