// Package collect accumulates the standard output and standard error of a
// running job into two independent buffers.
//
// Each stream is drained by its own goroutine. Chunks are appended in arrival
// order and are also offered to an optional ChunkFunc as they arrive. Buffers
// are capped per stream; bytes past the cap are read and discarded so the
// child process is never throttled, and the stream is flagged as truncated.
// The last non-empty line of each stream is tracked independently of the cap,
// so a trailing result line survives even when the head of the buffer is full.
package collect

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
)

const (
	// ReadBufferSize is the size of each read from a pipe (4KB).
	ReadBufferSize = 4096

	// DefaultMaxBufferSize caps each stream's buffer (10MB).
	DefaultMaxBufferSize = 10 * 1024 * 1024
)

// Stream identifies one of the two output channels of a job.
type Stream int

const (
	Stdout Stream = iota
	Stderr
)

func (s Stream) String() string {
	if s == Stderr {
		return "stderr"
	}
	return "stdout"
}

// ChunkFunc observes a chunk as it arrives. It is called from the goroutine
// draining that stream, so calls for stdout and stderr may run concurrently.
type ChunkFunc func(stream Stream, chunk string)

// Outcome is the finalized state of a job: its exit code and everything it
// wrote to each stream.
type Outcome struct {
	ExitCode        int    `json:"exit_code" yaml:"exit_code"`
	Stdout          string `json:"stdout" yaml:"stdout"`
	Stderr          string `json:"stderr" yaml:"stderr"`
	StdoutTruncated bool   `json:"stdout_truncated,omitempty" yaml:"stdout_truncated,omitempty"`
	StderrTruncated bool   `json:"stderr_truncated,omitempty" yaml:"stderr_truncated,omitempty"`

	// StdoutLastLine is the last non-empty stdout line, trimmed. It is
	// tracked past the cap. StdoutLastLineClipped is set when that line was
	// itself longer than the cap and is therefore incomplete.
	StdoutLastLine        string `json:"-" yaml:"-"`
	StdoutLastLineClipped bool   `json:"-" yaml:"-"`

	// StartErr is set when the process could not be launched at all.
	StartErr error `json:"-" yaml:"-"`
}

// Truncated reports whether either stream hit the buffer cap.
func (o Outcome) Truncated() bool {
	return o.StdoutTruncated || o.StderrTruncated
}

type sink struct {
	buf       bytes.Buffer
	truncated bool
	dropped   int64

	// pending is the current unterminated line, capped like buf.
	pending        []byte
	pendingClipped bool
	last           string
	lastClipped    bool
}

// track folds a chunk into the sink's last-line state.
func (s *sink) track(p []byte, limit int64) {
	for len(p) > 0 {
		i := bytes.IndexByte(p, '\n')
		seg := p
		if i >= 0 {
			seg = p[:i]
		}
		room := limit - int64(len(s.pending))
		if int64(len(seg)) > room {
			s.pending = append(s.pending, seg[:runeBoundary(seg, room)]...)
			s.pendingClipped = true
		} else {
			s.pending = append(s.pending, seg...)
		}
		if i < 0 {
			return
		}
		s.endLine()
		p = p[i+1:]
	}
}

func (s *sink) endLine() {
	if line := strings.TrimSpace(string(s.pending)); line != "" {
		s.last = line
		s.lastClipped = s.pendingClipped
	}
	s.pending = s.pending[:0]
	s.pendingClipped = false
}

// lastLine returns the last non-empty line, including an unterminated tail.
func (s *sink) lastLine() (string, bool) {
	if line := strings.TrimSpace(string(s.pending)); line != "" {
		return line, s.pendingClipped
	}
	return s.last, s.lastClipped
}

// runeBoundary backs n off so that p[:n] does not end inside a UTF-8
// sequence.
func runeBoundary(p []byte, n int64) int64 {
	if n <= 0 {
		return 0
	}
	if n >= int64(len(p)) {
		return int64(len(p))
	}
	for n > 0 && !utf8.RuneStart(p[n]) {
		n--
	}
	return n
}

// trimPartialRune returns the length of b without a trailing incomplete
// UTF-8 sequence.
func trimPartialRune(b []byte) int {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				return i
			}
			break
		}
	}
	return len(b)
}

// Collector owns the pair of buffers for one job.
type Collector struct {
	mu        sync.Mutex
	max       int64
	sinks     [2]sink
	onChunk   ChunkFunc
	finalized bool
	outcome   Outcome
}

// New returns a collector capping each stream at maxBytes. A non-positive
// cap selects DefaultMaxBufferSize.
func New(maxBytes int64, onChunk ChunkFunc) *Collector {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBufferSize
	}
	return &Collector{max: maxBytes, onChunk: onChunk}
}

// Write appends a chunk to a stream's buffer. Chunks arriving after Finalize
// are dropped.
func (c *Collector) Write(stream Stream, p []byte) {
	if len(p) == 0 {
		return
	}

	c.mu.Lock()
	if c.finalized {
		c.mu.Unlock()
		return
	}
	s := &c.sinks[stream]
	s.track(p, c.max)
	room := c.max - int64(s.buf.Len())
	if int64(len(p)) > room {
		if room < 0 {
			room = 0
		}
		room = runeBoundary(p, room)
		s.buf.Write(p[:room])
		if !s.truncated {
			// A rune split across an earlier chunk boundary is cut here.
			n := trimPartialRune(s.buf.Bytes())
			s.dropped += int64(s.buf.Len() - n)
			s.buf.Truncate(n)
		}
		s.truncated = true
		s.dropped += int64(len(p)) - room
	} else {
		s.buf.Write(p)
	}
	c.mu.Unlock()

	if c.onChunk != nil {
		c.onChunk(stream, string(p))
	}
}

// Drain reads stdout and stderr concurrently until both reach EOF. It
// returns the first non-benign read error, after both readers have stopped.
func (c *Collector) Drain(stdout, stderr io.Reader) error {
	var g errgroup.Group
	g.Go(func() error { return c.drain(Stdout, stdout) })
	g.Go(func() error { return c.drain(Stderr, stderr) })
	return g.Wait()
}

func (c *Collector) drain(stream Stream, r io.Reader) error {
	if r == nil {
		return nil
	}
	buf := make([]byte, ReadBufferSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			c.Write(stream, buf[:n])
		}
		if err != nil {
			if isBenignReadError(err) {
				return nil
			}
			return fmt.Errorf("reading %s: %w", stream, err)
		}
	}
}

// isBenignReadError reports errors that just mean the pipe is finished.
func isBenignReadError(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, os.ErrClosed) ||
		strings.Contains(err.Error(), "file already closed") ||
		strings.Contains(err.Error(), "broken pipe")
}

// Snapshot returns the buffers accumulated so far.
func (c *Collector) Snapshot() Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.finalized {
		return c.outcome
	}
	return c.snapshotLocked()
}

func (c *Collector) snapshotLocked() Outcome {
	last, clipped := c.sinks[Stdout].lastLine()
	return Outcome{
		Stdout:                c.sinks[Stdout].buf.String(),
		Stderr:                c.sinks[Stderr].buf.String(),
		StdoutTruncated:       c.sinks[Stdout].truncated,
		StderrTruncated:       c.sinks[Stderr].truncated,
		StdoutLastLine:        last,
		StdoutLastLineClipped: clipped,
	}
}

// Dropped returns the number of bytes discarded on a stream.
func (c *Collector) Dropped(stream Stream) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sinks[stream].dropped
}

// Finalize freezes the buffers and records the exit status. Only the first
// call has an effect; later calls return the same Outcome.
func (c *Collector) Finalize(exitCode int, startErr error) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.finalized {
		return c.outcome
	}
	c.outcome = c.snapshotLocked()
	c.outcome.ExitCode = exitCode
	c.outcome.StartErr = startErr
	c.finalized = true
	return c.outcome
}
