// Package clipboard provides write-only clipboard sinks.
package clipboard

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aymanbagabas/go-osc52/v2"
)

// Clipboard receives copied text.
type Clipboard interface {
	Write(text string) error
}

// OSC52 writes text to the terminal's clipboard using an OSC 52 escape sequence.
// Most modern terminal emulators honour it, including over SSH.
type OSC52 struct {
	mu  sync.Mutex
	out io.Writer
	mux Multiplexer
}

// Multiplexer selects the passthrough wrapping needed inside tmux or screen.
type Multiplexer int

const (
	MuxNone Multiplexer = iota
	MuxTmux
	MuxScreen
)

// NewOSC52 returns an OSC 52 clipboard writing to out.
func NewOSC52(out io.Writer, mux Multiplexer) *OSC52 {
	return &OSC52{out: out, mux: mux}
}

// DetectMultiplexer inspects TERM and TMUX the way terminals advertise them.
func DetectMultiplexer() Multiplexer {
	if os.Getenv("TMUX") != "" {
		return MuxTmux
	}
	if strings.HasPrefix(os.Getenv("TERM"), "screen") {
		return MuxScreen
	}
	return MuxNone
}

// Write emits text as an OSC 52 sequence, wrapped for the detected multiplexer.
func (c *OSC52) Write(text string) error {
	seq := osc52.New(text)
	switch c.mux {
	case MuxTmux:
		seq = seq.Tmux()
	case MuxScreen:
		seq = seq.Screen()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := seq.WriteTo(c.out); err != nil {
		return fmt.Errorf("writing osc52 sequence: %w", err)
	}
	return nil
}

// Recorder keeps the most recent write in memory. HTTP sessions use it: the
// browser performs the real clipboard write.
type Recorder struct {
	mu     sync.Mutex
	last   string
	writes int
}

// Write records text as the clipboard contents.
func (r *Recorder) Write(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = text
	r.writes++
	return nil
}

// Last returns the last written text and how many writes happened.
func (r *Recorder) Last() (string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last, r.writes
}

// Discard ignores every write.
var Discard Clipboard = discard{}

type discard struct{}

func (discard) Write(string) error { return nil }
