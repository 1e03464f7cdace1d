package tui

import (
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/aymanbagabas/go-osc52/v2"

	"github.com/vaultpass/passgen-go/internal/clipboard"
)

// byteFile writes one byte at a time, yielding in between, so unguarded
// concurrent writers interleave.
type byteFile struct {
	mu  sync.Mutex
	buf strings.Builder
}

func (f *byteFile) Write(p []byte) (int, error) {
	for _, b := range p {
		f.mu.Lock()
		f.buf.WriteByte(b)
		f.mu.Unlock()
		runtime.Gosched()
	}
	return len(p), nil
}

func (f *byteFile) Read([]byte) (int, error) { return 0, nil }
func (f *byteFile) Close() error             { return nil }
func (f *byteFile) Fd() uintptr              { return 42 }

func (f *byteFile) String() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buf.String()
}

func TestTerminalKeepsClipboardOutOfFrames(t *testing.T) {
	f := &byteFile{}
	term := NewTerminal(f)
	cb := clipboard.NewOSC52(term, clipboard.MuxNone)

	const n = 50
	frame := "\x1b[H" + strings.Repeat("frame-line\r\n", 4)
	seq := osc52.New("s3cret").String()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for range n {
			if _, err := term.Write([]byte(frame)); err != nil {
				t.Errorf("frame write: %v", err)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for range n {
			if err := cb.Write("s3cret"); err != nil {
				t.Errorf("clipboard write: %v", err)
			}
		}
	}()
	wg.Wait()

	out := f.String()
	if got := strings.Count(out, seq); got != n {
		t.Errorf("expected %d whole clipboard sequences, got %d", n, got)
	}
	if got := strings.Count(out, frame); got != n {
		t.Errorf("expected %d whole frames, got %d", n, got)
	}
	if len(out) != n*(len(frame)+len(seq)) {
		t.Errorf("unexpected output length %d", len(out))
	}
}

func TestTerminalReportsDeviceFd(t *testing.T) {
	if fd := NewTerminal(&byteFile{}).Fd(); fd != 42 {
		t.Fatalf("expected fd 42, got %d", fd)
	}
}
