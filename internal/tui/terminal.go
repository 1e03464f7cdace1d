package tui

import (
	"io"
	"sync"
)

// File is a terminal device such as os.Stdout.
type File interface {
	io.ReadWriteCloser
	Fd() uintptr
}

// Terminal serialises writes to a terminal shared by the bubbletea renderer
// and the OSC 52 clipboard. Each Write reaches the device whole, so a
// clipboard sequence never lands inside a frame. It still reports the
// underlying Fd, so bubbletea keeps treating it as a tty.
type Terminal struct {
	mu sync.Mutex
	f  File
}

// NewTerminal wraps f.
func NewTerminal(f File) *Terminal {
	return &Terminal{f: f}
}

func (t *Terminal) Read(p []byte) (int, error) {
	return t.f.Read(p)
}

func (t *Terminal) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.f.Write(p)
}

// WriteString goes through the same lock as Write.
func (t *Terminal) WriteString(s string) (int, error) {
	return t.Write([]byte(s))
}

func (t *Terminal) Close() error {
	return t.f.Close()
}

func (t *Terminal) Fd() uintptr {
	return t.f.Fd()
}
