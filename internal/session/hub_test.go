package session

import (
	"errors"
	"testing"

	"github.com/vaultpass/passgen-go/internal/widget"
)

func TestHubBroadcast(t *testing.T) {
	h := NewHub()
	a, _ := h.Subscribe(1)
	b, _ := h.Subscribe(1)

	h.Broadcast(widget.State{CharsetSize: 52})

	for _, s := range []*Subscriber{a, b} {
		select {
		case st := <-s.C:
			if st.CharsetSize != 52 {
				t.Errorf("CharsetSize = %d, want 52", st.CharsetSize)
			}
		default:
			t.Error("subscriber did not receive the snapshot")
		}
	}
}

func TestHubDropsWhenFull(t *testing.T) {
	h := NewHub()
	s, _ := h.Subscribe(1)

	h.Broadcast(widget.State{CharsetSize: 1})
	h.Broadcast(widget.State{CharsetSize: 2})

	if st := <-s.C; st.CharsetSize != 1 {
		t.Errorf("CharsetSize = %d, want 1", st.CharsetSize)
	}
	select {
	case st := <-s.C:
		t.Errorf("unexpected second snapshot %+v", st)
	default:
	}
}

func TestHubUnsubscribe(t *testing.T) {
	h := NewHub()
	s, _ := h.Subscribe(1)

	h.Unsubscribe(s)
	h.Unsubscribe(s)

	if _, open := <-s.C; open {
		t.Error("channel should be closed")
	}
	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
}

func TestHubClose(t *testing.T) {
	h := NewHub()
	s, _ := h.Subscribe(1)

	h.Close()
	h.Close()

	if _, open := <-s.C; open {
		t.Error("channel should be closed")
	}
	if _, err := h.Subscribe(1); !errors.Is(err, ErrHubClosed) {
		t.Errorf("Subscribe() after Close error = %v, want %v", err, ErrHubClosed)
	}
	h.Unsubscribe(s)
}
