package session

import (
	"errors"
	"sync"

	"github.com/vaultpass/passgen-go/internal/widget"
)

var ErrHubClosed = errors.New("session closed")

// Subscriber receives widget snapshots. C is closed when the subscriber is
// removed or the hub shuts down.
type Subscriber struct {
	C chan widget.State
}

// Hub fans widget changes out to subscribers. Slow subscribers miss
// snapshots instead of blocking the widget.
type Hub struct {
	mu     sync.Mutex
	subs   map[*Subscriber]struct{}
	closed bool
}

// NewHub returns a hub with no subscribers.
func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscriber]struct{})}
}

// Subscribe registers a subscriber with a channel buffer of size buf.
func (h *Hub) Subscribe(buf int) (*Subscriber, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrHubClosed
	}
	s := &Subscriber{C: make(chan widget.State, buf)}
	h.subs[s] = struct{}{}
	return s, nil
}

// Unsubscribe removes s and closes its channel. Safe to call more than once.
func (h *Hub) Unsubscribe(s *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[s]; !ok {
		return
	}
	delete(h.subs, s)
	close(s.C)
}

// Broadcast delivers st to every subscriber that has room for it.
func (h *Hub) Broadcast(st widget.State) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs {
		select {
		case s.C <- st:
		default:
		}
	}
}

// Len returns the number of subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close unsubscribes everyone and rejects new subscribers.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for s := range h.subs {
		delete(h.subs, s)
		close(s.C)
	}
}
