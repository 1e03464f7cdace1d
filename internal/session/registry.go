// Package session keeps live widget sessions for the HTTP surface.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vaultpass/passgen-go/internal/clipboard"
	"github.com/vaultpass/passgen-go/internal/generator"
	"github.com/vaultpass/passgen-go/internal/widget"
)

var (
	ErrNotFound = errors.New("widget session not found")
	ErrFull     = errors.New("too many widget sessions")
)

// Session is one browser's widget.
type Session struct {
	ID        string
	Widget    *widget.Widget
	Clipboard *clipboard.Recorder
	Hub       *Hub
	CreatedAt time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// LastSeen returns when the session was last used.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Registry creates, finds and expires sessions.
type Registry struct {
	pool       *Pool[string, *Session]
	ttl        time.Duration
	widgetOpts []widget.Option
	now        func() time.Time
	newID      func() string
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithWidgetOptions appends options applied to every new widget.
func WithWidgetOptions(opts ...widget.Option) RegistryOption {
	return func(r *Registry) { r.widgetOpts = append(r.widgetOpts, opts...) }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

// WithIDGenerator overrides uuid.NewString.
func WithIDGenerator(f func() string) RegistryOption {
	return func(r *Registry) { r.newID = f }
}

// NewRegistry holds at most max sessions, evicting those idle longer than ttl.
func NewRegistry(max int, ttl time.Duration, opts ...RegistryOption) *Registry {
	r := &Registry{
		pool:  NewPool[string, *Session](max),
		ttl:   ttl,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Create starts a session whose widget begins with opts.
func (r *Registry) Create(opts generator.Options) (*Session, error) {
	now := r.now()
	hub := NewHub()
	rec := &clipboard.Recorder{}

	wopts := append([]widget.Option{}, r.widgetOpts...)
	wopts = append(wopts,
		widget.WithOptions(opts),
		widget.WithClipboard(rec),
		widget.OnChange(hub.Broadcast),
	)

	s := &Session{
		Widget:    widget.New(wopts...),
		Clipboard: rec,
		Hub:       hub,
		CreatedAt: now,
		lastSeen:  now,
	}

	for {
		s.ID = r.newID()
		err := r.pool.Store(s.ID, s)
		switch {
		case err == nil:
			return s, nil
		case errors.Is(err, ErrDuplicateKey):
			continue
		case errors.Is(err, ErrMaxCapacity):
			hub.Close()
			return nil, ErrFull
		default:
			hub.Close()
			return nil, fmt.Errorf("storing session: %w", err)
		}
	}
}

// Get returns a session and marks it as used.
func (r *Registry) Get(id string) (*Session, error) {
	s, err := r.pool.Get(id)
	if err != nil {
		return nil, ErrNotFound
	}
	s.touch(r.now())
	return s, nil
}

// Delete ends a session and disconnects its subscribers.
func (r *Registry) Delete(id string) error {
	s, ok := r.pool.Delete(id)
	if !ok {
		return ErrNotFound
	}
	s.Hub.Close()
	return nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	return r.pool.Size()
}

// Sweep evicts sessions idle for longer than the TTL and returns how many
// were removed. Sessions with connected subscribers are kept.
func (r *Registry) Sweep() int {
	now := r.now()
	cutoff := now.Add(-r.ttl)
	removed := r.pool.DeleteFunc(func(_ string, s *Session) bool {
		return s.Hub.Len() == 0 && s.LastSeen().Before(cutoff)
	})
	for _, s := range removed {
		s.Hub.Close()
		slog.Debug("widget session expired", "widget_id", s.ID, "age", now.Sub(s.CreatedAt))
	}
	return len(removed)
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				slog.Info("expired widget sessions", "count", n, "remaining", r.Len())
			}
		}
	}
}
