package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vaultpass/passgen-go/internal/generator"
	"github.com/vaultpass/passgen-go/internal/widget"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestRegistry(max int, clock *fakeClock) *Registry {
	return NewRegistry(max, time.Minute,
		WithClock(clock.Now),
		WithWidgetOptions(widget.WithAfterFunc(nil)),
	)
}

func TestRegistryCreateAndGet(t *testing.T) {
	r := NewRegistry(10, time.Minute)

	opts := generator.DefaultOptions()
	opts.Count = 3
	s, err := r.Create(opts)
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if s.ID == "" {
		t.Fatal("session should have an id")
	}
	if got := len(s.Widget.State().Entries); got != 3 {
		t.Errorf("entries = %d, want 3", got)
	}

	got, err := r.Get(s.ID)
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if got != s {
		t.Error("Get() returned a different session")
	}

	if _, err := r.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want %v", err, ErrNotFound)
	}
}

func TestRegistryFull(t *testing.T) {
	r := newTestRegistry(1, &fakeClock{t: time.Now()})

	if _, err := r.Create(generator.DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Create(generator.DefaultOptions()); !errors.Is(err, ErrFull) {
		t.Errorf("Create() error = %v, want %v", err, ErrFull)
	}
}

func TestRegistryRetriesDuplicateIDs(t *testing.T) {
	ids := []string{"same", "same", "other"}
	n := 0
	r := NewRegistry(10, time.Minute, WithIDGenerator(func() string {
		id := ids[n]
		n++
		return id
	}))

	a, _ := r.Create(generator.DefaultOptions())
	b, err := r.Create(generator.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if a.ID != "same" || b.ID != "other" {
		t.Errorf("ids = %q, %q; want same, other", a.ID, b.ID)
	}
}

func TestRegistryDelete(t *testing.T) {
	r := NewRegistry(10, time.Minute)
	s, _ := r.Create(generator.DefaultOptions())
	sub, _ := s.Hub.Subscribe(1)

	if err := r.Delete(s.ID); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if _, open := <-sub.C; open {
		t.Error("subscriber should be disconnected")
	}
	if err := r.Delete(s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want %v", err, ErrNotFound)
	}
}

func TestRegistrySweep(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	r := newTestRegistry(10, clock)

	idle, _ := r.Create(generator.DefaultOptions())
	active, _ := r.Create(generator.DefaultOptions())
	watched, _ := r.Create(generator.DefaultOptions())
	if _, err := watched.Hub.Subscribe(1); err != nil {
		t.Fatal(err)
	}

	if !idle.CreatedAt.Equal(clock.Now()) || !idle.LastSeen().Equal(idle.CreatedAt) {
		t.Errorf("CreatedAt = %v, LastSeen = %v, want both %v", idle.CreatedAt, idle.LastSeen(), clock.Now())
	}

	clock.Advance(45 * time.Second)
	if _, err := r.Get(active.ID); err != nil {
		t.Fatal(err)
	}
	clock.Advance(30 * time.Second)

	if n := r.Sweep(); n != 1 {
		t.Fatalf("Sweep() removed %d, want 1", n)
	}
	if _, err := r.Get(idle.ID); !errors.Is(err, ErrNotFound) {
		t.Error("idle session should be evicted")
	}
	if _, err := r.Get(active.ID); err != nil {
		t.Error("recently used session should survive")
	}
	if _, err := r.Get(watched.ID); err != nil {
		t.Error("session with subscribers should survive")
	}
}

func TestSessionBroadcastsWidgetChanges(t *testing.T) {
	r := newTestRegistry(10, &fakeClock{t: time.Now()})
	s, _ := r.Create(generator.DefaultOptions())
	sub, _ := s.Hub.Subscribe(4)

	s.Widget.SetLength(20)
	if _, err := s.Widget.Copy(0); err != nil {
		t.Fatal(err)
	}

	first := <-sub.C
	if first.Options.Length != 20 {
		t.Errorf("Length = %d, want 20", first.Options.Length)
	}
	second := <-sub.C
	if !second.Entries[0].Copied {
		t.Error("copy should be broadcast")
	}
	if last, _ := s.Clipboard.Last(); last != second.Entries[0].Text {
		t.Errorf("recorded clipboard = %q, want %q", last, second.Entries[0].Text)
	}
}

func TestRegistryRunStops(t *testing.T) {
	r := NewRegistry(10, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop; %d sessions", r.Len())
	}
}
