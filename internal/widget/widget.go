// Package widget holds the password generator widget: its configuration, the
// passwords derived from it, per-entry copy feedback and keyboard shortcuts.
//
// Every configuration change regenerates all passwords immediately. A widget
// is safe for concurrent use. Change listeners run outside the widget lock but
// one at a time, in the order the changes happened, so they must not call
// back into a mutating method.
package widget

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vaultpass/passgen-go/internal/clipboard"
	"github.com/vaultpass/passgen-go/internal/generator"
)

// Placeholder is shown instead of passwords when the character set is empty.
const Placeholder = "Select at least one character type!"

// DefaultCopyFeedback is how long an entry reports "copied" after a copy.
const DefaultCopyFeedback = 1500 * time.Millisecond

var (
	ErrPlaceholder     = errors.New("entry holds no password")
	ErrIndexOutOfRange = errors.New("entry index out of range")
)

// Stopper cancels a scheduled callback.
type Stopper interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it via TimeAfterFunc.
type AfterFunc func(d time.Duration, f func()) Stopper

// TimeAfterFunc schedules with the runtime timer.
func TimeAfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// Entry is one rendered result slot.
type Entry struct {
	Text        string
	Placeholder bool
	Copied      bool
}

// State is a point-in-time snapshot of the widget.
type State struct {
	Options     generator.Options
	CharsetSize int
	Entries     []Entry
	Shortcuts   []Shortcut
}

// CopyResult describes a successful copy. Generation identifies the feedback
// flag so a later ExpireFeedback can tell whether it was superseded.
type CopyResult struct {
	Index      int
	Text       string
	Generation uint64
}

type feedbackFlag struct {
	gen  uint64
	stop Stopper
}

// Widget is the password generator state machine.
type Widget struct {
	// notifyMu is taken before mu and held until listeners have run.
	notifyMu sync.Mutex
	mu       sync.Mutex

	opts     generator.Options
	src      generator.Source
	clip     clipboard.Clipboard
	after    AfterFunc
	timeout  time.Duration
	keymap   Keymap
	onChange []func(State)

	charsetSize int
	passwords   []string
	placeholder bool

	feedback map[int]feedbackFlag
	gen      uint64
}

// Option configures a Widget.
type Option func(*Widget)

// WithOptions sets the initial configuration.
func WithOptions(opts generator.Options) Option {
	return func(w *Widget) { w.opts = opts }
}

// WithSource sets the random source.
func WithSource(src generator.Source) Option {
	return func(w *Widget) { w.src = src }
}

// WithClipboard sets where copied text goes.
func WithClipboard(c clipboard.Clipboard) Option {
	return func(w *Widget) { w.clip = c }
}

// WithAfterFunc sets the scheduler used to revert copy feedback. With a nil
// scheduler the caller must call ExpireFeedback itself.
func WithAfterFunc(f AfterFunc) Option {
	return func(w *Widget) { w.after = f }
}

// WithFeedbackTimeout overrides DefaultCopyFeedback.
func WithFeedbackTimeout(d time.Duration) Option {
	return func(w *Widget) { w.timeout = d }
}

// OnChange registers a listener called with a snapshot after every change.
func OnChange(f func(State)) Option {
	return func(w *Widget) { w.onChange = append(w.onChange, f) }
}

// New builds a widget and generates its first passwords.
func New(opts ...Option) *Widget {
	w := &Widget{
		opts:     generator.DefaultOptions(),
		src:      generator.DefaultSource(),
		clip:     clipboard.Discard,
		after:    TimeAfterFunc,
		timeout:  DefaultCopyFeedback,
		keymap:   DefaultKeymap(),
		feedback: make(map[int]feedbackFlag),
	}
	for _, o := range opts {
		o(w)
	}
	w.opts = w.opts.Normalize()
	w.regenerateLocked()
	return w
}

// Options returns the current (normalized) configuration.
func (w *Widget) Options() generator.Options {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.opts
}

// Update edits the configuration in place under the widget lock, so
// concurrent partial updates cannot overwrite each other. The result is
// clamped and passwords are regenerated.
func (w *Widget) Update(f func(*generator.Options)) State {
	return w.mutate(f)
}

// SetLength sets the password length, clamped to the generator bounds.
func (w *Widget) SetLength(n int) State {
	return w.mutate(func(o *generator.Options) { o.Length = n })
}

// SetCount sets how many passwords are shown; values below one become one.
func (w *Widget) SetCount(n int) State {
	return w.mutate(func(o *generator.Options) { o.Count = n })
}

// Flag names a boolean option for Toggle.
type Flag int

const (
	FlagUppercase Flag = iota
	FlagLowercase
	FlagDigits
	FlagSymbols
	FlagExcludeSimilar
)

// Toggle flips one boolean option.
func (w *Widget) Toggle(f Flag) State {
	return w.mutate(func(o *generator.Options) {
		switch f {
		case FlagUppercase:
			o.Uppercase = !o.Uppercase
		case FlagLowercase:
			o.Lowercase = !o.Lowercase
		case FlagDigits:
			o.Digits = !o.Digits
		case FlagSymbols:
			o.Symbols = !o.Symbols
		case FlagExcludeSimilar:
			o.ExcludeSimilar = !o.ExcludeSimilar
		}
	})
}

// Regenerate draws fresh passwords with the current configuration.
func (w *Widget) Regenerate() State {
	return w.mutate(func(*generator.Options) {})
}

func (w *Widget) mutate(f func(*generator.Options)) State {
	w.notifyMu.Lock()
	defer w.notifyMu.Unlock()

	w.mu.Lock()
	f(&w.opts)
	w.opts = w.opts.Normalize()
	w.regenerateLocked()
	st := w.stateLocked()
	listeners := w.onChange
	w.mu.Unlock()

	notify(listeners, st)
	return st
}

func (w *Widget) regenerateLocked() {
	w.clearFeedbackLocked()

	w.charsetSize = len(generator.Charset(w.opts))
	passwords, err := generator.Generate(w.src, w.opts)
	if err != nil {
		// ErrEmptyCharset is the only failure.
		w.passwords = []string{Placeholder}
		w.placeholder = true
		return
	}
	w.passwords = passwords
	w.placeholder = false
}

func (w *Widget) clearFeedbackLocked() {
	for i, f := range w.feedback {
		if f.stop != nil {
			f.stop.Stop()
		}
		delete(w.feedback, i)
	}
}

// Copy writes entry index to the clipboard and marks it copied. The flag
// reverts after the feedback timeout; copying the same entry again restarts it.
func (w *Widget) Copy(index int) (CopyResult, error) {
	w.notifyMu.Lock()
	defer w.notifyMu.Unlock()

	w.mu.Lock()
	res, err := w.copyLocked(index)
	if err != nil {
		w.mu.Unlock()
		return CopyResult{}, err
	}
	st := w.stateLocked()
	listeners := w.onChange
	w.mu.Unlock()

	notify(listeners, st)
	return res, nil
}

func (w *Widget) copyLocked(index int) (CopyResult, error) {
	if index < 0 || index >= len(w.passwords) {
		return CopyResult{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	if w.placeholder {
		return CopyResult{}, ErrPlaceholder
	}

	text := w.passwords[index]
	if err := w.clip.Write(text); err != nil {
		return CopyResult{}, fmt.Errorf("copying entry %d: %w", index, err)
	}

	if prev, ok := w.feedback[index]; ok && prev.stop != nil {
		prev.stop.Stop()
	}
	w.gen++
	gen := w.gen
	flag := feedbackFlag{gen: gen}
	if w.after != nil {
		flag.stop = w.after(w.timeout, func() { w.ExpireFeedback(index, gen) })
	}
	w.feedback[index] = flag

	return CopyResult{Index: index, Text: text, Generation: gen}, nil
}

// ExpireFeedback clears the copied flag of index if gen is still current.
// It reports whether anything changed.
func (w *Widget) ExpireFeedback(index int, gen uint64) bool {
	w.notifyMu.Lock()
	defer w.notifyMu.Unlock()

	w.mu.Lock()
	f, ok := w.feedback[index]
	if !ok || f.gen != gen {
		w.mu.Unlock()
		return false
	}
	delete(w.feedback, index)
	st := w.stateLocked()
	listeners := w.onChange
	w.mu.Unlock()

	notify(listeners, st)
	return true
}

// Copied reports whether entry index currently shows copy feedback.
func (w *Widget) Copied(index int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.feedback[index]
	return ok
}

// FeedbackTimeout returns the configured copy feedback duration.
func (w *Widget) FeedbackTimeout() time.Duration {
	return w.timeout
}

// Passwords returns the generated passwords, or nil while the placeholder shows.
func (w *Widget) Passwords() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.placeholder {
		return nil
	}
	out := make([]string, len(w.passwords))
	copy(out, w.passwords)
	return out
}

// State returns a snapshot.
func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stateLocked()
}

func (w *Widget) stateLocked() State {
	entries := make([]Entry, len(w.passwords))
	for i, p := range w.passwords {
		_, copied := w.feedback[i]
		entries[i] = Entry{Text: p, Placeholder: w.placeholder, Copied: copied}
	}
	return State{
		Options:     w.opts,
		CharsetSize: w.charsetSize,
		Entries:     entries,
		Shortcuts:   w.keymap.Shortcuts(),
	}
}

func notify(listeners []func(State), st State) {
	for _, f := range listeners {
		f(st)
	}
}
