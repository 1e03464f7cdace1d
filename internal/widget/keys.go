package widget

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// Action is what a key combination asks the widget to do.
type Action string

const (
	ActionNone       Action = "none"
	ActionRegenerate Action = "regenerate"
	ActionCopyFirst  Action = "copy_first"
)

// Keymap binds the widget's global shortcuts.
type Keymap struct {
	Regenerate key.Binding
	CopyFirst  key.Binding
}

// DefaultKeymap binds alt/ctrl+g to regenerate and alt/ctrl+c to copy the
// first password.
func DefaultKeymap() Keymap {
	return Keymap{
		Regenerate: key.NewBinding(key.WithKeys("alt+g", "ctrl+g"), key.WithHelp("alt/ctrl+g", "generate")),
		CopyFirst:  key.NewBinding(key.WithKeys("alt+c", "ctrl+c"), key.WithHelp("alt/ctrl+c", "copy first password")),
	}
}

// Shortcut is a help entry.
type Shortcut struct {
	Keys        string
	Description string
}

// Shortcuts lists the enabled bindings for help text.
func (k Keymap) Shortcuts() []Shortcut {
	var out []Shortcut
	for _, b := range []key.Binding{k.Regenerate, k.CopyFirst} {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		out = append(out, Shortcut{Keys: h.Key, Description: h.Desc})
	}
	return out
}

type combo string

func (c combo) String() string { return string(c) }

// Match resolves a combination such as "Ctrl+G" or "alt+c".
func (k Keymap) Match(s string) Action {
	c := combo(NormalizeCombo(s))
	switch {
	case key.Matches(c, k.Regenerate):
		return ActionRegenerate
	case key.Matches(c, k.CopyFirst):
		return ActionCopyFirst
	}
	return ActionNone
}

// NormalizeCombo lowercases a combination and maps browser modifier names
// onto the terminal spelling ("Control+G" -> "ctrl+g", "Option+c" -> "alt+c").
func NormalizeCombo(s string) string {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		switch p {
		case "control":
			p = "ctrl"
		case "option", "meta":
			p = "alt"
		}
		parts[i] = p
	}
	return strings.Join(parts, "+")
}

// KeyResult reports what HandleKey did. Ignored is set when the copy-first
// shortcut fired while the first slot held the placeholder.
type KeyResult struct {
	Action  Action
	Ignored bool
	Copy    CopyResult
	State   State
}

// HandleKey runs the action bound to combo. Only clipboard failures are
// returned as errors.
func (w *Widget) HandleKey(combo string) (KeyResult, error) {
	switch w.keymap.Match(combo) {
	case ActionRegenerate:
		st := w.Regenerate()
		return KeyResult{Action: ActionRegenerate, State: st}, nil
	case ActionCopyFirst:
		res, err := w.Copy(0)
		if err != nil {
			if errors.Is(err, ErrPlaceholder) {
				return KeyResult{Action: ActionCopyFirst, Ignored: true, State: w.State()}, nil
			}
			return KeyResult{Action: ActionCopyFirst, State: w.State()}, err
		}
		return KeyResult{Action: ActionCopyFirst, Copy: res, State: w.State()}, nil
	}
	return KeyResult{Action: ActionNone, State: w.State()}, nil
}
