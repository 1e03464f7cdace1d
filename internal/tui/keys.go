package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the terminal-only bindings. Regenerate and copy-first come
// from the widget's own keymap.
type keyMap struct {
	Shorter        key.Binding
	Longer         key.Binding
	MuchShorter    key.Binding
	MuchLonger     key.Binding
	Fewer          key.Binding
	More           key.Binding
	Uppercase      key.Binding
	Lowercase      key.Binding
	Digits         key.Binding
	Symbols        key.Binding
	ExcludeSimilar key.Binding
	Up             key.Binding
	Down           key.Binding
	Copy           key.Binding
	Quit           key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Shorter:        key.NewBinding(key.WithKeys("left"), key.WithHelp("←/→", "length")),
		Longer:         key.NewBinding(key.WithKeys("right")),
		MuchShorter:    key.NewBinding(key.WithKeys("shift+left"), key.WithHelp("shift+←/→", "length ±10")),
		MuchLonger:     key.NewBinding(key.WithKeys("shift+right")),
		Fewer:          key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("+/-", "count")),
		More:           key.NewBinding(key.WithKeys("+", "=")),
		Uppercase:      key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "uppercase")),
		Lowercase:      key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "lowercase")),
		Digits:         key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "numbers")),
		Symbols:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "symbols")),
		ExcludeSimilar: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "exclude similar")),
		Up:             key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "select")),
		Down:           key.NewBinding(key.WithKeys("down", "j")),
		Copy:           key.NewBinding(key.WithKeys("enter", "c"), key.WithHelp("enter", "copy selected")),
		Quit:           key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
	}
}

// help returns the bindings shown in the footer.
func (k keyMap) help() []key.Binding {
	return []key.Binding{
		k.Shorter, k.MuchShorter, k.Fewer, k.Uppercase, k.Lowercase,
		k.Digits, k.Symbols, k.ExcludeSimilar, k.Up, k.Copy, k.Quit,
	}
}
