// Package tui renders a password generator widget in the terminal.
package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vaultpass/passgen-go/internal/widget"
)

// feedbackExpiredMsg reverts one entry's copy badge.
type feedbackExpiredMsg struct {
	index int
	gen   uint64
}

// Model is the bubbletea model around a widget. The widget must be built
// with widget.WithAfterFunc(nil); feedback is reverted by tea.Tick instead.
type Model struct {
	widget   *widget.Widget
	keys     keyMap
	state    widget.State
	selected int
	err      error
	width    int
}

// New returns a Model for w.
func New(w *widget.Widget) Model {
	return Model{
		widget: w,
		keys:   newKeyMap(),
		state:  w.State(),
	}
}

// Init implements tea.Model. The widget is already populated, so there is
// nothing to start.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update routes key presses to the widget and refreshes the cached state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case feedbackExpiredMsg:
		m.widget.ExpireFeedback(msg.index, msg.gen)
		m.state = m.widget.State()
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	res, err := m.widget.HandleKey(msg.String())
	if res.Action != widget.ActionNone {
		m.err = err
		m.setState(res.State)
		if res.Action == widget.ActionCopyFirst && !res.Ignored && err == nil {
			m.selected = 0
			return m, m.expireAfter(res.Copy)
		}
		return m, nil
	}

	opts := m.widget.Options()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Shorter):
		m.setState(m.widget.SetLength(opts.Length - 1))
	case key.Matches(msg, m.keys.Longer):
		m.setState(m.widget.SetLength(opts.Length + 1))
	case key.Matches(msg, m.keys.MuchShorter):
		m.setState(m.widget.SetLength(opts.Length - 10))
	case key.Matches(msg, m.keys.MuchLonger):
		m.setState(m.widget.SetLength(opts.Length + 10))
	case key.Matches(msg, m.keys.Fewer):
		m.setState(m.widget.SetCount(opts.Count - 1))
	case key.Matches(msg, m.keys.More):
		m.setState(m.widget.SetCount(opts.Count + 1))
	case key.Matches(msg, m.keys.Uppercase):
		m.setState(m.widget.Toggle(widget.FlagUppercase))
	case key.Matches(msg, m.keys.Lowercase):
		m.setState(m.widget.Toggle(widget.FlagLowercase))
	case key.Matches(msg, m.keys.Digits):
		m.setState(m.widget.Toggle(widget.FlagDigits))
	case key.Matches(msg, m.keys.Symbols):
		m.setState(m.widget.Toggle(widget.FlagSymbols))
	case key.Matches(msg, m.keys.ExcludeSimilar):
		m.setState(m.widget.Toggle(widget.FlagExcludeSimilar))
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.state.Entries)-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Copy):
		return m.copySelected()
	}
	return m, nil
}

func (m Model) copySelected() (tea.Model, tea.Cmd) {
	res, err := m.widget.Copy(m.selected)
	m.state = m.widget.State()
	if err != nil {
		// Copying the placeholder is a no-op.
		if !errors.Is(err, widget.ErrPlaceholder) {
			m.err = err
		}
		return m, nil
	}
	m.err = nil
	return m, m.expireAfter(res)
}

func (m Model) expireAfter(res widget.CopyResult) tea.Cmd {
	return tea.Tick(m.widget.FeedbackTimeout(), func(time.Time) tea.Msg {
		return feedbackExpiredMsg{index: res.Index, gen: res.Generation}
	})
}

func (m *Model) setState(st widget.State) {
	m.state = st
	if m.selected >= len(st.Entries) {
		m.selected = len(st.Entries) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// View renders the options row, the password list and the feedback line.
func (m Model) View() string {
	var b strings.Builder
	opts := m.state.Options

	b.WriteString(titleStyle.Render("Password Generator"))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "%s %d  %s %d  %s %d\n",
		labelStyle.Render("Length"), opts.Length,
		labelStyle.Render("Count"), opts.Count,
		labelStyle.Render("Charset"), m.state.CharsetSize)
	b.WriteString(strings.Join([]string{
		toggle("Uppercase", opts.Uppercase),
		toggle("Lowercase", opts.Lowercase),
		toggle("Numbers", opts.Digits),
		toggle("Symbols", opts.Symbols),
		toggle("Exclude similar", opts.ExcludeSimilar),
	}, "  "))
	b.WriteString("\n\n")

	rows := make([]string, 0, len(m.state.Entries))
	for i, e := range m.state.Entries {
		rows = append(rows, m.renderEntry(i, e))
	}
	b.WriteString(boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("clipboard: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.helpLine()))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderEntry(i int, e widget.Entry) string {
	if e.Placeholder {
		return placeholderStyle.Render(e.Text)
	}
	style := passwordStyle
	if i == m.selected {
		style = selectedStyle
	}
	line := style.Render(e.Text)
	if e.Copied {
		line += " " + copiedStyle.Render("Copied!")
	}
	return line
}

func (m Model) helpLine() string {
	parts := make([]string, 0, len(m.state.Shortcuts)+len(m.keys.help()))
	for _, s := range m.state.Shortcuts {
		parts = append(parts, s.Keys+" "+s.Description)
	}
	for _, k := range m.keys.help() {
		h := k.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	line := strings.Join(parts, " • ")
	if m.width > 0 {
		line = lipgloss.NewStyle().Width(m.width).Render(line)
	}
	return line
}

func toggle(label string, on bool) string {
	if on {
		return onStyle.Render("[x] " + label)
	}
	return offStyle.Render("[ ] " + label)
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(w *widget.Widget, opts ...tea.ProgramOption) error {
	p := tea.NewProgram(New(w), opts...)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	slog.Info("tui exited")
	return nil
}
