package model

import (
	"github.com/vaultpass/passgen-go/internal/generator"
	"github.com/vaultpass/passgen-go/internal/widget"
)

// WidgetConfig is the widget configuration on the wire.
type WidgetConfig struct {
	Length         int  `json:"length"`
	Count          int  `json:"count"`
	Uppercase      bool `json:"uppercase"`
	Lowercase      bool `json:"lowercase"`
	Numbers        bool `json:"numbers"`
	Symbols        bool `json:"symbols"`
	ExcludeSimilar bool `json:"exclude_similar"`
}

// ConfigPatch is a partial configuration update; nil fields are left alone.
type ConfigPatch struct {
	Length         *int  `json:"length"`
	Count          *int  `json:"count"`
	Uppercase      *bool `json:"uppercase"`
	Lowercase      *bool `json:"lowercase"`
	Numbers        *bool `json:"numbers"`
	Symbols        *bool `json:"symbols"`
	ExcludeSimilar *bool `json:"exclude_similar"`
}

// Apply returns opts with the patch's non-nil fields applied.
func (p ConfigPatch) Apply(opts generator.Options) generator.Options {
	if p.Length != nil {
		opts.Length = *p.Length
	}
	if p.Count != nil {
		opts.Count = *p.Count
	}
	if p.Uppercase != nil {
		opts.Uppercase = *p.Uppercase
	}
	if p.Lowercase != nil {
		opts.Lowercase = *p.Lowercase
	}
	if p.Numbers != nil {
		opts.Digits = *p.Numbers
	}
	if p.Symbols != nil {
		opts.Symbols = *p.Symbols
	}
	if p.ExcludeSimilar != nil {
		opts.ExcludeSimilar = *p.ExcludeSimilar
	}
	return opts
}

// EntryResponse is one password slot.
type EntryResponse struct {
	Index       int    `json:"index"`
	Text        string `json:"text"`
	Placeholder bool   `json:"placeholder"`
	Copied      bool   `json:"copied"`
}

// ShortcutResponse is a keyboard shortcut help entry.
type ShortcutResponse struct {
	Keys        string `json:"keys"`
	Description string `json:"description"`
}

// WidgetState is a widget snapshot as sent to clients.
type WidgetState struct {
	Config      WidgetConfig       `json:"config"`
	CharsetSize int                `json:"charset_size"`
	Entries     []EntryResponse    `json:"entries"`
	Shortcuts   []ShortcutResponse `json:"shortcuts"`
}

// CreateWidgetResponse is returned when a widget session starts.
type CreateWidgetResponse struct {
	ID    string      `json:"id"`
	Token string      `json:"token"`
	State WidgetState `json:"state"`
}

// CopyResponse carries the text the client should place on its clipboard.
type CopyResponse struct {
	Text  string      `json:"text"`
	State WidgetState `json:"state"`
}

// KeyRequest is a key combination pressed in the client, e.g. "ctrl+g".
type KeyRequest struct {
	Combo string `json:"combo"`
}

// KeyResponse reports the shortcut outcome. Text is set when a password was copied.
type KeyResponse struct {
	Action  string      `json:"action"`
	Ignored bool        `json:"ignored,omitempty"`
	Text    string      `json:"text,omitempty"`
	State   WidgetState `json:"state"`
}

// ConfigFromOptions converts generator options to the wire form.
func ConfigFromOptions(o generator.Options) WidgetConfig {
	return WidgetConfig{
		Length:         o.Length,
		Count:          o.Count,
		Uppercase:      o.Uppercase,
		Lowercase:      o.Lowercase,
		Numbers:        o.Digits,
		Symbols:        o.Symbols,
		ExcludeSimilar: o.ExcludeSimilar,
	}
}

// NewWidgetState converts a widget snapshot to its wire form.
func NewWidgetState(st widget.State) WidgetState {
	entries := make([]EntryResponse, len(st.Entries))
	for i, e := range st.Entries {
		entries[i] = EntryResponse{
			Index:       i,
			Text:        e.Text,
			Placeholder: e.Placeholder,
			Copied:      e.Copied,
		}
	}
	shortcuts := make([]ShortcutResponse, len(st.Shortcuts))
	for i, s := range st.Shortcuts {
		shortcuts[i] = ShortcutResponse{Keys: s.Keys, Description: s.Description}
	}
	return WidgetState{
		Config:      ConfigFromOptions(st.Options),
		CharsetSize: st.CharsetSize,
		Entries:     entries,
		Shortcuts:   shortcuts,
	}
}
