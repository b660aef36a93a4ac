package tui

import "github.com/atotto/clipboard"

// Option configures a Model at construction.
type Option func(*Model)

// WithShowHelp starts with the full help expanded.
func WithShowHelp(show bool) Option {
	return func(m *Model) {
		m.help.ShowAll = show
	}
}

// WithClipboardWriter replaces the system clipboard, mainly for tests.
func WithClipboardWriter(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.copyToClipboard = write
		}
	}
}

func systemClipboard(text string) error {
	return clipboard.WriteAll(text)
}
