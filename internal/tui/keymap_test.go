package tui

import (
	"testing"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
)

// TestKeyMapMatchesAliases verifies the alternate keys bound to each action.
func TestKeyMapMatchesAliases(t *testing.T) {
	k := newKeyMap()
	cases := []struct {
		name    string
		msg     tea.KeyPressMsg
		binding key.Binding
	}{
		{"a adds", keyRune('a'), k.addItem},
		{"n adds", keyRune('n'), k.addItem},
		{"d deletes", keyRune('d'), k.deleteItems},
		{"x deletes", keyRune('x'), k.deleteItems},
		{"A selects all", keyRune('A'), k.selectAll},
		{"tab cycles filters", tea.KeyPressMsg{Code: tea.KeyTab}, k.nextFilter},
		{"4 filters low", keyRune('4'), k.filterLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !key.Matches(tc.msg, tc.binding) {
				t.Fatalf("expected %q to match binding %v", tc.msg.String(), tc.binding.Keys())
			}
		})
	}
}

// TestInputHelpShowsLeaveEditorOnlyWhileEditing verifies the contextual help rows.
func TestInputHelpShowsLeaveEditorOnlyWhileEditing(t *testing.T) {
	k := newKeyMap()
	if got := len(inputHelp{keys: k}.ShortHelp()); got != 3 {
		t.Fatalf("expected 3 add-mode bindings, got %d", got)
	}
	editing := inputHelp{keys: k, editing: true}.ShortHelp()
	if len(editing) != 4 || editing[3].Help().Desc != "leave editor" {
		t.Fatalf("expected leave editor binding while editing, got %#v", editing)
	}
	if rows := k.FullHelp(); len(rows) != 4 {
		t.Fatalf("expected 4 full help rows, got %d", len(rows))
	}
}
