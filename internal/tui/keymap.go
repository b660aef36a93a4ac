package tui

import "charm.land/bubbles/v2/key"

// keyMap represents key map data used by this package.
type keyMap struct {
	quit        key.Binding
	toggleHelp  key.Binding
	moveUp      key.Binding
	moveDown    key.Binding
	addItem     key.Binding
	filterAll   key.Binding
	filterUrg   key.Binding
	filterMed   key.Binding
	filterLow   key.Binding
	nextFilter  key.Binding
	prevFilter  key.Binding
	toggle      key.Binding
	editItem    key.Binding
	selectAll   key.Binding
	deleteItems key.Binding
	clear       key.Binding
	copyText    key.Binding

	submit      key.Binding
	cancel      key.Binding
	cyclePrio   key.Binding
	leaveEditor key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		toggleHelp:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		moveUp:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		moveDown:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		addItem:     key.NewBinding(key.WithKeys("n", "a"), key.WithHelp("n/a", "new item")),
		filterAll:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		filterUrg:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "urgent")),
		filterMed:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "medium")),
		filterLow:   key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "low")),
		nextFilter:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next filter")),
		prevFilter:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous filter")),
		toggle:      key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "select")),
		editItem:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		selectAll:   key.NewBinding(key.WithKeys("A", "shift+a"), key.WithHelp("A", "select all visible")),
		deleteItems: key.NewBinding(key.WithKeys("x", "d"), key.WithHelp("x/d", "delete selected")),
		clear:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear selection")),
		copyText:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy text")),

		submit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		cyclePrio:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "cycle priority")),
		leaveEditor: key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "leave editor")),
	}
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.addItem, k.nextFilter, k.toggle, k.editItem, k.deleteItems, k.toggleHelp, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.addItem, k.editItem, k.copyText, k.toggleHelp, k.quit},
		{k.filterAll, k.filterUrg, k.filterMed, k.filterLow, k.nextFilter, k.prevFilter},
		{k.moveUp, k.moveDown, k.toggle, k.selectAll, k.deleteItems, k.clear},
		{k.submit, k.cancel, k.cyclePrio, k.leaveEditor},
	}
}

// inputHelp is the help shown while a text input has focus.
type inputHelp struct {
	keys    keyMap
	editing bool
}

func (h inputHelp) ShortHelp() []key.Binding {
	out := []key.Binding{h.keys.submit, h.keys.cancel, h.keys.cyclePrio}
	if h.editing {
		out = append(out, h.keys.leaveEditor)
	}
	return out
}

func (h inputHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}
