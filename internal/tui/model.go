package tui

import (
	"context"
	"fmt"
	"slices"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/evanschultz/prio/internal/app"
	"github.com/evanschultz/prio/internal/domain"
)

// inputMode represents which input currently owns the keyboard.
type inputMode int

const (
	modeNone inputMode = iota
	modeAdd
	modeEdit
)

// textLimit caps add and edit input length.
const textLimit = 280

// actionMsg reports the outcome of a command that ran off the update loop.
type actionMsg struct {
	status string
	err    error
}

// Model is the bubbletea model for the list screen. Collection, filter and
// selection live in the app.List; each visible item gets an app.Row holding
// its view/edit state.
type Model struct {
	list *app.List
	rows map[int64]*app.Row

	ready  bool
	width  int
	height int

	status string

	help help.Model
	keys keyMap

	mode      inputMode
	cursor    int
	addInput  textinput.Model
	editInput textinput.Model
	editingID int64

	copyToClipboard func(string) error
}

// NewModel constructs the list screen around an already loaded list.
func NewModel(list *app.List, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		list:            list,
		rows:            map[int64]*app.Row{},
		status:          "ready",
		help:            h,
		keys:            newKeyMap(),
		addInput:        newTextInput("add: ", "what needs doing?", list.Draft().Text),
		editInput:       newTextInput("edit: ", "", ""),
		copyToClipboard: systemClipboard,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

func newTextInput(prompt, placeholder, value string) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.CharLimit = textLimit
	if value != "" {
		in.SetValue(value)
	}
	return in
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.status = "error: " + msg.err.Error()
			return m, nil
		}
		if msg.status != "" {
			m.status = msg.status
		}
		return m, nil

	case tea.KeyPressMsg:
		switch m.mode {
		case modeAdd:
			return m.handleAddModeKey(msg)
		case modeEdit:
			return m.handleEditModeKey(msg)
		}
		return m.handleNormalModeKey(msg)

	case tea.MouseWheelMsg:
		if m.mode != modeNone {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseWheelUp:
			m.moveCursor(-1)
		case tea.MouseWheelDown:
			m.moveCursor(1)
		}
		return m, nil

	case tea.MouseClickMsg:
		return m.handleMouseClick(msg)

	default:
		return m, nil
	}
}

func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.clear):
		if m.help.ShowAll {
			m.help.ShowAll = false
			return m, nil
		}
		if count := m.list.ClearSelection(); count > 0 {
			m.status = fmt.Sprintf("cleared %d selected", count)
		}
		return m, nil
	case key.Matches(msg, m.keys.addItem):
		m.mode = modeAdd
		m.addInput.CursorEnd()
		m.status = "adding"
		return m, m.addInput.Focus()
	case key.Matches(msg, m.keys.filterAll):
		return m.applyFilter(domain.FilterAll)
	case key.Matches(msg, m.keys.filterUrg):
		return m.applyFilter(domain.FilterFor(domain.PriorityUrgent))
	case key.Matches(msg, m.keys.filterMed):
		return m.applyFilter(domain.FilterFor(domain.PriorityMedium))
	case key.Matches(msg, m.keys.filterLow):
		return m.applyFilter(domain.FilterFor(domain.PriorityLow))
	case key.Matches(msg, m.keys.nextFilter):
		return m.applyFilter(m.list.Filter().Cycle(1))
	case key.Matches(msg, m.keys.prevFilter):
		return m.applyFilter(m.list.Filter().Cycle(-1))
	case key.Matches(msg, m.keys.moveDown):
		m.moveCursor(1)
		return m, nil
	case key.Matches(msg, m.keys.moveUp):
		m.moveCursor(-1)
		return m, nil
	case key.Matches(msg, m.keys.toggle):
		item, ok := m.cursorItem()
		if !ok {
			m.status = "no item selected"
			return m, nil
		}
		row := m.rowFor(item.ID)
		if row.ShowsViewLayout(m.list.IsSelected(item.ID)) {
			row.ToggleCheckbox()
		} else if !row.Click() {
			m.status = "finish editing first (e to resume)"
			return m, nil
		}
		m.status = m.selectionStatus()
		return m, nil
	case key.Matches(msg, m.keys.editItem):
		return m.startEdit()
	case key.Matches(msg, m.keys.selectAll):
		if count := m.list.SelectAllVisible(); count > 0 {
			m.status = fmt.Sprintf("selected %d visible", count)
		} else {
			m.status = "selection cleared"
		}
		return m, nil
	case key.Matches(msg, m.keys.deleteItems):
		if m.list.SelectionCount() == 0 {
			m.status = "nothing selected"
			return m, nil
		}
		removed, err := m.list.DeleteSelected(context.Background())
		m.pruneRows()
		m.clampCursor()
		if err != nil {
			m.status = "error: " + err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("deleted %d %s", removed, plural(removed, "item", "items"))
		return m, nil
	case key.Matches(msg, m.keys.copyText):
		item, ok := m.cursorItem()
		if !ok {
			m.status = "no item selected"
			return m, nil
		}
		return m, m.copyCmd(item.Text)
	}
	return m, nil
}

func (m Model) handleAddModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.submit):
		m.list.SetDraftText(m.addInput.Value())
		item, added, err := m.list.SubmitDraft(context.Background())
		if !added {
			if err != nil {
				m.status = "error: " + err.Error()
			} else {
				m.status = "nothing to add"
			}
			return m, nil
		}
		m.addInput.SetValue("")
		if m.list.Filter().Matches(item) {
			m.cursor = 0
		}
		m.status = fmt.Sprintf("added %q", truncate(item.Text, 32))
		if err != nil {
			m.status = "error: " + err.Error()
		}
		return m, nil
	case key.Matches(msg, m.keys.cancel):
		m.mode = modeNone
		m.addInput.Blur()
		m.status = "ready"
		return m, nil
	case key.Matches(msg, m.keys.cyclePrio):
		next := m.list.Draft().Priority.Cycle(1)
		_ = m.list.SetDraftPriority(next)
		return m, nil
	}
	var cmd tea.Cmd
	m.addInput, cmd = m.addInput.Update(msg)
	m.list.SetDraftText(m.addInput.Value())
	return m, cmd
}

func (m Model) handleEditModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	row, ok := m.rows[m.editingID]
	if !ok || !row.Editing() {
		m.leaveEditor()
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.submit):
		row.SetDraftText(m.editInput.Value())
		err := row.Save(context.Background())
		m.leaveEditor()
		m.pruneRows()
		m.clampCursor()
		if err != nil {
			m.status = "error: " + err.Error()
			return m, nil
		}
		m.status = "saved"
		return m, nil
	case key.Matches(msg, m.keys.cancel):
		row.Cancel()
		m.leaveEditor()
		m.status = "edit canceled"
		return m, nil
	case key.Matches(msg, m.keys.cyclePrio):
		row.CycleDraftPriority(1)
		return m, nil
	case key.Matches(msg, m.keys.leaveEditor):
		row.SetDraftText(m.editInput.Value())
		m.leaveEditor()
		if msg.String() == "up" {
			m.moveCursor(-1)
		} else {
			m.moveCursor(1)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(msg)
	row.SetDraftText(m.editInput.Value())
	return m, cmd
}

// startEdit begins editing the cursor row, or returns to its editor when the
// row is already editing and showing its edit layout.
func (m Model) startEdit() (tea.Model, tea.Cmd) {
	item, ok := m.cursorItem()
	if !ok {
		m.status = "no item selected"
		return m, nil
	}
	row := m.rowFor(item.ID)
	if row.ShowsViewLayout(m.list.IsSelected(item.ID)) {
		row.BeginEdit(item)
	}
	m.mode = modeEdit
	m.editingID = item.ID
	m.editInput.SetValue(row.DraftText())
	m.editInput.CursorEnd()
	m.status = "editing"
	return m, m.editInput.Focus()
}

func (m *Model) leaveEditor() {
	m.mode = modeNone
	m.editingID = 0
	m.editInput.Blur()
}

func (m Model) applyFilter(f domain.Filter) (tea.Model, tea.Cmd) {
	if err := m.list.SetFilter(f); err != nil {
		m.status = "error: " + err.Error()
		return m, nil
	}
	m.pruneRows()
	m.cursor = 0
	m.status = "filter: " + f.Label()
	return m, nil
}

func (m Model) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	if msg.Button != tea.MouseLeft {
		return m, nil
	}
	switch m.mode {
	case modeAdd:
		m.mode = modeNone
		m.addInput.Blur()
	case modeEdit:
		if row, ok := m.rows[m.editingID]; ok {
			row.SetDraftText(m.editInput.Value())
		}
		m.leaveEditor()
	}

	if msg.Y == tabsLine {
		if f, ok := filterAtX(m.list.Counts(), msg.X); ok {
			return m.applyFilter(f)
		}
		return m, nil
	}

	visible := m.list.FilteredItems()
	start, end := m.rowWindow(len(visible))
	idx := start + msg.Y - rowsTop
	if msg.Y < rowsTop || idx >= end {
		return m, nil
	}
	m.cursor = idx
	item := visible[idx]
	row := m.rowFor(item.ID)
	if msg.X >= checkboxStart && msg.X < checkboxEnd && row.ShowsViewLayout(m.list.IsSelected(item.ID)) {
		row.ToggleCheckbox()
	} else if !row.Click() {
		return m, nil
	}
	m.status = m.selectionStatus()
	return m, nil
}

func (m Model) copyCmd(text string) tea.Cmd {
	write := m.copyToClipboard
	return func() tea.Msg {
		if err := write(text); err != nil {
			return actionMsg{err: fmt.Errorf("copy failed: %w", err)}
		}
		return actionMsg{status: fmt.Sprintf("copied %q", truncate(text, 32))}
	}
}

// rowFor returns the row for id, creating it in the viewing state.
func (m Model) rowFor(id int64) *app.Row {
	row, ok := m.rows[id]
	if !ok {
		row = app.NewRow(id, m.list.RowActions())
		m.rows[id] = row
	}
	return row
}

// pruneRows drops row state for items no longer visible, the way a row that
// leaves the list loses its unsaved edit.
func (m Model) pruneRows() {
	visible := m.list.FilteredItems()
	for id := range m.rows {
		if !slices.ContainsFunc(visible, func(it domain.Item) bool { return it.ID == id }) {
			delete(m.rows, id)
		}
	}
}

func (m Model) cursorItem() (domain.Item, bool) {
	visible := m.list.FilteredItems()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return domain.Item{}, false
	}
	return visible[m.cursor], true
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	m.cursor = clamp(m.cursor, 0, len(m.list.FilteredItems())-1)
}

func (m Model) selectionStatus() string {
	count := m.list.SelectionCount()
	if count == 0 {
		return "nothing selected"
	}
	return fmt.Sprintf("%d selected", count)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	return min(max(v, minV), maxV)
}

// truncate shortens s to max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}
