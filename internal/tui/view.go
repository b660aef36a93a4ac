package tui

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/evanschultz/prio/internal/domain"
)

// Fixed screen lines used for mouse hit testing.
const (
	headerLine = 0
	addLine    = 1
	tabsLine   = 2
	bulkLine   = 3
	rowsTop    = 5

	checkboxStart = 2
	checkboxEnd   = 5

	tabGap = "  "
)

var (
	accentColor = lipgloss.Color("62")
	mutedColor  = lipgloss.Color("241")
	dimColor    = lipgloss.Color("239")
)

func priorityColor(p domain.Priority) color.Color {
	switch p {
	case domain.PriorityUrgent:
		return lipgloss.Color("203")
	case domain.PriorityLow:
		return lipgloss.Color("42")
	default:
		return lipgloss.Color("214")
	}
}

// View handles view.
func (m Model) View() tea.View {
	if !m.ready {
		v := tea.NewView("loading...")
		v.MouseMode = tea.MouseModeCellMotion
		v.AltScreen = true
		return v
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	statusStyle := lipgloss.NewStyle().Foreground(dimColor)
	hintStyle := lipgloss.NewStyle().Foreground(mutedColor)

	header := titleStyle.Render("prio")
	if count := m.list.SelectionCount(); count > 0 {
		header += statusStyle.Render(fmt.Sprintf("  selected: %d", count))
	}

	lines := make([]string, rowsTop)
	lines[headerLine] = header
	lines[addLine] = m.renderAddBar()
	lines[tabsLine] = renderTabs(m.list.Counts(), m.list.Filter())
	if count := m.list.SelectionCount(); count > 0 {
		lines[bulkLine] = hintStyle.Render(fmt.Sprintf("%s select all visible • %s delete selected (%d)",
			m.keys.selectAll.Help().Key, m.keys.deleteItems.Help().Key, count))
	}

	visible := m.list.FilteredItems()
	if len(visible) == 0 {
		lines = append(lines, hintStyle.Render("No items for this filter."))
	} else {
		start, end := m.rowWindow(len(visible))
		for idx := start; idx < end; idx++ {
			lines = append(lines, m.renderRow(visible[idx], idx == m.cursor))
		}
	}
	content := strings.Join(lines, "\n")

	footer := ""
	if strings.TrimSpace(m.status) != "" && m.status != "ready" {
		footer = statusStyle.Render(m.status)
	}
	helpLine := m.renderHelp()
	if m.height > 0 {
		content = fitLines(content, m.contentHeight(helpLine))
	}

	v := tea.NewView(content + "\n" + footer + "\n" + helpLine)
	v.MouseMode = tea.MouseModeCellMotion
	v.AltScreen = true
	return v
}

// renderHelp draws the bordered help footer for the current mode.
func (m Model) renderHelp() string {
	helpBubble := m.help
	helpBubble.SetWidth(max(0, m.width-2))
	var helpView string
	if m.mode == modeNone {
		helpView = helpBubble.View(m.keys)
	} else {
		helpView = helpBubble.View(inputHelp{keys: m.keys, editing: m.mode == modeEdit})
	}
	return lipgloss.NewStyle().
		Foreground(mutedColor).
		BorderTop(true).
		BorderForeground(dimColor).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpView)
}

// contentHeight is the space left above the status line and the help footer.
func (m Model) contentHeight(helpLine string) int {
	return max(0, m.height-lipgloss.Height(helpLine)-1)
}

func (m Model) renderAddBar() string {
	draft := m.list.Draft()
	badge := lipgloss.NewStyle().Foreground(priorityColor(draft.Priority)).Render("[" + draft.Priority.Label() + "]")
	input := m.addInput.View()
	if m.mode != modeAdd && strings.TrimSpace(m.addInput.Value()) == "" {
		input = lipgloss.NewStyle().Foreground(mutedColor).Render("add: press n to add an item")
	}
	return input + "  " + badge
}

// renderRow draws one item. A row that is editing shows its editor unless it
// is also selected, in which case the view layout wins.
func (m Model) renderRow(item domain.Item, focused bool) string {
	cursor := "  "
	if focused {
		cursor = lipgloss.NewStyle().Foreground(accentColor).Render("› ")
	}
	selected := m.list.IsSelected(item.ID)
	row, hasRow := m.rows[item.ID]
	textWidth := max(8, m.width-24)

	if hasRow && !row.ShowsViewLayout(selected) {
		badge := lipgloss.NewStyle().Foreground(priorityColor(row.DraftPriority())).Render("[" + row.DraftPriority().Label() + "]")
		if m.mode == modeEdit && m.editingID == item.ID {
			return cursor + "✎  " + m.editInput.View() + "  " + badge
		}
		draft := lipgloss.NewStyle().Italic(true).Render(truncate(row.DraftText(), textWidth))
		return cursor + "✎  " + draft + "  " + badge + lipgloss.NewStyle().Foreground(dimColor).Render("  (editing)")
	}

	box := "[ ]"
	textStyle := lipgloss.NewStyle()
	if selected {
		box = "[x]"
		textStyle = textStyle.Foreground(lipgloss.Color("252")).Background(lipgloss.Color("237")).Bold(true)
	}
	if focused {
		textStyle = textStyle.Foreground(lipgloss.Color("212"))
	}
	text := item.Text
	if strings.TrimSpace(text) == "" {
		text = "(empty)"
	}
	line := cursor + box + " " + textStyle.Render(truncate(text, textWidth)) + "  " +
		lipgloss.NewStyle().Foreground(priorityColor(item.Priority)).Render(item.Priority.Label())
	if hasRow && row.Editing() {
		line += lipgloss.NewStyle().Foreground(dimColor).Render("  (unsaved edit)")
	}
	return line
}

func tabLabel(counts domain.Counts, f domain.Filter) string {
	return fmt.Sprintf("%s (%d)", f.Label(), counts.For(f))
}

func renderTabs(counts domain.Counts, active domain.Filter) string {
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	idleStyle := lipgloss.NewStyle().Foreground(mutedColor)
	parts := make([]string, 0, len(domain.Filters()))
	for _, f := range domain.Filters() {
		style := idleStyle
		if f == active {
			style = activeStyle
		}
		parts = append(parts, style.Render(tabLabel(counts, f)))
	}
	return strings.Join(parts, tabGap)
}

// filterAtX maps a click column on the tabs line to its filter.
func filterAtX(counts domain.Counts, x int) (domain.Filter, bool) {
	start := 0
	for _, f := range domain.Filters() {
		end := start + lipgloss.Width(tabLabel(counts, f))
		if x >= start && x < end {
			return f, true
		}
		start = end + len(tabGap)
	}
	return "", false
}

// rowWindow returns the visible slice of rows that keeps the cursor on screen.
func (m Model) rowWindow(total int) (int, int) {
	if total <= 0 {
		return 0, 0
	}
	size := total
	if m.height > 0 {
		size = max(1, m.contentHeight(m.renderHelp())-rowsTop)
	}
	if size >= total {
		return 0, total
	}
	start := clamp(m.cursor-size+1, 0, total-size)
	if m.cursor < start {
		start = m.cursor
	}
	return start, start + size
}

// fitLines pads or cuts content to exactly maxLines lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		lines = append(lines, make([]string, maxLines-len(lines))...)
	}
	return strings.Join(lines, "\n")
}
