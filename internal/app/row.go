package app

import (
	"context"

	"github.com/evanschultz/prio/internal/domain"
)

// RowState is the display sub-mode of one item row.
type RowState int

// RowViewing and related constants define row states.
const (
	RowViewing RowState = iota
	RowEditing
)

// RowActions are the callbacks a row reports through. The row never touches
// the collection or the selection any other way.
type RowActions struct {
	ToggleSelect   func(id int64)
	ClearSelection func()
	EditItem       func(ctx context.Context, id int64, text string, priority domain.Priority) error
}

// Row holds the view/edit state and local edit draft for one item.
type Row struct {
	id      int64
	actions RowActions

	state         RowState
	draftText     string
	draftPriority domain.Priority
}

// NewRow constructs a row in the Viewing state.
func NewRow(id int64, actions RowActions) *Row {
	return &Row{id: id, actions: actions, state: RowViewing}
}

// ID returns the item id this row renders.
func (r *Row) ID() int64 {
	return r.id
}

// State returns the current display sub-mode.
func (r *Row) State() RowState {
	return r.state
}

// Editing reports whether the row holds an edit draft.
func (r *Row) Editing() bool {
	return r.state == RowEditing
}

// DraftText returns the local edit text.
func (r *Row) DraftText() string {
	return r.draftText
}

// DraftPriority returns the local edit priority.
func (r *Row) DraftPriority() domain.Priority {
	return r.draftPriority
}

// BeginEdit enters Editing seeded from the item's current values. Edit mode
// and multi-select are exclusive, so the selection is cleared first.
func (r *Row) BeginEdit(item domain.Item) {
	if r.actions.ClearSelection != nil {
		r.actions.ClearSelection()
	}
	r.draftText = item.Text
	r.draftPriority = item.Priority
	r.state = RowEditing
}

// SetDraftText replaces the edit text.
func (r *Row) SetDraftText(text string) {
	r.draftText = text
}

// SetDraftPriority replaces the edit priority.
func (r *Row) SetDraftPriority(p domain.Priority) {
	r.draftPriority = p
}

// CycleDraftPriority steps the edit priority through the display order.
func (r *Row) CycleDraftPriority(delta int) {
	r.draftPriority = r.draftPriority.Cycle(delta)
}

// Save reports the draft through EditItem and returns to Viewing. No local
// validation runs; empty text is accepted.
func (r *Row) Save(ctx context.Context) error {
	if r.state != RowEditing {
		return nil
	}
	r.state = RowViewing
	if r.actions.EditItem == nil {
		return nil
	}
	return r.actions.EditItem(ctx, r.id, r.draftText, r.draftPriority)
}

// Cancel discards the draft without reporting an edit.
func (r *Row) Cancel() {
	r.state = RowViewing
	r.draftText = ""
	r.draftPriority = ""
}

// Click handles a click on the row body. It toggles selection only while
// Viewing and reports whether it did.
func (r *Row) Click() bool {
	if r.state != RowViewing {
		return false
	}
	r.toggle()
	return true
}

// ToggleCheckbox toggles selection from the checkbox, which is reachable
// whenever the view layout is shown.
func (r *Row) ToggleCheckbox() {
	r.toggle()
}

// ShowsViewLayout reports whether the row renders its view layout. A selected
// row shows it even while Editing; the edit draft is kept.
func (r *Row) ShowsViewLayout(selected bool) bool {
	return r.state != RowEditing || selected
}

func (r *Row) toggle() {
	if r.actions.ToggleSelect != nil {
		r.actions.ToggleSelect(r.id)
	}
}
