package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	charmLog "github.com/charmbracelet/log"
	"github.com/evanschultz/prio/internal/domain"
)

// ListConfig holds startup defaults for the list controller.
type ListConfig struct {
	DefaultFilter   domain.Filter
	DefaultPriority domain.Priority
}

// Draft is the unsaved input for the next item to add.
type Draft struct {
	Text     string
	Priority domain.Priority
}

// List owns the collection, the add draft, the active filter and the
// selection set. Every change to the collection is written through to the store.
type List struct {
	store  Store
	idGen  IDGenerator
	logger Logger

	items    []domain.Item
	filter   domain.Filter
	draft    Draft
	selected map[int64]struct{}
}

// NewList loads the collection once. A corrupt stored value starts the list
// empty instead of failing. A nil idGen gets a monotonic generator seeded above
// the largest loaded id.
func NewList(ctx context.Context, store Store, idGen IDGenerator, cfg ListConfig, logger Logger) (*List, error) {
	if store == nil {
		return nil, errors.New("list store is required")
	}
	if logger == nil {
		logger = charmLog.New(io.Discard)
	}
	if cfg.DefaultFilter == "" {
		cfg.DefaultFilter = domain.FilterFor(domain.PriorityMedium)
	}
	if cfg.DefaultPriority == "" {
		cfg.DefaultPriority = domain.PriorityMedium
	}
	if !cfg.DefaultFilter.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidFilter, cfg.DefaultFilter)
	}
	if !cfg.DefaultPriority.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPriority, cfg.DefaultPriority)
	}

	items, err := store.Load(ctx)
	switch {
	case errors.Is(err, ErrCorruptPayload):
		logger.Warn("stored items unreadable, starting empty", "err", err)
		items = nil
	case err != nil:
		return nil, fmt.Errorf("load items: %w", err)
	}
	if items == nil {
		items = []domain.Item{}
	}

	if idGen == nil {
		var floor int64
		for _, it := range items {
			floor = max(floor, it.ID)
		}
		idGen = NewMonotonicIDs(nil, floor)
	}

	logger.Debug("items loaded", "count", len(items))
	return &List{
		store:    store,
		idGen:    idGen,
		logger:   logger,
		items:    items,
		filter:   cfg.DefaultFilter,
		draft:    Draft{Priority: cfg.DefaultPriority},
		selected: map[int64]struct{}{},
	}, nil
}

// Items returns a copy of the full collection, newest first.
func (l *List) Items() []domain.Item {
	return slices.Clone(l.items)
}

// ItemByID returns the item with the given id.
func (l *List) ItemByID(id int64) (domain.Item, bool) {
	idx := l.indexOf(id)
	if idx < 0 {
		return domain.Item{}, false
	}
	return l.items[idx], true
}

// Filter returns the active filter.
func (l *List) Filter() domain.Filter {
	return l.filter
}

// Draft returns the unsaved add input.
func (l *List) Draft() Draft {
	return l.draft
}

// FilteredItems returns the collection under the active filter, in collection order.
func (l *List) FilteredItems() []domain.Item {
	out := make([]domain.Item, 0, len(l.items))
	for _, it := range l.items {
		if l.filter.Matches(it) {
			out = append(out, it)
		}
	}
	return out
}

// Counts tallies the full collection regardless of the active filter.
func (l *List) Counts() domain.Counts {
	return domain.CountByPriority(l.items)
}

// SetDraftText replaces the add draft text.
func (l *List) SetDraftText(text string) {
	l.draft.Text = text
}

// SetDraftPriority replaces the add draft priority.
func (l *List) SetDraftPriority(p domain.Priority) error {
	if !p.Valid() {
		return domain.ErrInvalidPriority
	}
	l.draft.Priority = p
	return nil
}

// SubmitDraft adds an item from the current draft.
func (l *List) SubmitDraft(ctx context.Context) (domain.Item, bool, error) {
	return l.AddItem(ctx, l.draft.Text, l.draft.Priority)
}

// AddItem prepends a new item and clears the draft text. Whitespace-only text
// is ignored and reports false with no error.
func (l *List) AddItem(ctx context.Context, text string, priority domain.Priority) (domain.Item, bool, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Item{}, false, nil
	}
	id := l.idGen()
	if l.indexOf(id) >= 0 {
		return domain.Item{}, false, fmt.Errorf("%w: %d", ErrDuplicateID, id)
	}
	item, err := domain.NewItem(id, text, priority)
	if err != nil {
		return domain.Item{}, false, err
	}
	l.items = slices.Insert(l.items, 0, item)
	l.draft.Text = ""
	l.logger.Info("item added", "id", item.ID, "priority", item.Priority)
	return item, true, l.persist(ctx)
}

// SetFilter changes the visible bucket. A specific priority also becomes the
// add draft priority; FilterAll leaves the draft alone.
func (l *List) SetFilter(f domain.Filter) error {
	if !f.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidFilter, f)
	}
	l.filter = f
	if p, ok := f.Priority(); ok {
		l.draft.Priority = p
	}
	return nil
}

// ToggleSelect flips membership of id in the selection and reports whether it
// is selected afterwards.
func (l *List) ToggleSelect(id int64) bool {
	if _, ok := l.selected[id]; ok {
		delete(l.selected, id)
		return false
	}
	l.selected[id] = struct{}{}
	return true
}

// ClearSelection empties the selection and returns how many ids it held.
func (l *List) ClearSelection() int {
	count := len(l.selected)
	if count > 0 {
		l.selected = map[int64]struct{}{}
	}
	return count
}

// SelectAllVisible selects exactly the visible ids, or clears the selection
// when it already covers every visible id. It returns the new selection size.
func (l *List) SelectAllVisible() int {
	visible := l.FilteredItems()
	covered := true
	for _, it := range visible {
		if _, ok := l.selected[it.ID]; !ok {
			covered = false
			break
		}
	}
	l.selected = make(map[int64]struct{}, len(visible))
	if covered {
		return 0
	}
	for _, it := range visible {
		l.selected[it.ID] = struct{}{}
	}
	return len(l.selected)
}

// IsSelected reports whether id is in the selection.
func (l *List) IsSelected(id int64) bool {
	_, ok := l.selected[id]
	return ok
}

// SelectionCount returns the number of selected ids.
func (l *List) SelectionCount() int {
	return len(l.selected)
}

// SelectedIDs returns the selection in ascending id order.
func (l *List) SelectedIDs() []int64 {
	ids := make([]int64, 0, len(l.selected))
	for id := range l.selected {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// DeleteSelected removes every selected item from the whole collection, not
// just the visible part, then clears the selection.
func (l *List) DeleteSelected(ctx context.Context) (int, error) {
	if len(l.selected) == 0 {
		return 0, nil
	}
	before := len(l.items)
	l.items = slices.DeleteFunc(l.items, func(it domain.Item) bool {
		_, ok := l.selected[it.ID]
		return ok
	})
	removed := before - len(l.items)
	l.selected = map[int64]struct{}{}
	if removed == 0 {
		return 0, nil
	}
	l.logger.Info("items deleted", "count", removed)
	return removed, l.persist(ctx)
}

// EditItem replaces text and priority of one item in place. It reports false
// for an unknown id. Text is not validated.
func (l *List) EditItem(ctx context.Context, id int64, text string, priority domain.Priority) (bool, error) {
	if !priority.Valid() {
		return false, domain.ErrInvalidPriority
	}
	idx := l.indexOf(id)
	if idx < 0 {
		return false, nil
	}
	l.items[idx] = l.items[idx].WithDetails(text, priority)
	l.logger.Info("item edited", "id", id, "priority", priority)
	return true, l.persist(ctx)
}

// RowActions returns the callbacks a Row uses to report back to this list.
func (l *List) RowActions() RowActions {
	return RowActions{
		ToggleSelect: func(id int64) {
			l.ToggleSelect(id)
		},
		ClearSelection: func() {
			l.ClearSelection()
		},
		EditItem: func(ctx context.Context, id int64, text string, priority domain.Priority) error {
			_, err := l.EditItem(ctx, id, text, priority)
			return err
		},
	}
}

// replaceItems swaps the whole collection and persists it.
func (l *List) replaceItems(ctx context.Context, items []domain.Item) error {
	l.items = slices.Clone(items)
	if l.items == nil {
		l.items = []domain.Item{}
	}
	l.selected = map[int64]struct{}{}
	return l.persist(ctx)
}

// indexOf returns the collection index for id, or -1.
func (l *List) indexOf(id int64) int {
	return slices.IndexFunc(l.items, func(it domain.Item) bool {
		return it.ID == id
	})
}

// persist writes the full collection. The in-memory state is kept on failure.
func (l *List) persist(ctx context.Context) error {
	if err := l.store.Save(ctx, l.Items()); err != nil {
		l.logger.Error("persist items failed", "count", len(l.items), "err", err)
		return fmt.Errorf("persist items: %w", err)
	}
	return nil
}
