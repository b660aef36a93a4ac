package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/evanschultz/prio/internal/domain"
)

type fakeStore struct {
	items   []domain.Item
	loadErr error
	saveErr error
	saves   int
	raw     []byte
}

func (f *fakeStore) Load(context.Context) ([]domain.Item, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return slices.Clone(f.items), nil
}

func (f *fakeStore) Save(_ context.Context, items []domain.Item) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	f.raw = raw
	f.items = slices.Clone(items)
	f.saves++
	return nil
}

// persisted decodes what the last Save wrote.
func (f *fakeStore) persisted(t *testing.T) []domain.Item {
	t.Helper()
	var out []domain.Item
	if err := json.Unmarshal(f.raw, &out); err != nil {
		t.Fatalf("decode persisted items: %v", err)
	}
	return out
}

func sequenceIDs(start int64) IDGenerator {
	next := start
	return func() int64 {
		next++
		return next
	}
}

func newTestList(t *testing.T, store *fakeStore) *List {
	t.Helper()
	l, err := NewList(context.Background(), store, sequenceIDs(0), ListConfig{}, nil)
	if err != nil {
		t.Fatalf("NewList() error = %v", err)
	}
	return l
}

func seedItems() []domain.Item {
	return []domain.Item{
		{ID: 1, Text: "one", Priority: domain.PriorityUrgent},
		{ID: 2, Text: "two", Priority: domain.PriorityMedium},
		{ID: 3, Text: "three", Priority: domain.PriorityUrgent},
		{ID: 4, Text: "four", Priority: domain.PriorityLow},
	}
}

func TestNewListDefaults(t *testing.T) {
	l := newTestList(t, &fakeStore{})
	if l.Filter() != domain.FilterFor(domain.PriorityMedium) {
		t.Fatalf("expected medium filter by default, got %q", l.Filter())
	}
	if l.Draft().Priority != domain.PriorityMedium || l.Draft().Text != "" {
		t.Fatalf("unexpected default draft %#v", l.Draft())
	}
	if len(l.Items()) != 0 || l.SelectionCount() != 0 {
		t.Fatal("expected empty list and selection")
	}
}

func TestNewListCorruptPayloadStartsEmpty(t *testing.T) {
	store := &fakeStore{loadErr: fmt.Errorf("decode: %w", ErrCorruptPayload)}
	l, err := NewList(context.Background(), store, nil, ListConfig{}, nil)
	if err != nil {
		t.Fatalf("NewList() error = %v", err)
	}
	if len(l.Items()) != 0 {
		t.Fatalf("expected empty collection, got %#v", l.Items())
	}
}

func TestNewListPropagatesOtherLoadErrors(t *testing.T) {
	store := &fakeStore{loadErr: errors.New("disk on fire")}
	if _, err := NewList(context.Background(), store, nil, ListConfig{}, nil); err == nil {
		t.Fatal("expected load error")
	}
}

func TestNewListRejectsInvalidConfig(t *testing.T) {
	_, err := NewList(context.Background(), &fakeStore{}, nil, ListConfig{DefaultFilter: "bogus"}, nil)
	if !errors.Is(err, domain.ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}
	_, err = NewList(context.Background(), &fakeStore{}, nil, ListConfig{DefaultPriority: "high"}, nil)
	if !errors.Is(err, domain.ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}
}

func TestAddItemPrependsAndPersists(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{items: seedItems()}
	l, err := NewList(ctx, store, sequenceIDs(100), ListConfig{}, nil)
	if err != nil {
		t.Fatalf("NewList() error = %v", err)
	}
	l.SetDraftText("Buy milk")
	before := l.Counts().Total

	item, added, err := l.AddItem(ctx, "Buy milk", domain.PriorityMedium)
	if err != nil || !added {
		t.Fatalf("AddItem() = %v, %v", added, err)
	}
	items := l.Items()
	if items[0] != item || item.Text != "Buy milk" || item.Priority != domain.PriorityMedium {
		t.Fatalf("expected new item first, got %#v", items[0])
	}
	for _, it := range items[1:] {
		if it.ID == item.ID {
			t.Fatalf("id %d reused", item.ID)
		}
	}
	if got := l.Counts().Total; got != before+1 {
		t.Fatalf("expected total %d, got %d", before+1, got)
	}
	if l.Draft().Text != "" {
		t.Fatalf("expected draft text cleared, got %q", l.Draft().Text)
	}
	if store.saves != 1 || !slices.Equal(store.persisted(t), l.Items()) {
		t.Fatalf("expected persisted collection to match memory, saves=%d", store.saves)
	}
}

func TestAddItemBlankIsIgnored(t *testing.T) {
	store := &fakeStore{items: seedItems()}
	l := newTestList(t, store)
	l.SetDraftText("   ")

	_, added, err := l.SubmitDraft(context.Background())
	if err != nil || added {
		t.Fatalf("SubmitDraft() = %v, %v", added, err)
	}
	if store.saves != 0 {
		t.Fatal("expected no write for blank text")
	}
	if l.Counts() != domain.CountByPriority(seedItems()) {
		t.Fatalf("expected counts unchanged, got %#v", l.Counts())
	}
	if l.Draft().Text != "   " {
		t.Fatal("expected draft text left as typed")
	}
}

func TestAddItemRejectsDuplicateID(t *testing.T) {
	store := &fakeStore{items: seedItems()}
	l, err := NewList(context.Background(), store, func() int64 { return 2 }, ListConfig{}, nil)
	if err != nil {
		t.Fatalf("NewList() error = %v", err)
	}
	if _, _, err := l.AddItem(context.Background(), "x", domain.PriorityLow); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestAddItemKeepsMemoryStateWhenSaveFails(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("read-only")}
	l := newTestList(t, store)
	_, added, err := l.AddItem(context.Background(), "x", domain.PriorityLow)
	if !added || err == nil {
		t.Fatalf("expected added with persist error, got %v, %v", added, err)
	}
	if len(l.Items()) != 1 {
		t.Fatal("expected item kept in memory")
	}
}

func TestCountsIgnoreFilterAndSumToTotal(t *testing.T) {
	ctx := context.Background()
	l := newTestList(t, &fakeStore{})
	for i, p := range []domain.Priority{domain.PriorityUrgent, domain.PriorityLow, domain.PriorityLow, domain.PriorityMedium} {
		if _, _, err := l.AddItem(ctx, fmt.Sprintf("item %d", i), p); err != nil {
			t.Fatalf("AddItem() error = %v", err)
		}
	}
	for _, f := range domain.Filters() {
		if err := l.SetFilter(f); err != nil {
			t.Fatalf("SetFilter() error = %v", err)
		}
		c := l.Counts()
		if c.Total != 4 || c.Total != c.Urgent+c.Medium+c.Low {
			t.Fatalf("unexpected counts under %q: %#v", f, c)
		}
	}
}

func TestSetFilterFiltersAndCouplesDraftPriority(t *testing.T) {
	l := newTestList(t, &fakeStore{items: seedItems()})

	if err := l.SetFilter(domain.FilterFor(domain.PriorityUrgent)); err != nil {
		t.Fatalf("SetFilter() error = %v", err)
	}
	got := l.FilteredItems()
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("unexpected urgent view %#v", got)
	}
	if l.Draft().Priority != domain.PriorityUrgent {
		t.Fatalf("expected draft priority urgent, got %q", l.Draft().Priority)
	}

	if err := l.SetFilter(domain.FilterAll); err != nil {
		t.Fatalf("SetFilter() error = %v", err)
	}
	if len(l.FilteredItems()) != 4 {
		t.Fatal("expected all items visible")
	}
	if l.Draft().Priority != domain.PriorityUrgent {
		t.Fatal("expected all filter to leave draft priority untouched")
	}
	if err := l.SetFilter("nope"); !errors.Is(err, domain.ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}
}

func TestToggleSelectRoundTrip(t *testing.T) {
	l := newTestList(t, &fakeStore{items: seedItems()})
	l.ToggleSelect(2)
	before := l.SelectedIDs()

	if !l.ToggleSelect(3) {
		t.Fatal("expected id selected after first toggle")
	}
	if l.ToggleSelect(3) {
		t.Fatal("expected id unselected after second toggle")
	}
	if !slices.Equal(l.SelectedIDs(), before) {
		t.Fatalf("expected selection %v, got %v", before, l.SelectedIDs())
	}
}

func TestSelectAllVisibleToggles(t *testing.T) {
	l := newTestList(t, &fakeStore{items: seedItems()})
	if err := l.SetFilter(domain.FilterFor(domain.PriorityUrgent)); err != nil {
		t.Fatalf("SetFilter() error = %v", err)
	}

	if n := l.SelectAllVisible(); n != 2 {
		t.Fatalf("expected 2 selected, got %d", n)
	}
	if !slices.Equal(l.SelectedIDs(), []int64{1, 3}) {
		t.Fatalf("unexpected selection %v", l.SelectedIDs())
	}
	if n := l.SelectAllVisible(); n != 0 || l.SelectionCount() != 0 {
		t.Fatalf("expected selection cleared, got %v", l.SelectedIDs())
	}

	// A partial selection, including an id outside the view, is replaced by the visible ids.
	l.ToggleSelect(1)
	l.ToggleSelect(4)
	l.SelectAllVisible()
	if !slices.Equal(l.SelectedIDs(), []int64{1, 3}) {
		t.Fatalf("expected visible ids only, got %v", l.SelectedIDs())
	}
}

func TestSelectAllVisibleOnEmptyViewLeavesNothingSelected(t *testing.T) {
	l := newTestList(t, &fakeStore{items: seedItems()[:1]})
	if err := l.SetFilter(domain.FilterFor(domain.PriorityLow)); err != nil {
		t.Fatalf("SetFilter() error = %v", err)
	}
	l.ToggleSelect(1)
	if n := l.SelectAllVisible(); n != 0 {
		t.Fatalf("expected empty selection, got %d", n)
	}
}

func TestDeleteSelectedIsCollectionWide(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{items: seedItems()}
	l := newTestList(t, store)
	l.ToggleSelect(1)
	l.ToggleSelect(3)
	// Neither selected item is visible under the low filter.
	if err := l.SetFilter(domain.FilterFor(domain.PriorityLow)); err != nil {
		t.Fatalf("SetFilter() error = %v", err)
	}

	removed, err := l.DeleteSelected(ctx)
	if err != nil {
		t.Fatalf("DeleteSelected() error = %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	var ids []int64
	for _, it := range l.Items() {
		ids = append(ids, it.ID)
	}
	if !slices.Equal(ids, []int64{2, 4}) {
		t.Fatalf("expected remaining ids [2 4], got %v", ids)
	}
	if l.SelectionCount() != 0 {
		t.Fatal("expected selection cleared")
	}
	if !slices.Equal(store.persisted(t), l.Items()) {
		t.Fatal("expected persisted collection to match memory")
	}
}

func TestDeleteSelectedEmptyIsNoop(t *testing.T) {
	store := &fakeStore{items: seedItems()}
	l := newTestList(t, store)
	removed, err := l.DeleteSelected(context.Background())
	if err != nil || removed != 0 || store.saves != 0 {
		t.Fatalf("expected no-op, got removed=%d err=%v saves=%d", removed, err, store.saves)
	}
}

func TestEditItemChangesOnlyTarget(t *testing.T) {
	store := &fakeStore{items: seedItems()}
	l := newTestList(t, store)
	low, err := domain.ParsePriority("Basse")
	if err != nil {
		t.Fatalf("ParsePriority() error = %v", err)
	}

	ok, err := l.EditItem(context.Background(), 2, "New text", low)
	if err != nil || !ok {
		t.Fatalf("EditItem() = %v, %v", ok, err)
	}
	want := seedItems()
	want[1] = domain.Item{ID: 2, Text: "New text", Priority: domain.PriorityLow}
	if !slices.Equal(l.Items(), want) {
		t.Fatalf("unexpected items %#v", l.Items())
	}
	if !slices.Equal(store.persisted(t), want) {
		t.Fatal("expected persisted collection to match memory")
	}
}

func TestEditItemUnknownOrInvalid(t *testing.T) {
	store := &fakeStore{items: seedItems()}
	l := newTestList(t, store)
	ok, err := l.EditItem(context.Background(), 99, "x", domain.PriorityLow)
	if ok || err != nil || store.saves != 0 {
		t.Fatalf("expected unknown id no-op, got %v %v saves=%d", ok, err, store.saves)
	}
	if _, err := l.EditItem(context.Background(), 1, "x", "high"); !errors.Is(err, domain.ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	l := newTestList(t, &fakeStore{items: seedItems()})
	items := l.Items()
	items[0].Text = "mutated"
	if it, _ := l.ItemByID(1); it.Text != "one" {
		t.Fatal("expected Items to return a copy")
	}
}
