package domain

import "strings"

// Filter selects which items are visible: every item, or one priority bucket.
type Filter string

// FilterAll shows every item regardless of priority.
const FilterAll Filter = "all"

// Filters returns every filter in tab order.
func Filters() []Filter {
	out := []Filter{FilterAll}
	for _, p := range validPriorities {
		out = append(out, FilterFor(p))
	}
	return out
}

// FilterFor returns the filter showing only one priority.
func FilterFor(p Priority) Filter {
	return Filter(p)
}

// ParseFilter normalizes raw input. "tous" is accepted as a legacy alias for all.
func ParseFilter(raw string) (Filter, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case "all", "tous":
		return FilterAll, nil
	}
	p, err := ParsePriority(value)
	if err != nil {
		return "", ErrInvalidFilter
	}
	return FilterFor(p), nil
}

// Valid reports whether f is a known filter.
func (f Filter) Valid() bool {
	if f == FilterAll {
		return true
	}
	return Priority(f).Valid()
}

// Priority reports the bucket a specific filter shows. It is false for FilterAll.
func (f Filter) Priority() (Priority, bool) {
	p := Priority(f)
	if !p.Valid() {
		return "", false
	}
	return p, true
}

// Matches reports whether an item is visible under the filter.
func (f Filter) Matches(item Item) bool {
	if f == FilterAll {
		return true
	}
	return item.Priority == Priority(f)
}

// Label returns the tab text for f.
func (f Filter) Label() string {
	if f == FilterAll {
		return "All"
	}
	return Priority(f).Label()
}

// Cycle steps through Filters() in tab order, wrapping at both ends.
func (f Filter) Cycle(delta int) Filter {
	filters := Filters()
	idx := 0
	for i, candidate := range filters {
		if candidate == f {
			idx = i
			break
		}
	}
	n := len(filters)
	return filters[((idx+delta)%n+n)%n]
}
