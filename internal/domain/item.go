package domain

import "strings"

// Item is one task record.
type Item struct {
	ID       int64    `json:"id" yaml:"id"`
	Text     string   `json:"text" yaml:"text"`
	Priority Priority `json:"priority" yaml:"priority"`
}

// NewItem validates a record for insertion. Text is kept verbatim; it only has
// to contain something other than whitespace.
func NewItem(id int64, text string, priority Priority) (Item, error) {
	if id <= 0 {
		return Item{}, ErrInvalidID
	}
	if strings.TrimSpace(text) == "" {
		return Item{}, ErrEmptyText
	}
	if !priority.Valid() {
		return Item{}, ErrInvalidPriority
	}
	return Item{ID: id, Text: validText(text), Priority: priority}, nil
}

// WithDetails returns a copy carrying new text and priority. Edits accept empty text.
func (it Item) WithDetails(text string, priority Priority) Item {
	it.Text = validText(text)
	it.Priority = priority
	return it
}

// validText replaces invalid UTF-8 with U+FFFD, matching what the JSON
// payload stores, so memory and storage hold the same text.
func validText(text string) string {
	return strings.ToValidUTF8(text, "\uFFFD")
}

// Counts holds per-priority totals for a collection.
type Counts struct {
	Urgent int
	Medium int
	Low    int
	Total  int
}

// CountByPriority tallies items per bucket over the full slice.
func CountByPriority(items []Item) Counts {
	var c Counts
	for _, it := range items {
		switch it.Priority {
		case PriorityUrgent:
			c.Urgent++
		case PriorityMedium:
			c.Medium++
		case PriorityLow:
			c.Low++
		}
		c.Total++
	}
	return c
}

// For returns the count shown next to a filter tab.
func (c Counts) For(f Filter) int {
	switch f {
	case FilterAll:
		return c.Total
	case FilterFor(PriorityUrgent):
		return c.Urgent
	case FilterFor(PriorityMedium):
		return c.Medium
	case FilterFor(PriorityLow):
		return c.Low
	default:
		return 0
	}
}
