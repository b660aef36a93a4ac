package domain

import (
	"slices"
	"strings"
)

// Priority identifies the bucket an item is filed under.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

var validPriorities = []Priority{PriorityUrgent, PriorityMedium, PriorityLow}

// legacyPriorityNames maps values written by the browser build of the list.
var legacyPriorityNames = map[string]Priority{
	"urgente": PriorityUrgent,
	"moyenne": PriorityMedium,
	"basse":   PriorityLow,
}

// Priorities returns every priority in display order.
func Priorities() []Priority {
	return slices.Clone(validPriorities)
}

// ParsePriority normalizes raw input, accepting legacy stored names.
func ParsePriority(raw string) (Priority, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if p := Priority(value); slices.Contains(validPriorities, p) {
		return p, nil
	}
	if p, ok := legacyPriorityNames[value]; ok {
		return p, nil
	}
	return "", ErrInvalidPriority
}

// Valid reports whether p is a canonical priority.
func (p Priority) Valid() bool {
	return slices.Contains(validPriorities, p)
}

// Label returns the display label.
func (p Priority) Label() string {
	switch p {
	case PriorityUrgent:
		return "Urgent"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	default:
		return string(p)
	}
}

// Cycle steps through priorities in display order, wrapping at both ends.
func (p Priority) Cycle(delta int) Priority {
	idx := slices.Index(validPriorities, p)
	if idx < 0 {
		return PriorityMedium
	}
	n := len(validPriorities)
	return validPriorities[((idx+delta)%n+n)%n]
}
