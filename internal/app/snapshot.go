package app

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/evanschultz/prio/internal/domain"
)

// SnapshotVersion defines a package constant value.
const SnapshotVersion = "prio.snapshot.v1"

// Snapshot is a portable export of the full collection.
type Snapshot struct {
	Version    string        `json:"version" yaml:"version"`
	ID         string        `json:"id" yaml:"id"`
	ExportedAt time.Time     `json:"exported_at" yaml:"exported_at"`
	Items      []domain.Item `json:"items" yaml:"items"`
}

// ExportSnapshot captures the collection in its current order.
func (l *List) ExportSnapshot(now time.Time, newID func() string) Snapshot {
	id := ""
	if newID != nil {
		id = newID()
	}
	return Snapshot{
		Version:    SnapshotVersion,
		ID:         id,
		ExportedAt: now.UTC(),
		Items:      l.Items(),
	}
}

// Validate checks the version and every item, rejecting duplicate ids.
func (s Snapshot) Validate() error {
	if strings.TrimSpace(s.Version) != SnapshotVersion {
		return fmt.Errorf("%w: %q", ErrUnsupportedSnapshot, s.Version)
	}
	seen := make(map[int64]struct{}, len(s.Items))
	for idx, it := range s.Items {
		if it.ID <= 0 {
			return fmt.Errorf("items[%d]: %w", idx, domain.ErrInvalidID)
		}
		if !it.Priority.Valid() {
			return fmt.Errorf("items[%d]: %w", idx, domain.ErrInvalidPriority)
		}
		if _, ok := seen[it.ID]; ok {
			return fmt.Errorf("items[%d]: %w: %d", idx, ErrDuplicateID, it.ID)
		}
		seen[it.ID] = struct{}{}
	}
	return nil
}

// ImportSnapshot replaces the collection with the snapshot items, clears the
// selection and persists. The id generator is advanced past every imported id.
func (l *List) ImportSnapshot(ctx context.Context, snap Snapshot) error {
	snap.Items = slices.Clone(snap.Items)
	for idx := range snap.Items {
		if p, err := domain.ParsePriority(string(snap.Items[idx].Priority)); err == nil {
			snap.Items[idx].Priority = p
		}
	}
	if err := snap.Validate(); err != nil {
		return err
	}
	var floor int64
	for _, it := range snap.Items {
		floor = max(floor, it.ID)
	}
	prev := l.idGen
	bumped := NewMonotonicIDs(nil, floor)
	l.idGen = func() int64 {
		return max(prev(), bumped())
	}
	l.logger.Info("snapshot imported", "id", snap.ID, "count", len(snap.Items))
	return l.replaceItems(ctx, snap.Items)
}
