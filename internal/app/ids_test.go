package app

import (
	"testing"
	"time"
)

func TestMonotonicIDsNeverRepeat(t *testing.T) {
	base := time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)
	now := base
	gen := NewMonotonicIDs(func() time.Time { return now }, 0)

	first := gen()
	if first != base.UnixMilli() {
		t.Fatalf("expected timestamp id, got %d", first)
	}
	second := gen()
	if second != first+1 {
		t.Fatalf("expected stalled clock to bump id, got %d", second)
	}
	now = base.Add(-time.Hour)
	if third := gen(); third != second+1 {
		t.Fatalf("expected backwards clock to bump id, got %d", third)
	}
	now = base.Add(time.Second)
	if fourth := gen(); fourth != now.UnixMilli() {
		t.Fatalf("expected clock id once it moves ahead, got %d", fourth)
	}
}

func TestMonotonicIDsRespectFloor(t *testing.T) {
	now := time.UnixMilli(1000)
	gen := NewMonotonicIDs(func() time.Time { return now }, 5000)
	if got := gen(); got != 5001 {
		t.Fatalf("expected id above floor, got %d", got)
	}
}
