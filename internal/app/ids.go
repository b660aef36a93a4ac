package app

import (
	"sync"
	"time"
)

// IDGenerator returns unique identifiers for new items.
type IDGenerator func() int64

// Clock returns the current time.
type Clock func() time.Time

// NewMonotonicIDs returns millisecond timestamps that never repeat: when the
// clock stalls or steps backwards the previous id plus one is issued instead.
// Every id is greater than floor.
func NewMonotonicIDs(clock Clock, floor int64) IDGenerator {
	if clock == nil {
		clock = time.Now
	}
	var (
		mu   sync.Mutex
		last = floor
	)
	return func() int64 {
		mu.Lock()
		defer mu.Unlock()
		next := clock().UnixMilli()
		if next <= last {
			next = last + 1
		}
		last = next
		return next
	}
}
