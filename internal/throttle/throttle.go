// Package throttle limits how often a function runs during a burst of calls.
package throttle

import (
	"sync"
	"time"

	"github.com/bep/debounce"
)

// Throttler runs the first call of a burst immediately, then at most one call
// per interval while the burst lasts. The last call of a burst always runs,
// one interval after it was made, unless a later leading call replaced it.
type Throttler struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	seq      uint64
	trailing func(f func())
}

// New creates a throttler. A non-positive interval runs every call.
func New(interval time.Duration) *Throttler {
	return &Throttler{
		interval: interval,
		trailing: debounce.New(interval),
	}
}

// Do runs f now if the interval since the last run has passed, otherwise it
// schedules f as the trailing call of the burst.
func (t *Throttler) Do(f func()) {
	t.mu.Lock()
	now := time.Now()
	t.seq++
	if t.interval <= 0 || now.Sub(t.last) >= t.interval {
		t.last = now
		t.mu.Unlock()
		f()
		return
	}
	seq := t.seq
	t.mu.Unlock()

	t.trailing(func() {
		t.mu.Lock()
		if seq != t.seq {
			// superseded by a leading call
			t.mu.Unlock()
			return
		}
		t.last = time.Now()
		t.mu.Unlock()
		f()
	})
}
