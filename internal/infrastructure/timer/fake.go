package timer

import (
	"sort"
	"sync"
	"time"
)

// Fake is a manually driven Scheduler for tests. Callbacks fire
// synchronously inside Advance, ordered by deadline then by scheduling order.
type Fake struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []fakeTimer
}

type fakeTimer struct {
	at  time.Duration
	seq int
	fn  func()
}

var _ Scheduler = (*Fake)(nil)

func NewFake() *Fake {
	return &Fake{}
}

func (f *Fake) Schedule(d time.Duration, fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append(f.pending, fakeTimer{at: f.now + d, seq: f.seq, fn: fn})
	f.seq++
}

// Advance moves the clock forward and fires every timer that became due.
// Timers scheduled by a firing callback are honoured if they fall within
// the same window.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now + d
	f.mu.Unlock()

	for {
		f.mu.Lock()
		sort.Slice(f.pending, func(i, j int) bool {
			if f.pending[i].at != f.pending[j].at {
				return f.pending[i].at < f.pending[j].at
			}
			return f.pending[i].seq < f.pending[j].seq
		})
		if len(f.pending) == 0 || f.pending[0].at > target {
			f.now = target
			f.mu.Unlock()
			return
		}
		next := f.pending[0]
		f.pending = f.pending[1:]
		f.now = next.at
		f.mu.Unlock()

		next.fn()
	}
}

// Pending returns the number of timers that have not fired yet
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}
