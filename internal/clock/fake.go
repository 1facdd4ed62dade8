package clock

import (
	"sort"
	"time"
)

// Fake is a deterministic virtual clock for tests. Sleep advances the
// virtual time instantly, firing any callbacks scheduled inside the crossed
// interval in order. It is not safe for concurrent use; tests drive it from
// a single goroutine.
type Fake struct {
	now     time.Time
	pending []scheduled
}

type scheduled struct {
	at time.Time
	fn func()
}

// NewFake returns a virtual clock starting at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the current virtual time.
func (f *Fake) Now() time.Time { return f.now }

// Sleep advances the virtual time by d.
func (f *Fake) Sleep(d time.Duration) {
	if d > 0 {
		f.Advance(d)
	}
}

// Advance moves the virtual time forward by d, running due callbacks along
// the way. Each callback observes Now as its scheduled instant.
func (f *Fake) Advance(d time.Duration) {
	target := f.now.Add(d)
	for {
		next, ok := f.pop(target)
		if !ok {
			break
		}
		f.now = next.at
		next.fn()
	}
	f.now = target
}

// At schedules fn to run once when the virtual time reaches t. Late
// schedules (t already in the past) fire on the next Advance.
func (f *Fake) At(t time.Time, fn func()) {
	f.pending = append(f.pending, scheduled{at: t, fn: fn})
	sort.SliceStable(f.pending, func(i, j int) bool {
		return f.pending[i].at.Before(f.pending[j].at)
	})
}

// After schedules fn to run once d after the current virtual time.
func (f *Fake) After(d time.Duration, fn func()) {
	f.At(f.now.Add(d), fn)
}

func (f *Fake) pop(limit time.Time) (scheduled, bool) {
	if len(f.pending) == 0 || f.pending[0].at.After(limit) {
		return scheduled{}, false
	}
	head := f.pending[0]
	f.pending = f.pending[1:]
	return head, true
}
