// Package clock abstracts wall-clock time so the control core can run
// against real time, compressed time (simulation) or virtual time (tests).
package clock

import "time"

// Clock provides the current time and blocking sleeps.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Sleep blocks for at least d. Virtual implementations advance their
	// time instead of blocking.
	Sleep(d time.Duration)
}

// Real is the wall clock.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

func (Real) Sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}
