package clock

import "time"

// Scaled runs ahead of the wall clock by a fixed factor. Simulation mode
// uses it so a full program finishes in minutes instead of hours while the
// control decisions still see appliance-scale durations.
type Scaled struct {
	factor float64
	epoch  time.Time // virtual time at start
	start  time.Time // wall time at start
}

// NewScaled returns a clock advancing factor seconds per wall second.
// Factors below 1 are clamped to 1.
func NewScaled(factor float64) *Scaled {
	if factor < 1 {
		factor = 1
	}
	now := time.Now()
	return &Scaled{factor: factor, epoch: now, start: now}
}

func (s *Scaled) Now() time.Time {
	elapsed := time.Since(s.start)
	return s.epoch.Add(time.Duration(float64(elapsed) * s.factor))
}

func (s *Scaled) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	time.Sleep(time.Duration(float64(d) / s.factor))
}
