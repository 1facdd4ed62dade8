package logic

import (
	"time"

	"go.uber.org/zap"

	"github.com/cristianszwarc/dishwasher/internal/buzzer"
)

// Drain runs the drain phase: a fixed-window pump-out followed by a dryness
// check. The window is sized for a full tank with margin; a tank that still
// reads full afterwards means a blocked or dead drain path, and that is
// never retried.
type Drain struct {
	p   Plant
	t   Timings
	log *zap.SugaredLogger

	state drainState
	until time.Time
}

type drainState int

const (
	drainStart drainState = iota
	drainRun
	drainVerify
)

// NewDrain returns the drain phase machine.
func NewDrain(p Plant, t Timings, log *zap.SugaredLogger) *Drain {
	return &Drain{p: p, t: t, log: log}
}

func (d *Drain) Name() string { return "drain" }

// Tick advances the drain phase.
func (d *Drain) Tick(now time.Time) Step {
	switch d.state {

	case drainStart:
		// The reset shuts the main pump off last, so the level stays
		// drawn down right until the drain pump takes over.
		Reset(d.p, d.t.ResetSettleDrain)
		d.p.Act.SetDrainPump(true)
		d.state = drainRun
		return proceed(Effects{Message: buzzer.MsgDrainStart})

	case drainRun:
		if d.until.IsZero() {
			d.until = now.Add(d.t.DrainWindow)
		}
		if now.Before(d.until) {
			return proceed(Effects{Wait: d.until.Sub(now)})
		}
		d.p.Act.SetDrainPump(false)
		d.state = drainVerify
		return proceed(Effects{})

	case drainVerify:
		if d.p.Sense.Filled() {
			return fail(buzzer.CodeDrainFailure)
		}
		d.log.Infow("drain complete")
		return done()
	}

	panic("drain: invalid state")
}
