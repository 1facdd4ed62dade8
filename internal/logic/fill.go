package logic

import (
	"time"

	"go.uber.org/zap"

	"github.com/cristianszwarc/dishwasher/internal/buzzer"
)

// Fill runs the load phase. The tank has a single threshold switch and no
// continuous level sensor, so everything above the base level is reached by
// timed extrapolation: the time the water takes to reach the switch is
// measured once and the remaining stages are fixed multiples of it. A tank
// that fills slower than usual therefore also tops up longer, which is
// exactly what a clogged intake needs.
type Fill struct {
	p   Plant
	t   Timings
	log *zap.SugaredLogger

	state fillState

	start    time.Time     // intake valve opening instant
	baseTime time.Duration // measured time to the level switch
	until    time.Time     // deadline of the current stage
}

type fillState int

const (
	fillAnnounce fillState = iota
	fillBase
	fillDouble
	fillAgitate
	fillTopUp
	fillConfirm
	fillSettle
)

// NewFill returns the load phase machine.
func NewFill(p Plant, t Timings, log *zap.SugaredLogger) *Fill {
	return &Fill{p: p, t: t, log: log}
}

func (f *Fill) Name() string { return "fill" }

// Tick advances the load phase.
func (f *Fill) Tick(now time.Time) Step {
	switch f.state {

	case fillAnnounce:
		// Known state before moving water.
		Reset(f.p, f.t.ResetSettleFill)
		f.state = fillBase
		return proceed(Effects{Message: buzzer.MsgFillStart})

	case fillBase:
		if f.start.IsZero() {
			f.p.Act.SetValve(true)
			f.start = now
		}
		if f.p.Sense.Filled() {
			f.baseTime = now.Sub(f.start)
			f.until = now.Add(mul(f.baseTime, f.t.DoubleFactor))
			f.state = fillDouble
			f.log.Infow("base level reached", "base_fill_time", f.baseTime)
			return proceed(Effects{})
		}
		// Level first, deadline second: a reading that lands exactly on
		// the deadline still counts.
		if now.Sub(f.start) >= f.t.FillTimeout {
			return fail(buzzer.CodeFillTimeout)
		}
		return proceed(Effects{Wait: f.t.BasePoll})

	case fillDouble:
		// Still water, valve open: put in one more base volume on time
		// alone.
		if now.Before(f.until) {
			return proceed(Effects{Chirp: buzzer.ChirpDoubling, Wait: f.t.DoublePace})
		}
		f.p.Act.SetMainPump(true)
		f.until = now.Add(div(f.baseTime, f.t.AgitateDivisor))
		f.state = fillAgitate
		f.log.Infow("agitation started", "fill_continues_for", div(f.baseTime, f.t.AgitateDivisor))
		return proceed(Effects{})

	case fillAgitate:
		// The running pump holds part of the volume in the circuit and
		// the surface churns; the level switch cannot be trusted, so this
		// stage does not poll it at all.
		if now.Before(f.until) {
			return proceed(Effects{Chirp: buzzer.ChirpAgitate, Wait: f.t.AgitatePace})
		}
		f.until = now.Add(mul(f.baseTime, f.t.TopUpFactor))
		f.state = fillTopUp
		return proceed(Effects{})

	case fillTopUp:
		// Valve stays open until the switch confirms the level again,
		// bounded so a leak cannot keep the valve open forever.
		if f.p.Sense.Filled() {
			f.state = fillConfirm
			return proceed(Effects{})
		}
		if now.Before(f.until) {
			return proceed(Effects{Chirp: buzzer.ChirpTopUp, Wait: f.t.TopUpPace})
		}
		f.state = fillConfirm
		return proceed(Effects{})

	case fillConfirm:
		// One fresh confirmed reading before anyone may energize the
		// heater behind us.
		if !f.p.Sense.Filled() {
			return fail(buzzer.CodeTopUpFailure)
		}
		f.p.Act.SetValve(false)
		f.state = fillSettle
		f.log.Infow("fill complete", "took", now.Sub(f.start))
		return proceed(Effects{Wait: f.t.FillSettle})

	case fillSettle:
		return done()
	}

	panic("fill: invalid state")
}
