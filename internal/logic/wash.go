package logic

import (
	"time"

	"go.uber.org/zap"

	"github.com/cristianszwarc/dishwasher/internal/buzzer"
)

// Wash runs one complete cycle: fill, an optional soap dose, a
// temperature-gated wash timer and the final drain.
//
// Temperature control is bang-bang against the cached reading and the
// heater has exactly one chance to be energized, before the timer starts.
// While the water is below target the wash timer is pushed forward, so the
// configured wash time is spent entirely at temperature; the pushing is
// bounded by the heating budget, after which the cycle fails rather than
// heat forever.
type Wash struct {
	p   Plant
	t   Timings
	log *zap.SugaredLogger

	spec CycleSpec

	state washState
	fill  *Fill
	drain *Drain

	temp       int       // cached raw reading, refreshed only while heating
	heaterOn   bool
	cycleStart time.Time // wash loop entry, bounds the heating budget
	washStart  time.Time // at-temperature timer baseline
}

type washState int

const (
	washFill washState = iota
	washSoapOn
	washSoapOff
	washHeatCheck
	washRun
	washLampOn
	washLampOff
	washDrain
)

// NewWash returns a cycle machine for spec.
func NewWash(p Plant, t Timings, spec CycleSpec, log *zap.SugaredLogger) *Wash {
	return &Wash{
		p:     p,
		t:     t,
		log:   log,
		spec:  spec,
		fill:  NewFill(p, t, log),
		drain: NewDrain(p, t, log),
	}
}

func (w *Wash) Name() string { return "wash" }

// Tick advances the cycle.
func (w *Wash) Tick(now time.Time) Step {
	switch w.state {

	case washFill:
		step := w.fill.Tick(now)
		if step.Outcome == Done {
			w.state = washSoapOn
			return proceed(Effects{})
		}
		return step

	case washSoapOn:
		if !w.spec.Soap {
			w.state = washHeatCheck
			return proceed(Effects{})
		}
		w.p.Act.SetSoapDispenser(true)
		w.state = washSoapOff
		return proceed(Effects{Wait: w.t.SoapPulse})

	case washSoapOff:
		w.p.Act.SetSoapDispenser(false)
		w.state = washHeatCheck
		return proceed(Effects{Wait: w.t.SoapSettle})

	case washHeatCheck:
		// The only point in the whole cycle where the heater may come on.
		w.temp = w.p.Sense.TemperatureRaw()
		if w.spec.TargetTemp > 0 && w.temp < w.spec.TargetTemp {
			w.p.Act.SetHeater(true)
			w.heaterOn = true
			w.state = washRun
			w.log.Infow("heater on", "raw", w.temp, "target", w.spec.TargetTemp)
			return proceed(Effects{Wait: w.t.HeaterSettle})
		}
		w.state = washRun
		return proceed(Effects{})

	case washRun:
		if w.cycleStart.IsZero() {
			w.cycleStart = now
			w.washStart = now
		}
		if now.Sub(w.washStart) >= w.spec.Wash {
			w.state = washDrain
			return proceed(Effects{})
		}
		var chirp buzzer.Burst
		if w.temp >= w.spec.TargetTemp {
			if w.heaterOn {
				w.heaterOn = false
				w.log.Infow("target temperature reached", "raw", w.temp)
			}
			w.p.Act.SetHeater(false)
		} else {
			w.temp = w.p.Sense.TemperatureRaw()
			if w.temp < w.spec.TargetTemp && now.Sub(w.cycleStart) > w.t.HeaterTimeout {
				return fail(buzzer.CodeHeatTimeout)
			}
			// Heating time does not count as washing time.
			w.washStart = now
			chirp = buzzer.ChirpHeating
		}
		w.state = washLampOn
		return proceed(Effects{Chirp: chirp, Wait: w.t.WashPulse})

	case washLampOn:
		w.p.Act.SetIndicator(true)
		w.state = washLampOff
		return proceed(Effects{Wait: w.t.WashPulse})

	case washLampOff:
		w.p.Act.SetIndicator(false)
		w.state = washRun
		return proceed(Effects{})

	case washDrain:
		step := w.drain.Tick(now)
		if step.Outcome == Done {
			w.log.Infow("cycle complete")
			return done()
		}
		return step
	}

	panic("wash: invalid state")
}
