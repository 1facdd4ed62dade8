// Package logic implements the appliance control core: the fill, drain and
// wash phase machines, the safety reset and the program sequencer.
//
// Phase machines are driven by discrete ticks. A tick reads sensors,
// switches actuators and reports how to proceed; pacing beeps and polling
// waits are requested as effects and played by the runner through the
// injected clock and annunciator. Time never comes from time.Now here, so
// every decision can be replayed against a virtual clock in tests.
package logic

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cristianszwarc/dishwasher/internal/buzzer"
	"github.com/cristianszwarc/dishwasher/internal/clock"
	"github.com/cristianszwarc/dishwasher/internal/gpio"
)

// Outcome of one tick.
type Outcome int

const (
	// Continue means the phase wants another tick after its effects play.
	Continue Outcome = iota
	// Done means the phase finished cleanly.
	Done
	// Failed means the phase hit an unrecoverable condition.
	Failed
)

// Effects are the side effects a machine requests after a tick: an
// announcement or chirp, then a wait. Zero values request nothing.
type Effects struct {
	Message buzzer.MessageCode
	Chirp   buzzer.Burst
	Wait    time.Duration
}

// Step is the result of one tick.
type Step struct {
	Outcome Outcome
	Fault   *Fault
	Effects Effects
}

// Machine is one phase of the appliance cycle.
type Machine interface {
	Name() string
	Tick(now time.Time) Step
}

// Fault is a control failure carrying its audible error code. Faults are
// reported by phase machines and latched exactly once, by the sequencer.
type Fault struct {
	Code buzzer.ErrorCode
}

func (f *Fault) Error() string {
	return fmt.Sprintf("fault %d: %s", int(f.Code), faultText(f.Code))
}

func faultText(c buzzer.ErrorCode) string {
	switch c {
	case buzzer.CodeGenericFault:
		return "hardware not idle"
	case buzzer.CodeDrainFailure:
		return "tank did not drain"
	case buzzer.CodeFillTimeout:
		return "base level not reached"
	case buzzer.CodeTopUpFailure:
		return "level lost after agitation"
	case buzzer.CodeHeatTimeout:
		return "target temperature not reached"
	default:
		return "unknown"
	}
}

// Plant bundles the capabilities the control core acts through.
type Plant struct {
	Act   gpio.ActuatorBus
	Sense gpio.SensorBus
	Ann   buzzer.Annunciator
	Clk   clock.Clock
}

func proceed(e Effects) Step {
	return Step{Outcome: Continue, Effects: e}
}

func done() Step {
	return Step{Outcome: Done}
}

func fail(code buzzer.ErrorCode) Step {
	return Step{Outcome: Failed, Fault: &Fault{Code: code}}
}

// run ticks m until it finishes, fails or ctx is canceled, playing the
// requested effects between ticks.
func run(ctx context.Context, p Plant, m Machine, log *zap.SugaredLogger) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		step := m.Tick(p.Clk.Now())
		switch step.Outcome {
		case Done:
			return nil
		case Failed:
			log.Errorw("phase failed", "phase", m.Name(), "code", int(step.Fault.Code), "err", step.Fault)
			return step.Fault
		}
		if step.Effects.Message != 0 {
			p.Ann.Message(step.Effects.Message)
		}
		if step.Effects.Chirp.N > 0 {
			p.Ann.Beep(step.Effects.Chirp)
		}
		sleep(ctx, p.Clk, step.Effects.Wait)
	}
}

// sleep waits d on the clock in short slices so cancellation interrupts
// even the long drain and selection waits promptly.
func sleep(ctx context.Context, clk clock.Clock, d time.Duration) {
	const slice = 500 * time.Millisecond
	for d > 0 && ctx.Err() == nil {
		s := d
		if s > slice {
			s = slice
		}
		clk.Sleep(s)
		d -= s
	}
}
