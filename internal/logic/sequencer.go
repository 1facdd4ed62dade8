package logic

import (
	"context"
	"errors"

	"github.com/rs/xid"
	"go.uber.org/zap"

	"github.com/cristianszwarc/dishwasher/internal/buzzer"
)

// Sequencer owns the appliance lifecycle: power-on checks, program
// selection, cycle execution and the two terminal signaling loops. It is
// the only component that latches the appliance; phase machines merely
// report faults.
type Sequencer struct {
	p   Plant
	t   Timings
	log *zap.SugaredLogger
}

// NewSequencer returns a sequencer for the given plant and calibration.
func NewSequencer(p Plant, t Timings, log *zap.SugaredLogger) *Sequencer {
	return &Sequencer{p: p, t: t, log: log}
}

// Run performs the power-on checks, waits for the user, runs the selected
// program and then signals until ctx is canceled. Cutting power, which
// cancels ctx, is the only way out of either terminal loop; a latched
// fault is returned once its signaling ends.
func (s *Sequencer) Run(ctx context.Context) error {
	if err := s.startup(ctx); err != nil {
		var fault *Fault
		if errors.As(err, &fault) {
			return s.latch(ctx, fault)
		}
		return err
	}

	program, err := s.selectProgram(ctx)
	if err != nil {
		return err
	}

	runID := xid.New().String()
	s.log.Infow("program selected", "run", runID, "program", program.Name, "cycles", len(program.Cycles))

	for i, spec := range program.Cycles {
		clog := s.log.With("run", runID, "cycle", i+1)
		clog.Infow("cycle starting", "wash_time", spec.Wash, "soap", spec.Soap, "target", spec.TargetTemp)
		if err := run(ctx, s.p, NewWash(s.p, s.t, spec, clog), clog); err != nil {
			var fault *Fault
			if errors.As(err, &fault) {
				return s.latch(ctx, fault)
			}
			return err
		}
	}

	s.log.Infow("program complete", "run", runID)
	return s.signalDone(ctx)
}

// startup brings the hardware to a known state and verifies it is idle.
// Water left in the tank is not a fault: it is announced with the drain
// failure code and drained once before the welcome.
func (s *Sequencer) startup(ctx context.Context) error {
	Reset(s.p, 0)

	if s.p.Sense.ButtonPressed() {
		// Stuck or held switch at power-on; the hardware is not idle.
		return &Fault{Code: buzzer.CodeGenericFault}
	}

	if s.p.Sense.Filled() {
		s.log.Warnw("water present at power-on, draining")
		s.p.Ann.Error(buzzer.CodeDrainFailure)
		if err := run(ctx, s.p, NewDrain(s.p, s.t, s.log), s.log); err != nil {
			return err
		}
	}

	s.p.Ann.Message(buzzer.MsgWelcome)
	return nil
}

// selectProgram waits for the user switch, then decides between the two
// programs: releasing within the hold window starts the full wash, holding
// through it starts the rinse.
func (s *Sequencer) selectProgram(ctx context.Context) (Program, error) {
	for !s.p.Sense.ButtonPressed() {
		if err := ctx.Err(); err != nil {
			return Program{}, err
		}
		s.p.Clk.Sleep(s.t.IdlePoll)
	}
	s.p.Ann.Beep(buzzer.ChirpAction)

	sleep(ctx, s.p.Clk, s.t.HoldWindow)
	if err := ctx.Err(); err != nil {
		return Program{}, err
	}

	if s.p.Sense.ButtonPressed() {
		s.p.Ann.Beep(buzzer.ChirpRinse)
		return RinseProgram(), nil
	}
	return WashProgram(), nil
}

// latch is the terminal fault state: everything off, then the error code
// repeats until power-off. There is no recovery path; a latched appliance
// needs a human.
func (s *Sequencer) latch(ctx context.Context, f *Fault) error {
	s.log.Errorw("latched", "code", int(f.Code), "err", f)
	Reset(s.p, s.t.ResetSettleFault)
	for ctx.Err() == nil {
		s.p.Ann.Error(f.Code)
		sleep(ctx, s.p.Clk, s.t.FaultPace)
	}
	return f
}

// signalDone is the terminal happy state: indicator solid on and short
// bursts until power-off. Not a fault, but just as final; a new load takes
// a power cycle.
func (s *Sequencer) signalDone(ctx context.Context) error {
	s.p.Act.SetIndicator(true)
	for ctx.Err() == nil {
		s.p.Ann.Beep(buzzer.ChirpDone)
		sleep(ctx, s.p.Clk, s.t.DonePace)
	}
	return nil
}
