package sim

import (
	"go.uber.org/zap"

	"github.com/cristianszwarc/dishwasher/internal/buzzer"
)

// Beeper logs beep activity instead of driving hardware. Bursts take no
// time, so simulated runs spend time only where the control core waits.
type Beeper struct {
	log *zap.SugaredLogger

	// OnBeep, when set, observes every burst, including the ones inside
	// messages and error codes.
	OnBeep func(b buzzer.Burst)
}

// NewBeeper returns a logging annunciator.
func NewBeeper(log *zap.SugaredLogger) *Beeper {
	return &Beeper{log: log}
}

func (b *Beeper) Beep(burst buzzer.Burst) {
	if burst.N > 0 {
		b.log.Debugw("beep", "n", burst.N, "tone", burst.Tone)
	}
	if b.OnBeep != nil {
		b.OnBeep(burst)
	}
}

func (b *Beeper) Message(code buzzer.MessageCode) {
	b.log.Infow("message", "code", int(code))
	for _, burst := range buzzer.MessageBursts(code) {
		b.Beep(burst)
	}
}

func (b *Beeper) Error(code buzzer.ErrorCode) {
	b.log.Warnw("error signaled", "code", int(code))
	for _, burst := range buzzer.ErrorBursts(code) {
		b.Beep(burst)
	}
}
