//go:build !linux

package gpio

import (
	"errors"

	"go.uber.org/zap"

	"github.com/cristianszwarc/dishwasher/internal/clock"
)

// Real is not available on non-Linux platforms; the GPIO character device
// is a Linux interface.
type Real struct{}

// NewReal returns an error on non-Linux platforms.
func NewReal(chipName string, pins Pins, tempPath string, clk clock.Clock, log *zap.SugaredLogger) (*Real, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

func (r *Real) Filled() bool { return false }

func (r *Real) TemperatureRaw() int { return 0 }

func (r *Real) ButtonPressed() bool { return false }

func (r *Real) SetValve(on bool) {}

func (r *Real) SetMainPump(on bool) {}

func (r *Real) SetDrainPump(on bool) {}

func (r *Real) SetSoapDispenser(on bool) {}

func (r *Real) SetHeater(on bool) {}

func (r *Real) SetIndicator(on bool) {}

func (r *Real) Close() error { return nil }
