//go:build !linux

package buzzer

import (
	"fmt"

	"github.com/cristianszwarc/dishwasher/internal/clock"
)

// Tone is a placeholder so non-Linux builds compile. The GPIO character
// device only exists on Linux.
type Tone struct{}

// NewTone always fails on non-Linux platforms.
func NewTone(chip string, offset int, freq int, clk clock.Clock) (*Tone, error) {
	return nil, fmt.Errorf("buzzer requires Linux GPIO support (chip %s, line %d)", chip, offset)
}

func (t *Tone) Beep(b Burst) {}

func (t *Tone) Message(code MessageCode) {}

func (t *Tone) Error(code ErrorCode) {}

func (t *Tone) Close() error { return nil }
