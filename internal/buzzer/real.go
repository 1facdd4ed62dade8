//go:build linux

package buzzer

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"github.com/cristianszwarc/dishwasher/internal/clock"
)

// Tone drives a passive piezo element by bit-banging a square wave on a
// GPIO line. Crude next to hardware PWM, but it needs nothing beyond the
// GPIO character device the rest of the I/O layer already uses, and the
// cadences matter far more than the pitch.
type Tone struct {
	line *gpiocdev.Line
	clk  clock.Clock
	freq int
}

// NewTone requests the buzzer line on the given chip. freq is the tone
// frequency in Hz; zero or negative selects 1kHz.
func NewTone(chip string, offset int, freq int, clk clock.Clock) (*Tone, error) {
	if freq <= 0 {
		freq = 1000
	}
	line, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("failed to request buzzer line %d on %s: %w", offset, chip, err)
	}
	return &Tone{line: line, clk: clk, freq: freq}, nil
}

// Beep plays one burst, blocking until it has played.
func (t *Tone) Beep(b Burst) {
	if b.N <= 0 {
		t.clk.Sleep(b.Gap)
		return
	}
	for i := 0; i < b.N; i++ {
		t.play(b.Tone)
		t.clk.Sleep(b.Gap)
	}
}

// Message plays the announcement cadence for code.
func (t *Tone) Message(code MessageCode) {
	for _, b := range MessageBursts(code) {
		t.Beep(b)
	}
}

// Error plays the fault cadence for code.
func (t *Tone) Error(code ErrorCode) {
	for _, b := range ErrorBursts(code) {
		t.Beep(b)
	}
}

// play holds a square wave on the line for d.
func (t *Tone) play(d time.Duration) {
	half := time.Second / time.Duration(2*t.freq)
	cycles := int(d / (2 * half))
	for i := 0; i < cycles; i++ {
		_ = t.line.SetValue(1)
		t.clk.Sleep(half)
		_ = t.line.SetValue(0)
		t.clk.Sleep(half)
	}
	_ = t.line.SetValue(0)
}

// Close silences the line and releases it.
func (t *Tone) Close() error {
	_ = t.line.SetValue(0)
	if err := t.line.Close(); err != nil {
		return fmt.Errorf("failed to close buzzer line: %w", err)
	}
	return nil
}
