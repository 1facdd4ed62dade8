package logic

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianszwarc/dishwasher/internal/buzzer"
	"github.com/cristianszwarc/dishwasher/internal/gpio"
)

// levelAfterValve scripts a tank that reads filled once the intake valve
// has been open for at least d.
func levelAfterValve(bus *gpio.Fake, d time.Duration) func(time.Time) bool {
	return func(now time.Time) bool {
		on, ok := bus.First(gpio.LineValve, true)
		return ok && now.Sub(on.At) >= d
	}
}

func TestFillMeasuresBaseTimeAndExtrapolates(t *testing.T) {
	p, _, bus, ann := newTestPlant()
	base := 30 * time.Second
	bus.LevelFunc = levelAfterValve(bus, base)

	f := NewFill(p, DefaultTimings(), nopLog())
	require.NoError(t, run(context.Background(), p, f, nopLog()))

	assert.InDelta(t, float64(base), float64(f.baseTime), float64(50*time.Millisecond),
		"base fill time is the measured time to the switch")

	valveOn, ok := bus.First(gpio.LineValve, true)
	require.True(t, ok)
	pumpOn, ok := bus.First(gpio.LineMainPump, true)
	require.True(t, ok)

	// Doubling holds the valve open alone for one more base time.
	sincePump := pumpOn.At.Sub(valveOn.At)
	assert.GreaterOrEqual(t, sincePump, 2*base)
	assert.Less(t, sincePump, 2*base+1100*time.Millisecond, "pump start lands on the chirp grid")

	// The pump-on fill runs base/1.5 before the top-up poll begins; the
	// always-wet switch then confirms immediately and the valve closes.
	valveIdx := indexOfLast(bus.Log, gpio.LineValve, false)
	pumpIdx := indexOf(bus.Log, gpio.LineMainPump, true)
	require.Greater(t, valveIdx, pumpIdx, "valve closes only after agitation started")

	sinceClose := bus.Log[valveIdx].At.Sub(pumpOn.At)
	want := div(base, 1.5)
	assert.GreaterOrEqual(t, sinceClose, want)
	assert.Less(t, sinceClose, want+900*time.Millisecond)

	assert.Equal(t, 1, ann.MsgCount(buzzer.MsgFillStart))
	assert.True(t, bus.On(gpio.LineMainPump), "agitation keeps running after the fill")
	assert.False(t, bus.On(gpio.LineValve))
}

func TestFillValveOpensBeforePump(t *testing.T) {
	p, _, bus, _ := newTestPlant()
	bus.LevelFunc = levelAfterValve(bus, 5*time.Second)

	require.NoError(t, run(context.Background(), p, NewFill(p, DefaultTimings(), nopLog()), nopLog()))

	valveIdx := indexOf(bus.Log, gpio.LineValve, true)
	pumpIdx := indexOf(bus.Log, gpio.LineMainPump, true)
	require.NotEqual(t, -1, valveIdx)
	require.NotEqual(t, -1, pumpIdx)
	assert.Less(t, valveIdx, pumpIdx)
}

func TestFillTimesOutWhenSwitchNeverCloses(t *testing.T) {
	p, clk, bus, _ := newTestPlant()
	bus.LevelFunc = func(time.Time) bool { return false }

	err := run(context.Background(), p, NewFill(p, DefaultTimings(), nopLog()), nopLog())

	var fault *Fault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, buzzer.CodeFillTimeout, fault.Code)

	valveOn, ok := bus.First(gpio.LineValve, true)
	require.True(t, ok)
	waited := clk.Now().Sub(valveOn.At)
	assert.GreaterOrEqual(t, waited, DefaultTimings().FillTimeout)
	assert.Less(t, waited, DefaultTimings().FillTimeout+time.Second)

	assert.True(t, bus.On(gpio.LineValve), "the machine reports, the sequencer shuts down")
}

func TestFillSwitchClosingExactlyAtDeadlineSucceeds(t *testing.T) {
	p, _, bus, _ := newTestPlant()
	timeout := DefaultTimings().FillTimeout
	bus.LevelFunc = levelAfterValve(bus, timeout)

	f := NewFill(p, DefaultTimings(), nopLog())
	err := run(context.Background(), p, f, nopLog())

	require.NoError(t, err, "a reading on the deadline is a slow fill, not a fault")
	assert.InDelta(t, float64(timeout), float64(f.baseTime), float64(50*time.Millisecond))
}

func TestFillDoesNotPollDuringAgitation(t *testing.T) {
	p, _, bus, _ := newTestPlant()
	base := 12 * time.Second
	// Filled only while the pump is off; agitation would read empty.
	bus.LevelFunc = func(now time.Time) bool {
		on, ok := bus.First(gpio.LineValve, true)
		return ok && now.Sub(on.At) >= base && !bus.On(gpio.LineMainPump)
	}

	err := run(context.Background(), p, NewFill(p, DefaultTimings(), nopLog()), nopLog())

	var fault *Fault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, buzzer.CodeTopUpFailure, fault.Code, "the level never confirms once the pump runs")

	pumpOn, ok := bus.First(gpio.LineMainPump, true)
	require.True(t, ok)
	quiet := div(base, DefaultTimings().AgitateDivisor)
	for _, at := range bus.LevelReads {
		inside := at.After(pumpOn.At) && at.Before(pumpOn.At.Add(quiet))
		assert.False(t, inside, "level sampled at %v, inside the distrusted window", at.Sub(pumpOn.At))
	}
}

func TestFillTopUpFailureKeepsCode(t *testing.T) {
	p, clk, bus, _ := newTestPlant()
	base := 10 * time.Second
	bus.LevelFunc = func(now time.Time) bool {
		on, ok := bus.First(gpio.LineValve, true)
		return ok && now.Sub(on.At) >= base && !bus.On(gpio.LineMainPump)
	}

	start := clk.Now()
	err := run(context.Background(), p, NewFill(p, DefaultTimings(), nopLog()), nopLog())

	var fault *Fault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, buzzer.CodeTopUpFailure, fault.Code)

	// announce reset + base + doubling + pump-on fill + bounded top-up,
	// all proportional to the base time.
	elapsed := clk.Now().Sub(start)
	floor := 2*base + div(base, 1.5) + mul(base, 1.5)
	assert.GreaterOrEqual(t, elapsed, floor)
	assert.Less(t, elapsed, floor+5*time.Second)
}

func indexOf(log []gpio.Transition, line gpio.Line, on bool) int {
	for i, tr := range log {
		if tr.Line == line && tr.On == on {
			return i
		}
	}
	return -1
}

func indexOfLast(log []gpio.Transition, line gpio.Line, on bool) int {
	last := -1
	for i, tr := range log {
		if tr.Line == line && tr.On == on {
			last = i
		}
	}
	return last
}
