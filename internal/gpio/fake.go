package gpio

import (
	"time"

	"github.com/cristianszwarc/dishwasher/internal/clock"
)

// Transition records one actuator call observed by the fake bus.
type Transition struct {
	At   time.Time
	Line Line
	On   bool
}

// Fake implements both buses against scripted inputs. Level readings come
// from per-sample scripts or a time-derived function; every actuator call
// is recorded with its timestamp so tests can assert ordering and timing.
// It is not safe for concurrent use.
type Fake struct {
	clk clock.Clock

	// LevelSamples are consumed one per raw debounce sample; when
	// exhausted the last value repeats. Ignored when LevelFunc is set.
	LevelSamples []bool
	levelIndex   int

	// LevelFunc, when set, derives the raw level reading from the
	// current time.
	LevelFunc func(now time.Time) bool

	// LevelReads records the instant of every raw level sample.
	LevelReads []time.Time

	// Temp is returned by TemperatureRaw unless TempFunc is set.
	Temp     int
	TempFunc func(now time.Time) int

	// Pressed is returned by ButtonPressed unless ButtonFunc is set.
	Pressed    bool
	ButtonFunc func(now time.Time) bool

	// Log holds every actuator call in order, including redundant writes.
	Log []Transition

	state map[Line]bool
}

// NewFake returns a fake bus that timestamps through clk.
func NewFake(clk clock.Clock) *Fake {
	return &Fake{clk: clk, state: make(map[Line]bool)}
}

// Filled runs the production debounce over the scripted raw readings.
func (f *Fake) Filled() bool {
	return Debounced(f.rawFilled, f.clk)
}

func (f *Fake) rawFilled() bool {
	now := f.clk.Now()
	f.LevelReads = append(f.LevelReads, now)
	if f.LevelFunc != nil {
		return f.LevelFunc(now)
	}
	if len(f.LevelSamples) == 0 {
		return false
	}
	v := f.LevelSamples[f.levelIndex]
	if f.levelIndex < len(f.LevelSamples)-1 {
		f.levelIndex++
	}
	return v
}

func (f *Fake) TemperatureRaw() int {
	if f.TempFunc != nil {
		return f.TempFunc(f.clk.Now())
	}
	return f.Temp
}

func (f *Fake) ButtonPressed() bool {
	if f.ButtonFunc != nil {
		return f.ButtonFunc(f.clk.Now())
	}
	return f.Pressed
}

func (f *Fake) SetValve(on bool)         { f.set(LineValve, on) }
func (f *Fake) SetMainPump(on bool)      { f.set(LineMainPump, on) }
func (f *Fake) SetDrainPump(on bool)     { f.set(LineDrainPump, on) }
func (f *Fake) SetSoapDispenser(on bool) { f.set(LineSoap, on) }
func (f *Fake) SetHeater(on bool)        { f.set(LineHeater, on) }
func (f *Fake) SetIndicator(on bool)     { f.set(LineIndicator, on) }

func (f *Fake) set(line Line, on bool) {
	f.Log = append(f.Log, Transition{At: f.clk.Now(), Line: line, On: on})
	f.state[line] = on
}

// On reports the current state of line.
func (f *Fake) On(line Line) bool {
	return f.state[line]
}

// First returns the first recorded call that set line to on.
func (f *Fake) First(line Line, on bool) (Transition, bool) {
	for _, tr := range f.Log {
		if tr.Line == line && tr.On == on {
			return tr, true
		}
	}
	return Transition{}, false
}

// Count returns how many recorded calls set line to on. Redundant writes
// count; use Switches to count state changes only.
func (f *Fake) Count(line Line, on bool) int {
	n := 0
	for _, tr := range f.Log {
		if tr.Line == line && tr.On == on {
			n++
		}
	}
	return n
}

// Switches returns how often line actually changed to on, ignoring
// redundant writes. Lines start off.
func (f *Fake) Switches(line Line, on bool) int {
	n := 0
	prev := false
	for _, tr := range f.Log {
		if tr.Line != line {
			continue
		}
		if tr.On == on && tr.On != prev {
			n++
		}
		prev = tr.On
	}
	return n
}

// Reset clears the recorded history and scripted sample position. Scripts
// and state survive so a scenario can continue with a clean log.
func (f *Fake) Reset() {
	f.Log = nil
	f.LevelReads = nil
	f.levelIndex = 0
}
