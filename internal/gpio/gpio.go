// Package gpio provides the appliance's sensor and actuator buses with
// hardware abstraction. The real implementation drives a relay module and
// reads the switches through the Linux GPIO character device; the fake
// implementation allows testing the control core without hardware.
package gpio

import (
	"time"

	"github.com/cristianszwarc/dishwasher/internal/clock"
)

// SensorBus reads the appliance inputs.
type SensorBus interface {
	// Filled reports whether the tank has reached the base level. The
	// level switch chatters as water sloshes, so the line is sampled
	// DebounceSamples times at DebounceInterval spacing and any single
	// "empty" sample returns false immediately. A false result may be
	// transient; a true result is trustworthy.
	Filled() bool

	// TemperatureRaw returns one raw ADC count. No unit conversion
	// happens anywhere; thresholds are raw counts too.
	TemperatureRaw() int

	// ButtonPressed reports whether the user switch is held. A single
	// direct read; user input is not safety critical.
	ButtonPressed() bool
}

// ActuatorBus switches the appliance outputs. Setters are idempotent and
// do not fail; write errors are logged inside the implementation because
// no caller can do anything better with them.
type ActuatorBus interface {
	SetValve(on bool)     // water intake valve
	SetMainPump(on bool)  // agitation pump
	SetDrainPump(on bool) // drain pump
	SetSoapDispenser(on bool)
	SetHeater(on bool)
	SetIndicator(on bool) // status LED
}

// Line identifies one actuator output.
type Line string

const (
	LineValve     Line = "valve"
	LineMainPump  Line = "main_pump"
	LineDrainPump Line = "drain_pump"
	LineSoap      Line = "soap"
	LineHeater    Line = "heater"
	LineIndicator Line = "indicator"
)

// Pins maps the appliance lines to GPIO chip offsets.
type Pins struct {
	Valve     int `mapstructure:"valve"`
	MainPump  int `mapstructure:"main_pump"`
	DrainPump int `mapstructure:"drain_pump"`
	Soap      int `mapstructure:"soap"`
	Heater    int `mapstructure:"heater"`
	Indicator int `mapstructure:"indicator"`
	Level     int `mapstructure:"level"`
	Button    int `mapstructure:"button"`
}

// Debounce window for the level switch.
const (
	DebounceSamples  = 10
	DebounceInterval = time.Millisecond
)

// Debounced confirms a filled reading by sampling raw over the debounce
// window. The first empty sample wins immediately; only a full window of
// filled samples counts as filled. All bus implementations share it so
// tests and simulation see production sampling behavior.
func Debounced(raw func() bool, clk clock.Clock) bool {
	for i := 0; i < DebounceSamples; i++ {
		if !raw() {
			return false
		}
		clk.Sleep(DebounceInterval)
	}
	return true
}
