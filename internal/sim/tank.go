// Package sim provides a software model of the washing appliance so the
// control core can run end to end without hardware: a tank that fills,
// drains and heats in response to the actuator lines.
package sim

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cristianszwarc/dishwasher/internal/clock"
	"github.com/cristianszwarc/dishwasher/internal/gpio"
)

// Rates calibrate the tank model. Levels are in base-fill units: 1.0 is
// the water needed to close the level switch.
type Rates struct {
	FillPerSecond  float64 // level gain per second while the valve is open
	DrainPerSecond float64 // level loss per second while the drain pump runs
	PumpDrawdown   float64 // sensed-level depression while the main pump runs
	HeatPerSecond  float64 // raw counts gained per second while heating
	CoolPerSecond  float64 // raw counts lost per second back toward ambient
	AmbientRaw     int     // resting temperature reading
	MaxRaw         int     // ADC ceiling
	Threshold      float64 // sensed level at which the switch closes
	Capacity       float64 // physical level bound
}

// DefaultRates model a tank that reaches the switch in about half a
// minute, empties comfortably inside the drain window and heats from
// ambient past the stock raw-950 target well inside the heating budget.
func DefaultRates() Rates {
	return Rates{
		FillPerSecond:  1.0 / 30.0,
		DrainPerSecond: 0.15,
		PumpDrawdown:   0.35,
		HeatPerSecond:  2.0,
		CoolPerSecond:  0.2,
		AmbientRaw:     520,
		MaxRaw:         1023,
		Threshold:      1.0,
		Capacity:       3.2,
	}
}

// State is a point-in-time snapshot of the model.
type State struct {
	Level   float64
	TempRaw int

	Valve     bool
	MainPump  bool
	DrainPump bool
	Soap      bool
	Heater    bool
	Indicator bool

	SoapDoses int
	HeaterOns int
	PeakLevel float64
}

// Tank is the virtual appliance. It implements both buses and integrates
// its state lazily from the clock: every read or switch first advances the
// model by the elapsed time. Temperature ramps whenever the element is
// energized, water or not; keeping the element wet is the controller's
// job, not the model's. Safe for concurrent use.
type Tank struct {
	mu    sync.Mutex
	clk   clock.Clock
	rates Rates
	log   *zap.SugaredLogger

	updated time.Time
	level   float64
	tempRaw float64
	peak    float64

	valve     bool
	mainPump  bool
	drainPump bool
	soap      bool
	heater    bool
	indicator bool

	soapDoses int
	heaterOns int

	pressed func(now time.Time) bool
}

// NewTank returns an empty tank at ambient temperature.
func NewTank(clk clock.Clock, rates Rates, log *zap.SugaredLogger) *Tank {
	return &Tank{
		clk:     clk,
		rates:   rates,
		log:     log,
		updated: clk.Now(),
		tempRaw: float64(rates.AmbientRaw),
	}
}

// Prime presets the water level, for scenarios that start with a wet tank.
func (t *Tank) Prime(level float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.advance(t.clk.Now())
	t.level = level
	if level > t.peak {
		t.peak = level
	}
}

// PressButton makes the user switch read pressed from from until to.
func (t *Tank) PressButton(from, to time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pressed = func(now time.Time) bool {
		return !now.Before(from) && now.Before(to)
	}
}

// advance integrates the model up to now. Callers hold mu.
func (t *Tank) advance(now time.Time) {
	dt := now.Sub(t.updated).Seconds()
	if dt <= 0 {
		return
	}
	t.updated = now

	if t.valve {
		t.level += t.rates.FillPerSecond * dt
	}
	if t.drainPump {
		t.level -= t.rates.DrainPerSecond * dt
	}
	if t.level < 0 {
		t.level = 0
	}
	if t.level > t.rates.Capacity {
		t.level = t.rates.Capacity
	}
	if t.level > t.peak {
		t.peak = t.level
	}

	if t.heater {
		t.tempRaw += t.rates.HeatPerSecond * dt
		if t.tempRaw > float64(t.rates.MaxRaw) {
			t.tempRaw = float64(t.rates.MaxRaw)
		}
	} else if t.tempRaw > float64(t.rates.AmbientRaw) {
		t.tempRaw -= t.rates.CoolPerSecond * dt
		if t.tempRaw < float64(t.rates.AmbientRaw) {
			t.tempRaw = float64(t.rates.AmbientRaw)
		}
	}
}

// Filled reports the debounced switch state. The running main pump holds
// part of the volume in the spray circuit, so the sensed level sits below
// the physical one by the drawdown.
func (t *Tank) Filled() bool {
	return gpio.Debounced(t.rawFilled, t.clk)
}

func (t *Tank) rawFilled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.advance(t.clk.Now())
	sensed := t.level
	if t.mainPump {
		sensed -= t.rates.PumpDrawdown
	}
	return sensed >= t.rates.Threshold
}

func (t *Tank) TemperatureRaw() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.advance(t.clk.Now())
	return int(t.tempRaw)
}

func (t *Tank) ButtonPressed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pressed == nil {
		return false
	}
	return t.pressed(t.clk.Now())
}

func (t *Tank) SetValve(on bool)     { t.switchLine(&t.valve, gpio.LineValve, on) }
func (t *Tank) SetMainPump(on bool)  { t.switchLine(&t.mainPump, gpio.LineMainPump, on) }
func (t *Tank) SetDrainPump(on bool) { t.switchLine(&t.drainPump, gpio.LineDrainPump, on) }
func (t *Tank) SetIndicator(on bool) { t.switchLine(&t.indicator, gpio.LineIndicator, on) }

func (t *Tank) SetSoapDispenser(on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.advance(t.clk.Now())
	if on && !t.soap {
		t.soapDoses++
	}
	t.soap = on
	t.log.Debugw("actuator", "line", gpio.LineSoap, "on", on)
}

func (t *Tank) SetHeater(on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.advance(t.clk.Now())
	if on && !t.heater {
		t.heaterOns++
	}
	t.heater = on
	t.log.Debugw("actuator", "line", gpio.LineHeater, "on", on)
}

func (t *Tank) switchLine(dst *bool, line gpio.Line, on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.advance(t.clk.Now())
	if *dst != on {
		t.log.Debugw("actuator", "line", line, "on", on)
	}
	*dst = on
}

// Snapshot returns the current model state.
func (t *Tank) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.advance(t.clk.Now())
	return State{
		Level:     t.level,
		TempRaw:   int(t.tempRaw),
		Valve:     t.valve,
		MainPump:  t.mainPump,
		DrainPump: t.drainPump,
		Soap:      t.soap,
		Heater:    t.heater,
		Indicator: t.indicator,
		SoapDoses: t.soapDoses,
		HeaterOns: t.heaterOns,
		PeakLevel: t.peak,
	}
}
