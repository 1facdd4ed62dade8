//go:build linux

package gpio

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/warthog618/go-gpiocdev"
	"go.uber.org/zap"

	"github.com/cristianszwarc/dishwasher/internal/clock"
)

// Electrical levels. The relay module and the indicator LED sink current,
// so their logical off is a high line; the heater driver is active high.
// The level switch line floats high while the tank is empty, and the user
// switch is pulled up and shorts to ground when pressed.
const (
	relayOff = 1
	relayOn  = 0

	ledOff = 1
	ledOn  = 0

	heaterOff = 0
	heaterOn  = 1
)

// Real drives the relay module and reads the switches through the Linux
// GPIO character device, and the temperature channel through the IIO sysfs
// raw file.
type Real struct {
	chip *gpiocdev.Chip
	clk  clock.Clock
	log  *zap.SugaredLogger

	valve     *gpiocdev.Line
	mainPump  *gpiocdev.Line
	drainPump *gpiocdev.Line
	soap      *gpiocdev.Line
	heater    *gpiocdev.Line
	indicator *gpiocdev.Line

	level  *gpiocdev.Line
	button *gpiocdev.Line

	tempPath string
	lastTemp int
}

// NewReal opens the GPIO chip and requests every appliance line. Outputs
// are requested already holding their off level so nothing pulses during
// startup. On any failure the lines requested so far are released.
func NewReal(chipName string, pins Pins, tempPath string, clk clock.Clock, log *zap.SugaredLogger) (*Real, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}

	r := &Real{chip: chip, clk: clk, log: log, tempPath: tempPath}

	outputs := []struct {
		name    Line
		offset  int
		initial int
		dst     **gpiocdev.Line
	}{
		{LineValve, pins.Valve, relayOff, &r.valve},
		{LineMainPump, pins.MainPump, relayOff, &r.mainPump},
		{LineDrainPump, pins.DrainPump, relayOff, &r.drainPump},
		{LineSoap, pins.Soap, relayOff, &r.soap},
		{LineHeater, pins.Heater, heaterOff, &r.heater},
		{LineIndicator, pins.Indicator, ledOff, &r.indicator},
	}
	for _, o := range outputs {
		line, err := chip.RequestLine(o.offset, gpiocdev.AsOutput(o.initial))
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("request %s line %d: %w", o.name, o.offset, err)
		}
		*o.dst = line
	}

	r.level, err = chip.RequestLine(pins.Level, gpiocdev.AsInput)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("request level line %d: %w", pins.Level, err)
	}

	r.button, err = chip.RequestLine(pins.Button, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("request button line %d: %w", pins.Button, err)
	}

	return r, nil
}

func (r *Real) SetValve(on bool)         { r.write(r.valve, LineValve, relayLevel(on)) }
func (r *Real) SetMainPump(on bool)      { r.write(r.mainPump, LineMainPump, relayLevel(on)) }
func (r *Real) SetDrainPump(on bool)     { r.write(r.drainPump, LineDrainPump, relayLevel(on)) }
func (r *Real) SetSoapDispenser(on bool) { r.write(r.soap, LineSoap, relayLevel(on)) }

func (r *Real) SetHeater(on bool) {
	v := heaterOff
	if on {
		v = heaterOn
	}
	r.write(r.heater, LineHeater, v)
}

func (r *Real) SetIndicator(on bool) {
	v := ledOff
	if on {
		v = ledOn
	}
	r.write(r.indicator, LineIndicator, v)
}

func relayLevel(on bool) int {
	if on {
		return relayOn
	}
	return relayOff
}

func (r *Real) write(line *gpiocdev.Line, name Line, value int) {
	if err := line.SetValue(value); err != nil {
		r.log.Errorw("actuator write failed", "line", name, "err", err)
	}
}

// Filled reports a debounced level reading. A line read error counts as
// "empty", which steers the caller into its bounded timeout rather than
// letting it trust a phantom level.
func (r *Real) Filled() bool {
	return Debounced(r.rawFilled, r.clk)
}

func (r *Real) rawFilled() bool {
	v, err := r.level.Value()
	if err != nil {
		r.log.Warnw("level read failed", "err", err)
		return false
	}
	return v == 0
}

// ButtonPressed reports whether the user switch is held down.
func (r *Real) ButtonPressed() bool {
	v, err := r.button.Value()
	if err != nil {
		r.log.Warnw("button read failed", "err", err)
		return false
	}
	return v == 0
}

// TemperatureRaw reads the ADC channel exposed through the IIO subsystem.
// On a failed read the last good count is returned, so a flaky sensor wire
// degrades into the heating timeout instead of a wild reading.
func (r *Real) TemperatureRaw() int {
	data, err := os.ReadFile(r.tempPath)
	if err != nil {
		r.log.Warnw("temperature read failed", "path", r.tempPath, "err", err)
		return r.lastTemp
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		r.log.Warnw("temperature parse failed", "raw", strings.TrimSpace(string(data)), "err", err)
		return r.lastTemp
	}
	r.lastTemp = v
	return v
}

// Close drives every output to its off level and releases the lines.
func (r *Real) Close() error {
	var errs []error

	outputs := []struct {
		name Line
		line *gpiocdev.Line
		off  int
	}{
		{LineHeater, r.heater, heaterOff},
		{LineValve, r.valve, relayOff},
		{LineDrainPump, r.drainPump, relayOff},
		{LineSoap, r.soap, relayOff},
		{LineIndicator, r.indicator, ledOff},
		{LineMainPump, r.mainPump, relayOff},
	}
	for _, o := range outputs {
		if o.line == nil {
			continue
		}
		if err := o.line.SetValue(o.off); err != nil {
			errs = append(errs, fmt.Errorf("park %s: %w", o.name, err))
		}
		if err := o.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", o.name, err))
		}
	}

	for _, in := range []struct {
		name string
		line *gpiocdev.Line
	}{{"level", r.level}, {"button", r.button}} {
		if in.line == nil {
			continue
		}
		if err := in.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", in.name, err))
		}
	}

	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
