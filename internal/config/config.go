// Package config loads the wiring and calibration settings for the daemon.
// Everything has a default matching the reference machine; a YAML file
// overrides only the keys it names.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/cristianszwarc/dishwasher/internal/gpio"
	"github.com/cristianszwarc/dishwasher/internal/logic"
)

// DefaultPath is where Load looks when no file is given. A missing file at
// the default path is not an error; the defaults simply apply.
const DefaultPath = "configs/dishwasher.yml"

// Config is the full daemon configuration.
type Config struct {
	LogLevel string `mapstructure:"log_level"`

	GPIO   GPIO          `mapstructure:"gpio"`
	Sensor Sensor        `mapstructure:"sensor"`
	Buzzer Buzzer        `mapstructure:"buzzer"`
	Timing logic.Timings `mapstructure:"timing"`
}

// GPIO selects the chip and the line offsets.
type GPIO struct {
	Chip string    `mapstructure:"chip"`
	Pins gpio.Pins `mapstructure:"pins"`
}

// Sensor holds the temperature channel location.
type Sensor struct {
	// TemperatureRawPath is the IIO sysfs file with the raw ADC count.
	TemperatureRawPath string `mapstructure:"temperature_raw_path"`
}

// Buzzer selects the tone line and frequency.
type Buzzer struct {
	Pin    int `mapstructure:"pin"`
	ToneHz int `mapstructure:"tone_hz"`
}

// Default returns the configuration of the reference machine.
func Default() Config {
	return Config{
		LogLevel: "info",
		GPIO: GPIO{
			Chip: "gpiochip0",
			Pins: gpio.Pins{
				Valve:     6,
				MainPump:  7,
				DrainPump: 4,
				Soap:      3,
				Heater:    8,
				Indicator: 12,
				Level:     5,
				Button:    10,
			},
		},
		Sensor: Sensor{
			TemperatureRawPath: "/sys/bus/iio/devices/iio:device0/in_voltage5_raw",
		},
		Buzzer: Buzzer{
			Pin:    11,
			ToneHz: 1000,
		},
		Timing: logic.DefaultTimings(),
	}
}

// Load reads the configuration file at path over the defaults. An empty
// path falls back to DefaultPath, where absence is tolerated; a named file
// must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	target := path
	if target == "" {
		target = DefaultPath
		if _, err := os.Stat(target); errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
	}

	v := viper.New()
	v.SetConfigFile(target)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", target, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", target, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", target, err)
	}
	return cfg, nil
}

// Validate rejects configurations the hardware layer cannot start with.
func (c Config) Validate() error {
	if c.GPIO.Chip == "" {
		return errors.New("gpio.chip must not be empty")
	}
	if c.Sensor.TemperatureRawPath == "" {
		return errors.New("sensor.temperature_raw_path must not be empty")
	}
	if c.Buzzer.ToneHz <= 0 {
		return errors.New("buzzer.tone_hz must be positive")
	}

	offsets := map[int]string{}
	pins := map[string]int{
		"valve":      c.GPIO.Pins.Valve,
		"main_pump":  c.GPIO.Pins.MainPump,
		"drain_pump": c.GPIO.Pins.DrainPump,
		"soap":       c.GPIO.Pins.Soap,
		"heater":     c.GPIO.Pins.Heater,
		"indicator":  c.GPIO.Pins.Indicator,
		"level":      c.GPIO.Pins.Level,
		"button":     c.GPIO.Pins.Button,
		"buzzer":     c.Buzzer.Pin,
	}
	for name, offset := range pins {
		if offset < 0 {
			return fmt.Errorf("pin %s must not be negative", name)
		}
		if other, dup := offsets[offset]; dup {
			return fmt.Errorf("pin %s and %s share offset %d", name, other, offset)
		}
		offsets[offset] = name
	}

	t := c.Timing
	for name, d := range map[string]int64{
		"base_poll":      int64(t.BasePoll),
		"fill_timeout":   int64(t.FillTimeout),
		"drain_window":   int64(t.DrainWindow),
		"heater_timeout": int64(t.HeaterTimeout),
		"wash_pulse":     int64(t.WashPulse),
		"idle_poll":      int64(t.IdlePoll),
	} {
		if d <= 0 {
			return fmt.Errorf("timing.%s must be positive", name)
		}
	}
	if t.AgitateDivisor <= 0 {
		return errors.New("timing.agitate_divisor must be positive")
	}
	if t.TopUpFactor <= 0 {
		return errors.New("timing.top_up_factor must be positive")
	}
	return nil
}
