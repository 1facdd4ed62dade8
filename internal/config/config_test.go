package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "gpiochip0", cfg.GPIO.Chip)
	assert.Equal(t, 22*time.Second, cfg.Timing.DrainWindow)
	assert.Equal(t, 200*time.Second, cfg.Timing.FillTimeout)
	assert.Equal(t, 600*time.Second, cfg.Timing.HeaterTimeout)
	assert.Equal(t, 1.5, cfg.Timing.AgitateDivisor)
	assert.Equal(t, 1000, cfg.Buzzer.ToneHz)
}

func TestLoadMissingDefaultFileUsesDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(wd) }()
	require.NoError(t, os.Chdir(t.TempDir()))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingNamedFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err, "a file the operator named must exist")
}

func TestLoadOverridesOnlyNamedKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dishwasher.yml")
	body := `
log_level: debug
gpio:
  pins:
    valve: 17
timing:
  drain_window: 30s
  agitate_divisor: 2.0
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 17, cfg.GPIO.Pins.Valve)
	assert.Equal(t, 30*time.Second, cfg.Timing.DrainWindow)
	assert.Equal(t, 2.0, cfg.Timing.AgitateDivisor)

	// Untouched keys keep their defaults.
	assert.Equal(t, Default().GPIO.Pins.Heater, cfg.GPIO.Pins.Heater)
	assert.Equal(t, Default().Timing.FillTimeout, cfg.Timing.FillTimeout)
	assert.Equal(t, Default().Sensor.TemperatureRawPath, cfg.Sensor.TemperatureRawPath)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dishwasher.yml")
	body := `
gpio:
  pins:
    valve: 7
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "share offset", "valve collides with the default main pump pin")
}

func TestValidateCatchesBadTimings(t *testing.T) {
	cfg := Default()
	cfg.Timing.DrainWindow = 0
	assert.ErrorContains(t, cfg.Validate(), "drain_window")

	cfg = Default()
	cfg.Timing.AgitateDivisor = 0
	assert.ErrorContains(t, cfg.Validate(), "agitate_divisor")

	cfg = Default()
	cfg.Buzzer.ToneHz = 0
	assert.ErrorContains(t, cfg.Validate(), "tone_hz")
}
