package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// saveFlags snapshots the persistent flag globals and restores them when
// the test ends.
func saveFlags(t *testing.T) {
	t.Helper()
	config, level := flagConfig, flagLogLevel
	t.Cleanup(func() {
		flagConfig, flagLogLevel = config, level
	})
}

func TestCodesCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"codes"})

	require.NoError(t, rootCmd.Execute())

	out := buf.String()
	for _, want := range []string{
		"2  ready for a load",
		"3  fill starting",
		"4  drain starting",
		"1  switch held",
		"2  water still present",
		"3  base water level never reached",
		"4  water level lost after agitation",
		"5  target temperature not reached",
	} {
		assert.Contains(t, out, want)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	saveFlags(t)
	flagConfig, flagLogLevel = "", ""

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer func() { _ = os.Chdir(wd) }()

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "gpiochip0", cfg.GPIO.Chip)
}

func TestLoadConfigFlagPrecedence(t *testing.T) {
	saveFlags(t)

	path := filepath.Join(t.TempDir(), "dishwasher.yml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: warn\n"), 0o644))

	flagConfig, flagLogLevel = path, ""
	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel, "file value should apply")

	flagLogLevel = "debug"
	cfg, err = loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel, "flag should win over the file")
}
