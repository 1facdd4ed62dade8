package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevels(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parse("debug"))
	assert.Equal(t, zapcore.InfoLevel, parse("info"))
	assert.Equal(t, zapcore.WarnLevel, parse("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parse("error"))
	assert.Equal(t, zapcore.InfoLevel, parse(""), "unknown levels fall back to info")
	assert.Equal(t, zapcore.InfoLevel, parse("verbose"))
}

func TestNewDoesNotPanic(t *testing.T) {
	log := New("debug")
	log.Debugw("probe", "k", 1)
	assert.NotNil(t, log)
}
