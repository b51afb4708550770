package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
	}{
		{"ERROR", LogLevelError},
		{"warn", LogLevelWarn},
		{" debug ", LogLevelDebug},
		{"TRACE", LogLevelTrace},
		{"INFO", LogLevelInfo},
		{"", LogLevelInfo},
		{"verbose", LogLevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLogLevel(tt.input); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestZapLevel(t *testing.T) {
	assert.Equal(t, zapcore.ErrorLevel, LogLevelError.zapLevel())
	assert.Equal(t, zapcore.InfoLevel, LogLevelInfo.zapLevel())
	assert.Equal(t, zapcore.DebugLevel, LogLevelTrace.zapLevel())
}

func TestLoggerWithKeepsLevel(t *testing.T) {
	logger := NewLogger(LogLevelWarn, "console").With("view", "juicios")
	assert.Equal(t, LogLevelWarn, logger.GetLevel())

	nop := NewNopLogger()
	nop.Info("discarded %d", 1)
	assert.Equal(t, LogLevelError, nop.GetLevel())
}
