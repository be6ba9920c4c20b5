package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithCore("test", core)

	l.Debug("debug message")
	l.Info("info message", zap.String("key", "value"))
	l.Warn("warn message")
	l.Error("error message")

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)

	assert.Equal(t, "test", entries[1].LoggerName)
	assert.Equal(t, "value", entries[1].ContextMap()["key"])
}

func TestLoggerPrintfVariants(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithCore("test", core)

	l.Infof("count is %d", 42)
	l.Errorf("failed: %v", "boom")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "count is 42", entries[0].Message)
	assert.Equal(t, "failed: boom", entries[1].Message)
}

func TestLevelFiltering(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	l := NewWithCore("test", core)

	l.Debug("dropped")
	l.Info("dropped")
	l.Warn("kept")

	assert.Equal(t, 1, logs.Len())
}

func TestNewWithLevelEnvOverride(t *testing.T) {
	t.Setenv("ANALYTICS_LOG_LEVEL", "error")
	l := NewWithLevel("test", "debug")
	assert.Equal(t, zapcore.ErrorLevel, l.Level().Level())
}

func TestNewWithLevelInvalidFallsBackToInfo(t *testing.T) {
	t.Setenv("ANALYTICS_LOG_LEVEL", "")
	l := NewWithLevel("test", "nonsense")
	assert.Equal(t, zapcore.InfoLevel, l.Level().Level())
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Info("no-op")
		l.Errorf("no-op %d", 1)
	})
}

func TestName(t *testing.T) {
	l := New("analytics")
	assert.Equal(t, "analytics", l.Name())
}
