// Package logger provides named, leveled structured logging for the analytics
// helper, backed by zap.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a named logger with a runtime-adjustable level.
type Logger struct {
	name  string
	zl    *zap.Logger
	level zap.AtomicLevel
}

// New creates a logger with the given name. The level defaults to info and
// can be overridden with the ANALYTICS_LOG_LEVEL environment variable
// (debug, info, warn, error).
func New(name string) *Logger {
	return NewWithLevel(name, "info")
}

// NewWithLevel creates a logger with a specific default level. The
// ANALYTICS_LOG_LEVEL environment variable still takes precedence.
func NewWithLevel(name string, levelStr string) *Logger {
	if env := os.Getenv("ANALYTICS_LOG_LEVEL"); env != "" {
		levelStr = env
	}

	var parsed zapcore.Level
	if err := parsed.Set(levelStr); err != nil {
		parsed = zapcore.InfoLevel
	}
	level := zap.NewAtomicLevelAt(parsed)

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.Lock(os.Stdout),
		level,
	)

	return &Logger{
		name:  name,
		zl:    zap.New(core).Named(name),
		level: level,
	}
}

// NewWithCore creates a logger on top of an existing zap core. Used by tests
// to observe log output.
func NewWithCore(name string, core zapcore.Core) *Logger {
	return &Logger{
		name:  name,
		zl:    zap.New(core).Named(name),
		level: zap.NewAtomicLevelAt(zapcore.DebugLevel),
	}
}

func (l *Logger) must() *zap.Logger {
	if l == nil || l.zl == nil {
		return zap.NewNop()
	}
	return l.zl
}

// Name returns the logger's name.
func (l *Logger) Name() string {
	return l.name
}

// Level returns the runtime-adjustable level handle for this logger.
func (l *Logger) Level() zap.AtomicLevel {
	return l.level
}

// Debug logs a message with debug severity.
func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.must().Debug(msg, fields...)
}

// Info logs a message with info severity.
func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.must().Info(msg, fields...)
}

// Warn logs a message with warn severity.
func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.must().Warn(msg, fields...)
}

// Error logs a message with error severity.
func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.must().Error(msg, fields...)
}

// Debugf logs a printf-style message with debug severity.
func (l *Logger) Debugf(format string, args ...any) {
	l.must().Debug(fmt.Sprintf(format, args...))
}

// Infof logs a printf-style message with info severity.
func (l *Logger) Infof(format string, args ...any) {
	l.must().Info(fmt.Sprintf(format, args...))
}

// Warnf logs a printf-style message with warn severity.
func (l *Logger) Warnf(format string, args ...any) {
	l.must().Warn(fmt.Sprintf(format, args...))
}

// Errorf logs a printf-style message with error severity.
func (l *Logger) Errorf(format string, args ...any) {
	l.must().Error(fmt.Sprintf(format, args...))
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	return l.must().Sync()
}
