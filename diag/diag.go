package diag

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	sink  atomic.Pointer[zap.Logger]
	quiet atomic.Bool
	level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
)

func init() {
	sink.Store(newDefault())
}

func newDefault() *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(enc),
		zapcore.Lock(os.Stderr),
		level,
	)
	return zap.New(core).Named("logtree")
}

// Logger returns the current diagnostic logger
func Logger() *zap.Logger {
	return sink.Load()
}

// SetLogger replaces the diagnostic logger and returns the previous one.
// A nil logger restores the default stderr sink.
func SetLogger(l *zap.Logger) *zap.Logger {
	if l == nil {
		l = newDefault()
	}
	return sink.Swap(l)
}

// SetQuiet suppresses all diagnostics when true
func SetQuiet(q bool) {
	quiet.Store(q)
}

// SetDebug enables internal debug output on the default sink
func SetDebug(on bool) {
	if on {
		level.SetLevel(zapcore.DebugLevel)
	} else {
		level.SetLevel(zapcore.WarnLevel)
	}
}

// Debug reports internal progress, e.g. configuration steps
func Debug(msg string, fields ...zap.Field) {
	if quiet.Load() {
		return
	}
	sink.Load().Debug(msg, fields...)
}

// Warn reports a recoverable problem such as an unknown level name
func Warn(msg string, fields ...zap.Field) {
	if quiet.Load() {
		return
	}
	sink.Load().Warn(msg, fields...)
}

// Error reports a failure the framework worked around, e.g. an appender
// that could not write
func Error(msg string, fields ...zap.Field) {
	if quiet.Load() {
		return
	}
	sink.Load().Error(msg, fields...)
}
