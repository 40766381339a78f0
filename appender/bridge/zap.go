package bridge

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/philipp01105/logtree/appender"
	"github.com/philipp01105/logtree/core"
)

// ZapConfig holds configuration for a zap appender
type ZapConfig struct {
	appender.Options
	// Logger receives the events (default: zap.NewNop)
	Logger *zap.Logger
}

// Zap writes events through a zap core
type Zap struct {
	appender.Skeleton
	core zapcore.Core
}

// NewZap creates a zap appender
func NewZap(cfg ZapConfig) *Zap {
	l := cfg.Logger
	if l == nil {
		l = zap.NewNop()
	}
	z := &Zap{core: l.Core()}
	z.Init(cfg.Options)
	return z
}

// ZapLevel maps a level onto the closest zap level
func ZapLevel(l core.Level) zapcore.Level {
	switch {
	case l >= core.FatalLevel:
		return zapcore.FatalLevel
	case l >= core.ErrorLevel:
		return zapcore.ErrorLevel
	case l >= core.WarnLevel:
		return zapcore.WarnLevel
	case l >= core.InfoLevel:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// DoAppend writes e to the zap core. A fatal event is written but does
// not exit the process.
func (z *Zap) DoAppend(e *core.Event) {
	if !z.Accepts(e) {
		return
	}
	ent := zapcore.Entry{
		Level:      ZapLevel(e.Level),
		Time:       e.Time,
		LoggerName: e.LoggerName,
		Message:    e.Message,
	}
	if e.Caller.Defined {
		ent.Caller = zapcore.NewEntryCaller(0, e.Caller.File, e.Caller.Line, true)
		ent.Caller.Function = e.Caller.Function
	}
	ce := z.core.Check(ent, nil)
	if ce == nil {
		return
	}
	ce.Write(zapFields(e)...)
}

func zapFields(e *core.Event) []zap.Field {
	fields := make([]zap.Field, 0, len(e.Fields)+1)
	for _, f := range e.Fields {
		fields = append(fields, zapField(f))
	}
	if e.Cause != nil {
		fields = append(fields, zap.Error(e.Cause))
	}
	return fields
}

func zapField(f core.Field) zap.Field {
	switch f.Type {
	case core.StringType:
		return zap.String(f.Key, f.Str)
	case core.IntType, core.Int64Type:
		return zap.Int64(f.Key, f.Int64)
	case core.Float64Type:
		return zap.Float64(f.Key, f.Float64)
	case core.BoolType:
		return zap.Bool(f.Key, f.Int64 == 1)
	case core.TimeType:
		return zap.Time(f.Key, time.Unix(0, f.Int64))
	case core.DurationType:
		return zap.Duration(f.Key, time.Duration(f.Int64))
	case core.ErrorType:
		return zap.String(f.Key, f.Str)
	default:
		return zap.Any(f.Key, f.Value())
	}
}

// Close flushes the zap core
func (z *Zap) Close() error {
	if !z.MarkClosed() {
		return nil
	}
	return z.core.Sync()
}
