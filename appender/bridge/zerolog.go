package bridge

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/philipp01105/logtree/appender"
	"github.com/philipp01105/logtree/core"
)

// ZerologConfig holds configuration for a zerolog appender
type ZerologConfig struct {
	appender.Options
	// Logger receives the events. The zero value writes nowhere.
	Logger zerolog.Logger
	// Writer builds a plain JSON zerolog logger when Logger is unset
	Writer io.Writer
}

// Zerolog writes events through a zerolog logger
type Zerolog struct {
	appender.Skeleton
	logger zerolog.Logger
}

// NewZerolog creates a zerolog appender
func NewZerolog(cfg ZerologConfig) *Zerolog {
	l := cfg.Logger
	if cfg.Writer != nil {
		l = zerolog.New(cfg.Writer)
	}
	z := &Zerolog{logger: l}
	z.Init(cfg.Options)
	return z
}

// ZerologLevel maps a level onto the closest zerolog level
func ZerologLevel(l core.Level) zerolog.Level {
	switch {
	case l >= core.FatalLevel:
		return zerolog.FatalLevel
	case l >= core.ErrorLevel:
		return zerolog.ErrorLevel
	case l >= core.WarnLevel:
		return zerolog.WarnLevel
	case l >= core.InfoLevel:
		return zerolog.InfoLevel
	case l >= core.DebugLevel:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// DoAppend writes e. WithLevel never exits, even for fatal events.
func (z *Zerolog) DoAppend(e *core.Event) {
	if !z.Accepts(e) {
		return
	}
	ev := z.logger.WithLevel(ZerologLevel(e.Level))
	if ev == nil {
		return
	}
	ev = ev.Time(zerolog.TimestampFieldName, e.Time).Str("logger", e.LoggerName)
	if e.Caller.Defined {
		ev = ev.Str(zerolog.CallerFieldName, zerolog.CallerMarshalFunc(0, e.Caller.File, e.Caller.Line))
	}
	for _, f := range e.Fields {
		switch f.Type {
		case core.StringType, core.ErrorType:
			ev = ev.Str(f.Key, f.Str)
		case core.IntType, core.Int64Type:
			ev = ev.Int64(f.Key, f.Int64)
		case core.Float64Type:
			ev = ev.Float64(f.Key, f.Float64)
		case core.BoolType:
			ev = ev.Bool(f.Key, f.Int64 == 1)
		case core.TimeType:
			ev = ev.Time(f.Key, time.Unix(0, f.Int64))
		case core.DurationType:
			ev = ev.Dur(f.Key, time.Duration(f.Int64))
		default:
			ev = ev.Interface(f.Key, f.Any)
		}
	}
	if e.Cause != nil {
		ev = ev.Err(e.Cause)
	}
	ev.Msg(e.Message)
}

// Close marks the appender closed
func (z *Zerolog) Close() error {
	z.MarkClosed()
	return nil
}
