package logger

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/philipp01105/logtree/core"
)

// SlogHandler routes log/slog records into a Logger, so the logger tree
// can serve as the backend of slog.New
type SlogHandler struct {
	logger *Logger
	attrs  []core.Field
	group  string
}

// NewSlogHandler creates a slog.Handler that logs through l
func NewSlogHandler(l *Logger) *SlogHandler {
	return &SlogHandler{logger: l}
}

// Enabled reports whether l would dispatch an event at the mapped level
func (s *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return s.logger.IsEnabledFor(SlogLevel(level))
}

// Handle converts the record into an event and dispatches it. The first
// error-valued attribute becomes the event's cause.
func (s *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	level := SlogLevel(record.Level)
	if !s.logger.IsEnabledFor(level) {
		return nil
	}
	r := s.logger.registry
	t := record.Time
	if t.IsZero() {
		t = r.now()
	}
	e := core.NewEvent(t, s.logger.name, level, record.Message, nil)

	if n := len(s.attrs) + record.NumAttrs(); n > 0 {
		e.Fields = make([]core.Field, 0, n)
		e.Fields = append(e.Fields, s.attrs...)
	}
	record.Attrs(func(a slog.Attr) bool {
		if err, ok := a.Value.Any().(error); ok && e.Cause == nil && a.Value.Kind() == slog.KindAny {
			e.Cause = err
			return true
		}
		e.Fields = appendAttr(e.Fields, s.group, a)
		return true
	})

	if record.PC != 0 && r.captureCaller() {
		frames := runtime.CallersFrames([]uintptr{record.PC})
		f, _ := frames.Next()
		e.Caller = core.CallerInfo{
			File:      f.File,
			ShortFile: filepath.Base(f.File),
			Line:      f.Line,
			Function:  f.Function,
			Defined:   f.File != "",
		}
	}

	s.logger.callAppenders(e)
	return nil
}

// WithAttrs returns a handler that adds attrs to every record
func (s *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return s
	}
	next := make([]core.Field, len(s.attrs), len(s.attrs)+len(attrs))
	copy(next, s.attrs)
	for _, a := range attrs {
		next = appendAttr(next, s.group, a)
	}
	return &SlogHandler{logger: s.logger, attrs: next, group: s.group}
}

// WithGroup returns a handler that prefixes later keys with name
func (s *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	group := name
	if s.group != "" {
		group = s.group + "." + name
	}
	return &SlogHandler{logger: s.logger, attrs: s.attrs, group: group}
}

// SlogLevel maps a slog level onto the nearest level at or below it
func SlogLevel(level slog.Level) Level {
	switch {
	case level >= slog.LevelError+4:
		return FatalLevel
	case level >= slog.LevelError:
		return ErrorLevel
	case level >= slog.LevelWarn:
		return WarnLevel
	case level >= slog.LevelInfo:
		return InfoLevel
	case level >= slog.LevelDebug:
		return DebugLevel
	default:
		return TraceLevel
	}
}

// appendAttr flattens a into dst. Group members become "group.key";
// empty attributes are dropped as slog.Handler requires.
func appendAttr(dst []core.Field, group string, a slog.Attr) []core.Field {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return dst
	}
	key := a.Key
	if group != "" && key != "" {
		key = group + "." + key
	} else if key == "" {
		key = group
	}

	switch a.Value.Kind() {
	case slog.KindString:
		return append(dst, String(key, a.Value.String()))
	case slog.KindInt64:
		return append(dst, Int64(key, a.Value.Int64()))
	case slog.KindUint64:
		return append(dst, core.Field{Key: key, Type: core.AnyType, Any: a.Value.Uint64()})
	case slog.KindFloat64:
		return append(dst, Float64(key, a.Value.Float64()))
	case slog.KindBool:
		return append(dst, Bool(key, a.Value.Bool()))
	case slog.KindTime:
		return append(dst, Time(key, a.Value.Time()))
	case slog.KindDuration:
		return append(dst, Duration(key, a.Value.Duration()))
	case slog.KindGroup:
		for _, m := range a.Value.Group() {
			dst = appendAttr(dst, key, m)
		}
		return dst
	default:
		if err, ok := a.Value.Any().(error); ok {
			return append(dst, NamedErr(key, err))
		}
		return append(dst, Any(key, a.Value.Any()))
	}
}
