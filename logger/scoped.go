package logger

import (
	"fmt"

	"github.com/philipp01105/logtree/core"
)

// Scoped is a view of a Logger that adds fixed fields to every event.
// Scoped values are immutable; With returns a new one.
type Scoped struct {
	logger *Logger
	fields []core.Field
}

// With returns a view of l that attaches fields to every event
func (l *Logger) With(fields ...core.Field) *Scoped {
	return &Scoped{logger: l, fields: append([]core.Field(nil), fields...)}
}

// With returns a new view carrying both s's fields and fields
func (s *Scoped) With(fields ...core.Field) *Scoped {
	merged := make([]core.Field, len(s.fields)+len(fields))
	copy(merged, s.fields)
	copy(merged[len(s.fields):], fields)
	return &Scoped{logger: s.logger, fields: merged}
}

// Logger returns the underlying logger
func (s *Scoped) Logger() *Logger { return s.logger }

// Fields returns the fixed fields
func (s *Scoped) Fields() []core.Field { return s.fields }

// Log dispatches msg at level with an optional cause
func (s *Scoped) Log(level Level, msg string, cause error, fields ...core.Field) {
	if !s.logger.IsEnabledFor(level) {
		return
	}
	s.logger.emit(level, msg, cause, s.fields, fields, callerSkip)
}

// Trace logs a trace message
func (s *Scoped) Trace(msg string, fields ...core.Field) {
	if !s.logger.IsEnabledFor(TraceLevel) {
		return
	}
	s.logger.emit(TraceLevel, msg, nil, s.fields, fields, callerSkip)
}

// Debug logs a debug message
func (s *Scoped) Debug(msg string, fields ...core.Field) {
	if !s.logger.IsEnabledFor(DebugLevel) {
		return
	}
	s.logger.emit(DebugLevel, msg, nil, s.fields, fields, callerSkip)
}

// Info logs an info message
func (s *Scoped) Info(msg string, fields ...core.Field) {
	if !s.logger.IsEnabledFor(InfoLevel) {
		return
	}
	s.logger.emit(InfoLevel, msg, nil, s.fields, fields, callerSkip)
}

// Warn logs a warning message
func (s *Scoped) Warn(msg string, fields ...core.Field) {
	if !s.logger.IsEnabledFor(WarnLevel) {
		return
	}
	s.logger.emit(WarnLevel, msg, nil, s.fields, fields, callerSkip)
}

// Error logs an error message with err as the cause
func (s *Scoped) Error(msg string, err error, fields ...core.Field) {
	if !s.logger.IsEnabledFor(ErrorLevel) {
		return
	}
	s.logger.emit(ErrorLevel, msg, err, s.fields, fields, callerSkip)
}

// Fatal logs a fatal message with err as the cause. It does not exit.
func (s *Scoped) Fatal(msg string, err error, fields ...core.Field) {
	if !s.logger.IsEnabledFor(FatalLevel) {
		return
	}
	s.logger.emit(FatalLevel, msg, err, s.fields, fields, callerSkip)
}

// Debugf logs a debug message with formatting
func (s *Scoped) Debugf(format string, args ...interface{}) {
	if !s.logger.IsEnabledFor(DebugLevel) {
		return
	}
	s.logger.emit(DebugLevel, fmt.Sprintf(format, args...), nil, s.fields, nil, callerSkip)
}

// Infof logs an info message with formatting
func (s *Scoped) Infof(format string, args ...interface{}) {
	if !s.logger.IsEnabledFor(InfoLevel) {
		return
	}
	s.logger.emit(InfoLevel, fmt.Sprintf(format, args...), nil, s.fields, nil, callerSkip)
}

// Warnf logs a warning message with formatting
func (s *Scoped) Warnf(format string, args ...interface{}) {
	if !s.logger.IsEnabledFor(WarnLevel) {
		return
	}
	s.logger.emit(WarnLevel, fmt.Sprintf(format, args...), nil, s.fields, nil, callerSkip)
}

// Errorf logs an error message with formatting. A %w verb sets the cause.
func (s *Scoped) Errorf(format string, args ...interface{}) {
	if !s.logger.IsEnabledFor(ErrorLevel) {
		return
	}
	err := fmt.Errorf(format, args...)
	s.logger.emit(ErrorLevel, err.Error(), wrappedCause(err), s.fields, nil, callerSkip)
}
