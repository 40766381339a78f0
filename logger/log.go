package logger

import (
	"fmt"

	"github.com/philipp01105/logtree/core"
)

// callerSkip is the runtime.Caller depth from emit to the code that
// called a public logging method
const callerSkip = 3

// IsEnabledFor reports whether an event at level would be dispatched: the
// registry threshold admits it and it is at or above the effective level.
// The All, Off and Inherit markers are never enabled.
func (l *Logger) IsEnabledFor(level Level) bool {
	if level.IsSentinel() {
		return false
	}
	if l.registry != nil && l.registry.IsDisabled(level) {
		return false
	}
	return level >= l.EffectiveLevel()
}

// IsTraceEnabled reports whether trace events are enabled
func (l *Logger) IsTraceEnabled() bool { return l.IsEnabledFor(TraceLevel) }

// IsDebugEnabled reports whether debug events are enabled
func (l *Logger) IsDebugEnabled() bool { return l.IsEnabledFor(DebugLevel) }

// IsInfoEnabled reports whether info events are enabled
func (l *Logger) IsInfoEnabled() bool { return l.IsEnabledFor(InfoLevel) }

// Log dispatches msg at level with an optional cause
func (l *Logger) Log(level Level, msg string, cause error, fields ...core.Field) {
	if !l.IsEnabledFor(level) {
		return
	}
	l.emit(level, msg, cause, nil, fields, callerSkip)
}

// Logf formats and dispatches a message at level
func (l *Logger) Logf(level Level, format string, args ...interface{}) {
	if !l.IsEnabledFor(level) {
		return
	}
	l.emit(level, fmt.Sprintf(format, args...), nil, nil, nil, callerSkip)
}

// Trace logs a trace message
func (l *Logger) Trace(msg string, fields ...core.Field) {
	if !l.IsEnabledFor(TraceLevel) {
		return
	}
	l.emit(TraceLevel, msg, nil, nil, fields, callerSkip)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...core.Field) {
	if !l.IsEnabledFor(DebugLevel) {
		return
	}
	l.emit(DebugLevel, msg, nil, nil, fields, callerSkip)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields ...core.Field) {
	if !l.IsEnabledFor(InfoLevel) {
		return
	}
	l.emit(InfoLevel, msg, nil, nil, fields, callerSkip)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...core.Field) {
	if !l.IsEnabledFor(WarnLevel) {
		return
	}
	l.emit(WarnLevel, msg, nil, nil, fields, callerSkip)
}

// Error logs an error message with err as the cause
func (l *Logger) Error(msg string, err error, fields ...core.Field) {
	if !l.IsEnabledFor(ErrorLevel) {
		return
	}
	l.emit(ErrorLevel, msg, err, nil, fields, callerSkip)
}

// Fatal logs a fatal message with err as the cause. It does not exit;
// terminating the process is left to the caller.
func (l *Logger) Fatal(msg string, err error, fields ...core.Field) {
	if !l.IsEnabledFor(FatalLevel) {
		return
	}
	l.emit(FatalLevel, msg, err, nil, fields, callerSkip)
}

// Tracef logs a trace message with formatting
func (l *Logger) Tracef(format string, args ...interface{}) {
	if !l.IsEnabledFor(TraceLevel) {
		return
	}
	l.emit(TraceLevel, fmt.Sprintf(format, args...), nil, nil, nil, callerSkip)
}

// Debugf logs a debug message with formatting
func (l *Logger) Debugf(format string, args ...interface{}) {
	if !l.IsEnabledFor(DebugLevel) {
		return
	}
	l.emit(DebugLevel, fmt.Sprintf(format, args...), nil, nil, nil, callerSkip)
}

// Infof logs an info message with formatting
func (l *Logger) Infof(format string, args ...interface{}) {
	if !l.IsEnabledFor(InfoLevel) {
		return
	}
	l.emit(InfoLevel, fmt.Sprintf(format, args...), nil, nil, nil, callerSkip)
}

// Warnf logs a warning message with formatting
func (l *Logger) Warnf(format string, args ...interface{}) {
	if !l.IsEnabledFor(WarnLevel) {
		return
	}
	l.emit(WarnLevel, fmt.Sprintf(format, args...), nil, nil, nil, callerSkip)
}

// Errorf logs an error message with formatting. A %w verb sets the cause.
func (l *Logger) Errorf(format string, args ...interface{}) {
	if !l.IsEnabledFor(ErrorLevel) {
		return
	}
	err := fmt.Errorf(format, args...)
	l.emit(ErrorLevel, err.Error(), wrappedCause(err), nil, nil, callerSkip)
}

// Fatalf logs a fatal message with formatting. A %w verb sets the cause.
func (l *Logger) Fatalf(format string, args ...interface{}) {
	if !l.IsEnabledFor(FatalLevel) {
		return
	}
	err := fmt.Errorf(format, args...)
	l.emit(FatalLevel, err.Error(), wrappedCause(err), nil, nil, callerSkip)
}

// wrappedCause returns what a %w verb wrapped, or nil
func wrappedCause(err error) error {
	switch u := err.(type) {
	case interface{ Unwrap() error }:
		return u.Unwrap()
	case interface{ Unwrap() []error }:
		if errs := u.Unwrap(); len(errs) > 0 {
			return errs[0]
		}
	}
	return nil
}

// AssertLog logs msg at error level when assertion is false
func (l *Logger) AssertLog(assertion bool, msg string) {
	if assertion || !l.IsEnabledFor(ErrorLevel) {
		return
	}
	l.emit(ErrorLevel, msg, nil, nil, nil, callerSkip)
}

// Logv renders v through the registry's renderer map and logs the result
func (l *Logger) Logv(level Level, v interface{}, cause error) {
	if !l.IsEnabledFor(level) {
		return
	}
	l.emit(level, l.render(v), cause, nil, nil, callerSkip)
}

func (l *Logger) render(v interface{}) string {
	if l.registry != nil {
		return l.registry.renderers.Render(v)
	}
	return fmt.Sprint(v)
}

// L7d looks key up in the inherited bundle and logs the localized text.
// With args the text is used as a format string. A missing key is
// reported as an error event on this logger and the bare key is logged.
// Without any bundle in the ancestry the key is logged, after a single
// error event per registry.
func (l *Logger) L7d(level Level, key string, cause error, args ...interface{}) {
	if !l.IsEnabledFor(level) {
		return
	}
	msg := key
	if b := l.Bundle(); b == nil {
		if l.registry != nil && l.registry.noBundleWarned.CompareAndSwap(false, true) {
			l.l7dError("No resource bundle has been set for logger " + l.name)
		}
	} else if text, ok := b.Lookup(key); !ok {
		l.l7dError("No resource is associated with key \"" + key + "\".")
	} else if len(args) > 0 {
		msg = fmt.Sprintf(text, args...)
	} else {
		msg = text
	}
	l.emit(level, msg, cause, nil, nil, callerSkip)
}

func (l *Logger) l7dError(msg string) {
	if l.IsEnabledFor(ErrorLevel) {
		l.emit(ErrorLevel, msg, nil, nil, nil, callerSkip+1)
	}
}

// emit builds the event and dispatches it. The level checks are the
// caller's job.
func (l *Logger) emit(level Level, msg string, cause error, pre, fields []core.Field, skip int) {
	r := l.registry
	e := core.NewEvent(r.now(), l.name, level, msg, cause)
	if n := len(pre) + len(fields); n > 0 {
		e.Fields = make([]core.Field, 0, n)
		e.Fields = append(e.Fields, pre...)
		e.Fields = append(e.Fields, fields...)
	}
	if r.captureCaller() {
		e.Caller = core.GetCaller(skip + r.extraCallerSkip())
	}
	l.callAppenders(e)
}
