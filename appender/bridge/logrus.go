package bridge

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/philipp01105/logtree/appender"
	"github.com/philipp01105/logtree/core"
)

// LogrusConfig holds configuration for a logrus appender
type LogrusConfig struct {
	appender.Options
	// Logger receives the events (default: logrus.StandardLogger)
	Logger *logrus.Logger
}

// Logrus writes events through a logrus logger
type Logrus struct {
	appender.Skeleton
	logger *logrus.Logger
}

// NewLogrus creates a logrus appender
func NewLogrus(cfg LogrusConfig) *Logrus {
	l := cfg.Logger
	if l == nil {
		l = logrus.StandardLogger()
	}
	a := &Logrus{logger: l}
	a.Init(cfg.Options)
	return a
}

// LogrusLevel maps a level onto the closest logrus level
func LogrusLevel(l core.Level) logrus.Level {
	switch {
	case l >= core.FatalLevel:
		return logrus.FatalLevel
	case l >= core.ErrorLevel:
		return logrus.ErrorLevel
	case l >= core.WarnLevel:
		return logrus.WarnLevel
	case l >= core.InfoLevel:
		return logrus.InfoLevel
	case l >= core.DebugLevel:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}

// DoAppend writes e. Entry.Log does not exit on fatal events.
func (a *Logrus) DoAppend(e *core.Event) {
	if !a.Accepts(e) {
		return
	}
	lvl := LogrusLevel(e.Level)
	if !a.logger.IsLevelEnabled(lvl) {
		return
	}

	fields := make(logrus.Fields, len(e.Fields)+1)
	fields["logger"] = e.LoggerName
	for _, f := range e.Fields {
		switch f.Type {
		case core.TimeType:
			fields[f.Key] = time.Unix(0, f.Int64)
		default:
			fields[f.Key] = f.Value()
		}
	}

	entry := logrus.NewEntry(a.logger).WithTime(e.Time).WithFields(fields)
	if e.Cause != nil {
		entry = entry.WithError(e.Cause)
	}
	entry.Log(lvl, e.Message)
}

// Close marks the appender closed
func (a *Logrus) Close() error {
	a.MarkClosed()
	return nil
}
