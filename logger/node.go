package logger

import (
	"sync/atomic"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/philipp01105/logtree/appender"
	"github.com/philipp01105/logtree/core"
	"github.com/philipp01105/logtree/diag"
)

// Logger is a named node in a Registry's tree. Loggers are created by the
// registry and live as long as it does; all methods are safe for
// concurrent use.
type Logger struct {
	name     string
	registry *Registry

	parent    atomic.Pointer[Logger]
	level     atomic.Int32
	additive  atomic.Bool
	bundle    atomic.Pointer[bundleRef]
	appenders appender.Set
}

type bundleRef struct{ b Bundle }

// NewLogger returns a detached node with no level of its own and
// additivity on. Factories use it; a node starts logging once a Registry
// links it into the tree.
func NewLogger(name string) *Logger {
	l := &Logger{name: name}
	l.additive.Store(true)
	return l
}

// Name returns the logger's dotted name
func (l *Logger) Name() string { return l.name }

// Registry returns the registry the logger belongs to, or nil when detached
func (l *Logger) Registry() *Registry { return l.registry }

// Parent returns the closest existing ancestor. It is nil only for the
// root and for detached nodes.
func (l *Logger) Parent() *Logger { return l.parent.Load() }

// Level returns the explicitly assigned level, InheritLevel if none
func (l *Logger) Level() Level { return Level(l.level.Load()) }

// SetLevel assigns a level. InheritLevel clears it, except on the root,
// which must always keep a level.
func (l *Logger) SetLevel(level Level) {
	if level == InheritLevel && l.isRoot() {
		diag.Warn("the root logger cannot inherit its level, ignoring", zap.String("logger", l.name))
		return
	}
	l.level.Store(int32(level))
}

func (l *Logger) isRoot() bool {
	return l.registry != nil && l.registry.root == l
}

// EffectiveLevel returns the first explicit level found walking from this
// logger towards the root. A detached node without a level reports
// OffLevel.
func (l *Logger) EffectiveLevel() Level {
	for c := l; c != nil; c = c.parent.Load() {
		if lvl := Level(c.level.Load()); lvl != InheritLevel {
			return lvl
		}
	}
	return OffLevel
}

// Additivity reports whether events also go to the ancestors' appenders
func (l *Logger) Additivity() bool { return l.additive.Load() }

// SetAdditivity turns propagation to ancestors on or off
func (l *Logger) SetAdditivity(additive bool) { l.additive.Store(additive) }

// AddAppender attaches a. Attaching the same appender twice is a no-op.
func (l *Logger) AddAppender(a appender.Appender) {
	if a == nil {
		return
	}
	if l.appenders.Add(a) && l.registry != nil {
		l.registry.fireAppenderAdded(l, a)
	}
}

// RemoveAppender detaches a without closing it. It reports whether a was
// attached.
func (l *Logger) RemoveAppender(a appender.Appender) bool {
	if a == nil || !l.appenders.Remove(a) {
		return false
	}
	if l.registry != nil {
		l.registry.fireAppenderRemoved(l, a)
	}
	return true
}

// RemoveAppenderNamed detaches the first appender called name and returns
// it, or nil when there is none
func (l *Logger) RemoveAppenderNamed(name string) appender.Appender {
	a := l.appenders.RemoveNamed(name)
	if a != nil && l.registry != nil {
		l.registry.fireAppenderRemoved(l, a)
	}
	return a
}

// RemoveAllAppenders detaches and closes every appender. Close errors are
// combined.
func (l *Logger) RemoveAllAppenders() error {
	var err error
	for _, a := range l.appenders.RemoveAll() {
		err = multierr.Append(err, a.Close())
		if l.registry != nil {
			l.registry.fireAppenderRemoved(l, a)
		}
	}
	return err
}

// Appender returns the attached appender called name, or nil
func (l *Logger) Appender(name string) appender.Appender {
	return l.appenders.Get(name)
}

// Appenders returns a snapshot of the attached appenders in order
func (l *Logger) Appenders() []appender.Appender {
	return append([]appender.Appender(nil), l.appenders.Snapshot()...)
}

// IsAttached reports whether a is attached to this logger
func (l *Logger) IsAttached(a appender.Appender) bool {
	return l.appenders.Contains(a)
}

// SetBundle assigns the bundle used by L7d. Nil clears it.
func (l *Logger) SetBundle(b Bundle) {
	if b == nil {
		l.bundle.Store(nil)
		return
	}
	l.bundle.Store(&bundleRef{b: b})
}

// Bundle returns the bundle of the nearest logger, self included, that
// has one
func (l *Logger) Bundle() Bundle {
	for c := l; c != nil; c = c.parent.Load() {
		if ref := c.bundle.Load(); ref != nil {
			return ref.b
		}
	}
	return nil
}

// callAppenders hands e to the appenders of this logger and its ancestors,
// stopping after the first non-additive node. It returns how many
// appenders were reached.
func (l *Logger) callAppenders(e *core.Event) int {
	writes := 0
	for c := l; c != nil; c = c.parent.Load() {
		writes += c.appenders.AppendLoop(e)
		if !c.additive.Load() {
			break
		}
	}
	if writes == 0 && l.registry != nil {
		l.registry.emitNoAppenderWarning(l)
	}
	return writes
}
