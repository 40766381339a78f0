package logger

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/philipp01105/logtree/appender"
	"github.com/philipp01105/logtree/core"
	"github.com/philipp01105/logtree/diag"
)

// RootName is the name reported by a registry's root logger
const RootName = "root"

// provisionNode stands in for a logger that has not been requested yet
// but has descendants that have. It lists those descendants so they can
// be re-parented when the real logger appears.
type provisionNode struct {
	children []*Logger
}

// Registry owns a tree of loggers keyed by dotted name. The root logger
// always exists and always has a level.
type Registry struct {
	mu      sync.RWMutex
	table   map[string]interface{} // *Logger or *provisionNode
	factory Factory

	root      *Logger
	threshold atomic.Int32
	renderers *RendererMap

	listenersMu sync.Mutex
	listeners   atomic.Pointer[[]Listener]

	noAppenderWarned atomic.Bool
	noBundleWarned   atomic.Bool

	caller    atomic.Bool
	extraSkip int
	clock     func() time.Time
}

// NewRegistry creates a registry whose root logs at DebugLevel and whose
// threshold admits everything
func NewRegistry() *Registry {
	return newRegistry(DebugLevel, DefaultFactory, time.Now)
}

func newRegistry(rootLevel Level, f Factory, clock func() time.Time) *Registry {
	r := &Registry{
		table:     make(map[string]interface{}),
		factory:   f,
		renderers: NewRendererMap(),
		clock:     clock,
	}
	r.root = NewLogger(RootName)
	r.root.registry = r
	if rootLevel == InheritLevel {
		rootLevel = DebugLevel
	}
	r.root.level.Store(int32(rootLevel))
	r.threshold.Store(int32(AllLevel))
	return r
}

func (r *Registry) now() time.Time {
	if r == nil {
		return time.Now()
	}
	return r.clock()
}

func (r *Registry) captureCaller() bool {
	return r != nil && r.caller.Load()
}

func (r *Registry) extraCallerSkip() int {
	if r == nil {
		return 0
	}
	return r.extraSkip
}

// SetCallerCapture turns recording of the calling file and line on or off
func (r *Registry) SetCallerCapture(on bool) { r.caller.Store(on) }

// Root returns the root logger
func (r *Registry) Root() *Logger { return r.root }

// Renderers returns the renderer map used by Logv
func (r *Registry) Renderers() *RendererMap { return r.renderers }

// SetFactory replaces the factory used by Logger. Nil restores the default.
func (r *Registry) SetFactory(f Factory) {
	if f == nil {
		f = DefaultFactory
	}
	r.mu.Lock()
	r.factory = f
	r.mu.Unlock()
}

// Logger returns the logger called name, creating and linking it on first
// use. Every call with the same name returns the same instance. An empty
// name returns the root.
func (r *Registry) Logger(name string) *Logger {
	return r.LoggerFrom(name, nil)
}

// LoggerFrom is Logger with a factory for the case where name is new. A
// nil factory uses the registry's.
func (r *Registry) LoggerFrom(name string, f Factory) *Logger {
	if name == "" {
		return r.root
	}

	r.mu.RLock()
	v := r.table[name]
	r.mu.RUnlock()
	if l, ok := v.(*Logger); ok {
		return l
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch v := r.table[name].(type) {
	case nil:
		l := r.create(name, f)
		r.table[name] = l
		r.updateParents(l)
		return l
	case *Logger:
		return v
	case *provisionNode:
		l := r.create(name, f)
		r.table[name] = l
		r.updateChildren(v, l)
		r.updateParents(l)
		return l
	default:
		diag.Error("unexpected entry in logger table",
			zap.String("logger", name), zap.String("type", fmt.Sprintf("%T", v)))
		return nil
	}
}

// create runs the factory. Callers hold r.mu.
func (r *Registry) create(name string, f Factory) *Logger {
	if f == nil {
		f = r.factory
	}
	l := f.NewLogger(name)
	if l == nil || l.name != name || l.registry != nil {
		diag.Error("logger factory returned an unusable logger, using the default", zap.String("logger", name))
		l = NewLogger(name)
	}
	l.registry = r
	return l
}

// updateParents links l to its closest existing ancestor, registering l
// with a provision node for every missing ancestor on the way. Callers
// hold r.mu.
func (r *Registry) updateParents(l *Logger) {
	name := l.name
	for i := strings.LastIndexByte(name, '.'); i > 0; i = strings.LastIndexByte(name[:i], '.') {
		prefix := name[:i]
		switch v := r.table[prefix].(type) {
		case nil:
			r.table[prefix] = &provisionNode{children: []*Logger{l}}
		case *Logger:
			l.parent.Store(v)
			return
		case *provisionNode:
			v.children = append(v.children, l)
		default:
			diag.Error("unexpected entry in logger table",
				zap.String("logger", prefix), zap.String("type", fmt.Sprintf("%T", v)))
		}
	}
	l.parent.Store(r.root)
}

// updateChildren re-parents the loggers that waited on pn under l. A
// child whose parent is already l or one of l's descendants keeps it.
// Callers hold r.mu.
func (r *Registry) updateChildren(pn *provisionNode, l *Logger) {
	for _, c := range pn.children {
		p := c.parent.Load()
		if p != r.root && isSelfOrDescendant(p.name, l.name) {
			continue
		}
		c.parent.Store(l)
	}
}

// isSelfOrDescendant compares whole dotted segments, so "a.bc" is not a
// descendant of "a.b"
func isSelfOrDescendant(name, ancestor string) bool {
	return name == ancestor || strings.HasPrefix(name, ancestor+".")
}

// Exists returns the logger called name if it has been created
func (r *Registry) Exists(name string) (*Logger, bool) {
	if name == "" {
		return r.root, true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.table[name].(*Logger)
	return l, ok
}

// CurrentLoggers returns every created logger except the root, sorted by
// name. Later changes to the registry do not affect the returned slice.
func (r *Registry) CurrentLoggers() []*Logger {
	r.mu.RLock()
	out := make([]*Logger, 0, len(r.table))
	for _, v := range r.table {
		if l, ok := v.(*Logger); ok {
			out = append(out, l)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// SetThreshold disables every event below level across the registry.
// InheritLevel is not a threshold and is ignored.
func (r *Registry) SetThreshold(level Level) {
	if level == InheritLevel {
		diag.Warn("ignoring inherit as a registry threshold")
		return
	}
	r.threshold.Store(int32(level))
}

// SetThresholdString parses s as a level name and sets it. Unknown names
// are reported and leave the threshold unchanged.
func (r *Registry) SetThresholdString(s string) {
	l, ok := core.ParseLevel(s)
	if !ok || l == InheritLevel {
		diag.Warn("could not convert threshold to a level", zap.String("value", s))
		return
	}
	r.SetThreshold(l)
}

// Threshold returns the registry-wide minimum level
func (r *Registry) Threshold() Level { return Level(r.threshold.Load()) }

// IsDisabled reports whether the threshold rejects level
func (r *Registry) IsDisabled(level Level) bool {
	return Level(r.threshold.Load()) > level
}

// emitNoAppenderWarning reports, once per registry, that an event reached
// no appender at all
func (r *Registry) emitNoAppenderWarning(l *Logger) {
	if !r.noAppenderWarned.CompareAndSwap(false, true) {
		return
	}
	diag.Warn("no appenders could be found for logger", zap.String("logger", l.name))
	diag.Warn("please initialize the logging configuration properly")
}

// ResetConfiguration returns the registry to its initial state: the root
// logs at DebugLevel, the threshold admits everything, every appender is
// closed and removed, and every other logger inherits its level, is
// additive and has no bundle. Loggers stay in the tree.
func (r *Registry) ResetConfiguration() error {
	r.root.SetLevel(DebugLevel)
	r.root.SetBundle(nil)
	r.threshold.Store(int32(AllLevel))

	loggers := r.CurrentLoggers()
	err := r.shutdown(loggers)
	for _, l := range loggers {
		l.SetLevel(InheritLevel)
		l.SetAdditivity(true)
		l.SetBundle(nil)
	}
	r.renderers.Clear()
	return err
}

// Shutdown closes and removes every appender in the tree. Composite
// appenders are closed first so queued events reach their destinations
// while those are still open. Calling Shutdown again is a no-op.
func (r *Registry) Shutdown() error {
	return r.shutdown(r.CurrentLoggers())
}

func (r *Registry) shutdown(loggers []*Logger) error {
	all := append([]*Logger{r.root}, loggers...)

	var err error
	for _, l := range all {
		for _, a := range l.appenders.Snapshot() {
			err = multierr.Append(err, appender.CloseNested(a))
		}
	}
	for _, l := range all {
		err = multierr.Append(err, l.RemoveAllAppenders())
	}
	return err
}

// Clear forgets every logger except the root. Loggers handed out earlier
// keep working but are no longer reachable by name.
func (r *Registry) Clear() {
	r.mu.Lock()
	r.table = make(map[string]interface{})
	r.mu.Unlock()
}
