package logger

import (
	"time"

	"github.com/philipp01105/logtree/appender"
	"github.com/philipp01105/logtree/core"
)

// Builder provides a fluent API for building Registry instances
type Builder struct {
	rootLevel     Level
	threshold     Level
	factory       Factory
	appenders     []appender.Appender
	includeCaller bool
	callerSkip    int
	coarseClock   bool
	listeners     []Listener
}

// NewBuilder creates a new registry builder
func NewBuilder() *Builder {
	return &Builder{
		rootLevel: DebugLevel,
		threshold: AllLevel,
	}
}

// WithRootLevel sets the level of the root logger
func (b *Builder) WithRootLevel(level Level) *Builder {
	b.rootLevel = level
	return b
}

// WithThreshold sets the registry-wide threshold
func (b *Builder) WithThreshold(level Level) *Builder {
	b.threshold = level
	return b
}

// WithFactory sets the factory for new loggers
func (b *Builder) WithFactory(f Factory) *Builder {
	b.factory = f
	return b
}

// WithAppender attaches a to the root logger
func (b *Builder) WithAppender(a appender.Appender) *Builder {
	b.appenders = append(b.appenders, a)
	return b
}

// WithListener registers a listener before any appender is attached
func (b *Builder) WithListener(li Listener) *Builder {
	b.listeners = append(b.listeners, li)
	return b
}

// WithCaller enables caller information
func (b *Builder) WithCaller(enabled bool) *Builder {
	b.includeCaller = enabled
	return b
}

// WithCallerSkip adds frames to skip when code wraps the logging methods
func (b *Builder) WithCallerSkip(skip int) *Builder {
	b.callerSkip = skip
	return b
}

// WithCoarseClock stamps events from a clock refreshed every 500µs
// instead of calling time.Now for each one
func (b *Builder) WithCoarseClock(enabled bool) *Builder {
	b.coarseClock = enabled
	return b
}

// Build creates the Registry instance
func (b *Builder) Build() *Registry {
	clock := time.Now
	if b.coarseClock {
		core.StartCoarseClock()
		clock = core.CoarseNow
	}
	f := b.factory
	if f == nil {
		f = DefaultFactory
	}

	r := newRegistry(b.rootLevel, f, clock)
	r.SetThreshold(b.threshold)
	r.caller.Store(b.includeCaller)
	r.extraSkip = b.callerSkip
	for _, li := range b.listeners {
		r.AddListener(li)
	}
	for _, a := range b.appenders {
		r.root.AddAppender(a)
	}
	return r
}
