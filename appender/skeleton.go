package appender

import (
	"sync"
	"sync/atomic"

	"github.com/philipp01105/logtree/core"
	"github.com/philipp01105/logtree/filter"
	"github.com/philipp01105/logtree/formatter"
)

// Options are the settings shared by every appender built on Skeleton
type Options struct {
	// Name of the appender
	Name string
	// Threshold drops events below this level (default: accept all)
	Threshold core.Level
	// Filters run in order after the threshold check
	Filters []filter.Filter
	// Formatter to use (default: TextFormatter)
	Formatter formatter.Formatter
	// ErrorHandler receives write failures (default: OnlyOnceErrorHandler)
	ErrorHandler ErrorHandler
}

// Skeleton holds the state common to concrete appenders. Embed it and
// call Init from the constructor.
type Skeleton struct {
	name      string
	threshold atomic.Int32
	closed    atomic.Bool

	mu           sync.RWMutex
	filters      filter.Chain
	formatter    formatter.Formatter
	errorHandler ErrorHandler
}

// Init applies opts and fills in defaults
func (s *Skeleton) Init(opts Options) {
	s.name = opts.Name
	s.threshold.Store(int32(opts.Threshold))
	s.filters = append(filter.Chain(nil), opts.Filters...)
	s.formatter = opts.Formatter
	if s.formatter == nil {
		s.formatter = formatter.NewTextFormatter(formatter.Config{})
	}
	s.errorHandler = opts.ErrorHandler
	if s.errorHandler == nil {
		s.errorHandler = NewOnlyOnceErrorHandler(opts.Name)
	}
}

// Name returns the appender name
func (s *Skeleton) Name() string { return s.name }

// Threshold returns the minimum level the appender accepts
func (s *Skeleton) Threshold() core.Level { return core.Level(s.threshold.Load()) }

// SetThreshold changes the minimum level the appender accepts
func (s *Skeleton) SetThreshold(l core.Level) { s.threshold.Store(int32(l)) }

// AddFilter appends f to the filter chain
func (s *Skeleton) AddFilter(f filter.Filter) {
	s.mu.Lock()
	s.filters = append(s.filters[:len(s.filters):len(s.filters)], f)
	s.mu.Unlock()
}

// ClearFilters empties the filter chain
func (s *Skeleton) ClearFilters() {
	s.mu.Lock()
	s.filters = nil
	s.mu.Unlock()
}

// Filters returns the current filter chain
func (s *Skeleton) Filters() filter.Chain {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// Formatter returns the formatter
func (s *Skeleton) Formatter() formatter.Formatter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.formatter
}

// SetFormatter replaces the formatter
func (s *Skeleton) SetFormatter(f formatter.Formatter) {
	if f == nil {
		return
	}
	s.mu.Lock()
	s.formatter = f
	s.mu.Unlock()
}

// ErrorHandler returns the error handler
func (s *Skeleton) ErrorHandler() ErrorHandler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errorHandler
}

// SetErrorHandler replaces the error handler
func (s *Skeleton) SetErrorHandler(h ErrorHandler) {
	if h == nil {
		return
	}
	s.mu.Lock()
	s.errorHandler = h
	s.mu.Unlock()
}

// Closed reports whether Close has been called
func (s *Skeleton) Closed() bool { return s.closed.Load() }

// MarkClosed flips the closed flag. It returns false if the appender was
// already closed, so Close implementations can return early.
func (s *Skeleton) MarkClosed() bool {
	return s.closed.CompareAndSwap(false, true)
}

// Accepts reports whether e should be written: the appender is open, e is
// at or above the threshold and the filter chain does not deny it.
func (s *Skeleton) Accepts(e *core.Event) bool {
	if s.closed.Load() {
		s.ErrorHandler().Error("append to closed appender", ErrClosed, e)
		return false
	}
	if e.Level < s.Threshold() {
		return false
	}
	return s.Filters().Allows(e)
}

// Fail reports a write failure to the error handler
func (s *Skeleton) Fail(msg string, err error, e *core.Event) {
	s.ErrorHandler().Error(msg, err, e)
}
