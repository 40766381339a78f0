package logger

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/philipp01105/logtree/appender"
	"github.com/philipp01105/logtree/diag"
)

// Listener is notified when appenders are attached to or detached from
// any logger of a registry. Callbacks run synchronously on the goroutine
// making the change, after the change is visible.
type Listener interface {
	AppenderAdded(l *Logger, a appender.Appender)
	AppenderRemoved(l *Logger, a appender.Appender)
}

// ListenerFuncs builds a Listener from optional callbacks. Register it by
// pointer so it can be removed again.
type ListenerFuncs struct {
	Added   func(l *Logger, a appender.Appender)
	Removed func(l *Logger, a appender.Appender)
}

// AppenderAdded implements Listener
func (f *ListenerFuncs) AppenderAdded(l *Logger, a appender.Appender) {
	if f.Added != nil {
		f.Added(l, a)
	}
}

// AppenderRemoved implements Listener
func (f *ListenerFuncs) AppenderRemoved(l *Logger, a appender.Appender) {
	if f.Removed != nil {
		f.Removed(l, a)
	}
}

func sameListener(a, b Listener) bool {
	ta := reflect.TypeOf(a)
	return ta == reflect.TypeOf(b) && ta.Comparable() && a == b
}

// AddListener registers li. Registering the same listener twice is
// reported and ignored.
func (r *Registry) AddListener(li Listener) {
	if li == nil {
		return
	}
	r.listenersMu.Lock()
	defer r.listenersMu.Unlock()
	current := r.listenerList()
	for _, x := range current {
		if sameListener(x, li) {
			diag.Warn("ignoring attempt to add an existent listener")
			return
		}
	}
	next := make([]Listener, len(current), len(current)+1)
	copy(next, current)
	next = append(next, li)
	r.listeners.Store(&next)
}

// RemoveListener unregisters li and reports whether it was registered
func (r *Registry) RemoveListener(li Listener) bool {
	r.listenersMu.Lock()
	defer r.listenersMu.Unlock()
	current := r.listenerList()
	for i, x := range current {
		if sameListener(x, li) {
			next := make([]Listener, 0, len(current)-1)
			next = append(next, current[:i]...)
			next = append(next, current[i+1:]...)
			r.listeners.Store(&next)
			return true
		}
	}
	return false
}

func (r *Registry) listenerList() []Listener {
	if p := r.listeners.Load(); p != nil {
		return *p
	}
	return nil
}

func (r *Registry) fireAppenderAdded(l *Logger, a appender.Appender) {
	for _, li := range r.listenerList() {
		notify(func() { li.AppenderAdded(l, a) })
	}
}

func (r *Registry) fireAppenderRemoved(l *Logger, a appender.Appender) {
	for _, li := range r.listenerList() {
		notify(func() { li.AppenderRemoved(l, a) })
	}
}

func notify(fn func()) {
	defer func() {
		if p := recover(); p != nil {
			diag.Error("listener panicked", zap.Any("panic", p))
		}
	}()
	fn()
}
