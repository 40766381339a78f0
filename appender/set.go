package appender

import (
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/philipp01105/logtree/core"
	"github.com/philipp01105/logtree/diag"
)

// Set is an ordered list of appenders, unique by identity. Writers copy
// the slice, so a snapshot taken by a reader stays valid without a lock.
type Set struct {
	mu    sync.RWMutex
	items []Appender
}

// Add appends a unless it is already present. It reports whether a was
// added.
func (s *Set) Add(a Appender) bool {
	if a == nil || !isComparable(a) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, x := range s.items {
		if x == a {
			return false
		}
	}
	items := make([]Appender, len(s.items), len(s.items)+1)
	copy(items, s.items)
	s.items = append(items, a)
	return true
}

// Remove drops a and reports whether it was present
func (s *Set) Remove(a Appender) bool {
	if a == nil || !isComparable(a) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, x := range s.items {
		if x == a {
			s.items = without(s.items, i)
			return true
		}
	}
	return false
}

// RemoveNamed drops the first appender called name and returns it, or nil
func (s *Set) RemoveNamed(name string) Appender {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, x := range s.items {
		if x.Name() == name {
			s.items = without(s.items, i)
			return x
		}
	}
	return nil
}

// RemoveAll empties the set and returns what it held, in order
func (s *Set) RemoveAll() []Appender {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.items
	s.items = nil
	return items
}

// Get returns the first appender called name
func (s *Set) Get(name string) Appender {
	for _, x := range s.Snapshot() {
		if x.Name() == name {
			return x
		}
	}
	return nil
}

// Contains reports whether a is in the set
func (s *Set) Contains(a Appender) bool {
	if a == nil || !isComparable(a) {
		return false
	}
	for _, x := range s.Snapshot() {
		if x == a {
			return true
		}
	}
	return false
}

// Len returns the number of appenders
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Snapshot returns the current list. Callers must not modify it.
func (s *Set) Snapshot() []Appender {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items
}

// AppendLoop hands e to every appender in the set and returns how many it
// reached. The set's lock is not held while appending, and a panicking
// appender is reported and skipped.
func (s *Set) AppendLoop(e *core.Event) int {
	items := s.Snapshot()
	for _, a := range items {
		SafeAppend(a, e)
	}
	return len(items)
}

// SafeAppend calls a.DoAppend(e), recovering a panic into the diagnostic log
func SafeAppend(a Appender, e *core.Event) {
	defer func() {
		if r := recover(); r != nil {
			diag.Error("appender panicked",
				zap.String("appender", a.Name()),
				zap.String("logger", e.LoggerName),
				zap.Any("panic", r))
		}
	}()
	a.DoAppend(e)
}

func without(items []Appender, i int) []Appender {
	out := make([]Appender, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

// isComparable guards == on interface values whose dynamic type would panic
func isComparable(a Appender) bool {
	if reflect.TypeOf(a).Comparable() {
		return true
	}
	diag.Warn("appender type is not comparable and cannot be attached",
		zap.String("type", reflect.TypeOf(a).String()))
	return false
}
