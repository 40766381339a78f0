package appender

import (
	"sync"

	"github.com/philipp01105/logtree/core"
)

// List keeps every accepted event in memory. It is meant for tests and
// for inspecting what a configuration would log.
type List struct {
	Skeleton
	mu     sync.Mutex
	events []*core.Event
	notify chan struct{}
}

// NewList creates a new in-memory appender
func NewList(opts Options) *List {
	l := &List{notify: make(chan struct{}, 1)}
	l.Init(opts)
	return l
}

// DoAppend stores e
func (l *List) DoAppend(e *core.Event) {
	if !l.Accepts(e) {
		return
	}
	l.mu.Lock()
	l.events = append(l.events, e)
	l.mu.Unlock()
	select {
	case l.notify <- struct{}{}:
	default:
	}
}

// Events returns a copy of the stored events in arrival order
func (l *List) Events() []*core.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*core.Event(nil), l.events...)
}

// Messages returns the messages of the stored events
func (l *List) Messages() []string {
	events := l.Events()
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Message
	}
	return out
}

// Len returns the number of stored events
func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// Reset drops all stored events
func (l *List) Reset() {
	l.mu.Lock()
	l.events = nil
	l.mu.Unlock()
}

// Notify returns a channel that receives after each stored event. Bursts
// coalesce into one signal.
func (l *List) Notify() <-chan struct{} { return l.notify }

// Close marks the list closed. Stored events stay readable.
func (l *List) Close() error {
	l.MarkClosed()
	return nil
}
