package store

import (
	"github.com/philipp01105/logtree/appender"
	"github.com/philipp01105/logtree/core"
)

// AppenderConfig holds configuration for a store appender
type AppenderConfig struct {
	appender.Options
	// Store receives the events. Either Store or Dir is required.
	Store *Store
	// Dir opens a store owned by the appender when Store is nil
	Dir string
	// Sync forces a WAL fsync on every event when the appender opens the store
	Sync bool
}

// Appender writes each accepted event to a Store
type Appender struct {
	appender.Skeleton
	store *Store
	owned bool
}

// NewAppender creates a store appender, opening the store if needed
func NewAppender(cfg AppenderConfig) (*Appender, error) {
	a := &Appender{store: cfg.Store}
	if a.store == nil {
		s, err := Open(Options{Dir: cfg.Dir, Sync: cfg.Sync})
		if err != nil {
			return nil, err
		}
		a.store, a.owned = s, true
	}
	a.Init(cfg.Options)
	return a, nil
}

// Store returns the underlying store
func (a *Appender) Store() *Store { return a.store }

// DoAppend stores e
func (a *Appender) DoAppend(e *core.Event) {
	if !a.Accepts(e) {
		return
	}
	if _, err := a.store.Put(e); err != nil {
		a.Fail("store event", err, e)
	}
}

// Close closes the store if the appender opened it
func (a *Appender) Close() error {
	if !a.MarkClosed() || !a.owned {
		return nil
	}
	return a.store.Close()
}
