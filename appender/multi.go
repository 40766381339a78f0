package appender

import (
	"go.uber.org/multierr"

	"github.com/philipp01105/logtree/core"
)

// Multi sends each event to all of its children synchronously
type Multi struct {
	Skeleton
	children Set
}

// NewMulti creates a new multi appender
func NewMulti(opts Options, children ...Appender) *Multi {
	m := &Multi{}
	m.Init(opts)
	for _, child := range children {
		m.children.Add(child)
	}
	return m
}

// AddAppender attaches a child
func (m *Multi) AddAppender(child Appender) { m.children.Add(child) }

// RemoveAppender detaches a child
func (m *Multi) RemoveAppender(child Appender) bool { return m.children.Remove(child) }

// Appenders returns the children
func (m *Multi) Appenders() []Appender {
	return append([]Appender(nil), m.children.Snapshot()...)
}

// DoAppend forwards e to every child
func (m *Multi) DoAppend(e *core.Event) {
	if !m.Accepts(e) {
		return
	}
	m.children.AppendLoop(e)
}

// Close closes all children and combines their errors
func (m *Multi) Close() error {
	if !m.MarkClosed() {
		return nil
	}
	var err error
	for _, child := range m.children.RemoveAll() {
		err = multierr.Append(err, child.Close())
	}
	return err
}
