package logger

import (
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/philipp01105/logtree/appender"
	"github.com/philipp01105/logtree/core"
	"github.com/philipp01105/logtree/diag"
)

func observeDiag(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	obs, logs := observer.New(zapcore.DebugLevel)
	prev := diag.SetLogger(zap.New(obs))
	t.Cleanup(func() { diag.SetLogger(prev) })
	return logs
}

func newList(name string) *appender.List {
	return appender.NewList(appender.Options{Name: name})
}

// closeRecorder is a leaf appender that records the order of Close calls
type closeRecorder struct {
	name string
	mu   *sync.Mutex
	log  *[]string
	n    int
}

func (c *closeRecorder) Name() string           { return c.name }
func (c *closeRecorder) DoAppend(_ *core.Event) {}
func (c *closeRecorder) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	if c.n == 1 {
		*c.log = append(*c.log, c.name)
	}
	return nil
}

// panicAppender panics on every event
type panicAppender struct{}

func (panicAppender) Name() string           { return "panic" }
func (panicAppender) DoAppend(_ *core.Event) { panic("boom") }
func (panicAppender) Close() error           { return nil }
