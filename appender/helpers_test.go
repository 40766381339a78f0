package appender

import (
	"bytes"
	"sync"
	"time"

	"github.com/philipp01105/logtree/core"
)

// syncBuffer is a bytes.Buffer safe for use from appender goroutines
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newEvent(level core.Level, msg string) *core.Event {
	return &core.Event{Time: time.Now(), Level: level, LoggerName: "test", Message: msg}
}

// gateAppender blocks in DoAppend until the gate is opened
type gateAppender struct {
	name    string
	entered chan struct{}
	gate    chan struct{}
	mu      sync.Mutex
	got     []string
	closed  int
}

func newGateAppender(name string) *gateAppender {
	return &gateAppender{name: name, entered: make(chan struct{}, 100), gate: make(chan struct{})}
}

func (g *gateAppender) Name() string { return g.name }

func (g *gateAppender) DoAppend(e *core.Event) {
	g.entered <- struct{}{}
	<-g.gate
	g.mu.Lock()
	g.got = append(g.got, e.Message)
	g.mu.Unlock()
}

func (g *gateAppender) Close() error {
	g.mu.Lock()
	g.closed++
	g.mu.Unlock()
	return nil
}

func (g *gateAppender) messages() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.got...)
}

// errWriter fails every write
type errWriter struct{ err error }

func (w errWriter) Write([]byte) (int, error) { return 0, w.err }
