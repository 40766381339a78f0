package appender

import (
	"bytes"
	"io"
	"sync"
	"sync/atomic"

	"github.com/philipp01105/logtree/core"
	"github.com/philipp01105/logtree/formatter"
)

// WriterConfig holds configuration for a writer appender
type WriterConfig struct {
	Options
	// Writer to write to (required)
	Writer io.Writer
	// CloseWriter closes Writer on Close when it is an io.Closer
	CloseWriter bool
}

// Writer appends formatted events to an io.Writer. Writes are serialized.
type Writer struct {
	Skeleton
	mu          sync.Mutex
	w           io.Writer
	closeWriter bool
	written     atomic.Uint64

	// decorate, when set, wraps each formatted line before it is written
	decorate func(e *core.Event, line []byte, buf *bytes.Buffer)
}

// NewWriter creates a new writer appender
func NewWriter(cfg WriterConfig) *Writer {
	a := &Writer{w: cfg.Writer, closeWriter: cfg.CloseWriter}
	if a.w == nil {
		a.w = io.Discard
	}
	a.Init(cfg.Options)
	return a
}

// DoAppend formats e and writes it
func (a *Writer) DoAppend(e *core.Event) {
	if !a.Accepts(e) {
		return
	}
	if err := a.write(e); err != nil {
		a.Fail("write failed", err, e)
		return
	}
	a.written.Add(1)
}

func (a *Writer) write(e *core.Event) error {
	f := a.Formatter()
	if a.decorate == nil {
		if wf, ok := f.(formatter.WriterFormatter); ok {
			a.mu.Lock()
			defer a.mu.Unlock()
			return wf.FormatTo(e, a.w)
		}
	}

	data, err := f.Format(e)
	if err != nil {
		return err
	}
	if a.decorate != nil {
		var buf bytes.Buffer
		a.decorate(e, data, &buf)
		data = buf.Bytes()
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	_, err = a.w.Write(data)
	return err
}

// Written returns the number of events written successfully
func (a *Writer) Written() uint64 {
	return a.written.Load()
}

// Close closes the appender and, if configured, the underlying writer
func (a *Writer) Close() error {
	if !a.MarkClosed() {
		return nil
	}
	if !a.closeWriter {
		return nil
	}
	if c, ok := a.w.(io.Closer); ok {
		a.mu.Lock()
		defer a.mu.Unlock()
		return c.Close()
	}
	return nil
}
