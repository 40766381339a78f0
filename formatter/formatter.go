package formatter

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/philipp01105/logtree/core"
)

// Formatter defines the interface for event formatters
type Formatter interface {
	// Format formats an event into bytes
	Format(e *core.Event) ([]byte, error)
}

// WriterFormatter is an optional interface that formatters can implement
// to write directly to a writer without intermediate byte slice allocation.
type WriterFormatter interface {
	// FormatTo formats an event and writes it directly to the writer
	FormatTo(e *core.Event, w io.Writer) error
}

// BufferFormatter is an optional interface that formatters can implement
// to format directly into a caller-provided buffer.
type BufferFormatter interface {
	// FormatEvent formats an event into the given buffer.
	FormatEvent(e *core.Event, buf *bytes.Buffer)
}

// Config holds common formatter configuration
type Config struct {
	// IncludeCaller enables caller information in log output
	IncludeCaller bool
	// IncludeGoroutine adds the id of the logging goroutine
	IncludeGoroutine bool
	// TimestampFormat specifies the time format (empty for RFC3339)
	TimestampFormat string
}

// New returns the formatter registered under name ("text", "json") or, for
// any other non-empty string containing a '%', a pattern formatter using it
// as the pattern. An empty name yields a text formatter.
func New(name string, cfg Config) (Formatter, error) {
	switch name {
	case "", "text":
		return NewTextFormatter(cfg), nil
	case "json":
		return NewJSONFormatter(cfg), nil
	default:
		if !strings.Contains(name, "%") {
			return nil, fmt.Errorf("unknown formatter %q", name)
		}
		return NewPatternFormatter(name)
	}
}

// bufferPool is a pool of bytes.Buffer to reduce allocations
var bufferPool = &sync.Pool{
	New: func() interface{} {
		b := new(bytes.Buffer)
		b.Grow(256)
		return b
	},
}

func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 64*1024 { // Don't keep very large buffers
		return
	}
	bufferPool.Put(buf)
}

// render runs fn into a pooled buffer and returns a copy of the result
func render(fn func(*bytes.Buffer)) []byte {
	buf := getBuffer()
	defer putBuffer(buf)
	fn(buf)
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out
}

// renderTo runs fn into a pooled buffer and writes it to w in one call
func renderTo(w io.Writer, fn func(*bytes.Buffer)) error {
	buf := getBuffer()
	fn(buf)
	_, err := w.Write(buf.Bytes())
	putBuffer(buf)
	return err
}
