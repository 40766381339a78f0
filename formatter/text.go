package formatter

import (
	"bytes"
	"io"
	"strconv"
	"time"

	"github.com/philipp01105/logtree/core"
)

// TextFormatter formats events as a single human-readable line:
//
//	2026-01-15T12:00:00Z [INFO] db.pool - connected size=4
type TextFormatter struct {
	Config
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(cfg Config) *TextFormatter {
	if cfg.TimestampFormat == "" {
		cfg.TimestampFormat = time.RFC3339
	}
	return &TextFormatter{Config: cfg}
}

// Format formats an event as text
func (f *TextFormatter) Format(e *core.Event) ([]byte, error) {
	return render(func(buf *bytes.Buffer) { f.FormatEvent(e, buf) }), nil
}

// FormatTo formats an event and writes it directly to the writer
func (f *TextFormatter) FormatTo(e *core.Event, w io.Writer) error {
	return renderTo(w, func(buf *bytes.Buffer) { f.FormatEvent(e, buf) })
}

// FormatEvent writes the formatted event into buf
func (f *TextFormatter) FormatEvent(e *core.Event, buf *bytes.Buffer) {
	buf.Write(e.Time.AppendFormat(buf.AvailableBuffer(), f.TimestampFormat))

	buf.WriteString(" [")
	buf.WriteString(e.Level.String())
	buf.WriteString("] ")

	if f.IncludeGoroutine {
		buf.WriteString("(g")
		buf.Write(strconv.AppendUint(buf.AvailableBuffer(), e.Goroutine, 10))
		buf.WriteString(") ")
	}

	if f.IncludeCaller && e.Caller.Defined {
		buf.WriteByte('[')
		buf.WriteString(e.Caller.ShortFile)
		buf.WriteByte(':')
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(e.Caller.Line), 10))
		buf.WriteString("] ")
	}

	if e.LoggerName != "" {
		buf.WriteString(e.LoggerName)
		buf.WriteString(" - ")
	}
	buf.WriteString(e.Message)

	for _, field := range e.Fields {
		buf.WriteByte(' ')
		buf.WriteString(field.Key)
		buf.WriteByte('=')
		buf.WriteString(field.StringValue())
	}

	if e.Cause != nil {
		buf.WriteString(" error=")
		buf.WriteString(strconv.Quote(e.Cause.Error()))
	}

	buf.WriteByte('\n')
}
