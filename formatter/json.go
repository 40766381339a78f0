package formatter

import (
	"bytes"
	"io"
	"strconv"
	"time"

	"github.com/philipp01105/logtree/core"
)

// JSONFormatter formats events as JSON lines
type JSONFormatter struct {
	Config
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(cfg Config) *JSONFormatter {
	if cfg.TimestampFormat == "" {
		cfg.TimestampFormat = time.RFC3339Nano
	}
	return &JSONFormatter{Config: cfg}
}

// Format formats an event as JSON
func (f *JSONFormatter) Format(e *core.Event) ([]byte, error) {
	return render(func(buf *bytes.Buffer) { f.FormatEvent(e, buf) }), nil
}

// FormatTo formats an event as JSON and writes it directly to the writer
func (f *JSONFormatter) FormatTo(e *core.Event, w io.Writer) error {
	return renderTo(w, func(buf *bytes.Buffer) { f.FormatEvent(e, buf) })
}

// FormatEvent writes one JSON object per event, terminated by a newline
func (f *JSONFormatter) FormatEvent(e *core.Event, buf *bytes.Buffer) {
	buf.WriteString(`{"time":"`)
	buf.Write(e.Time.AppendFormat(buf.AvailableBuffer(), f.TimestampFormat))
	buf.WriteString(`","level":"`)
	buf.WriteString(e.Level.String())
	buf.WriteString(`","logger":"`)
	appendJSONString(buf, e.LoggerName)
	buf.WriteString(`","message":"`)
	appendJSONString(buf, e.Message)
	buf.WriteByte('"')

	if f.IncludeGoroutine {
		buf.WriteString(`,"goroutine":`)
		buf.Write(strconv.AppendUint(buf.AvailableBuffer(), e.Goroutine, 10))
	}

	if f.IncludeCaller && e.Caller.Defined {
		buf.WriteString(`,"caller":{"file":"`)
		appendJSONString(buf, e.Caller.ShortFile)
		buf.WriteString(`","line":`)
		buf.WriteString(strconv.Itoa(e.Caller.Line))
		if e.Caller.Function != "" {
			buf.WriteString(`,"function":"`)
			appendJSONString(buf, e.Caller.Function)
			buf.WriteByte('"')
		}
		buf.WriteByte('}')
	}

	if e.Cause != nil {
		buf.WriteString(`,"error":"`)
		appendJSONString(buf, e.Cause.Error())
		buf.WriteByte('"')
	}

	for _, field := range e.Fields {
		buf.WriteString(`,"`)
		appendJSONString(buf, field.Key)
		buf.WriteString(`":`)
		appendJSONFieldValue(buf, field)
	}

	buf.WriteString("}\n")
}

// appendJSONString writes a JSON-escaped string (without surrounding quotes) to the buffer
func appendJSONString(buf *bytes.Buffer, s string) {
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		// Flush unescaped prefix
		if start < i {
			buf.WriteString(s[start:i])
		}
		switch c {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			buf.WriteString(`\u00`)
			buf.WriteByte(hexChars[c>>4])
			buf.WriteByte(hexChars[c&0x0f])
		}
		start = i + 1
	}
	// Flush remaining
	if start < len(s) {
		buf.WriteString(s[start:])
	}
}

var hexChars = [16]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'a', 'b', 'c', 'd', 'e', 'f'}

// appendJSONFieldValue writes a JSON-encoded field value to the buffer
func appendJSONFieldValue(buf *bytes.Buffer, field core.Field) {
	switch field.Type {
	case core.StringType:
		buf.WriteByte('"')
		appendJSONString(buf, field.Str)
		buf.WriteByte('"')
	case core.IntType, core.Int64Type:
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), field.Int64, 10))
	case core.Float64Type:
		buf.Write(strconv.AppendFloat(buf.AvailableBuffer(), field.Float64, 'f', -1, 64))
	case core.BoolType:
		buf.Write(strconv.AppendBool(buf.AvailableBuffer(), field.Int64 == 1))
	case core.TimeType:
		buf.WriteByte('"')
		buf.Write(time.Unix(0, field.Int64).AppendFormat(buf.AvailableBuffer(), time.RFC3339Nano))
		buf.WriteByte('"')
	case core.DurationType:
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), field.Int64, 10))
	case core.ErrorType:
		buf.WriteByte('"')
		appendJSONString(buf, field.Str)
		buf.WriteByte('"')
	default:
		buf.WriteByte('"')
		appendJSONString(buf, field.StringValue())
		buf.WriteByte('"')
	}
}
