package formatter

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/philipp01105/logtree/core"
)

// DefaultPattern is used when a pattern formatter is built from an empty string
const DefaultPattern = "%d [%p] %c - %m%n"

// PatternFormatter lays out events according to a conversion pattern made
// of literal text and %-tags. Each tag has a long and a short name:
//
//	%date, %d      timestamp; %d{layout} takes a Go time layout
//	%level, %p     level name
//	%logger, %c    logger name
//	%message, %m   message followed by the event's fields as key=value
//	%goroutine, %t goroutine id
//	%error, %e     cause, empty when there is none
//	%file, %F      caller file (needs caller capture)
//	%line, %L      caller line
//	%func, %M      caller function
//	%newline, %n   line break
//	%%             a literal percent sign
type PatternFormatter struct {
	pattern  string
	segments []segment
}

type segment func(e *core.Event, buf *bytes.Buffer)

// NewPatternFormatter compiles pattern. It fails on unknown tags and on an
// unterminated {layout}.
func NewPatternFormatter(pattern string) (*PatternFormatter, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	segs, err := compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}
	return &PatternFormatter{pattern: pattern, segments: segs}, nil
}

// Pattern returns the source pattern
func (f *PatternFormatter) Pattern() string {
	return f.pattern
}

// Format formats an event according to the pattern
func (f *PatternFormatter) Format(e *core.Event) ([]byte, error) {
	return render(func(buf *bytes.Buffer) { f.FormatEvent(e, buf) }), nil
}

// FormatTo formats an event and writes it directly to the writer
func (f *PatternFormatter) FormatTo(e *core.Event, w io.Writer) error {
	return renderTo(w, func(buf *bytes.Buffer) { f.FormatEvent(e, buf) })
}

// FormatEvent writes the formatted event into buf
func (f *PatternFormatter) FormatEvent(e *core.Event, buf *bytes.Buffer) {
	for _, s := range f.segments {
		s(e, buf)
	}
}

var tags = map[string]func(arg string) segment{
	"date":      dateSegment,
	"d":         dateSegment,
	"level":     simple(func(e *core.Event, b *bytes.Buffer) { b.WriteString(e.Level.String()) }),
	"p":         simple(func(e *core.Event, b *bytes.Buffer) { b.WriteString(e.Level.String()) }),
	"logger":    simple(func(e *core.Event, b *bytes.Buffer) { b.WriteString(e.LoggerName) }),
	"c":         simple(func(e *core.Event, b *bytes.Buffer) { b.WriteString(e.LoggerName) }),
	"message":   simple(writeMessage),
	"m":         simple(writeMessage),
	"goroutine": simple(writeGoroutine),
	"t":         simple(writeGoroutine),
	"error":     simple(func(e *core.Event, b *bytes.Buffer) { b.WriteString(e.CauseString()) }),
	"e":         simple(func(e *core.Event, b *bytes.Buffer) { b.WriteString(e.CauseString()) }),
	"file":      simple(func(e *core.Event, b *bytes.Buffer) { b.WriteString(e.Caller.ShortFile) }),
	"F":         simple(func(e *core.Event, b *bytes.Buffer) { b.WriteString(e.Caller.ShortFile) }),
	"line":      simple(writeLine),
	"L":         simple(writeLine),
	"func":      simple(func(e *core.Event, b *bytes.Buffer) { b.WriteString(e.Caller.Function) }),
	"M":         simple(func(e *core.Event, b *bytes.Buffer) { b.WriteString(e.Caller.Function) }),
	"newline":   simple(func(_ *core.Event, b *bytes.Buffer) { b.WriteByte('\n') }),
	"n":         simple(func(_ *core.Event, b *bytes.Buffer) { b.WriteByte('\n') }),
}

func simple(s segment) func(string) segment {
	return func(string) segment { return s }
}

func dateSegment(layout string) segment {
	if layout == "" {
		layout = "2006-01-02 15:04:05.000"
	}
	return func(e *core.Event, b *bytes.Buffer) {
		b.Write(e.Time.AppendFormat(b.AvailableBuffer(), layout))
	}
}

func writeMessage(e *core.Event, b *bytes.Buffer) {
	b.WriteString(e.Message)
	for _, field := range e.Fields {
		b.WriteByte(' ')
		b.WriteString(field.Key)
		b.WriteByte('=')
		b.WriteString(field.StringValue())
	}
}

func writeGoroutine(e *core.Event, b *bytes.Buffer) {
	b.Write(strconv.AppendUint(b.AvailableBuffer(), e.Goroutine, 10))
}

func writeLine(e *core.Event, b *bytes.Buffer) {
	if e.Caller.Defined {
		b.Write(strconv.AppendInt(b.AvailableBuffer(), int64(e.Caller.Line), 10))
	}
}

func literal(s string) segment {
	return func(_ *core.Event, b *bytes.Buffer) { b.WriteString(s) }
}

// compile splits the pattern into literal and tag segments. Tag names are
// the longest run of ASCII letters after '%'; long names win over short
// ones, so "%date" is the date tag and "%dx" is an error.
func compile(pattern string) ([]segment, error) {
	var segs []segment
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, literal(lit.String()))
			lit.Reset()
		}
	}

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '%' {
			lit.WriteByte(c)
			continue
		}
		i++
		if i >= len(pattern) {
			return nil, fmt.Errorf("dangling %% at end")
		}
		if pattern[i] == '%' {
			lit.WriteByte('%')
			continue
		}
		j := i
		for j < len(pattern) && isLetter(pattern[j]) {
			j++
		}
		name := pattern[i:j]
		mk, ok := tags[name]
		if !ok {
			return nil, fmt.Errorf("unknown tag %%%s", name)
		}
		arg := ""
		if j < len(pattern) && pattern[j] == '{' {
			end := strings.IndexByte(pattern[j:], '}')
			if end < 0 {
				return nil, fmt.Errorf("unterminated {} after %%%s", name)
			}
			arg = pattern[j+1 : j+end]
			j += end + 1
		}
		flush()
		segs = append(segs, mk(arg))
		i = j - 1
	}
	flush()
	return segs, nil
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
