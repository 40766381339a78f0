package appender

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/philipp01105/logtree/core"
)

// ColorMode selects when the console appender colours its output
type ColorMode int

const (
	// ColorAuto colours output when the target is a terminal
	ColorAuto ColorMode = iota
	// ColorAlways colours output unconditionally
	ColorAlways
	// ColorNever disables colour
	ColorNever
)

// ParseColorMode converts "auto", "always"/"true" or "never"/"false"
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return ColorAuto, nil
	case "always", "true", "on":
		return ColorAlways, nil
	case "never", "false", "off":
		return ColorNever, nil
	default:
		return ColorAuto, fmt.Errorf("unknown color mode %q", s)
	}
}

// ConsoleConfig holds configuration for console appender
type ConsoleConfig struct {
	Options
	// Target is "stdout" (default) or "stderr"
	Target string
	// Writer overrides Target when set
	Writer io.Writer
	// Color selects when ANSI colours are used (default: ColorAuto)
	Color ColorMode
}

// Console writes events to stdout or stderr
type Console struct {
	*Writer
	color bool
}

// NewConsole creates a new console appender
func NewConsole(cfg ConsoleConfig) (*Console, error) {
	w := cfg.Writer
	if w == nil {
		switch strings.ToLower(cfg.Target) {
		case "", "stdout", "system.out":
			w = os.Stdout
		case "stderr", "system.err":
			w = os.Stderr
		default:
			return nil, fmt.Errorf("unknown console target %q", cfg.Target)
		}
	}

	c := &Console{
		Writer: NewWriter(WriterConfig{Options: cfg.Options, Writer: w}),
		color:  useColor(cfg.Color, w),
	}
	if c.color {
		c.decorate = colorize
	}
	return c, nil
}

// Colored reports whether output is coloured
func (c *Console) Colored() bool { return c.color }

func useColor(mode ColorMode, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

const colorReset = "\x1b[0m"

func levelColor(l core.Level) string {
	switch {
	case l >= core.ErrorLevel:
		return "\x1b[31m"
	case l >= core.WarnLevel:
		return "\x1b[33m"
	case l >= core.InfoLevel:
		return "\x1b[32m"
	default:
		return "\x1b[90m"
	}
}

// colorize wraps the line in the level colour, keeping the newline outside
func colorize(e *core.Event, line []byte, buf *bytes.Buffer) {
	body := bytes.TrimSuffix(line, []byte{'\n'})
	buf.WriteString(levelColor(e.Level))
	buf.Write(body)
	buf.WriteString(colorReset)
	if len(body) != len(line) {
		buf.WriteByte('\n')
	}
}
