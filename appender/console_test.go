package appender

import (
	"bytes"
	"strings"
	"testing"

	"github.com/philipp01105/logtree/core"
	"github.com/philipp01105/logtree/formatter"
)

func TestConsole_Writer(t *testing.T) {
	var buf bytes.Buffer
	c, err := NewConsole(ConsoleConfig{
		Options: Options{Name: "console", Formatter: formatter.NewTextFormatter(formatter.Config{})},
		Writer:  &buf,
	})
	if err != nil {
		t.Fatalf("NewConsole() error = %v", err)
	}
	defer c.Close()

	c.DoAppend(newEvent(core.InfoLevel, "hello"))

	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("Expected 'hello' in output, got: %s", buf.String())
	}
	if c.Colored() {
		t.Error("Colored() = true for a non-terminal writer in auto mode")
	}
}

func TestConsole_ColorAlways(t *testing.T) {
	var buf bytes.Buffer
	pf, _ := formatter.NewPatternFormatter("%p %m%n")
	c, err := NewConsole(ConsoleConfig{
		Options: Options{Formatter: pf},
		Writer:  &buf,
		Color:   ColorAlways,
	})
	if err != nil {
		t.Fatal(err)
	}

	c.DoAppend(newEvent(core.ErrorLevel, "red"))

	want := "\x1b[31mERROR red\x1b[0m\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestConsole_Targets(t *testing.T) {
	for _, target := range []string{"", "stdout", "STDERR", "System.err"} {
		if _, err := NewConsole(ConsoleConfig{Target: target, Color: ColorNever}); err != nil {
			t.Errorf("NewConsole(%q) error = %v", target, err)
		}
	}
	if _, err := NewConsole(ConsoleConfig{Target: "printer"}); err == nil {
		t.Error("NewConsole(printer) error = nil, want error")
	}
}

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		in      string
		want    ColorMode
		wantErr bool
	}{
		{"", ColorAuto, false},
		{"auto", ColorAuto, false},
		{"Always", ColorAlways, false},
		{"true", ColorAlways, false},
		{"never", ColorNever, false},
		{"rainbow", ColorAuto, true},
	}
	for _, tt := range tests {
		got, err := ParseColorMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseColorMode(%q) = %v, %v, want %v, wantErr %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func BenchmarkConsole(b *testing.B) {
	var buf bytes.Buffer
	c, _ := NewConsole(ConsoleConfig{Writer: &buf, Color: ColorNever})
	e := newEvent(core.InfoLevel, "benchmark message")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.DoAppend(e)
		if buf.Len() > 1<<20 {
			buf.Reset()
		}
	}
}
