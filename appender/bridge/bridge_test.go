package bridge

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/philipp01105/logtree/appender"
	"github.com/philipp01105/logtree/core"
)

func testEvent() *core.Event {
	return &core.Event{
		Time:       time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
		Level:      core.WarnLevel,
		LoggerName: "svc.db",
		Message:    "slow query",
		Cause:      errors.New("deadline exceeded"),
		Fields: []core.Field{
			{Key: "table", Type: core.StringType, Str: "users"},
			{Key: "rows", Type: core.Int64Type, Int64: 12},
			{Key: "took", Type: core.DurationType, Int64: int64(250 * time.Millisecond)},
		},
	}
}

func TestZap(t *testing.T) {
	obs, logs := observer.New(zapcore.DebugLevel)
	z := NewZap(ZapConfig{Options: appender.Options{Name: "zap"}, Logger: zap.New(obs)})
	defer z.Close()

	z.DoAppend(testEvent())

	if logs.Len() != 1 {
		t.Fatalf("logs.Len() = %d, want 1", logs.Len())
	}
	entry := logs.All()[0]
	if entry.Level != zapcore.WarnLevel {
		t.Errorf("Level = %v, want warn", entry.Level)
	}
	if entry.LoggerName != "svc.db" || entry.Message != "slow query" {
		t.Errorf("entry = %q %q", entry.LoggerName, entry.Message)
	}
	ctx := entry.ContextMap()
	if ctx["table"] != "users" || ctx["rows"] != int64(12) || ctx["error"] != "deadline exceeded" {
		t.Errorf("ContextMap() = %v", ctx)
	}
	if ctx["took"] != 250*time.Millisecond {
		t.Errorf("took = %v, want 250ms", ctx["took"])
	}
}

func TestZap_ThresholdAndFatal(t *testing.T) {
	obs, logs := observer.New(zapcore.DebugLevel)
	z := NewZap(ZapConfig{
		Options: appender.Options{Threshold: core.ErrorLevel},
		Logger:  zap.New(obs),
	})

	z.DoAppend(&core.Event{Level: core.InfoLevel, Message: "skipped"})
	z.DoAppend(&core.Event{Level: core.FatalLevel, Message: "fatal but alive"})

	if logs.Len() != 1 {
		t.Fatalf("logs.Len() = %d, want 1", logs.Len())
	}
	if got := logs.All()[0].Level; got != zapcore.FatalLevel {
		t.Errorf("Level = %v, want fatal", got)
	}
}

func TestZapLevel(t *testing.T) {
	tests := []struct {
		in   core.Level
		want zapcore.Level
	}{
		{core.TraceLevel, zapcore.DebugLevel},
		{core.DebugLevel, zapcore.DebugLevel},
		{core.InfoLevel, zapcore.InfoLevel},
		{core.Level(25000), zapcore.InfoLevel},
		{core.WarnLevel, zapcore.WarnLevel},
		{core.ErrorLevel, zapcore.ErrorLevel},
		{core.FatalLevel, zapcore.FatalLevel},
	}
	for _, tt := range tests {
		if got := ZapLevel(tt.in); got != tt.want {
			t.Errorf("ZapLevel(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestZerolog(t *testing.T) {
	var buf bytes.Buffer
	z := NewZerolog(ZerologConfig{Writer: &buf})
	defer z.Close()

	z.DoAppend(testEvent())

	var got map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v: %s", err, buf.String())
	}
	want := map[string]interface{}{
		"level":   "warn",
		"logger":  "svc.db",
		"message": "slow query",
		"error":   "deadline exceeded",
		"table":   "users",
		"rows":    float64(12),
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %v", k, got[k], v)
		}
	}
}

func TestZerolog_ZeroLoggerDiscards(t *testing.T) {
	z := NewZerolog(ZerologConfig{Logger: zerolog.Logger{}})
	z.DoAppend(testEvent())
}

func TestZerologLevel(t *testing.T) {
	if got := ZerologLevel(core.TraceLevel); got != zerolog.TraceLevel {
		t.Errorf("ZerologLevel(TRACE) = %v, want trace", got)
	}
	if got := ZerologLevel(core.FatalLevel); got != zerolog.FatalLevel {
		t.Errorf("ZerologLevel(FATAL) = %v, want fatal", got)
	}
}

func TestLogrus(t *testing.T) {
	l, hook := logrustest.NewNullLogger()
	l.SetLevel(logrus.TraceLevel)
	a := NewLogrus(LogrusConfig{Logger: l})
	defer a.Close()

	a.DoAppend(testEvent())

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("no entry recorded")
	}
	if entry.Level != logrus.WarnLevel {
		t.Errorf("Level = %v, want warning", entry.Level)
	}
	if entry.Message != "slow query" {
		t.Errorf("Message = %q, want %q", entry.Message, "slow query")
	}
	if entry.Data["logger"] != "svc.db" || entry.Data["table"] != "users" {
		t.Errorf("Data = %v", entry.Data)
	}
	if err, ok := entry.Data[logrus.ErrorKey].(error); !ok || err.Error() != "deadline exceeded" {
		t.Errorf("error = %v", entry.Data[logrus.ErrorKey])
	}
	if !entry.Time.Equal(testEvent().Time) {
		t.Errorf("Time = %v, want event time", entry.Time)
	}
}

func TestLogrus_LevelGate(t *testing.T) {
	l, hook := logrustest.NewNullLogger()
	l.SetLevel(logrus.ErrorLevel)
	a := NewLogrus(LogrusConfig{Logger: l})

	a.DoAppend(&core.Event{Level: core.InfoLevel, Message: "hidden"})
	a.DoAppend(&core.Event{Level: core.FatalLevel, Message: "shown"})

	if got := len(hook.AllEntries()); got != 1 {
		t.Fatalf("entries = %d, want 1", got)
	}
	if got := hook.LastEntry().Level; got != logrus.FatalLevel {
		t.Errorf("Level = %v, want fatal", got)
	}
}
