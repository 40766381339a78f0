package core

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNewEvent(t *testing.T) {
	now := time.Now()
	cause := errors.New("disk full")
	e := NewEvent(now, "a.b", WarnLevel, "write failed", cause)

	if e.LoggerName != "a.b" {
		t.Errorf("LoggerName = %q, want %q", e.LoggerName, "a.b")
	}
	if e.Level != WarnLevel {
		t.Errorf("Level = %v, want %v", e.Level, WarnLevel)
	}
	if !e.Time.Equal(now) {
		t.Errorf("Time = %v, want %v", e.Time, now)
	}
	if e.CauseString() != "disk full" {
		t.Errorf("CauseString() = %q, want %q", e.CauseString(), "disk full")
	}
	if e.Goroutine == 0 {
		t.Error("expected a non-zero goroutine id")
	}
}

func TestEventCauseStringNil(t *testing.T) {
	e := &Event{}
	if got := e.CauseString(); got != "" {
		t.Errorf("CauseString() = %q, want empty", got)
	}
}

func TestGoroutineIDDiffers(t *testing.T) {
	self := GoroutineID()

	var other uint64
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		other = GoroutineID()
	}()
	wg.Wait()

	if self == 0 || other == 0 {
		t.Fatalf("GoroutineID() returned 0 (self=%d, other=%d)", self, other)
	}
	if self == other {
		t.Errorf("expected different ids, both were %d", self)
	}
	if again := GoroutineID(); again != self {
		t.Errorf("GoroutineID() = %d on second call, want %d", again, self)
	}
}

func TestGetCaller(t *testing.T) {
	caller := GetCaller(0)
	if !caller.Defined {
		t.Fatal("GetCaller() returned undefined CallerInfo")
	}

	if caller.File == "" {
		t.Error("Expected non-empty file")
	}
	if caller.ShortFile != "event.go" {
		t.Errorf("ShortFile = %q, want %q", caller.ShortFile, "event.go")
	}
	if caller.Line == 0 {
		t.Error("Expected non-zero line number")
	}
}

func BenchmarkGoroutineID(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = GoroutineID()
	}
}
