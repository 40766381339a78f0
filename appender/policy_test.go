package appender

import (
	"testing"

	"github.com/philipp01105/logtree/core"
)

func TestPolicyFor(t *testing.T) {
	policies := map[core.Level]OverflowPolicy{
		core.InfoLevel:  DropOldest,
		core.ErrorLevel: Block,
	}

	tests := []struct {
		level core.Level
		want  OverflowPolicy
	}{
		{core.TraceLevel, DropNewest},
		{core.InfoLevel, DropOldest},
		{core.WarnLevel, DropOldest},
		{core.ErrorLevel, Block},
		{core.FatalLevel, Block},
	}
	for _, tt := range tests {
		if got := policyFor(policies, tt.level); got != tt.want {
			t.Errorf("policyFor(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestParseOverflowPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    OverflowPolicy
		wantErr bool
	}{
		{"drop_newest", DropNewest, false},
		{"DropOldest", DropOldest, false},
		{"drop-oldest", DropOldest, false},
		{"block", Block, false},
		{"spill", DropNewest, true},
	}
	for _, tt := range tests {
		got, err := ParseOverflowPolicy(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseOverflowPolicy(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestStats(t *testing.T) {
	s := NewStats()
	s.IncrementDropped(core.DebugLevel)
	s.IncrementDropped(core.DebugLevel)
	s.IncrementDropped(core.Level(45000))
	s.IncrementBlocked()
	s.IncrementProcessed()

	if got := s.Dropped(core.DebugLevel); got != 2 {
		t.Errorf("Dropped(DEBUG) = %d, want 2", got)
	}
	if got := s.Dropped(core.ErrorLevel); got != 1 {
		t.Errorf("Dropped(ERROR) = %d, want 1", got)
	}
	snap := s.Snapshot()
	if snap.TotalDropped() != 3 || snap.Blocked != 1 || snap.Processed != 1 {
		t.Errorf("Snapshot() = %+v", snap)
	}

	s.Reset()
	if s.TotalDropped() != 0 || s.Blocked() != 0 || s.Processed() != 0 {
		t.Error("Reset() left non-zero counters")
	}
}
