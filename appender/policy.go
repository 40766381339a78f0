package appender

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/philipp01105/logtree/core"
)

// OverflowPolicy defines how to handle full async queues
type OverflowPolicy int

const (
	// DropNewest drops the newest event when queue is full
	DropNewest OverflowPolicy = iota
	// DropOldest drops the oldest queued event when queue is full
	DropOldest
	// Block blocks the caller until space is available (with timeout)
	Block
)

// String returns the string representation of the policy
func (p OverflowPolicy) String() string {
	switch p {
	case DropNewest:
		return "DropNewest"
	case DropOldest:
		return "DropOldest"
	case Block:
		return "Block"
	default:
		return "Unknown"
	}
}

// ParseOverflowPolicy accepts the String form in any case, with or
// without separators ("drop_newest", "drop-oldest", "block").
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch strings.NewReplacer("_", "", "-", "").Replace(strings.ToLower(s)) {
	case "dropnewest":
		return DropNewest, nil
	case "dropoldest":
		return DropOldest, nil
	case "block":
		return Block, nil
	default:
		return DropNewest, fmt.Errorf("unknown overflow policy %q", s)
	}
}

// DefaultLevelPolicy returns the default level-based overflow policies.
// Levels not listed fall back to the policy of the nearest lower level.
func DefaultLevelPolicy() map[core.Level]OverflowPolicy {
	return map[core.Level]OverflowPolicy{
		core.TraceLevel: DropNewest,
		core.DebugLevel: DropNewest,
		core.InfoLevel:  DropNewest,
		core.WarnLevel:  DropNewest,
		core.ErrorLevel: Block,
		core.FatalLevel: Block,
	}
}

// policyFor resolves the policy of l, using the closest configured level
// at or below it
func policyFor(policies map[core.Level]OverflowPolicy, l core.Level) OverflowPolicy {
	if p, ok := policies[l]; ok {
		return p
	}
	best, found := core.AllLevel, false
	policy := DropNewest
	for lvl, p := range policies {
		if lvl <= l && (!found || lvl > best) {
			best, policy, found = lvl, p, true
		}
	}
	return policy
}

// bucket maps a level onto one of the fixed stats slots
func bucket(l core.Level) int {
	switch {
	case l >= core.FatalLevel:
		return 5
	case l >= core.ErrorLevel:
		return 4
	case l >= core.WarnLevel:
		return 3
	case l >= core.InfoLevel:
		return 2
	case l >= core.DebugLevel:
		return 1
	default:
		return 0
	}
}

var bucketLevels = [...]core.Level{
	core.TraceLevel, core.DebugLevel, core.InfoLevel,
	core.WarnLevel, core.ErrorLevel, core.FatalLevel,
}

// Stats tracks async appender statistics
type Stats struct {
	dropped   [len(bucketLevels)]atomic.Uint64
	blocked   atomic.Uint64
	processed atomic.Uint64
}

// NewStats creates a new Stats instance
func NewStats() *Stats {
	return &Stats{}
}

// IncrementDropped increments the dropped counter for the level's bucket
func (s *Stats) IncrementDropped(level core.Level) {
	s.dropped[bucket(level)].Add(1)
}

// IncrementBlocked increments the blocked counter
func (s *Stats) IncrementBlocked() {
	s.blocked.Add(1)
}

// IncrementProcessed increments the processed counter
func (s *Stats) IncrementProcessed() {
	s.processed.Add(1)
}

// Dropped returns the dropped count for the level's bucket
func (s *Stats) Dropped(level core.Level) uint64 {
	return s.dropped[bucket(level)].Load()
}

// Blocked returns the blocked count
func (s *Stats) Blocked() uint64 {
	return s.blocked.Load()
}

// Processed returns the processed count
func (s *Stats) Processed() uint64 {
	return s.processed.Load()
}

// TotalDropped returns the total dropped across all levels
func (s *Stats) TotalDropped() uint64 {
	var n uint64
	for i := range s.dropped {
		n += s.dropped[i].Load()
	}
	return n
}

// Reset resets all counters to zero
func (s *Stats) Reset() {
	for i := range s.dropped {
		s.dropped[i].Store(0)
	}
	s.blocked.Store(0)
	s.processed.Store(0)
}

// Snapshot is a point-in-time copy of Stats
type Snapshot struct {
	Dropped   map[core.Level]uint64
	Blocked   uint64
	Processed uint64
}

// TotalDropped sums Dropped
func (s Snapshot) TotalDropped() uint64 {
	var n uint64
	for _, v := range s.Dropped {
		n += v
	}
	return n
}

// Snapshot returns a snapshot of current statistics
func (s *Stats) Snapshot() Snapshot {
	snap := Snapshot{
		Dropped:   make(map[core.Level]uint64, len(bucketLevels)),
		Blocked:   s.Blocked(),
		Processed: s.Processed(),
	}
	for i, l := range bucketLevels {
		snap.Dropped[l] = s.dropped[i].Load()
	}
	return snap
}
