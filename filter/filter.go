package filter

import (
	"strings"

	"github.com/philipp01105/logtree/core"
)

// Decision is the verdict of a filter on one event
type Decision int

const (
	// Deny drops the event without consulting the rest of the chain
	Deny Decision = iota - 1
	// Neutral defers to the next filter in the chain
	Neutral
	// Accept logs the event without consulting the rest of the chain
	Accept
)

func (d Decision) String() string {
	switch d {
	case Deny:
		return "DENY"
	case Accept:
		return "ACCEPT"
	default:
		return "NEUTRAL"
	}
}

// Filter inspects an event and returns a Decision
type Filter interface {
	Decide(e *core.Event) Decision
}

// Func adapts a plain function to the Filter interface
type Func func(e *core.Event) Decision

// Decide calls f(e)
func (f Func) Decide(e *core.Event) Decision { return f(e) }

// Chain runs filters in order
type Chain []Filter

// Decide returns the first non-neutral decision, or Neutral
func (c Chain) Decide(e *core.Event) Decision {
	for _, f := range c {
		if d := f.Decide(e); d != Neutral {
			return d
		}
	}
	return Neutral
}

// Allows reports whether the chain lets e through
func (c Chain) Allows(e *core.Event) bool {
	return c.Decide(e) != Deny
}

// LevelRange denies events outside [Min, Max]. A zero Max means no upper
// bound. Inside the range it answers Accept when AcceptOnMatch is set and
// Neutral otherwise.
type LevelRange struct {
	Min, Max      core.Level
	AcceptOnMatch bool
}

// Decide implements Filter
func (f LevelRange) Decide(e *core.Event) Decision {
	if f.Min != core.InheritLevel && e.Level < f.Min {
		return Deny
	}
	if f.Max != core.InheritLevel && e.Level > f.Max {
		return Deny
	}
	if f.AcceptOnMatch {
		return Accept
	}
	return Neutral
}

// LevelMatch reacts to events of exactly one level. A match returns Accept,
// or Deny when AcceptOnMatch is false; anything else is Neutral.
type LevelMatch struct {
	Level         core.Level
	AcceptOnMatch bool
}

// Decide implements Filter
func (f LevelMatch) Decide(e *core.Event) Decision {
	if e.Level != f.Level {
		return Neutral
	}
	if f.AcceptOnMatch {
		return Accept
	}
	return Deny
}

// StringMatch reacts to events whose message contains Substr, with the
// same answer rules as LevelMatch. An empty Substr never matches.
type StringMatch struct {
	Substr        string
	AcceptOnMatch bool
}

// Decide implements Filter
func (f StringMatch) Decide(e *core.Event) Decision {
	if f.Substr == "" || !strings.Contains(e.Message, f.Substr) {
		return Neutral
	}
	if f.AcceptOnMatch {
		return Accept
	}
	return Deny
}

// DenyAll ends a chain by rejecting whatever reached it
type DenyAll struct{}

// Decide implements Filter
func (DenyAll) Decide(*core.Event) Decision { return Deny }
