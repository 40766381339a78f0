package core

import (
	"fmt"
	"math"
	"strings"

	"github.com/ugorji/go/codec"
)

// Level represents the severity rank of a log event. Higher ranks are more
// severe. The zero value is InheritLevel, meaning "no level of its own".
type Level int32

const (
	// InheritLevel marks a logger that takes its level from its ancestors
	InheritLevel Level = 0
	// AllLevel enables everything
	AllLevel Level = math.MinInt32
	// TraceLevel for very fine grained tracing
	TraceLevel Level = 5000
	// DebugLevel for detailed debugging information
	DebugLevel Level = 10000
	// InfoLevel for general informational messages
	InfoLevel Level = 20000
	// WarnLevel for warning messages
	WarnLevel Level = 30000
	// ErrorLevel for error messages
	ErrorLevel Level = 40000
	// FatalLevel for events after which the application will likely abort
	FatalLevel Level = 50000
	// OffLevel disables everything
	OffLevel Level = math.MaxInt32
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case InheritLevel:
		return "INHERITED"
	case AllLevel:
		return "ALL"
	case TraceLevel:
		return "TRACE"
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	case OffLevel:
		return "OFF"
	default:
		return fmt.Sprintf("LEVEL(%d)", int32(l))
	}
}

// IsGreaterOrEqual reports whether l is at least as severe as other
func (l Level) IsGreaterOrEqual(other Level) bool {
	return l >= other
}

// IsSentinel reports whether l is one of the bounds (All, Off) or the
// inherit marker rather than a level an event can carry.
func (l Level) IsSentinel() bool {
	return l == InheritLevel || l == AllLevel || l == OffLevel
}

// ParseLevel converts a level name to a Level. Matching is case-insensitive.
// "INHERITED" and "NULL" both map to InheritLevel.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ALL":
		return AllLevel, true
	case "TRACE":
		return TraceLevel, true
	case "DEBUG":
		return DebugLevel, true
	case "INFO":
		return InfoLevel, true
	case "WARN", "WARNING":
		return WarnLevel, true
	case "ERROR":
		return ErrorLevel, true
	case "FATAL":
		return FatalLevel, true
	case "OFF":
		return OffLevel, true
	case "INHERITED", "NULL":
		return InheritLevel, true
	default:
		return InheritLevel, false
	}
}

// ToLevel converts s to a Level, falling back to def when s is not a known
// level name. It never fails.
func ToLevel(s string, def Level) Level {
	if l, ok := ParseLevel(s); ok {
		return l
	}
	return def
}

// MarshalText implements encoding.TextMarshaler
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (l *Level) UnmarshalText(b []byte) error {
	v, ok := ParseLevel(string(b))
	if !ok {
		return fmt.Errorf("unknown level %q", string(b))
	}
	*l = v
	return nil
}

// CodecEncodeSelf encodes the level by name
func (l Level) CodecEncodeSelf(e *codec.Encoder) {
	e.MustEncode(l.String())
}

// CodecDecodeSelf decodes a level written by CodecEncodeSelf. Unknown names
// decode as InheritLevel.
func (l *Level) CodecDecodeSelf(d *codec.Decoder) {
	var s string
	d.MustDecode(&s)
	*l = ToLevel(s, InheritLevel)
}
