package logger

import "github.com/philipp01105/logtree/core"

// Level re-exports core.Level for convenience
type Level = core.Level

const (
	InheritLevel = core.InheritLevel
	AllLevel     = core.AllLevel
	TraceLevel   = core.TraceLevel
	DebugLevel   = core.DebugLevel
	InfoLevel    = core.InfoLevel
	WarnLevel    = core.WarnLevel
	ErrorLevel   = core.ErrorLevel
	FatalLevel   = core.FatalLevel
	OffLevel     = core.OffLevel
)

// ToLevel converts a level name, returning def for anything unknown
func ToLevel(s string, def Level) Level {
	return core.ToLevel(s, def)
}
