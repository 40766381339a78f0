package core

import (
	"bytes"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"time"
)

// Event is a single logging request after it passed the level checks. It is
// created once by the logger and handed, read-only, to every appender on the
// way to the root. Appenders that keep an Event past DoAppend must not
// mutate it.
type Event struct {
	Time       time.Time
	Level      Level
	LoggerName string
	Message    string
	Cause      error
	Goroutine  uint64
	Fields     []Field
	Caller     CallerInfo
}

// CallerInfo contains information about the caller
type CallerInfo struct {
	File      string
	ShortFile string
	Line      int
	Function  string
	Defined   bool
}

// NewEvent builds an event stamped with the calling goroutine's id.
func NewEvent(t time.Time, loggerName string, level Level, msg string, cause error) *Event {
	return &Event{
		Time:       t,
		Level:      level,
		LoggerName: loggerName,
		Message:    msg,
		Cause:      cause,
		Goroutine:  GoroutineID(),
	}
}

// CauseString returns the cause's message or "" when there is none
func (e *Event) CauseString() string {
	if e.Cause == nil {
		return ""
	}
	return e.Cause.Error()
}

// GetCaller retrieves caller information
func GetCaller(skip int) CallerInfo {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return CallerInfo{}
	}

	fn := runtime.FuncForPC(pc)
	var funcName string
	if fn != nil {
		funcName = fn.Name()
	}

	return CallerInfo{
		File:      file,
		ShortFile: filepath.Base(file),
		Line:      line,
		Function:  funcName,
		Defined:   true,
	}
}

var goroutinePrefix = []byte("goroutine ")

var stackBuf = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 64)
		return &b
	},
}

// GoroutineID returns the id of the calling goroutine, parsed from the
// header line of runtime.Stack ("goroutine 4707 [running]:"). It returns 0
// if the header cannot be parsed.
func GoroutineID() uint64 {
	bp := stackBuf.Get().(*[]byte)
	defer stackBuf.Put(bp)
	b := *bp
	b = b[:runtime.Stack(b, false)]
	b = bytes.TrimPrefix(b, goroutinePrefix)
	i := bytes.IndexByte(b, ' ')
	if i < 0 {
		return 0
	}
	n, err := strconv.ParseUint(string(b[:i]), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
