package appender

import (
	"errors"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/philipp01105/logtree/core"
	"github.com/philipp01105/logtree/diag"
)

// ErrClosed is reported when an event reaches an appender after Close
var ErrClosed = errors.New("appender is closed")

// Appender writes events to a destination
type Appender interface {
	// Name identifies the appender within a configuration
	Name() string
	// DoAppend writes the event. It never returns an error; failures go to
	// the appender's ErrorHandler.
	DoAppend(e *core.Event)
	// Close releases resources. Calling it more than once is a no-op.
	Close() error
}

// Attachable is implemented by appenders that forward to other appenders
type Attachable interface {
	AddAppender(a Appender)
	RemoveAppender(a Appender) bool
	Appenders() []Appender
}

// ErrorHandler receives appender failures
type ErrorHandler interface {
	Error(msg string, err error, e *core.Event)
}

// ErrorHandlerFunc adapts a function to ErrorHandler
type ErrorHandlerFunc func(msg string, err error, e *core.Event)

// Error calls f
func (f ErrorHandlerFunc) Error(msg string, err error, e *core.Event) { f(msg, err, e) }

// OnlyOnceErrorHandler reports the first failure of an appender to the
// diagnostic log and swallows the rest.
type OnlyOnceErrorHandler struct {
	appender string
	fired    atomic.Bool
}

// NewOnlyOnceErrorHandler creates a handler for the named appender
func NewOnlyOnceErrorHandler(appenderName string) *OnlyOnceErrorHandler {
	return &OnlyOnceErrorHandler{appender: appenderName}
}

// Error implements ErrorHandler
func (h *OnlyOnceErrorHandler) Error(msg string, err error, e *core.Event) {
	if !h.fired.CompareAndSwap(false, true) {
		return
	}
	fields := []zap.Field{zap.String("appender", h.appender), zap.Error(err)}
	if e != nil {
		fields = append(fields, zap.String("logger", e.LoggerName))
	}
	diag.Error(msg, fields...)
}

// Fired reports whether an error has been reported
func (h *OnlyOnceErrorHandler) Fired() bool {
	return h.fired.Load()
}

// CloseNested closes a when it is a composite. Leaf appenders are left
// open.
func CloseNested(a Appender) error {
	if _, ok := a.(Attachable); !ok {
		return nil
	}
	return a.Close()
}
