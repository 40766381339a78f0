package logger

import (
	"sync"
	"sync/atomic"

	"github.com/philipp01105/logtree/appender"
	"github.com/philipp01105/logtree/diag"
)

var (
	defaultOnce     sync.Once
	defaultRegistry atomic.Pointer[Registry]
)

// Default returns the process-wide registry. On first use it is built
// with a console appender on stdout attached to the root, unless
// SetDefault has installed one already.
func Default() *Registry {
	defaultOnce.Do(func() {
		if defaultRegistry.Load() != nil {
			return
		}
		console, err := appender.NewConsole(appender.ConsoleConfig{
			Options: appender.Options{Name: "console"},
		})
		b := NewBuilder()
		if err != nil {
			diag.Error("default console appender unavailable")
		} else {
			b.WithAppender(console)
		}
		defaultRegistry.CompareAndSwap(nil, b.Build())
	})
	return defaultRegistry.Load()
}

// SetDefault installs r as the process-wide registry and returns the
// previous one, which is not shut down
func SetDefault(r *Registry) *Registry {
	if r == nil {
		return nil
	}
	defaultOnce.Do(func() {})
	return defaultRegistry.Swap(r)
}

// GetLogger returns the named logger of the default registry
func GetLogger(name string) *Logger {
	return Default().Logger(name)
}

// RootLogger returns the root of the default registry
func RootLogger() *Logger {
	return Default().Root()
}

// Shutdown shuts the default registry down
func Shutdown() error {
	return Default().Shutdown()
}
