package logger

import (
	"sync"

	"go.uber.org/zap"

	"github.com/philipp01105/logtree/diag"
)

// Factory creates the node for a name the registry has not seen before
type Factory interface {
	NewLogger(name string) *Logger
}

// FactoryFunc adapts a function to Factory
type FactoryFunc func(name string) *Logger

// NewLogger calls f
func (f FactoryFunc) NewLogger(name string) *Logger { return f(name) }

// DefaultFactory creates plain nodes with NewLogger
var DefaultFactory Factory = FactoryFunc(NewLogger)

var (
	factoriesMu sync.RWMutex
	factories   = map[string]Factory{"default": DefaultFactory}
)

// RegisterFactory makes f available to configuration under key
func RegisterFactory(key string, f Factory) {
	if f == nil {
		return
	}
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	if _, dup := factories[key]; dup {
		diag.Warn("replacing registered logger factory", zap.String("key", key))
	}
	factories[key] = f
}

// LookupFactory returns the factory registered under key
func LookupFactory(key string) (Factory, bool) {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	f, ok := factories[key]
	return f, ok
}
