package logger

import (
	"fmt"
	"reflect"
	"sync"
)

// Renderer turns a value into the message text used by Logv
type Renderer interface {
	Render(v interface{}) string
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(v interface{}) string

// Render calls f
func (f RendererFunc) Render(v interface{}) string { return f(v) }

// RendererMap holds one Renderer per concrete type. Values without a
// renderer fall back to fmt.Sprint.
type RendererMap struct {
	mu        sync.RWMutex
	renderers map[reflect.Type]Renderer
}

// NewRendererMap returns an empty map
func NewRendererMap() *RendererMap {
	return &RendererMap{renderers: make(map[reflect.Type]Renderer)}
}

// Put registers r for the dynamic type of sample
func (m *RendererMap) Put(sample interface{}, r Renderer) {
	m.PutType(reflect.TypeOf(sample), r)
}

// PutType registers r for t. A nil renderer removes the entry.
func (m *RendererMap) PutType(t reflect.Type, r Renderer) {
	if t == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if r == nil {
		delete(m.renderers, t)
		return
	}
	m.renderers[t] = r
}

// Get returns the renderer registered for t
func (m *RendererMap) Get(t reflect.Type) (Renderer, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.renderers[t]
	return r, ok
}

// Len returns the number of registered renderers
func (m *RendererMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.renderers)
}

// Render renders v with the renderer of its type, or fmt.Sprint
func (m *RendererMap) Render(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v != nil {
		if r, ok := m.Get(reflect.TypeOf(v)); ok {
			return r.Render(v)
		}
	}
	return fmt.Sprint(v)
}

// Clear removes every renderer
func (m *RendererMap) Clear() {
	m.mu.Lock()
	m.renderers = make(map[reflect.Type]Renderer)
	m.mu.Unlock()
}
