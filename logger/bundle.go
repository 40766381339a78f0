package logger

// Bundle maps message keys to localized text for L7d
type Bundle interface {
	Lookup(key string) (string, bool)
}

// MapBundle is a Bundle backed by a map
type MapBundle map[string]string

// Lookup implements Bundle
func (m MapBundle) Lookup(key string) (string, bool) {
	s, ok := m[key]
	return s, ok
}
