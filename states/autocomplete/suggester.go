package autocomplete

import "sync"

// ValueSuggester provides dynamic value suggestions for an argument.
type ValueSuggester interface {
	Suggest(partial string) []string
}

// ValueSuggestFunc adapts a simple function to ValueSuggester.
type ValueSuggestFunc func(partial string) []string

// Suggest implements ValueSuggester.
func (f ValueSuggestFunc) Suggest(partial string) []string { return f(partial) }

var (
	suggestMut      sync.RWMutex
	suggestRegistry = map[string]ValueSuggester{}
)

// RegisterValueSuggester registers a named ValueSuggester.
func RegisterValueSuggester(name string, s ValueSuggester) {
	suggestMut.Lock()
	defer suggestMut.Unlock()
	suggestRegistry[name] = s
}

// GetValueSuggester looks up a registered ValueSuggester by name.
func GetValueSuggester(name string) (ValueSuggester, bool) {
	suggestMut.RLock()
	defer suggestMut.RUnlock()
	v, ok := suggestRegistry[name]
	return v, ok
}

// UnregisterValueSuggester removes a named ValueSuggester from the registry.
func UnregisterValueSuggester(name string) {
	suggestMut.Lock()
	defer suggestMut.Unlock()
	delete(suggestRegistry, name)
}
