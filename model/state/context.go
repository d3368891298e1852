package state

import (
	"fmt"

	"github.com/viant/structology/conv"
)

// Context represents parameters visible to a node and its descendants.
// A Context handed to a task or a branch is always an independent copy.
type Context map[string]interface{}

var converter = conv.NewConverter(conv.DefaultOptions())

// Merge returns a new context holding inherited values overridden by overlay values.
// The merge is single level: an overlay key replaces the inherited value wholly.
// Neither argument is modified and the result shares no mutable value with them.
func Merge(inherited, overlay Context) Context {
	ret := make(Context, len(inherited)+len(overlay))
	for k, v := range inherited {
		ret[k] = v
	}
	for k, v := range overlay {
		ret[k] = v
	}
	return Clone(ret)
}

// Clone returns a deep copy of the context
func (c Context) Clone() Context {
	if c == nil {
		return Context{}
	}
	return Clone(c)
}

// Get retrieves a parameter
func (c Context) Get(key string) (interface{}, bool) {
	value, ok := c[key]
	return value, ok
}

// GetString retrieves a parameter as a string
func (c Context) GetString(key string) (string, bool) {
	value, ok := c[key]
	if !ok {
		return "", false
	}
	text, ok := value.(string)
	return text, ok
}

// GetInt retrieves a parameter as an integer
func (c Context) GetInt(key string) (int, bool) {
	value, ok := c[key]
	if !ok {
		return 0, false
	}
	switch actual := value.(type) {
	case int:
		return actual, true
	case int64:
		return int(actual), true
	case int32:
		return int(actual), true
	case float64:
		if actual == float64(int(actual)) {
			return int(actual), true
		}
	}
	return 0, false
}

// GetBool retrieves a parameter as a boolean
func (c Context) GetBool(key string) (bool, bool) {
	value, ok := c[key]
	if !ok {
		return false, false
	}
	flag, ok := value.(bool)
	return flag, ok
}

// Decode converts parameter value into target, target has to be a pointer
func (c Context) Decode(key string, target interface{}) error {
	value, ok := c[key]
	if !ok {
		return fmt.Errorf("parameter %v not found", key)
	}
	if err := converter.Convert(value, target); err != nil {
		return fmt.Errorf("failed to decode parameter %v into %T: %w", key, target, err)
	}
	return nil
}
