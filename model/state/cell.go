package state

import "sync/atomic"

// Handle exposes copy-isolated access to a state value.
// Values are copied with Clone: a value holding unexported fields must implement Copier
// to survive the round trip unchanged.
type Handle interface {
	// Get returns a deep copy of the current value
	Get() interface{}
	// Set stores a deep copy of value
	Set(value interface{})
}

// Cell holds exactly one state value.
//
// Get and Set are individually atomic but a read-modify-write sequence is not:
// concurrent writers race and the last installed copy wins.
type Cell struct {
	current atomic.Pointer[box]
}

type box struct {
	value interface{}
}

// Get returns a deep copy of the current value
func (c *Cell) Get() interface{} {
	b := c.current.Load()
	if b == nil {
		return nil
	}
	return Clone(b.value)
}

// Set stores a deep copy of value
func (c *Cell) Set(value interface{}) {
	c.current.Store(&box{value: Clone(value)})
}

// NewCell creates a cell holding a copy of initial
func NewCell(initial interface{}) *Cell {
	ret := &Cell{}
	ret.Set(initial)
	return ret
}

// As returns the current state value of h as T
func As[T any](h Handle) (T, bool) {
	ret, ok := h.Get().(T)
	return ret, ok
}

var _ Handle = (*Cell)(nil)
