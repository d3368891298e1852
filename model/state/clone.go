package state

import "github.com/mohae/deepcopy"

// Copier is implemented by values that copy themselves, typically because they carry unexported
// fields. DeepCopy must return a non-nil value of the receiver's own type. Clone delegates to it
// at any depth, including values nested in maps, slices and struct fields.
type Copier = deepcopy.Interface

// Clone returns a deep copy of value. Copier values copy themselves; otherwise maps, slices,
// pointers and exported struct fields are copied recursively, unexported fields are left zero,
// functions and channels are shared.
func Clone[T any](value T) T {
	ret, _ := deepcopy.Copy(value).(T)
	return ret
}
