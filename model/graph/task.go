package graph

import (
	"context"

	"github.com/viant/fluxtree/model/state"
)

// Task is a leaf unit of work. It receives its own copy of parameters and the
// state handle; only state mutations and emitted effects outlive the call.
type Task func(ctx context.Context, params state.Context, st state.Handle) error

// Branch is either a Task or a Node
type Branch interface {
	branch()
}

func (t Task) branch() {}
