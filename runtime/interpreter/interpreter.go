package interpreter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/viant/fluxtree/model/graph"
	"github.com/viant/fluxtree/model/state"
	"github.com/viant/fluxtree/model/types"
	"github.com/viant/fluxtree/policy"
	"github.com/viant/fluxtree/service/event"
)

var (
	errNilTask  = errors.New("task was nil")
	errNilState = errors.New("state handle was nil")
)

// Interpreter executes process trees against a state handle
type Interpreter struct {
	logger   *slog.Logger
	sink     event.Sink
	listener Listener
	policy   *policy.Policy
}

// Execute runs root with params as the inherited context
func (i *Interpreter) Execute(ctx context.Context, root graph.Node, params state.Context, st state.Handle) error {
	if st == nil {
		return errNilState
	}
	if i.sink != nil && event.SinkFromContext(ctx) == nil {
		ctx = event.WithSink(ctx, i.sink)
	}
	return i.execute(ctx, root, "", rootLabel, params, st)
}

func (i *Interpreter) execute(ctx context.Context, node graph.Node, parent, label string, inherited state.Context, st state.Handle) error {
	d := &dispatch{
		interpreter: i,
		ctx:         ctx,
		parent:      parent,
		label:       label,
		inherited:   inherited,
		state:       st,
	}
	err := graph.Visit(node, d)
	if d.entered {
		return err
	}
	var unknown *types.UnknownKindError
	if errors.As(err, &unknown) && unknown.Path == "" {
		unknown.Path = nodePath(parent, "", "unknown", label)
	}
	i.logger.Error("unsupported node", "path", nodePath(parent, "", "unknown", label), "error", err)
	return err
}

// invoke calls task converting a returned error or panic into a task failure
func (i *Interpreter) invoke(ctx context.Context, path string, task graph.Task, params state.Context, st state.Handle) (err error) {
	if task == nil {
		return types.NewTaskError(path, errNilTask)
	}
	rules := policy.FromContext(ctx)
	if rules == nil {
		rules = i.policy
	}
	if err = rules.Check(ctx, path, params); err != nil {
		return types.NewTaskError(path, err)
	}
	defer func() {
		if r := recover(); r != nil {
			err = types.NewTaskError(path, fmt.Errorf("panic: %v", r))
		}
	}()
	if err = task(ctx, params, st); err != nil {
		return types.NewTaskError(path, err)
	}
	return nil
}

// evaluate resolves condition converting a failure or panic into a condition failure
func (i *Interpreter) evaluate(ctx context.Context, path string, condition graph.Condition, params state.Context, st state.Handle) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok, err = false, types.NewConditionError(path, fmt.Errorf("panic: %v", r))
		}
	}()
	if ok, err = graph.Evaluate(ctx, condition, params, st); err != nil {
		return false, types.NewConditionError(path, err)
	}
	return ok, nil
}

// drain collects results of parallel children still running after the first failure
func (i *Interpreter) drain(path string, results <-chan error, pending int) {
	for ; pending > 0; pending-- {
		if err := <-results; err != nil {
			i.logger.Warn("unobserved parallel failure", "path", path, "error", err)
		}
	}
}

// New creates an interpreter
func New(opts ...Option) *Interpreter {
	ret := &Interpreter{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
