package interpreter

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/fluxtree/internal/clock"
	"github.com/viant/fluxtree/model/graph"
	"github.com/viant/fluxtree/model/state"
	"github.com/viant/fluxtree/model/types"
	"github.com/viant/fluxtree/progress"
	"github.com/viant/fluxtree/service/event"
	"github.com/viant/fluxtree/tracing"
)

// body runs a node with its merged context, skipped reports a no-op completion
type body func(ctx context.Context, merged state.Context) (skipped bool, err error)

// dispatch executes a single node
type dispatch struct {
	interpreter *Interpreter
	ctx         context.Context
	parent      string
	label       string
	inherited   state.Context
	state       state.Handle
	path        string
	entered     bool
}

func (d *dispatch) VisitSequential(node *graph.Sequential) error {
	return d.run(node.Name, node.Kind(), node.Params, func(ctx context.Context, merged state.Context) (bool, error) {
		for i, child := range node.Children {
			if err := d.interpreter.execute(ctx, child, d.path, indexLabel(i), merged.Clone(), d.state); err != nil {
				return false, err
			}
		}
		return false, nil
	})
}

func (d *dispatch) VisitParallel(node *graph.Parallel) error {
	return d.run(node.Name, node.Kind(), node.Params, func(ctx context.Context, merged state.Context) (bool, error) {
		results := make(chan error, len(node.Children))
		for i, child := range node.Children {
			params := merged.Clone()
			go func(child graph.Node, label string) {
				results <- d.interpreter.execute(ctx, child, d.path, label, params, d.state)
			}(child, indexLabel(i))
		}
		for pending := len(node.Children); pending > 0; pending-- {
			if err := <-results; err != nil {
				if pending > 1 {
					go d.interpreter.drain(d.path, results, pending-1)
				}
				return false, err
			}
		}
		return false, nil
	})
}

func (d *dispatch) VisitStep(node *graph.Step) error {
	return d.run(node.Name, node.Kind(), node.Params, func(ctx context.Context, merged state.Context) (bool, error) {
		return false, d.interpreter.invoke(ctx, d.path, node.Task, merged.Clone(), d.state)
	})
}

func (d *dispatch) VisitConditional(node *graph.Conditional) error {
	return d.run(node.Name, node.Kind(), node.Params, func(ctx context.Context, merged state.Context) (bool, error) {
		ok, err := d.interpreter.evaluate(ctx, d.path, node.Condition, merged, d.state)
		if err != nil {
			return false, err
		}
		branch, label := node.Then, thenLabel
		if !ok {
			branch, label = node.Else, elseLabel
		}
		d.interpreter.logger.Debug("condition evaluated", "path", d.path, "value", ok)
		switch actual := branch.(type) {
		case nil:
			return true, nil
		case graph.Task:
			return false, d.interpreter.invoke(ctx, d.path+"/"+label, actual, merged.Clone(), d.state)
		case graph.Node:
			return false, d.interpreter.execute(ctx, actual, d.path, label, merged.Clone(), d.state)
		}
		return false, types.NewUnknownKindError(d.path+"/"+label, fmt.Sprintf("%T", branch))
	})
}

// run merges the node overlay once and wraps fn with tracing, progress, events and logging
func (d *dispatch) run(name string, kind graph.Kind, params state.Context, fn body) error {
	d.entered = true
	d.path = nodePath(d.parent, name, kind, d.label)
	logger := d.interpreter.logger
	merged := state.Merge(d.inherited, params)

	ctx, span := tracing.StartNode(d.ctx, string(kind), d.path)
	scope := event.ScopeFromContext(ctx)
	span.Annotate(tracing.KeyRunID, scope.RunID)
	scope.NodePath = d.path
	scope.NodeKind = string(kind)
	ctx = event.WithScope(ctx, scope)

	started := clock.Now()
	progress.UpdateCtx(ctx, progress.Delta{Total: 1, Running: 1})
	d.notify(ctx, event.TypeStarted, 0, nil)
	logger.Debug("node started", "path", d.path, "kind", kind)

	skipped, err := fn(ctx, merged)
	elapsed := clock.Since(started)
	switch {
	case err != nil:
		progress.UpdateCtx(ctx, progress.Delta{Running: -1, Failed: 1})
		d.notify(ctx, event.TypeFailed, elapsed, err.Error())
		logger.Debug("node failed", "path", d.path, "kind", kind, "error", err)
	case skipped:
		progress.UpdateCtx(ctx, progress.Delta{Running: -1, Skipped: 1})
		d.notify(ctx, event.TypeSkipped, elapsed, nil)
		logger.Debug("node skipped", "path", d.path, "kind", kind)
	default:
		progress.UpdateCtx(ctx, progress.Delta{Running: -1, Completed: 1})
		d.notify(ctx, event.TypeCompleted, elapsed, nil)
		logger.Debug("node completed", "path", d.path, "kind", kind, "elapsed", elapsed)
	}
	span.Finish(skipped, err)
	if listener := d.interpreter.listener; listener != nil {
		listener(d.path, kind, err)
	}
	return err
}

func (d *dispatch) notify(ctx context.Context, eventType string, elapsed time.Duration, data interface{}) {
	sink := event.SinkFromContext(ctx)
	if sink == nil {
		return
	}
	scope := event.ScopeFromContext(ctx)
	scope.EventType = eventType
	scope.TimeTakenMs = int(elapsed.Milliseconds())
	if err := sink.Publish(ctx, event.NewEvent[any](scope, data)); err != nil {
		d.interpreter.logger.Warn("failed to publish node event", "path", d.path, "type", eventType, "error", err)
	}
}
