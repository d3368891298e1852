package event

import (
	"context"
	"errors"
)

// Sink receives events emitted by the engine and by tasks
type Sink interface {
	Publish(ctx context.Context, event *Event[any]) error
}

// SinkFunc adapts a function to Sink
type SinkFunc func(ctx context.Context, event *Event[any]) error

func (f SinkFunc) Publish(ctx context.Context, event *Event[any]) error {
	return f(ctx, event)
}

// Tee returns a sink publishing to every non-nil sink, errors are joined
func Tee(sinks ...Sink) Sink {
	var active []Sink
	for _, sink := range sinks {
		if sink != nil {
			active = append(active, sink)
		}
	}
	switch len(active) {
	case 0:
		return nil
	case 1:
		return active[0]
	}
	return SinkFunc(func(ctx context.Context, event *Event[any]) error {
		var errs []error
		for _, sink := range active {
			if err := sink.Publish(ctx, event); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

type sinkKeyT struct{}

type scopeKeyT struct{}

var (
	sinkKey  sinkKeyT
	scopeKey scopeKeyT
)

// WithSink embeds sink in ctx
func WithSink(ctx context.Context, sink Sink) context.Context {
	return context.WithValue(ctx, sinkKey, sink)
}

// SinkFromContext returns the sink embedded in ctx or nil
func SinkFromContext(ctx context.Context) Sink {
	if ctx == nil {
		return nil
	}
	sink, _ := ctx.Value(sinkKey).(Sink)
	return sink
}

// WithScope embeds the identity of the executing node in ctx
func WithScope(ctx context.Context, scope *Context) context.Context {
	return context.WithValue(ctx, scopeKey, scope)
}

// ScopeFromContext returns a copy of the scope embedded in ctx
func ScopeFromContext(ctx context.Context) *Context {
	if ctx == nil {
		return &Context{}
	}
	scope, _ := ctx.Value(scopeKey).(*Context)
	return scope.Clone()
}

// Emit publishes data with the scope of ctx; it is a no-op when ctx carries no sink
func Emit(ctx context.Context, eventType string, data interface{}) error {
	sink := SinkFromContext(ctx)
	if sink == nil {
		return nil
	}
	scope := ScopeFromContext(ctx)
	scope.EventType = eventType
	return sink.Publish(ctx, NewEvent[any](scope, data))
}
