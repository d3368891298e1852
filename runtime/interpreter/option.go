package interpreter

import (
	"log/slog"

	"github.com/viant/fluxtree/model/graph"
	"github.com/viant/fluxtree/policy"
	"github.com/viant/fluxtree/service/event"
)

// Listener is invoked once a node completes, err is nil on success
type Listener func(path string, kind graph.Kind, err error)

type Option func(*Interpreter)

// WithLogger sets the logger, nil keeps the discarding default
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpreter) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithSink sets the sink receiving node lifecycle events when ctx carries none
func WithSink(sink event.Sink) Option {
	return func(i *Interpreter) {
		i.sink = sink
	}
}

// WithListener registers a node completion callback
func WithListener(listener Listener) Option {
	return func(i *Interpreter) {
		i.listener = listener
	}
}

// WithPolicy sets the policy gating step tasks, a policy carried by ctx takes precedence
func WithPolicy(p *policy.Policy) Option {
	return func(i *Interpreter) {
		i.policy = p
	}
}
