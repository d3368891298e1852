package fluxtree

import (
	"context"
	"io"
	"log/slog"

	"github.com/viant/afs/storage"
	"github.com/viant/fluxtree/extension"
	"github.com/viant/fluxtree/metrics"
	"github.com/viant/fluxtree/model/run"
	"github.com/viant/fluxtree/model/state"
	"github.com/viant/fluxtree/policy"
	"github.com/viant/fluxtree/progress"
	"github.com/viant/fluxtree/runtime/interpreter"
	"github.com/viant/fluxtree/service/action"
	"github.com/viant/fluxtree/service/dao"
	"github.com/viant/fluxtree/service/event"
	"github.com/viant/fluxtree/service/messaging/memory"
	"github.com/viant/fluxtree/tracing"

	"github.com/prometheus/client_golang/prometheus"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type Option func(e *Engine)

// WithDefaults sets the parameters every run inherits, they are copied once
func WithDefaults(defaults state.Context) Option {
	return func(e *Engine) {
		e.defaults = defaults.Clone()
	}
}

// WithInitialState sets the initial state value, it is copied once
func WithInitialState(value interface{}) Option {
	return func(e *Engine) {
		e.initial = value
	}
}

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithEventService sets the service node lifecycle and task events are published to
func WithEventService(service *event.Service) Option {
	return func(e *Engine) {
		if service != nil {
			e.sink = service
		}
	}
}

// WithSink sets a synchronous event sink
func WithSink(sink event.Sink) Option {
	return func(e *Engine) {
		e.sink = sink
	}
}

// WithEventHandler creates an engine owned event service delivering to handler, see Close
func WithEventHandler(handler func(*event.Event[any])) Option {
	return func(e *Engine) {
		e.eventHandler = handler
	}
}

// WithEventQueue sets the queue configuration of the engine owned event service
func WithEventQueue(config memory.Config) Option {
	return func(e *Engine) {
		e.queueConfig = config
	}
}

// WithProgress registers a callback receiving counter snapshots as nodes change state
func WithProgress(onChange func(progress.Snapshot)) Option {
	return func(e *Engine) {
		e.onProgress = onChange
	}
}

// WithListener registers a node completion callback
func WithListener(listener interpreter.Listener) Option {
	return func(e *Engine) {
		e.listener = listener
	}
}

// WithTasks sets the registry resolving task and predicate names in declarative trees
func WithTasks(registry *extension.Registry) Option {
	return func(e *Engine) {
		e.registry = registry
	}
}

// WithMetaBaseURL sets the location relative tree URLs are resolved against
func WithMetaBaseURL(URL string) Option {
	return func(e *Engine) {
		e.metaBaseURL = URL
	}
}

// WithMetaFsOptions with tree file system options
func WithMetaFsOptions(options ...storage.Option) Option {
	return func(e *Engine) {
		e.metaFsOptions = options
	}
}

// WithRunDAO sets the store receiving a record of every run
func WithRunDAO(runs dao.Service[string, run.Record]) Option {
	return func(e *Engine) {
		e.runs = runs
	}
}

// WithPolicy sets the policy deciding whether step tasks may run
func WithPolicy(p *policy.Policy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithActions registers additional task services, names already registered are kept
func WithActions(services ...action.Service) Option {
	return func(e *Engine) {
		e.actions = append(e.actions, services...)
	}
}

// WithMetrics records node and run metrics with registerer, nil means the default registerer
func WithMetrics(registerer prometheus.Registerer) Option {
	return func(e *Engine) {
		collector, err := metrics.New(registerer)
		if err != nil {
			e.initErrs = append(e.initErrs, err)
			return
		}
		e.metrics = collector
	}
}

func withCloser(closer io.Closer) Option {
	return func(e *Engine) {
		e.closers = append(e.closers, closer)
	}
}

// WithTracing exports node spans to stdout, or to outputFile when set.
// The tracer provider is process wide; Close flushes it and closes outputFile.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(e *Engine) {
		if err := tracing.Init(serviceName, serviceVersion, outputFile); err != nil {
			e.initErrs = append(e.initErrs, err)
			return
		}
		withCloser(tracingCloser{})(e)
	}
}

// WithTracingExporter exports node spans through exporter
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(e *Engine) {
		if err := tracing.Install(serviceName, serviceVersion, exporter); err != nil {
			e.initErrs = append(e.initErrs, err)
			return
		}
		withCloser(tracingCloser{})(e)
	}
}

type tracingCloser struct{}

func (tracingCloser) Close() error {
	return tracing.Shutdown(context.Background())
}
