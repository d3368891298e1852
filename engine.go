package fluxtree

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/viant/afs/storage"
	"github.com/viant/fluxtree/extension"
	"github.com/viant/fluxtree/internal/clock"
	"github.com/viant/fluxtree/internal/idgen"
	"github.com/viant/fluxtree/metrics"
	"github.com/viant/fluxtree/model/graph"
	"github.com/viant/fluxtree/model/run"
	"github.com/viant/fluxtree/model/state"
	"github.com/viant/fluxtree/policy"
	"github.com/viant/fluxtree/progress"
	"github.com/viant/fluxtree/runtime/interpreter"
	"github.com/viant/fluxtree/service/action"
	"github.com/viant/fluxtree/service/action/nop"
	"github.com/viant/fluxtree/service/action/printer"
	"github.com/viant/fluxtree/service/action/system/exec"
	storageaction "github.com/viant/fluxtree/service/action/system/storage"
	"github.com/viant/fluxtree/service/dao"
	runfs "github.com/viant/fluxtree/service/dao/run/fs"
	runredis "github.com/viant/fluxtree/service/dao/run/redis"
	"github.com/viant/fluxtree/service/dao/tree"
	"github.com/viant/fluxtree/service/event"
	"github.com/viant/fluxtree/service/messaging/memory"
	"github.com/viant/fluxtree/tracing"
)

// Engine executes process trees against a single state cell it owns
type Engine struct {
	defaults      state.Context
	initial       interface{}
	cell          *state.Cell
	logger        *slog.Logger
	sink          event.Sink
	events        *event.Service
	eventHandler  func(*event.Event[any])
	queueConfig   memory.Config
	onProgress    func(progress.Snapshot)
	listener      interpreter.Listener
	registry      *extension.Registry
	trees         *tree.Service
	metaBaseURL   string
	metaFsOptions []storage.Option
	runs          dao.Service[string, run.Record]
	policy        *policy.Policy
	metrics       *metrics.Collector
	closers       []io.Closer
	actions       []action.Service
	initErrs      []error
	mux           sync.RWMutex
}

// Run merges params over the engine defaults, executes root and returns a copy of the final state
func (e *Engine) Run(ctx context.Context, root graph.Node, params state.Context) (interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	runID := idgen.NewRunID()
	name := graph.NameOf(root)
	logger := e.logger.With("run", runID)
	ctx = event.WithScope(ctx, &event.Context{RunID: runID})
	if span, ok := tracing.Current(ctx); ok {
		span.Annotate(tracing.KeyRunID, runID)
		span.Annotate(tracing.KeyTree, name)
	}
	if sink := e.runSink(); sink != nil && event.SinkFromContext(ctx) == nil {
		ctx = event.WithSink(ctx, sink)
	}
	ctx, tracker := progress.WithNewTracker(ctx, runID, name, e.onProgress)
	merged := state.Merge(e.defaults, params)

	runner := interpreter.New(
		interpreter.WithLogger(logger),
		interpreter.WithListener(e.listener),
		interpreter.WithPolicy(e.policy))
	logger.Debug("run started", "tree", name)
	started := clock.Now()
	err := runner.Execute(ctx, root, merged, e.cell)
	record := &run.Record{
		ID:          runID,
		Tree:        name,
		Params:      merged,
		StartedAt:   started,
		CompletedAt: clock.Now(),
		Counters:    tracker.Snapshot().Counters,
	}
	if err != nil {
		logger.Error("run failed", "tree", name, "error", err)
		record.Status, record.Error = run.StatusFailed, err.Error()
		e.record(ctx, logger, record)
		return nil, err
	}
	result := e.cell.Get()
	logger.Debug("run completed", "tree", name, "elapsed", record.Duration())
	record.Status, record.State = run.StatusCompleted, result
	e.record(ctx, logger, record)
	return result, nil
}

func (e *Engine) record(ctx context.Context, logger *slog.Logger, record *run.Record) {
	if e.metrics != nil {
		e.metrics.ObserveRun(string(record.Status), record.Duration())
	}
	if e.runs == nil {
		return
	}
	if err := e.runs.Save(ctx, record); err != nil {
		logger.Warn("failed to save run", "error", err)
	}
}

// State returns the handle of the engine state cell
func (e *Engine) State() state.Handle {
	return e.cell
}

// Defaults returns a copy of the engine default parameters
func (e *Engine) Defaults() state.Context {
	return e.defaults.Clone()
}

// Tasks returns the registry used by LoadTree and DecodeTree
func (e *Engine) Tasks() *extension.Registry {
	return e.registry
}

// Runs returns the run history store or nil
func (e *Engine) Runs() dao.Service[string, run.Record] {
	return e.runs
}

// RegisterTask registers a named task for declarative trees
func (e *Engine) RegisterTask(name string, task graph.Task) error {
	return e.registry.RegisterTask(name, task)
}

// RegisterPredicate registers a named predicate for declarative trees
func (e *Engine) RegisterPredicate(name string, predicate graph.Predicate) error {
	return e.registry.RegisterPredicate(name, predicate)
}

// LoadTree loads a YAML tree from URL
func (e *Engine) LoadTree(ctx context.Context, URL string) (graph.Node, error) {
	return e.trees.Load(ctx, URL)
}

// DecodeTree decodes a YAML tree
func (e *Engine) DecodeTree(data []byte) (graph.Node, error) {
	return e.trees.DecodeYAML(data)
}

// Validate returns structural issues of root joined into one error, or nil
func (e *Engine) Validate(root graph.Node) error {
	return errors.Join(graph.Validate(root)...)
}

// Close stops the engine owned event service and releases built-in task resources.
// Runs after Close no longer deliver to the event handler.
func (e *Engine) Close() {
	if err := action.Close(context.Background(), e.actions...); err != nil {
		e.logger.Warn("failed to close actions", "error", err)
	}
	for _, closer := range e.closers {
		if err := closer.Close(); err != nil {
			e.logger.Warn("failed to close engine resource", "error", err)
		}
	}
	e.mux.Lock()
	events := e.events
	e.events = nil
	e.mux.Unlock()
	if events != nil {
		events.Close()
	}
}

// runSink composes the caller sink, or the engine owned event service, with metrics
func (e *Engine) runSink() event.Sink {
	var sinks []event.Sink
	e.mux.RLock()
	switch {
	case e.sink != nil:
		sinks = append(sinks, e.sink)
	case e.events != nil:
		sinks = append(sinks, e.events)
	}
	e.mux.RUnlock()
	if e.metrics != nil {
		sinks = append(sinks, e.metrics)
	}
	return event.Tee(sinks...)
}

func (e *Engine) init(options []Option) {
	for _, option := range options {
		option(e)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if e.registry == nil {
		e.registry = extension.NewRegistry()
	}
	e.actions = append(e.actions, nop.New(), printer.New(nil), storageaction.New(nil), exec.New())
	if err := action.Register(e.registry, e.actions...); err != nil {
		e.initErrs = append(e.initErrs, err)
	}
	for _, err := range e.initErrs {
		e.logger.Warn("engine option failed", "error", err)
	}
	if e.eventHandler != nil {
		e.events = event.New(e.eventHandler, event.WithQueueConfig(e.queueConfig), event.WithLogger(e.logger))
	}
	e.cell = state.NewCell(e.initial)
	e.trees = tree.New(e.registry,
		tree.WithBaseURL(e.metaBaseURL),
		tree.WithFsOptions(e.metaFsOptions...))
}

// New creates an engine
func New(options ...Option) *Engine {
	ret := &Engine{queueConfig: memory.DefaultConfig()}
	ret.init(options)
	return ret
}

// NewFromConfig creates an engine from cfg, options are applied after the config
func NewFromConfig(ctx context.Context, cfg *Config, options ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	queueConfig := memory.DefaultConfig()
	queueConfig.QueueBuffer = cfg.Events.Buffer
	queueConfig.MaxRetries = cfg.Events.MaxRetries
	configured := []Option{
		WithDefaults(cfg.Defaults),
		WithInitialState(cfg.State),
		WithEventQueue(queueConfig),
		WithMetaBaseURL(cfg.Trees.BaseURL),
	}
	if cfg.Metrics.Enabled {
		configured = append(configured, WithMetrics(nil))
	}
	if cfg.Policy != nil {
		configured = append(configured, WithPolicy(policy.FromConfig(cfg.Policy)))
	}
	if cfg.Tracing.Enabled {
		configured = append(configured, WithTracing(cfg.Tracing.Service, cfg.Tracing.Version, cfg.Tracing.Output))
	}
	switch {
	case cfg.Runs.Redis != nil:
		redisConfig := cfg.Runs.Redis
		options := []runredis.Option{runredis.WithTTL(redisConfig.TTL)}
		if redisConfig.Prefix != "" {
			options = append(options, runredis.WithPrefix(redisConfig.Prefix))
		}
		runs := runredis.New(redisConfig.Address, redisConfig.Password, redisConfig.DB, options...)
		configured = append(configured, WithRunDAO(runs), withCloser(runs))
	case cfg.Runs.URL != "":
		runs, err := runfs.New(ctx, cfg.Runs.URL, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create run store: %w", err)
		}
		configured = append(configured, WithRunDAO(runs))
	}
	ret := &Engine{}
	ret.init(append(configured, options...))
	if len(ret.initErrs) > 0 {
		ret.Close()
		return nil, errors.Join(ret.initErrs...)
	}
	return ret, nil
}
