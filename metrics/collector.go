package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/viant/fluxtree/service/event"
)

const namespace = "fluxtree"

// Collector records node and run metrics
type Collector struct {
	nodes        *prometheus.CounterVec
	nodeDuration *prometheus.HistogramVec
	runs         *prometheus.CounterVec
	runDuration  prometheus.Histogram
	taskEvents   *prometheus.CounterVec
}

var _ event.Sink = (*Collector)(nil)

// Publish updates node metrics from lifecycle events and counts any other event type
func (c *Collector) Publish(ctx context.Context, e *event.Event[any]) error {
	if e == nil || e.Context == nil {
		return nil
	}
	switch e.Context.EventType {
	case event.TypeStarted:
	case event.TypeCompleted, event.TypeFailed, event.TypeSkipped:
		c.nodes.WithLabelValues(e.Context.NodeKind, e.Context.EventType).Inc()
		c.nodeDuration.WithLabelValues(e.Context.NodeKind).Observe(float64(e.Context.TimeTakenMs) / 1000)
	default:
		c.taskEvents.WithLabelValues(e.Context.EventType).Inc()
	}
	return nil
}

// ObserveRun records a finished run
func (c *Collector) ObserveRun(status string, elapsed time.Duration) {
	c.runs.WithLabelValues(status).Inc()
	c.runDuration.Observe(elapsed.Seconds())
}

// New creates a collector registered with registerer, nil means prometheus.DefaultRegisterer.
// Collectors already registered under the same names are reused.
func New(registerer prometheus.Registerer) (*Collector, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	ret := &Collector{
		nodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_total",
			Help:      "Total number of finished nodes",
		}, []string{"kind", "status"}),
		nodeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "node_duration_seconds",
			Help:      "Duration of node executions",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of finished runs",
		}, []string{"status"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of runs",
			Buckets:   prometheus.DefBuckets,
		}),
		taskEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_events_total",
			Help:      "Total number of events emitted by tasks",
		}, []string{"type"}),
	}
	var err error
	if ret.nodes, err = register(registerer, ret.nodes); err != nil {
		return nil, err
	}
	if ret.nodeDuration, err = register(registerer, ret.nodeDuration); err != nil {
		return nil, err
	}
	if ret.runs, err = register(registerer, ret.runs); err != nil {
		return nil, err
	}
	if ret.runDuration, err = register(registerer, ret.runDuration); err != nil {
		return nil, err
	}
	if ret.taskEvents, err = register(registerer, ret.taskEvents); err != nil {
		return nil, err
	}
	return ret, nil
}

func register[T prometheus.Collector](registerer prometheus.Registerer, collector T) (T, error) {
	err := registerer.Register(collector)
	if err == nil {
		return collector, nil
	}
	var registered prometheus.AlreadyRegisteredError
	if errors.As(err, &registered) {
		if existing, ok := registered.ExistingCollector.(T); ok {
			return existing, nil
		}
	}
	return collector, err
}
