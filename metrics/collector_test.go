package metrics_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/fluxtree/metrics"
	"github.com/viant/fluxtree/service/event"
)

func publish(t *testing.T, collector *metrics.Collector, kind, eventType string, ms int) {
	e := event.NewEvent[any](&event.Context{NodeKind: kind, EventType: eventType, TimeTakenMs: ms}, nil)
	require.NoError(t, collector.Publish(context.Background(), e))
}

func TestCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector, err := metrics.New(registry)
	require.NoError(t, err)

	publish(t, collector, "step", event.TypeStarted, 0)
	publish(t, collector, "step", event.TypeCompleted, 20)
	publish(t, collector, "step", event.TypeFailed, 5)
	publish(t, collector, "conditional", event.TypeSkipped, 1)
	publish(t, collector, "step", "downloaded", 0)
	require.NoError(t, collector.Publish(context.Background(), nil))
	collector.ObserveRun("completed", 50*time.Millisecond)

	expected := `
# HELP fluxtree_nodes_total Total number of finished nodes
# TYPE fluxtree_nodes_total counter
fluxtree_nodes_total{kind="conditional",status="skipped"} 1
fluxtree_nodes_total{kind="step",status="completed"} 1
fluxtree_nodes_total{kind="step",status="failed"} 1
# HELP fluxtree_runs_total Total number of finished runs
# TYPE fluxtree_runs_total counter
fluxtree_runs_total{status="completed"} 1
# HELP fluxtree_task_events_total Total number of events emitted by tasks
# TYPE fluxtree_task_events_total counter
fluxtree_task_events_total{type="downloaded"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected),
		"fluxtree_nodes_total", "fluxtree_runs_total", "fluxtree_task_events_total"))
	count, err := testutil.GatherAndCount(registry, "fluxtree_node_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestNew_Reuse(t *testing.T) {
	registry := prometheus.NewRegistry()
	first, err := metrics.New(registry)
	require.NoError(t, err)
	second, err := metrics.New(registry)
	require.NoError(t, err)

	publish(t, first, "step", event.TypeCompleted, 1)
	publish(t, second, "step", event.TypeCompleted, 1)
	count, err := testutil.GatherAndCount(registry, "fluxtree_nodes_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
