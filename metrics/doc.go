// Package metrics exposes node and run counters as Prometheus collectors.
//
// A Collector is an event sink: attach it to an engine and every node lifecycle
// event updates the counters.
package metrics
