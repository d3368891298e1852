// Package server exposes an engine over HTTP: synchronous runs, run history,
// registered tasks and Prometheus metrics.
package server
