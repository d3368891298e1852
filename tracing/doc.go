// Package tracing integrates OpenTelemetry with the engine so that every
// executed node is recorded as a span.  Without an installed provider spans
// are no-ops, so applications that do not need tracing pay nothing.
package tracing
