// Package progress keeps aggregated node counters for a single engine run.
// The tracker travels in the context so that the interpreter can report
// started, completed, skipped and failed nodes without a global registry.
package progress
