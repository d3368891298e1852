// Package extension provides the run-time registry of named tasks and
// predicates that declarative trees refer to.
//
// The registry is normally populated through the root fluxtree package,
// therefore most applications do not need to import this package directly.
package extension
