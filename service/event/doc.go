// Package event defines the effect sink used by the engine and by tasks to
// report node lifecycle changes and domain events. A Sink travels on the
// context; Service is a Sink that delivers events asynchronously through an
// in-memory queue.
package event
