// Package idgen issues identifiers for runs and queued messages.
package idgen

import "github.com/google/uuid"

// NewFunc produces the random part of every identifier; tests may swap it.
var NewFunc = func() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// New returns a bare identifier.
func New() string { return NewFunc() }

// NewRunID returns a run identifier; version 7 UUIDs keep IDs ordered by creation time.
func NewRunID() string { return "run-" + NewFunc() }
