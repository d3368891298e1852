// Package dao defines the persistence contract shared by run history backends.
package dao

import (
	"context"
	"errors"
)

var (
	// ErrNotFound reports a missing record.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidID reports an empty record key.
	ErrInvalidID = errors.New("record id is empty")
	// ErrNilEntity reports a nil record passed to Save.
	ErrNilEntity = errors.New("record is nil")
)

// Service stores records of type T under key K.
type Service[K comparable, T any] interface {
	Save(ctx context.Context, record *T) error
	Load(ctx context.Context, id K) (*T, error)
	Delete(ctx context.Context, id K) error
	// List returns the records matching every parameter, in no particular order.
	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}

// Parameter is a named List filter that matches any of its values.
type Parameter struct {
	Name   string
	Values []string
}

// NewParameter creates a filter on name.
func NewParameter(name string, values ...string) *Parameter {
	return &Parameter{Name: name, Values: values}
}

// Match reports whether value satisfies every parameter called name; other parameters are ignored.
func Match(name, value string, parameters []*Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil || parameter.Name != name {
			continue
		}
		if !parameter.accepts(value) {
			return false
		}
	}
	return true
}

func (p *Parameter) accepts(value string) bool {
	for _, candidate := range p.Values {
		if candidate == value {
			return true
		}
	}
	return false
}
