package graph

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/fluxtree/model/state"
)

// Condition is one of Literal, *Promise or Predicate
type Condition interface {
	condition()
}

// Literal is a constant condition
type Literal bool

// Predicate is a task-shaped condition
type Predicate func(ctx context.Context, params state.Context, st state.Handle) (bool, error)

// Promise is a boolean that becomes available asynchronously; once settled it keeps its outcome
type Promise struct {
	done  chan struct{}
	once  sync.Once
	value bool
	err   error
}

func (Literal) condition()   {}
func (Predicate) condition() {}
func (*Promise) condition()  {}

// NewPromise creates a pending promise
func NewPromise() *Promise {
	return &Promise{done: make(chan struct{})}
}

// Resolved creates a promise settled with value
func Resolved(value bool) *Promise {
	ret := NewPromise()
	ret.Resolve(value)
	return ret
}

// Rejected creates a promise settled with err
func Rejected(err error) *Promise {
	ret := NewPromise()
	ret.Reject(err)
	return ret
}

// Async starts fn in a goroutine and returns a promise of its outcome; a panic in fn rejects it
func Async(fn func() (bool, error)) *Promise {
	ret := NewPromise()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ret.Reject(fmt.Errorf("panic: %v", r))
			}
		}()
		value, err := fn()
		if err != nil {
			ret.Reject(err)
			return
		}
		ret.Resolve(value)
	}()
	return ret
}

// Resolve settles the promise with value, it returns false if already settled
func (p *Promise) Resolve(value bool) bool {
	return p.settle(value, nil)
}

// Reject settles the promise with err, it returns false if already settled
func (p *Promise) Reject(err error) bool {
	if err == nil {
		err = fmt.Errorf("promise rejected")
	}
	return p.settle(false, err)
}

func (p *Promise) settle(value bool, err error) bool {
	settled := false
	p.once.Do(func() {
		p.value, p.err = value, err
		close(p.done)
		settled = true
	})
	return settled
}

// Await waits for the promise to settle
func (p *Promise) Await(ctx context.Context) (bool, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Evaluate resolves condition; a predicate receives its own copy of params
func Evaluate(ctx context.Context, condition Condition, params state.Context, st state.Handle) (bool, error) {
	switch actual := condition.(type) {
	case Literal:
		return bool(actual), nil
	case *Promise:
		if actual == nil {
			return false, fmt.Errorf("promise was nil")
		}
		return actual.Await(ctx)
	case Predicate:
		if actual == nil {
			return false, fmt.Errorf("predicate was nil")
		}
		return actual(ctx, params.Clone(), st)
	case nil:
		return false, fmt.Errorf("condition was nil")
	}
	return false, fmt.Errorf("unsupported condition type %T", condition)
}
