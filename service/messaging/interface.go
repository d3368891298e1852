package messaging

import (
	"context"
	"errors"
)

// ErrClosed is returned by a queue after Close
var ErrClosed = errors.New("queue closed")

// Queue is a point-to-point channel of payloads of type T.
type Queue[T any] interface {
	Publish(ctx context.Context, payload *T) error
	// Consume waits for the next message or for ctx to end.
	Consume(ctx context.Context) (Message[T], error)
}

// Message is a consumed payload awaiting settlement; exactly one of Ack or Nack takes effect.
type Message[T any] interface {
	T() *T
	// Attempt is zero on first delivery and grows with every redelivery.
	Attempt() int
	Ack() error
	Nack(err error) error
}
