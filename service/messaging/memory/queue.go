package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/viant/fluxtree/internal/idgen"
	"github.com/viant/fluxtree/service/messaging"
)

// ErrProcessed is returned when a message is settled twice
var ErrProcessed = errors.New("message already processed")

// Config controls buffering and redelivery of nacked messages
type Config struct {
	MaxRetries  int           `yaml:"maxRetries"`
	RetryDelay  time.Duration `yaml:"retryDelay"`
	QueueBuffer int           `yaml:"buffer"`
}

func DefaultConfig() Config {
	return Config{MaxRetries: 3, RetryDelay: 100 * time.Millisecond, QueueBuffer: 100}
}

// Queue is a buffered channel backed messaging.Queue
type Queue[T any] struct {
	messages chan *Message[T]
	config   Config
	dropped  atomic.Int64
	done     chan struct{}
	once     sync.Once
}

func NewQueue[T any](config Config) *Queue[T] {
	if config.QueueBuffer <= 0 {
		config.QueueBuffer = DefaultConfig().QueueBuffer
	}
	return &Queue[T]{messages: make(chan *Message[T], config.QueueBuffer), config: config, done: make(chan struct{})}
}

// Publish enqueues a copy of payload; it blocks while the buffer is full
func (q *Queue[T]) Publish(ctx context.Context, payload *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if q.closed() {
		return messaging.ErrClosed
	}
	return q.enqueue(ctx, &Message[T]{id: idgen.New(), payload: *payload, queue: q})
}

func (q *Queue[T]) enqueue(ctx context.Context, msg *Message[T]) error {
	select {
	case q.messages <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-q.done:
		return messaging.ErrClosed
	}
}

func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.messages:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-q.done:
		return nil, messaging.ErrClosed
	}
}

// Close rejects further publishing and releases blocked publishers and consumers; buffered messages are discarded
func (q *Queue[T]) Close() {
	q.once.Do(func() { close(q.done) })
}

func (q *Queue[T]) closed() bool {
	select {
	case <-q.done:
		return true
	default:
		return false
	}
}

// Size returns the number of buffered messages
func (q *Queue[T]) Size() int {
	return len(q.messages)
}

// Dropped returns the number of messages discarded after exhausting retries
func (q *Queue[T]) Dropped() int {
	return int(q.dropped.Load())
}

// Message is a delivery of one payload
type Message[T any] struct {
	id      string
	payload T
	queue   *Queue[T]
	attempt int
	once    sync.Once
}

func (m *Message[T]) ID() string { return m.id }

func (m *Message[T]) T() *T { return &m.payload }

func (m *Message[T]) Attempt() int { return m.attempt }

func (m *Message[T]) Ack() error {
	if !m.settle() {
		return ErrProcessed
	}
	return nil
}

// Nack schedules redelivery after RetryDelay, or drops the payload once MaxRetries is reached
func (m *Message[T]) Nack(error) error {
	if !m.settle() {
		return ErrProcessed
	}
	q := m.queue
	if m.attempt >= q.config.MaxRetries {
		q.dropped.Add(1)
		return nil
	}
	retry := &Message[T]{id: m.id, payload: m.payload, queue: q, attempt: m.attempt + 1}
	time.AfterFunc(q.config.RetryDelay, func() {
		_ = q.enqueue(context.Background(), retry)
	})
	return nil
}

func (m *Message[T]) settle() bool {
	settled := false
	m.once.Do(func() { settled = true })
	return settled
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
