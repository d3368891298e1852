package event

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/viant/fluxtree/internal/clock"
	"github.com/viant/fluxtree/service/messaging/memory"
)

// Service delivers events asynchronously to a single handler through an in-memory queue
type Service struct {
	queue       *memory.Queue[Event[any]]
	delivery    *delivery
	queueConfig memory.Config
	logger      *slog.Logger
	mux         sync.Mutex
}

// Publish enqueues event for delivery
func (s *Service) Publish(ctx context.Context, event *Event[any]) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = clock.Now()
	}
	return s.queue.Publish(ctx, event)
}

// SetListener replaces the event handler
func (s *Service) SetListener(handler func(*Event[any])) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.delivery != nil {
		s.delivery.stop()
	}
	s.delivery = startDelivery(s.queue, handler, s.logger)
}

// Close stops event delivery; later Publish calls fail with messaging.ErrClosed
func (s *Service) Close() {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.delivery != nil {
		s.delivery.stop()
		s.delivery = nil
	}
	s.queue.Close()
}

// New creates a service delivering every published event to handler
func New(handler func(*Event[any]), opts ...Option) *Service {
	ret := &Service{
		queueConfig: memory.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.logger == nil {
		ret.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ret.queue = memory.NewQueue[Event[any]](ret.queueConfig)
	ret.SetListener(handler)
	return ret
}

var _ Sink = (*Service)(nil)
