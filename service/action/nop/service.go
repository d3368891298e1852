package nop

import (
	"context"

	"github.com/viant/fluxtree/model/graph"
	"github.com/viant/fluxtree/model/state"
)

const name = "nop"

// Service provides a task that does nothing
type Service struct{}

// New creates a nop service
func New() *Service {
	return &Service{}
}

// Name returns the service name
func (s *Service) Name() string {
	return name
}

// Methods returns the service methods, the task is registered as plain "nop"
func (s *Service) Methods() map[string]graph.Task {
	return map[string]graph.Task{"": s.nop}
}

// does nothing
func (s *Service) nop(ctx context.Context, params state.Context, st state.Handle) error {
	return nil
}
