// Package action provides built-in tasks registered by every engine
package action

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/viant/fluxtree/extension"
	"github.com/viant/fluxtree/model/graph"
)

// Service groups related tasks under a common name
type Service interface {
	// Name returns the service name, tasks are registered as name.method
	Name() string
	// Methods returns tasks keyed by method name
	Methods() map[string]graph.Task
}

// Closer is implemented by services holding resources
type Closer interface {
	Close(ctx context.Context) error
}

// TaskName returns the registry name of a service method
func TaskName(service, method string) string {
	if method == "" {
		return service
	}
	return service + "." + method
}

// Register registers the methods of services, names already taken are skipped
func Register(registry *extension.Registry, services ...Service) error {
	for _, service := range services {
		methods := service.Methods()
		names := make([]string, 0, len(methods))
		for name := range methods {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, method := range names {
			name := TaskName(service.Name(), method)
			if registry.HasTask(name) {
				continue
			}
			if err := registry.RegisterTask(name, methods[method]); err != nil {
				return fmt.Errorf("failed to register %v: %w", service.Name(), err)
			}
		}
	}
	return nil
}

// Close releases resources of services implementing Closer
func Close(ctx context.Context, services ...Service) error {
	var errs []error
	for _, service := range services {
		if closer, ok := service.(Closer); ok {
			if err := closer.Close(ctx); err != nil {
				errs = append(errs, fmt.Errorf("failed to close %v: %w", service.Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}
