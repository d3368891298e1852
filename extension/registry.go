package extension

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/viant/fluxtree/model/graph"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrInvalidName  = errors.New("invalid name")
)

// Registry holds named tasks and predicates
type Registry struct {
	tasks      map[string]graph.Task
	predicates map[string]graph.Predicate
	mux        sync.RWMutex
}

// RegisterTask registers a task, a later registration replaces the earlier one
func (r *Registry) RegisterTask(name string, task graph.Task) error {
	if name == "" || task == nil {
		return fmt.Errorf("failed to register task %q: %w", name, ErrInvalidName)
	}
	r.mux.Lock()
	defer r.mux.Unlock()
	r.tasks[name] = task
	return nil
}

// RegisterPredicate registers a predicate
func (r *Registry) RegisterPredicate(name string, predicate graph.Predicate) error {
	if name == "" || predicate == nil {
		return fmt.Errorf("failed to register predicate %q: %w", name, ErrInvalidName)
	}
	r.mux.Lock()
	defer r.mux.Unlock()
	r.predicates[name] = predicate
	return nil
}

// HasTask returns true when a task is registered under name
func (r *Registry) HasTask(name string) bool {
	r.mux.RLock()
	defer r.mux.RUnlock()
	_, ok := r.tasks[name]
	return ok
}

// LookupTask returns a task by name
func (r *Registry) LookupTask(name string) (graph.Task, error) {
	r.mux.RLock()
	defer r.mux.RUnlock()
	task, ok := r.tasks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrTaskNotFound, name)
	}
	return task, nil
}

// LookupPredicate returns a predicate by name
func (r *Registry) LookupPredicate(name string) (graph.Predicate, error) {
	r.mux.RLock()
	defer r.mux.RUnlock()
	predicate, ok := r.predicates[name]
	if !ok {
		return nil, fmt.Errorf("%w: predicate %v", ErrTaskNotFound, name)
	}
	return predicate, nil
}

// Tasks returns sorted task names
func (r *Registry) Tasks() []string {
	r.mux.RLock()
	defer r.mux.RUnlock()
	ret := make([]string, 0, len(r.tasks))
	for name := range r.tasks {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		tasks:      make(map[string]graph.Task),
		predicates: make(map[string]graph.Predicate),
	}
}
