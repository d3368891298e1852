package types

import (
	"errors"
	"fmt"
)

var (
	// ErrTaskFailed matches any leaf task failure
	ErrTaskFailed = errors.New("task failed")
	// ErrConditionFailed matches any condition evaluation failure
	ErrConditionFailed = errors.New("condition failed")
	// ErrUnknownNodeKind matches a node outside the known kinds
	ErrUnknownNodeKind = errors.New("unknown node kind")
)

// TaskError represents a leaf task failure
type TaskError struct {
	Path string
	Err  error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %v failed: %v", e.Path, e.Err)
}

func (e *TaskError) Unwrap() error { return e.Err }

func (e *TaskError) Is(target error) bool { return target == ErrTaskFailed }

// ConditionError represents a condition evaluation failure
type ConditionError struct {
	Path string
	Err  error
}

func (e *ConditionError) Error() string {
	return fmt.Sprintf("condition %v failed: %v", e.Path, e.Err)
}

func (e *ConditionError) Unwrap() error { return e.Err }

func (e *ConditionError) Is(target error) bool { return target == ErrConditionFailed }

// UnknownKindError represents a node outside the known kinds
type UnknownKindError struct {
	Path string
	Kind string
}

func (e *UnknownKindError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("unsupported process type(%v)", e.Kind)
	}
	return fmt.Sprintf("unsupported process type(%v) at %v", e.Kind, e.Path)
}

func (e *UnknownKindError) Is(target error) bool { return target == ErrUnknownNodeKind }

// NewTaskError wraps err as a task failure
func NewTaskError(path string, err error) error {
	return &TaskError{Path: path, Err: err}
}

// NewConditionError wraps err as a condition failure
func NewConditionError(path string, err error) error {
	return &ConditionError{Path: path, Err: err}
}

// NewUnknownKindError creates an unknown node kind error
func NewUnknownKindError(path, kind string) error {
	return &UnknownKindError{Path: path, Kind: kind}
}
