package graph

import (
	"github.com/viant/fluxtree/model/state"
)

// Kind identifies a node kind
type Kind string

const (
	KindSequential  Kind = "sequential"
	KindParallel    Kind = "parallel"
	KindStep        Kind = "step"
	KindConditional Kind = "conditional"
)

// Node is one of Sequential, Parallel, Step or Conditional.
type Node interface {
	Branch
	// Kind returns node kind
	Kind() Kind
	node()
}

type (
	// Sequential runs children one after another
	Sequential struct {
		Name     string        `json:"name,omitempty" yaml:"name,omitempty"`
		Params   state.Context `json:"params,omitempty" yaml:"params,omitempty"`
		Children []Node        `json:"-" yaml:"-"`
	}

	// Parallel runs children concurrently and waits for all of them
	Parallel struct {
		Name     string        `json:"name,omitempty" yaml:"name,omitempty"`
		Params   state.Context `json:"params,omitempty" yaml:"params,omitempty"`
		Children []Node        `json:"-" yaml:"-"`
	}

	// Step runs a single task
	Step struct {
		Name   string        `json:"name,omitempty" yaml:"name,omitempty"`
		Params state.Context `json:"params,omitempty" yaml:"params,omitempty"`
		Task   Task          `json:"-" yaml:"-"`
	}

	// Conditional runs Then when Condition holds, Else otherwise; nil Else means no-op
	Conditional struct {
		Name      string        `json:"name,omitempty" yaml:"name,omitempty"`
		Params    state.Context `json:"params,omitempty" yaml:"params,omitempty"`
		Condition Condition     `json:"-" yaml:"-"`
		Then      Branch        `json:"-" yaml:"-"`
		Else      Branch        `json:"-" yaml:"-"`
	}
)

func (n *Sequential) Kind() Kind  { return KindSequential }
func (n *Parallel) Kind() Kind    { return KindParallel }
func (n *Step) Kind() Kind        { return KindStep }
func (n *Conditional) Kind() Kind { return KindConditional }

func (n *Sequential) node()  {}
func (n *Parallel) node()    {}
func (n *Step) node()        {}
func (n *Conditional) node() {}

func (n *Sequential) branch()  {}
func (n *Parallel) branch()    {}
func (n *Step) branch()        {}
func (n *Conditional) branch() {}

// NewSequential creates a sequential node
func NewSequential(children ...Node) *Sequential {
	return &Sequential{Children: children}
}

// NewParallel creates a parallel node
func NewParallel(children ...Node) *Parallel {
	return &Parallel{Children: children}
}

// NewStep creates a step node
func NewStep(task Task) *Step {
	return &Step{Task: task}
}

// NewConditional creates a conditional node without else branch
func NewConditional(condition Condition, then Branch) *Conditional {
	return &Conditional{Condition: condition, Then: then}
}

// WithName sets node name
func (n *Sequential) WithName(name string) *Sequential {
	n.Name = name
	return n
}

// WithParam adds a parameter overlay
func (n *Sequential) WithParam(name string, value interface{}) *Sequential {
	n.Params = withParam(n.Params, name, value)
	return n
}

// Add appends children
func (n *Sequential) Add(children ...Node) *Sequential {
	n.Children = append(n.Children, children...)
	return n
}

// WithName sets node name
func (n *Parallel) WithName(name string) *Parallel {
	n.Name = name
	return n
}

// WithParam adds a parameter overlay
func (n *Parallel) WithParam(name string, value interface{}) *Parallel {
	n.Params = withParam(n.Params, name, value)
	return n
}

// Add appends children
func (n *Parallel) Add(children ...Node) *Parallel {
	n.Children = append(n.Children, children...)
	return n
}

// WithName sets node name
func (n *Step) WithName(name string) *Step {
	n.Name = name
	return n
}

// WithParam adds a parameter overlay
func (n *Step) WithParam(name string, value interface{}) *Step {
	n.Params = withParam(n.Params, name, value)
	return n
}

// WithName sets node name
func (n *Conditional) WithName(name string) *Conditional {
	n.Name = name
	return n
}

// WithParam adds a parameter overlay
func (n *Conditional) WithParam(name string, value interface{}) *Conditional {
	n.Params = withParam(n.Params, name, value)
	return n
}

// WithElse sets else branch
func (n *Conditional) WithElse(branch Branch) *Conditional {
	n.Else = branch
	return n
}

func withParam(params state.Context, name string, value interface{}) state.Context {
	if params == nil {
		params = make(state.Context)
	}
	params[name] = value
	return params
}
