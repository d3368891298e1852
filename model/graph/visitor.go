package graph

import (
	"fmt"

	"github.com/viant/fluxtree/model/types"
)

// Visitor handles every node kind. Visit is the only place that switches on
// node types, so a new kind means a new method here and a compile error in
// every visitor until it is handled.
type Visitor interface {
	VisitSequential(node *Sequential) error
	VisitParallel(node *Parallel) error
	VisitStep(node *Step) error
	VisitConditional(node *Conditional) error
}

// Visit dispatches node to the matching visitor method
func Visit(node Node, visitor Visitor) error {
	switch actual := node.(type) {
	case *Sequential:
		if actual != nil {
			return visitor.VisitSequential(actual)
		}
	case *Parallel:
		if actual != nil {
			return visitor.VisitParallel(actual)
		}
	case *Step:
		if actual != nil {
			return visitor.VisitStep(actual)
		}
	case *Conditional:
		if actual != nil {
			return visitor.VisitConditional(actual)
		}
	}
	return types.NewUnknownKindError("", kindName(node))
}

func kindName(node Node) string {
	if node == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", node)
}
