package graph

import (
	"fmt"
	"strconv"

	"github.com/viant/fluxtree/model/types"
)

// Validate performs a best-effort structural validation of the tree. The
// returned slice is empty when the tree is sound. No task or condition is invoked.
func Validate(root Node) []error {
	v := &validator{path: "root"}
	v.visit(root, v.path)
	return v.issues
}

type validator struct {
	path   string
	issues []error
}

func (v *validator) visit(node Node, path string) {
	parent := v.path
	v.path = path
	if err := Visit(node, v); err != nil {
		v.issues = append(v.issues, fmt.Errorf("%v: %w", path, err))
	}
	v.path = parent
}

func (v *validator) children(children []Node) {
	parent := v.path
	for i, child := range children {
		v.visit(child, parent+"/"+strconv.Itoa(i))
	}
}

func (v *validator) issue(format string, args ...interface{}) {
	v.issues = append(v.issues, fmt.Errorf("%v: "+format, append([]interface{}{v.path}, args...)...))
}

func (v *validator) VisitSequential(node *Sequential) error {
	v.children(node.Children)
	return nil
}

func (v *validator) VisitParallel(node *Parallel) error {
	v.children(node.Children)
	return nil
}

func (v *validator) VisitStep(node *Step) error {
	if node.Task == nil {
		v.issue("step has no task")
	}
	return nil
}

func (v *validator) VisitConditional(node *Conditional) error {
	if node.Condition == nil {
		v.issue("conditional has no condition")
	}
	if node.Then == nil {
		v.issue("conditional has no then branch")
	}
	v.branch(node.Then, v.path+"/then")
	v.branch(node.Else, v.path+"/else")
	return nil
}

func (v *validator) branch(branch Branch, path string) {
	switch actual := branch.(type) {
	case nil:
	case Task:
		if actual == nil {
			v.issues = append(v.issues, fmt.Errorf("%v: branch task was nil", path))
		}
	case Node:
		v.visit(actual, path)
	default:
		v.issues = append(v.issues, fmt.Errorf("%v: %w", path, types.NewUnknownKindError("", fmt.Sprintf("%T", branch))))
	}
}
