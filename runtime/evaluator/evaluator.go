// Package evaluator turns boolean expressions into graph predicates.
//
// An expression sees the merged node parameters both as top level variables
// and under "params", and a copy of the current state value under "state":
//
//	state > 10 && params.mode == "fast"
package evaluator

import (
	"context"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/viant/fluxtree/model/graph"
	"github.com/viant/fluxtree/model/state"
)

const (
	paramsKey = "params"
	stateKey  = "state"
)

// Expression is a compiled boolean expression
type Expression struct {
	source  string
	program *vm.Program
}

func (e *Expression) String() string {
	return e.source
}

// Eval evaluates the expression against params and a state value
func (e *Expression) Eval(params state.Context, value interface{}) (bool, error) {
	output, err := expr.Run(e.program, env(params, value))
	if err != nil {
		return false, fmt.Errorf("eval condition %q: %w", e.source, err)
	}
	result, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("condition %q did not return bool (got %T: %v)", e.source, output, output)
	}
	return result, nil
}

// Predicate adapts the expression to a condition reading the state handle
func (e *Expression) Predicate() graph.Predicate {
	return func(ctx context.Context, params state.Context, st state.Handle) (bool, error) {
		return e.Eval(params, st.Get())
	}
}

// Compile compiles source, variable types are resolved when evaluated
func Compile(source string) (*Expression, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("condition expression was empty")
	}
	program, err := expr.Compile(source, expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile condition %q: %w", source, err)
	}
	return &Expression{source: source, program: program}, nil
}

// Predicate compiles source into a predicate
func Predicate(source string) (graph.Predicate, error) {
	expression, err := Compile(source)
	if err != nil {
		return nil, err
	}
	return expression.Predicate(), nil
}

func env(params state.Context, value interface{}) map[string]interface{} {
	ret := make(map[string]interface{}, len(params)+2)
	for k, v := range params {
		ret[k] = v
	}
	ret[paramsKey] = map[string]interface{}(params)
	ret[stateKey] = value
	return ret
}
