package evaluator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/fluxtree/model/state"
	"github.com/viant/fluxtree/runtime/evaluator"
)

func TestExpression_Eval(t *testing.T) {
	var testCases = []struct {
		description string
		source      string
		params      state.Context
		state       interface{}
		expect      bool
		expectErr   bool
	}{
		{description: "state comparison", source: "state > 10", state: 12, expect: true},
		{description: "state comparison false", source: "state > 10", state: 3, expect: false},
		{description: "params namespace", source: `params.mode == "fast"`, params: state.Context{"mode": "fast"}, expect: true},
		{description: "top level param", source: "limit <= state", params: state.Context{"limit": 5}, state: 5, expect: true},
		{description: "map state", source: `state.status == "done"`, state: map[string]interface{}{"status": "done"}, expect: true},
		{description: "combined", source: "state > limit && !params.disabled", params: state.Context{"limit": 1, "disabled": false}, state: 2, expect: true},
		{description: "type mismatch", source: "state > 10", state: "text", expectErr: true},
	}
	for _, testCase := range testCases {
		expression, err := evaluator.Compile(testCase.source)
		require.NoError(t, err, testCase.description)
		actual, err := expression.Eval(testCase.params, testCase.state)
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		if !assert.NoError(t, err, testCase.description) {
			continue
		}
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

func TestCompile_Invalid(t *testing.T) {
	_, err := evaluator.Compile("")
	assert.Error(t, err)
	_, err = evaluator.Compile("state >")
	assert.Error(t, err)
	_, err = evaluator.Compile(`"text"`)
	assert.Error(t, err)
}

func TestPredicate(t *testing.T) {
	predicate, err := evaluator.Predicate("state >= threshold")
	require.NoError(t, err)
	cell := state.NewCell(20)
	ok, err := predicate(context.Background(), state.Context{"threshold": 20}, cell)
	require.NoError(t, err)
	assert.True(t, ok)
	cell.Set(19)
	ok, err = predicate(context.Background(), state.Context{"threshold": 20}, cell)
	require.NoError(t, err)
	assert.False(t, ok)
}
