package dao

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	var testCases = []struct {
		description string
		value       string
		parameters  []*Parameter
		expect      bool
	}{
		{description: "unfiltered", value: "x", expect: true},
		{description: "nil parameter", value: "x", parameters: []*Parameter{nil}, expect: true},
		{description: "any of", value: "b", parameters: []*Parameter{NewParameter("K", "a", "b")}, expect: true},
		{description: "none of", value: "c", parameters: []*Parameter{NewParameter("K", "a", "b")}, expect: false},
		{description: "empty values", value: "a", parameters: []*Parameter{NewParameter("K")}, expect: false},
		{description: "every parameter", value: "a", parameters: []*Parameter{NewParameter("K", "a"), NewParameter("K", "b")}, expect: false},
		{description: "other name", value: "a", parameters: []*Parameter{NewParameter("Other", "b")}, expect: true},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, Match("K", testCase.value, testCase.parameters), testCase.description)
	}
}
