package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("FOO", "bar")
	t.Setenv("A", "1")
	t.Setenv("B", "2")
	var testCases = []struct {
		description string
		input       string
		expect      string
	}{
		{description: "no expressions", input: "just a plain string", expect: "just a plain string"},
		{description: "single expression", input: "value is ${env.FOO}", expect: "value is bar"},
		{description: "multiple expressions", input: "${env.A}-${env.B}-${env.A}", expect: "1-2-1"},
		{description: "unset variable", input: "unset=${env.FLUXTREE_NOT_SET}-end", expect: "unset=-end"},
		{description: "missing closing brace", input: "start ${env.FOO and", expect: "start ${env.FOO and"},
		{description: "empty key", input: "oops ${env.} done", expect: "oops  done"},
		{description: "other expression", input: "${state.value}", expect: "${state.value}"},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, expandEnv(testCase.input), testCase.description)
	}
}
