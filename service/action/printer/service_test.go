package printer_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/fluxtree/model/state"
	"github.com/viant/fluxtree/service/action/printer"
)

func TestService_Print(t *testing.T) {
	testCases := []struct {
		description string
		params      state.Context
		state       interface{}
		expect      string
	}{
		{description: "message", params: state.Context{"message": "hello"}, state: 1, expect: "hello\n"},
		{description: "state", state: map[string]int{"a": 1}, expect: "map[a:1]\n"},
		{description: "nil state", expect: "<nil>\n"},
	}
	for _, testCase := range testCases {
		buffer := new(bytes.Buffer)
		task := printer.New(buffer).Methods()["print"]
		cell := state.NewCell(testCase.state)
		require.NoError(t, task(context.Background(), testCase.params, cell), testCase.description)
		assert.Equal(t, testCase.expect, buffer.String(), testCase.description)
		assert.Equal(t, testCase.state, cell.Get(), testCase.description)
	}
}
