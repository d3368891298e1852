package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	testCases := []struct {
		description string
		inherited   Context
		overlay     Context
		expect      Context
	}{
		{
			description: "disjoint keys yield union",
			inherited:   Context{"a": 10},
			overlay:     Context{"b": 1},
			expect:      Context{"a": 10, "b": 1},
		},
		{
			description: "overlay wins on collision",
			inherited:   Context{"a": 10, "b": 1},
			overlay:     Context{"a": 1},
			expect:      Context{"a": 1, "b": 1},
		},
		{
			description: "nested values are replaced, not merged",
			inherited:   Context{"cfg": map[string]interface{}{"x": 1, "y": 2}},
			overlay:     Context{"cfg": map[string]interface{}{"z": 3}},
			expect:      Context{"cfg": map[string]interface{}{"z": 3}},
		},
		{
			description: "nil overlay",
			inherited:   Context{"a": 1},
			expect:      Context{"a": 1},
		},
		{
			description: "nil inherited",
			overlay:     Context{"a": 1},
			expect:      Context{"a": 1},
		},
	}

	for _, testCase := range testCases {
		actual := Merge(testCase.inherited, testCase.overlay)
		assert.EqualValues(t, testCase.expect, actual, testCase.description)
	}
}

func TestMerge_Isolation(t *testing.T) {
	nested := map[string]interface{}{"x": 1}
	inherited := Context{"a": 10}
	overlay := Context{"b": 2, "nested": nested}

	merged := Merge(inherited, overlay)

	overlay["b"] = 100
	overlay["c"] = 3
	nested["x"] = 99
	inherited["a"] = -1

	assert.EqualValues(t, Context{"a": 10, "b": 2, "nested": map[string]interface{}{"x": 1}}, merged)
	assert.EqualValues(t, Context{"a": -1}, inherited)
}

func TestContext_Clone(t *testing.T) {
	original := Context{"list": []interface{}{1, 2}, "map": map[string]interface{}{"k": "v"}}
	clone := original.Clone()
	clone["list"].([]interface{})[0] = 100
	clone["map"].(map[string]interface{})["k"] = "changed"
	clone["new"] = true

	assert.EqualValues(t, Context{"list": []interface{}{1, 2}, "map": map[string]interface{}{"k": "v"}}, original)

	var empty Context
	assert.NotNil(t, empty.Clone())
}

func TestContext_Getters(t *testing.T) {
	params := Context{"name": "fsm", "count": 3, "ratio": float64(2), "flag": true}

	name, ok := params.GetString("name")
	assert.True(t, ok)
	assert.Equal(t, "fsm", name)

	count, ok := params.GetInt("count")
	assert.True(t, ok)
	assert.Equal(t, 3, count)

	ratio, ok := params.GetInt("ratio")
	assert.True(t, ok)
	assert.Equal(t, 2, ratio)

	flag, ok := params.GetBool("flag")
	assert.True(t, ok)
	assert.True(t, flag)

	_, ok = params.GetString("count")
	assert.False(t, ok)
	_, ok = params.Get("missing")
	assert.False(t, ok)
}

func TestContext_Decode(t *testing.T) {
	type limits struct {
		Max  int
		Name string
	}
	params := Context{"limits": map[string]interface{}{"Max": 5, "Name": "cap"}}
	var target limits
	require.NoError(t, params.Decode("limits", &target))
	assert.Equal(t, limits{Max: 5, Name: "cap"}, target)

	assert.Error(t, params.Decode("missing", &target))
}

func TestParameters(t *testing.T) {
	var params Parameters
	params.Add("a", 1)
	params.Add("b", "x")
	params.Add("a", 2)

	value, ok := params.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, 2, value)
	_, ok = params.Lookup("c")
	assert.False(t, ok)
	assert.EqualValues(t, Context{"a": 2, "b": "x"}, params.ToContext())
	assert.Nil(t, Parameters{}.ToContext())

	listed := FromContext(Context{"b": 2, "a": 1})
	require.Len(t, listed, 2)
	assert.Equal(t, "a", listed[0].Name)
	assert.Equal(t, "b", listed[1].Name)
}
