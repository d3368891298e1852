package yml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_Interface(t *testing.T) {
	node, err := Parse([]byte(`
name: demo
Count: 3
ratio: 0.5
hex: 0x10
enabled: true
missing: ~
items: [a, 2]
nested: {x: 1}
`))
	require.NoError(t, err)
	root := node.Root()
	assert.Equal(t, map[string]interface{}{
		"name":    "demo",
		"Count":   3,
		"ratio":   0.5,
		"hex":     16,
		"enabled": true,
		"missing": nil,
		"items":   []interface{}{"a", 2},
		"nested":  map[string]interface{}{"x": 1},
	}, root.Interface())

	assert.Equal(t, "3", root.Lookup("count").Value)
	assert.Nil(t, root.Lookup("unknown"))

	var keys []string
	require.NoError(t, root.Pairs(func(key string, _ *Node) error {
		keys = append(keys, key)
		return nil
	}))
	assert.Equal(t, []string{"name", "Count", "ratio", "hex", "enabled", "missing", "items", "nested"}, keys)

	var items []interface{}
	require.NoError(t, root.Lookup("items").Items(func(_ int, item *Node) error {
		items = append(items, item.Interface())
		return nil
	}))
	assert.Equal(t, []interface{}{"a", 2}, items)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("a: [1"))
	assert.Error(t, err)
}
