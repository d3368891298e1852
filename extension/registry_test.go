package extension_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/fluxtree/extension"
	"github.com/viant/fluxtree/model/state"
)

func TestRegistry(t *testing.T) {
	registry := extension.NewRegistry()
	noop := func(ctx context.Context, params state.Context, st state.Handle) error { return nil }
	require.NoError(t, registry.RegisterTask("b", noop))
	require.NoError(t, registry.RegisterTask("a", noop))
	assert.ErrorIs(t, registry.RegisterTask("", noop), extension.ErrInvalidName)
	assert.ErrorIs(t, registry.RegisterTask("c", nil), extension.ErrInvalidName)

	task, err := registry.LookupTask("a")
	require.NoError(t, err)
	assert.NotNil(t, task)
	_, err = registry.LookupTask("missing")
	assert.ErrorIs(t, err, extension.ErrTaskNotFound)
	assert.Equal(t, []string{"a", "b"}, registry.Tasks())

	require.NoError(t, registry.RegisterPredicate("positive", func(ctx context.Context, params state.Context, st state.Handle) (bool, error) {
		v, _ := state.As[int](st)
		return v > 0, nil
	}))
	predicate, err := registry.LookupPredicate("positive")
	require.NoError(t, err)
	ok, err := predicate(context.Background(), nil, state.NewCell(3))
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = registry.LookupPredicate("negative")
	assert.ErrorIs(t, err, extension.ErrTaskNotFound)
}

type scaleInput struct {
	Factor int
	Label  string
}

func TestTypedTask(t *testing.T) {
	var received *scaleInput
	task := extension.TypedTask(func(ctx context.Context, input *scaleInput, st state.Handle) error {
		received = input
		v, _ := state.As[int](st)
		st.Set(v * input.Factor)
		return nil
	})
	cell := state.NewCell(3)
	require.NoError(t, task(context.Background(), state.Context{"Factor": 4, "Label": "x", "other": true}, cell))
	assert.Equal(t, &scaleInput{Factor: 4, Label: "x"}, received)
	assert.Equal(t, 12, cell.Get())
}
