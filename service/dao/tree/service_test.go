package tree_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/fluxtree/extension"
	"github.com/viant/fluxtree/model/graph"
	"github.com/viant/fluxtree/model/state"
	"github.com/viant/fluxtree/model/types"
	"github.com/viant/fluxtree/runtime/interpreter"
	"github.com/viant/fluxtree/service/dao/tree"
)

func newRegistry(t *testing.T) *extension.Registry {
	registry := extension.NewRegistry()
	require.NoError(t, registry.RegisterTask("add", func(ctx context.Context, params state.Context, st state.Handle) error {
		v, _ := state.As[int](st)
		n, _ := params.GetInt("n")
		st.Set(v + n)
		return nil
	}))
	require.NoError(t, registry.RegisterTask("reset", func(ctx context.Context, params state.Context, st state.Handle) error {
		st.Set(0)
		return nil
	}))
	require.NoError(t, registry.RegisterPredicate("even", func(ctx context.Context, params state.Context, st state.Handle) (bool, error) {
		v, _ := state.As[int](st)
		return v%2 == 0, nil
	}))
	return registry
}

const demo = `
name: demo
kind: sequential
params: {n: 1}
children:
  - {kind: step, task: add, params: {n: 5}}
  - kind: parallel
    children:
      - {task: add}
  - kind: conditional
    when: "state > limit"
    params:
      - {name: limit, value: 5}
    then: reset
    else: {kind: step, task: add}
  - when: {predicate: even}
    then:
      kind: step
      task: add
      params: {n: 10}
`

func TestService_DecodeYAML(t *testing.T) {
	srv := tree.New(newRegistry(t))
	root, err := srv.DecodeYAML([]byte(demo))
	require.NoError(t, err)

	sequence, ok := root.(*graph.Sequential)
	require.True(t, ok)
	assert.Equal(t, "demo", sequence.Name)
	assert.Equal(t, state.Context{"n": 1}, sequence.Params)
	require.Len(t, sequence.Children, 4)
	assert.Equal(t, graph.KindStep, sequence.Children[0].Kind())
	assert.Equal(t, graph.KindParallel, sequence.Children[1].Kind())
	conditional, ok := sequence.Children[2].(*graph.Conditional)
	require.True(t, ok)
	assert.Equal(t, state.Context{"limit": 5}, conditional.Params)
	assert.IsType(t, graph.Task(nil), conditional.Then)
	assert.IsType(t, &graph.Step{}, conditional.Else)
	assert.Equal(t, graph.KindConditional, sequence.Children[3].Kind())

	// 0 +5 +1 = 6 > 5 -> reset to 0, even -> +10
	cell := state.NewCell(0)
	require.NoError(t, interpreter.New().Execute(context.Background(), root, nil, cell))
	assert.Equal(t, 10, cell.Get())
}

func TestService_Load(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	URL := "mem://localhost/trees/demo.yaml"
	require.NoError(t, fs.Upload(ctx, URL, 0644, strings.NewReader(demo)))

	srv := tree.New(newRegistry(t), tree.WithFs(fs))
	root, err := srv.Load(ctx, "mem://localhost/trees/demo")
	require.NoError(t, err)
	assert.Equal(t, graph.KindSequential, root.Kind())

	_, err = srv.Load(ctx, "mem://localhost/trees/missing.yaml")
	assert.Error(t, err)
}

func TestService_EnvExpansion(t *testing.T) {
	t.Setenv("FLUXTREE_TASK", "reset")
	srv := tree.New(newRegistry(t))
	root, err := srv.DecodeYAML([]byte("kind: step\nname: ${env.FLUXTREE_UNSET}x\ntask: ${env.FLUXTREE_TASK}\n"))
	require.NoError(t, err)
	step, ok := root.(*graph.Step)
	require.True(t, ok)
	assert.Equal(t, "x", step.Name)
	cell := state.NewCell(3)
	require.NoError(t, interpreter.New().Execute(context.Background(), root, nil, cell))
	assert.Equal(t, 0, cell.Get())
}

func TestService_DecodeYAML_Errors(t *testing.T) {
	var testCases = []struct {
		description string
		yaml        string
		is          error
		contains    string
	}{
		{description: "unknown kind", yaml: "kind: loop", is: types.ErrUnknownNodeKind},
		{description: "nested unknown kind", yaml: "children:\n  - kind: retry\n", is: types.ErrUnknownNodeKind, contains: "root/0"},
		{description: "unknown task", yaml: "kind: step\ntask: fly", is: extension.ErrTaskNotFound},
		{description: "unknown predicate", yaml: "when: {predicate: odd}\nthen: add", is: extension.ErrTaskNotFound},
		{description: "missing then", yaml: "when: true", contains: "no then branch"},
		{description: "missing condition", yaml: "kind: conditional\nthen: add", contains: "no when condition"},
		{description: "invalid expression", yaml: "when: 'state >'\nthen: add", contains: "compile condition"},
		{description: "children not a list", yaml: "children: {a: 1}", contains: "expected children sequence"},
		{description: "scalar document", yaml: "just text", contains: "expected tree mapping"},
		{description: "params without name", yaml: "task: add\nparams:\n  - {value: 1}", contains: "has no name"},
	}
	srv := tree.New(newRegistry(t))
	for _, testCase := range testCases {
		_, err := srv.DecodeYAML([]byte(testCase.yaml))
		require.Error(t, err, testCase.description)
		if testCase.is != nil {
			assert.True(t, errors.Is(err, testCase.is), testCase.description)
		}
		if testCase.contains != "" {
			assert.Contains(t, err.Error(), testCase.contains, testCase.description)
		}
	}
}

func TestService_LiteralCondition(t *testing.T) {
	srv := tree.New(newRegistry(t))
	root, err := srv.DecodeYAML([]byte("when: false\nthen: reset\n"))
	require.NoError(t, err)
	conditional, ok := root.(*graph.Conditional)
	require.True(t, ok)
	assert.Equal(t, graph.Literal(false), conditional.Condition)
	assert.Nil(t, conditional.Else)
}

func TestService_LoadRelative(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	require.NoError(t, fs.Upload(ctx, "mem://localhost/base/reset.yaml", 0644, strings.NewReader("task: reset")))
	srv := tree.New(newRegistry(t), tree.WithFs(fs), tree.WithBaseURL("mem://localhost/base"))
	root, err := srv.Load(ctx, "reset")
	require.NoError(t, err)
	assert.Equal(t, graph.KindStep, root.Kind())
}
