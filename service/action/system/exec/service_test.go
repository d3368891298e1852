package exec_test

import (
	"context"
	osexec "os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/fluxtree/model/state"
	"github.com/viant/fluxtree/service/action/system/exec"
	"github.com/viant/fluxtree/service/event"
)

func requireShell(t *testing.T) {
	if _, err := osexec.LookPath("bash"); err != nil {
		t.Skip("bash is not available")
	}
}

func TestService_Execute(t *testing.T) {
	requireShell(t)
	srv := exec.New()
	defer srv.Close(context.Background())

	var outputs []*exec.Output
	ctx := event.WithSink(context.Background(), event.SinkFunc(func(ctx context.Context, e *event.Event[any]) error {
		outputs = append(outputs, e.Data.(*exec.Output))
		return nil
	}))
	task := srv.Methods()["execute"]
	require.NotNil(t, task)

	cell := state.NewCell(nil)
	params := state.Context{
		"commands": []interface{}{"echo $GREETING", "echo done"},
		"env":      map[string]interface{}{"GREETING": "hello"},
		"assign":   true,
	}
	require.NoError(t, task(ctx, params, cell))
	assert.Equal(t, "hello\ndone", cell.Get())
	require.Len(t, outputs, 1)
	assert.Len(t, outputs[0].Commands, 2)
	assert.Equal(t, 0, outputs[0].Status)
}

func TestService_AbortOnError(t *testing.T) {
	requireShell(t)
	srv := exec.New()
	defer srv.Close(context.Background())
	ctx := context.Background()

	output, err := srv.Execute(ctx, &exec.Input{Commands: []string{"exit_code_test() { return 3; }; exit_code_test", "echo never"}})
	require.NoError(t, err)
	assert.NotEqual(t, 0, output.Status)
	assert.Len(t, output.Commands, 1)

	cell := state.NewCell("kept")
	err = srv.Methods()["execute"](ctx, state.Context{"commands": []interface{}{"ls /definitely/missing/dir"}, "assign": true}, cell)
	assert.Error(t, err)
	assert.Equal(t, "kept", cell.Get())

	continueOnError := false
	output, err = srv.Execute(ctx, &exec.Input{Commands: []string{"ls /definitely/missing/dir", "echo after"}, AbortOnError: &continueOnError})
	require.NoError(t, err)
	assert.Len(t, output.Commands, 2)
	assert.Equal(t, "after", output.Stdout)
}

func TestService_MissingWorkdir(t *testing.T) {
	requireShell(t)
	srv := exec.New()
	defer srv.Close(context.Background())

	_, err := srv.Execute(context.Background(), &exec.Input{Workdir: "/definitely/missing/dir", Commands: []string{"pwd"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to change directory to /definitely/missing/dir")
	assert.NotContains(t, err.Error(), "<nil>")
}
