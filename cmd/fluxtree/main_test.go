package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/fluxtree/model/state"
)

func execute(t *testing.T, args ...string) (string, error) {
	cmd := newRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, location, content string) {
	require.NoError(t, os.WriteFile(location, []byte(content), 0o644))
}

func TestRunCmd(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "input.json"), `{"count": 2}`)
	writeFile(t, filepath.Join(dir, "big.json"), `{"size": "big"}`)
	treePath := filepath.Join(dir, "tree.yaml")
	writeFile(t, treePath, fmt.Sprintf(`
kind: sequential
children:
  - task: system/storage.download
    params:
      url: %v
  - when: state.count > limit
    then:
      task: system/storage.download
      params:
        url: %v
`, filepath.Join(dir, "input.json"), filepath.Join(dir, "big.json")))

	out, err := execute(t, "run", treePath, "--param", "limit=1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"size": "big"}`, out)

	out, err = execute(t, "run", treePath, "-p", "limit=5")
	require.NoError(t, err)
	assert.JSONEq(t, `{"count": 2}`, out)

	_, err = execute(t, "run", treePath, "--param", "limit")
	assert.Error(t, err)
	_, err = execute(t, "run", filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	out, err = execute(t, "validate", treePath)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")
}

func TestRunCmd_Config(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "trees.yaml"), "when: state > 1\nthen: nop\n")
	configPath := filepath.Join(dir, "config.yaml")
	writeFile(t, configPath, fmt.Sprintf("state: 7\ntrees:\n  baseURL: %v\nruns:\n  url: %v\n", dir, filepath.Join(dir, "runs")))

	out, err := execute(t, "run", "trees", "--config", configPath)
	require.NoError(t, err)
	assert.JSONEq(t, `7`, out)

	out, err = execute(t, "run", "trees", "--config", configPath, "--state", "0")
	require.NoError(t, err)
	assert.JSONEq(t, `0`, out)

	out, err = execute(t, "runs", "ls", "--config", configPath, "--status", "completed")
	require.NoError(t, err)
	assert.Contains(t, out, "completed")

	_, err = execute(t, "runs", "ls")
	assert.ErrorIs(t, err, errNoHistory)
}

func TestTasksCmd(t *testing.T) {
	out, err := execute(t, "tasks")
	require.NoError(t, err)
	assert.Contains(t, out, "system/exec.execute")
	assert.Contains(t, out, "nop\n")
}

func TestParseParams(t *testing.T) {
	cmd := newRunCmd()
	require.NoError(t, cmd.ParseFlags([]string{"-p", "a=1", "-p", "b=text", "-p", "c=true", "-p", "d=x=y"}))
	params, err := parseParams(cmd)
	require.NoError(t, err)
	assert.Equal(t, state.Context{"a": 1, "b": "text", "c": true, "d": "x=y"}, params)
}
