package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors(t *testing.T) {
	cause := errors.New("boom")

	taskErr := NewTaskError("root/step", cause)
	assert.ErrorIs(t, taskErr, ErrTaskFailed)
	assert.ErrorIs(t, taskErr, cause)
	assert.NotErrorIs(t, taskErr, ErrConditionFailed)
	assert.Equal(t, "task root/step failed: boom", taskErr.Error())

	conditionErr := fmt.Errorf("run: %w", NewConditionError("root/if", cause))
	assert.ErrorIs(t, conditionErr, ErrConditionFailed)
	assert.ErrorIs(t, conditionErr, cause)
	var actual *ConditionError
	assert.True(t, errors.As(conditionErr, &actual))
	assert.Equal(t, "root/if", actual.Path)

	kindErr := NewUnknownKindError("root[2]", "loop")
	assert.ErrorIs(t, kindErr, ErrUnknownNodeKind)
	assert.Equal(t, "unsupported process type(loop) at root[2]", kindErr.Error())
	assert.Equal(t, "unsupported process type(loop)", NewUnknownKindError("", "loop").Error())
}
