package policy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy_IsAllowed(t *testing.T) {
	testCases := []struct {
		description string
		policy      *Policy
		path        string
		expect      bool
	}{
		{description: "nil policy", path: "root/a", expect: true},
		{description: "empty lists", policy: &Policy{}, path: "root/a", expect: true},
		{description: "blocked", policy: &Policy{BlockList: []string{"root/a"}}, path: "root/a", expect: false},
		{description: "blocked case-insensitive", policy: &Policy{BlockList: []string{"ROOT/A"}}, path: "root/a", expect: false},
		{description: "blocked pattern", policy: &Policy{BlockList: []string{"root/parallel[[]0]/*"}}, path: "root/parallel[0]/step[1]", expect: false},
		{description: "allow list hit", policy: &Policy{AllowList: []string{"root/*"}}, path: "root/a", expect: true},
		{description: "allow list miss", policy: &Policy{AllowList: []string{"root/b"}}, path: "root/a", expect: false},
		{description: "block wins", policy: &Policy{AllowList: []string{"root/*"}, BlockList: []string{"root/a"}}, path: "root/a", expect: false},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, testCase.policy.IsAllowed(testCase.path), testCase.description)
	}
}

func TestPolicy_Check(t *testing.T) {
	ctx := context.Background()
	var nilPolicy *Policy
	assert.NoError(t, nilPolicy.Check(ctx, "root/a", nil))
	assert.NoError(t, (&Policy{Mode: ModeAuto}).Check(ctx, "root/a", nil))

	err := (&Policy{Mode: ModeDeny}).Check(ctx, "root/a", nil)
	assert.True(t, errors.Is(err, ErrDenied))

	err = (&Policy{Mode: ModeAsk}).Check(ctx, "root/a", nil)
	assert.True(t, errors.Is(err, ErrDenied), "ask without AskFunc denies")

	var asked []string
	p := &Policy{Mode: ModeAsk, Ask: func(ctx context.Context, stepPath string, params map[string]interface{}, p *Policy) bool {
		asked = append(asked, stepPath)
		p.Mode = ModeAuto
		return params["ok"] == true
	}}
	require.NoError(t, p.Check(ctx, "root/a", map[string]interface{}{"ok": true}))
	require.NoError(t, p.Check(ctx, "root/b", nil))
	assert.Equal(t, []string{"root/a"}, asked)
}

func TestConfig(t *testing.T) {
	cfg := &Config{Mode: "deny", AllowList: []string{"root/*"}, BlockList: []string{"root/x"}}
	require.NoError(t, cfg.Validate())
	p := FromConfig(cfg)
	assert.Equal(t, &Policy{Mode: "deny", AllowList: []string{"root/*"}, BlockList: []string{"root/x"}}, p)
	assert.Nil(t, FromConfig(nil))

	assert.Error(t, (&Config{Mode: "sometimes"}).Validate())
	assert.Error(t, (&Config{BlockList: []string{"root/["}}).Validate())
}

func TestContext(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))
	p := &Policy{Mode: ModeDeny}
	assert.Same(t, p, FromContext(WithPolicy(context.Background(), p)))
}
