package policy

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// Execution modes
const (
	ModeAsk  = "ask"  // ask before every step
	ModeAuto = "auto" // execute automatically (default)
	ModeDeny = "deny" // block every step
)

// ErrDenied is returned when a policy rejects a step
var ErrDenied = errors.New("denied by policy")

// AskFunc is invoked when Mode is ask, returning true approves the step.
// Implementations may mutate the policy, for example switching to ModeAuto.
type AskFunc func(ctx context.Context, stepPath string, params map[string]interface{}, p *Policy) bool

// Policy represents approval settings applied to step tasks.
//
// AllowList and BlockList entries are case-insensitive node paths, shell
// patterns accepted by path.Match are supported. BlockList has priority.
type Policy struct {
	Mode      string
	AllowList []string
	BlockList []string
	Ask       AskFunc
}

// Config represents the serialisable part of a Policy
type Config struct {
	Mode      string   `json:"mode,omitempty" yaml:"mode,omitempty"`
	AllowList []string `json:"allow,omitempty" yaml:"allow,omitempty"`
	BlockList []string `json:"block,omitempty" yaml:"block,omitempty"`
}

// Validate checks the mode and patterns
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	switch strings.ToLower(c.Mode) {
	case "", ModeAuto, ModeAsk, ModeDeny:
	default:
		return fmt.Errorf("invalid policy mode: %q", c.Mode)
	}
	for _, pattern := range append(append([]string{}, c.AllowList...), c.BlockList...) {
		if _, err := path.Match(pattern, ""); err != nil {
			return fmt.Errorf("invalid policy pattern %q: %w", pattern, err)
		}
	}
	return nil
}

// FromConfig converts a Config to a runtime Policy without an AskFunc
func FromConfig(c *Config) *Policy {
	if c == nil {
		return nil
	}
	return &Policy{
		Mode:      c.Mode,
		AllowList: append([]string(nil), c.AllowList...),
		BlockList: append([]string(nil), c.BlockList...),
	}
}

// IsAllowed evaluates AllowList and BlockList for stepPath
func (p *Policy) IsAllowed(stepPath string) bool {
	if p == nil {
		return true
	}
	normalized := strings.ToLower(stepPath)
	for _, b := range p.BlockList {
		if matches(b, normalized) {
			return false
		}
	}
	if len(p.AllowList) == 0 {
		return true
	}
	for _, a := range p.AllowList {
		if matches(a, normalized) {
			return true
		}
	}
	return false
}

// Check returns nil when the step may run, otherwise an error wrapping ErrDenied
func (p *Policy) Check(ctx context.Context, stepPath string, params map[string]interface{}) error {
	if p == nil {
		return nil
	}
	if !p.IsAllowed(stepPath) {
		return fmt.Errorf("%w: %v is not allowed", ErrDenied, stepPath)
	}
	switch strings.ToLower(p.Mode) {
	case ModeDeny:
		return fmt.Errorf("%w: mode %v", ErrDenied, ModeDeny)
	case ModeAsk:
		if p.Ask == nil || !p.Ask(ctx, stepPath, params, p) {
			return fmt.Errorf("%w: %v was not approved", ErrDenied, stepPath)
		}
	}
	return nil
}

func matches(pattern, normalized string) bool {
	pattern = strings.ToLower(pattern)
	if pattern == normalized {
		return true
	}
	ok, _ := path.Match(pattern, normalized)
	return ok
}

type ctxKeyT struct{}

var ctxKey ctxKeyT

// WithPolicy embeds policy in ctx
func WithPolicy(ctx context.Context, p *Policy) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey, p)
}

// FromContext returns the policy embedded in ctx or nil
func FromContext(ctx context.Context) *Policy {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxKey).(*Policy); ok {
		return v
	}
	return nil
}
