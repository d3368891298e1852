package exec

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/viant/fluxtree/extension"
	"github.com/viant/fluxtree/model/graph"
	"github.com/viant/fluxtree/model/state"
	"github.com/viant/fluxtree/service/event"
	"github.com/viant/gosh"
	"github.com/viant/gosh/runner"
	"github.com/viant/gosh/runner/local"
)

const name = "system/exec"

// EventExecuted is emitted with the Output of every execution
const EventExecuted = "executed"

// Service executes shell commands on the local host, sessions are reused per environment
type Service struct {
	sessions map[string]*shell
	mux      sync.Mutex
}

// shell serializes commands sent to a gosh session
type shell struct {
	*gosh.Service
	mux sync.Mutex
}

// New creates a Service
func New() *Service {
	return &Service{sessions: make(map[string]*shell)}
}

// Name returns the service name
func (s *Service) Name() string {
	return name
}

// Methods returns the service methods
func (s *Service) Methods() map[string]graph.Task {
	return map[string]graph.Task{
		"execute": extension.TypedTask[Input](s.execute),
	}
}

func (s *Service) execute(ctx context.Context, input *Input, st state.Handle) error {
	output, err := s.Execute(ctx, input)
	if err != nil {
		return err
	}
	if err = event.Emit(ctx, EventExecuted, output); err != nil {
		return err
	}
	if input.abortOnError() && output.Status != 0 {
		return fmt.Errorf("command exited with status %v: %v", output.Status, output.Stderr)
	}
	if input.Assign {
		st.Set(output.Stdout)
	}
	return nil
}

// Execute runs input commands one by one and collects their output
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	session, err := s.acquire(ctx, input.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	session.mux.Lock()
	defer session.mux.Unlock()
	if input.Workdir != "" {
		stdout, status, err := session.Run(ctx, "cd "+input.Workdir)
		if err != nil {
			return nil, fmt.Errorf("failed to change directory to %v: %w", input.Workdir, err)
		}
		if status != 0 {
			return nil, fmt.Errorf("failed to change directory to %v: status %v: %v", input.Workdir, status, strings.TrimSpace(stdout))
		}
	}
	timeout := time.Duration(input.TimeoutMs) * time.Millisecond
	if timeout == 0 {
		timeout = time.Minute
	}
	output := &Output{Commands: make([]*Command, 0, len(input.Commands))}
	var stdout, stderr strings.Builder
	for _, cmd := range input.Commands {
		command := s.run(ctx, session, cmd, timeout)
		output.Commands = append(output.Commands, command)
		if command.Output != "" {
			stdout.WriteString(command.Output)
			stdout.WriteString("\n")
		}
		if command.Stderr != "" {
			stderr.WriteString(command.Stderr)
			stderr.WriteString("\n")
		}
		output.Status = command.Status
		if input.abortOnError() && command.Status != 0 {
			break
		}
	}
	output.Stdout = strings.TrimSpace(stdout.String())
	output.Stderr = strings.TrimSpace(stderr.String())
	return output, nil
}

func (s *Service) run(ctx context.Context, session *shell, cmd string, timeout time.Duration) *Command {
	started := time.Now()
	stdout, status, err := session.Run(ctx, cmd, runner.WithTimeout(int(timeout.Milliseconds())))
	if elapsed := time.Since(started); elapsed > timeout && err == nil {
		err = fmt.Errorf("command %v timed out after: %s", cmd, elapsed)
	}
	ret := &Command{Input: cmd, Status: status}
	if status == 0 && err == nil {
		ret.Output = strings.TrimSpace(stdout)
		return ret
	}
	if stdout == "" && err != nil {
		stdout = err.Error()
	}
	if ret.Status == 0 {
		ret.Status = -1
	}
	ret.Stderr = strings.TrimSpace(stdout)
	return ret
}

func (s *Service) acquire(ctx context.Context, env map[string]string) (*shell, error) {
	key := sessionKey(env)
	s.mux.Lock()
	defer s.mux.Unlock()
	if ret, ok := s.sessions[key]; ok {
		return ret, nil
	}
	var options []runner.Option
	if len(env) > 0 {
		options = append(options, runner.WithEnvironment(env))
	}
	service, err := gosh.New(ctx, local.New(options...))
	if err != nil {
		return nil, err
	}
	ret := &shell{Service: service}
	s.sessions[key] = ret
	return ret, nil
}

func sessionKey(env map[string]string) string {
	pairs := make([]string, 0, len(env))
	for k, v := range env {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "\x00")
}

// Close releases all sessions
func (s *Service) Close(ctx context.Context) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	var errs []string
	for id, session := range s.sessions {
		if err := session.Close(); err != nil {
			errs = append(errs, fmt.Sprintf("failed to close session %q: %v", id, err))
		}
	}
	s.sessions = make(map[string]*shell)
	if len(errs) > 0 {
		return fmt.Errorf("errors closing sessions: %s", strings.Join(errs, "; "))
	}
	return nil
}
