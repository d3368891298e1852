package printer

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/viant/fluxtree/extension"
	"github.com/viant/fluxtree/model/graph"
	"github.com/viant/fluxtree/model/state"
)

const name = "printer"

// Service writes messages or the current state to a writer
type Service struct {
	writer io.Writer
	mux    sync.Mutex
}

// Input represents print parameters
type Input struct {
	// Message is printed when set, the current state otherwise
	Message string `json:"message,omitempty"`
}

// New creates a printer writing to w, nil means standard output
func New(w io.Writer) *Service {
	if w == nil {
		w = os.Stdout
	}
	return &Service{writer: w}
}

// Name returns the service name
func (s *Service) Name() string {
	return name
}

// Methods returns the service methods
func (s *Service) Methods() map[string]graph.Task {
	return map[string]graph.Task{
		"print": extension.TypedTask[Input](s.print),
	}
}

func (s *Service) print(ctx context.Context, input *Input, st state.Handle) error {
	message := input.Message
	if message == "" {
		message = fmt.Sprintf("%v", st.Get())
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	_, err := fmt.Fprintln(s.writer, message)
	return err
}
