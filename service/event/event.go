package event

import (
	"time"

	"github.com/viant/fluxtree/internal/clock"
)

// Event types emitted by the interpreter
const (
	TypeStarted   = "started"
	TypeCompleted = "completed"
	TypeFailed    = "failed"
	TypeSkipped   = "skipped"
)

// Context identifies the node an event originates from
type Context struct {
	RunID       string `json:"runID"`
	NodePath    string `json:"nodePath"`
	NodeKind    string `json:"nodeKind"`
	EventType   string `json:"eventType"`
	TimeTakenMs int    `json:"timeTakenMs,omitempty"`
}

// Clone returns a shallow copy of the context
func (c *Context) Clone() *Context {
	if c == nil {
		return &Context{}
	}
	ret := *c
	return &ret
}

type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata"`
	Data      T                      `json:"data"`
}

func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: clock.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}
