package run

import (
	"time"

	"github.com/viant/fluxtree/model/state"
	"github.com/viant/fluxtree/progress"
)

// Status of a finished run
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Record summarises one engine run
type Record struct {
	ID          string            `json:"id"`
	Tree        string            `json:"tree,omitempty"`
	Status      Status            `json:"status"`
	Params      state.Context     `json:"params,omitempty"`
	State       interface{}       `json:"state,omitempty"`
	Error       string            `json:"error,omitempty"`
	StartedAt   time.Time         `json:"startedAt"`
	CompletedAt time.Time         `json:"completedAt"`
	Counters    progress.Counters `json:"counters"`
}

// Duration returns the wall time of the run
func (r *Record) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}
