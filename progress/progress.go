package progress

import (
	"context"
	"sync"
	"time"

	"github.com/viant/fluxtree/internal/clock"
)

// Delta represents an incremental counter change emitted by the interpreter.
// The fields are signed and therefore can be either positive or negative.
type Delta struct {
	Total     int
	Completed int
	Skipped   int
	Failed    int
	Running   int
}

// Counters holds aggregated node counters
type Counters struct {
	TotalNodes     int
	CompletedNodes int
	SkippedNodes   int
	FailedNodes    int
	RunningNodes   int
}

// Snapshot is a read-only copy of a tracker
type Snapshot struct {
	RunID     string
	Tree      string
	StartedAt time.Time
	Counters
}

// Progress keeps aggregated node counters for one run. It is safe for concurrent use.
type Progress struct {
	snapshot Snapshot
	mu       sync.Mutex
	onChange func(Snapshot)
}

// Update applies the supplied delta to the tracker. The onChange callback, if any,
// is invoked with a copy of the updated counters outside the critical section.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}

	p.mu.Lock()
	c := &p.snapshot.Counters
	c.TotalNodes += d.Total
	c.CompletedNodes += d.Completed
	c.SkippedNodes += d.Skipped
	c.FailedNodes += d.Failed
	c.RunningNodes += d.Running
	snapshot := p.snapshot
	cb := p.onChange
	p.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the tracker suitable for read-only inspection.
func (p *Progress) Snapshot() Snapshot {
	if p == nil {
		return Snapshot{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithNewTracker creates a new tracker, embeds it in a derived context and returns both.
func WithNewTracker(ctx context.Context, runID, tree string, onChange func(Snapshot)) (context.Context, *Progress) {
	if ctx == nil {
		ctx = context.Background()
	}
	tr := &Progress{
		snapshot: Snapshot{
			RunID:     runID,
			Tree:      tree,
			StartedAt: clock.Now(),
		},
		onChange: onChange,
	}
	return context.WithValue(ctx, trackerKey, tr), tr
}

// FromContext extracts the tracker from ctx.
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Progress)
	return tr, ok
}

// UpdateCtx looks up the tracker in ctx (if any) and applies the supplied delta.
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}
