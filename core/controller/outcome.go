package controller

import (
	"context"
	"sync"
	"time"

	"github.com/kilianp07/sessionplan/core/model"
)

// Outcome is the terminal record of a run.
type Outcome struct {
	RequestID  string
	Variant    model.Variant
	State      model.State
	Candidates []model.Candidate
	DateSets   int
	Steps      int
	Limit      int
	Aborted    bool
	Cancelled  bool
	// Err is set for failed runs only.
	Err      error
	Started  time.Time
	Duration time.Duration
}

type run struct {
	id      string
	variant model.Variant
	cancel  context.CancelFunc
	done    chan struct{}

	mu      sync.Mutex
	state   model.State
	outcome Outcome
}

func (r *run) State() model.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Handle observes one started run.
type Handle struct {
	c *Controller
	r *run
}

// ID returns the request id of the run.
func (h *Handle) ID() string { return h.r.id }

// State returns the current state of the run.
func (h *Handle) State() model.State { return h.r.State() }

// Done is closed once the run reached a terminal state and its terminal event
// was handed to the bus.
func (h *Handle) Done() <-chan struct{} { return h.r.done }

// Cancel cancels the run if it is still the active one.
func (h *Handle) Cancel() bool { return h.c.Cancel(h.r.id) }

// Wait blocks until the run terminates or ctx is done.
func (h *Handle) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-h.r.done:
		h.r.mu.Lock()
		defer h.r.mu.Unlock()
		return h.r.outcome, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}
