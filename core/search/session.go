package search

import (
	"context"

	"github.com/kilianp07/sessionplan/core/model"
)

// DefaultProgressInterval is the number of steps between two progress
// reports when none is configured.
const DefaultProgressInterval = 1000

// Progress is a snapshot handed to the progress sink.
type Progress struct {
	Steps        int
	Limit        int
	DateSetCount int
}

// ProgressFunc receives progress snapshots from the search loop. It must not
// block.
type ProgressFunc func(Progress)

// Session is the per-request execution context threaded through every
// search call. It owns the step budget, observes cancellation of ctx and
// forwards progress. A Session is not safe for concurrent use.
type Session struct {
	ctx      context.Context
	limit    int
	steps    int
	found    int
	interval int
	progress ProgressFunc

	aborted   bool
	cancelled bool
}

// Option configures a Session.
type Option func(*Session)

// WithProgress installs a progress sink called every interval steps.
func WithProgress(interval int, fn ProgressFunc) Option {
	return func(s *Session) {
		if interval > 0 {
			s.interval = interval
		}
		s.progress = fn
	}
}

// NewSession creates a session with the given step ceiling. A non-positive
// limit falls back to model.DefaultStepLimit.
func NewSession(ctx context.Context, limit int, opts ...Option) *Session {
	if ctx == nil {
		ctx = context.Background()
	}
	if limit <= 0 {
		limit = model.DefaultStepLimit
	}
	s := &Session{ctx: ctx, limit: limit, interval: DefaultProgressInterval}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Step consumes one unit of budget. It returns false once the budget is
// exhausted or the session was cancelled; the caller must stop exploring.
func (s *Session) Step() bool {
	if s.aborted || s.Cancelled() {
		return false
	}
	s.steps++
	if s.steps > s.limit {
		s.aborted = true
		return false
	}
	if s.progress != nil && s.steps%s.interval == 0 {
		s.progress(s.Snapshot())
	}
	return true
}

// Cancelled polls the cancellation token. Once observed, cancellation is
// sticky.
func (s *Session) Cancelled() bool {
	if s.cancelled {
		return true
	}
	select {
	case <-s.ctx.Done():
		s.cancelled = true
	default:
	}
	return s.cancelled
}

// Halted reports whether exploration must stop for any reason.
func (s *Session) Halted() bool { return s.aborted || s.Cancelled() }

// Aborted reports whether the step budget was exhausted.
func (s *Session) Aborted() bool { return s.aborted }

// Steps returns the number of steps consumed so far.
func (s *Session) Steps() int { return s.steps }

// Limit returns the step ceiling.
func (s *Session) Limit() int { return s.limit }

// Snapshot returns the current progress.
func (s *Session) Snapshot() Progress {
	steps := s.steps
	if steps > s.limit {
		steps = s.limit
	}
	return Progress{Steps: steps, Limit: s.limit, DateSetCount: s.found}
}

func (s *Session) recordFound(n int) { s.found = n }
