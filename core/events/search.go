package events

import (
	"time"

	"github.com/kilianp07/sessionplan/core/model"
)

// Started is published once a request enters the running state.
type Started struct {
	RequestID string
	Variant   model.Variant
	Limit     int
	At        time.Time
}

// Progress is published every few thousand steps while a search runs.
// Delivery is best effort.
type Progress struct {
	RequestID    string
	Steps        int
	Limit        int
	DateSetCount int
}

// Result is published when a run terminates without fault.
type Result struct {
	RequestID  string
	Variant    model.Variant
	State      model.State
	Candidates []model.Candidate
	DateSets   int
	Steps      int
	Limit      int
	Aborted    bool
	Cancelled  bool
	Duration   time.Duration
}

// Failure is published when a run terminates with an unexpected fault.
type Failure struct {
	RequestID string
	Variant   model.Variant
	Message   string
	Duration  time.Duration
}

// StateChanged is published on every controller state transition.
type StateChanged struct {
	RequestID string
	From      model.State
	To        model.State
}

// Message converts the event to its wire form.
func (p Progress) Message() ProgressMessage {
	return ProgressMessage{RequestID: p.RequestID, Steps: p.Steps, Limit: p.Limit, DateSetCount: p.DateSetCount}
}

// Message converts the event to its wire form. Results are never nil so the
// JSON payload always carries an array.
func (r Result) Message() ResultMessage {
	results := r.Candidates
	if results == nil {
		results = []model.Candidate{}
	}
	return ResultMessage{RequestID: r.RequestID, Results: results, Aborted: r.Aborted, Cancelled: r.Cancelled}
}

// Message converts the event to its wire form.
func (f Failure) Message() ErrorMessage {
	return ErrorMessage{RequestID: f.RequestID, Message: f.Message}
}
