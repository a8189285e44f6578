package search

import (
	"context"

	"github.com/kilianp07/sessionplan/core/model"
)

// Result is the outcome of one search request.
type Result struct {
	// Candidates are ranked according to the request's rank mode. They are
	// empty when the search was cancelled.
	Candidates []model.Candidate
	DateSets   int
	Discovered int
	Steps      int
	Limit      int
	Aborted    bool
	Cancelled  bool
}

// Engine runs the search pipeline: date-set enumeration, role assignment
// and ranking.
type Engine struct {
	// Capacity resolves days that carry no capacity of their own.
	Capacity model.CapacityTable
	// ProgressInterval is the number of steps between progress reports.
	ProgressInterval int
}

// NewEngine returns an engine using the default capacity table.
func NewEngine() Engine {
	return Engine{Capacity: model.DefaultCapacity, ProgressInterval: DefaultProgressInterval}
}

// Run executes req until the search space is explored, the result cap is
// reached, the step budget is exhausted or ctx is cancelled. The returned
// error is only set for precondition violations.
func (e Engine) Run(ctx context.Context, req model.Request, progress ProgressFunc) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}
	var opts []Option
	if progress != nil {
		opts = append(opts, WithProgress(e.ProgressInterval, progress))
	}
	s := NewSession(ctx, req.EffectiveStepLimit(), opts...)

	calendar := req.ResolvedCalendar(e.Capacity)
	found := FindDateSets(s, calendar, req.RequiredHours)

	var candidates []model.Candidate
	switch req.Variant() {
	case model.MultiSlot:
		candidates = AssignSlots(s, found.Sets, req.Lead, req.Slots, req.AllowMaybe, req.MaxResults)
	default:
		candidates = AssignFixedGroup(s, found.Sets, req.Lead, req.Pool, req.GroupSize, req.AllowMaybe, req.MaxResults)
	}

	res := Result{
		DateSets:   len(found.Sets),
		Discovered: found.Discovered,
		Steps:      s.Snapshot().Steps,
		Limit:      s.Limit(),
		Aborted:    found.Aborted,
	}
	if s.Cancelled() {
		res.Cancelled = true
		res.Aborted = false
		return res, nil
	}
	res.Candidates = Rank(candidates, req.RankMode)
	return res, nil
}
