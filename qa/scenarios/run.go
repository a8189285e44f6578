package scenarios

import (
	"context"
	"testing"

	"github.com/kilianp07/sessionplan/core/model"
	"github.com/kilianp07/sessionplan/core/search"
)

// RunScenario executes sc and reports every mismatch on t.
func RunScenario(t *testing.T, sc *Scenario) {
	t.Helper()
	res, err := search.NewEngine().Run(context.Background(), sc.Request, nil)
	if err != nil {
		t.Fatalf("scenario %s: %v", sc.Name, err)
	}
	exp := sc.Expected
	if res.Aborted != exp.Aborted {
		t.Errorf("scenario %s expected aborted=%v, got %v", sc.Name, exp.Aborted, res.Aborted)
	}
	if exp.Candidates != nil && len(res.Candidates) != *exp.Candidates {
		t.Errorf("scenario %s expected %d candidates, got %d", sc.Name, *exp.Candidates, len(res.Candidates))
	}
	if exp.DateSets != nil && res.DateSets != *exp.DateSets {
		t.Errorf("scenario %s expected %d date sets, got %d", sc.Name, *exp.DateSets, res.DateSets)
	}
	if len(res.Candidates) == 0 {
		return
	}
	first := res.Candidates[0]
	if exp.FirstDates != nil && !equal(first.DateSet.Keys(), exp.FirstDates) {
		t.Errorf("scenario %s expected first dates %v, got %v", sc.Name, exp.FirstDates, first.DateSet.Keys())
	}
	if exp.FirstSupport != nil && !equal(support(first), exp.FirstSupport) {
		t.Errorf("scenario %s expected first support %v, got %v", sc.Name, exp.FirstSupport, support(first))
	}
	last := res.Candidates[len(res.Candidates)-1]
	if exp.LastUsesMaybe != nil && last.UsesMaybe != *exp.LastUsesMaybe {
		t.Errorf("scenario %s expected last uses_maybe=%v", sc.Name, *exp.LastUsesMaybe)
	}
}

// support lists the group, or the slot assignees in slot order.
func support(c model.Candidate) []string {
	if len(c.Slots) == 0 {
		return c.Group
	}
	out := make([]string, len(c.Slots))
	for i, s := range c.Slots {
		out[i] = s.Name
	}
	return out
}

func equal[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
