package search

import (
	"cmp"
	"slices"

	"github.com/kilianp07/sessionplan/core/model"
)

// DateSetResult is the outcome of FindDateSets.
type DateSetResult struct {
	Sets []model.DateSet
	// Discovered is the number of distinct qualifying sets recorded before
	// the minimality pass. Unlike len(Sets) it never grows when the budget
	// shrinks.
	Discovered int
	Aborted    bool
}

// FindDateSets enumerates the minimal sets of days whose capacity reaches
// required. Every suffix of the calendar, sorted by date key, is explored as
// a window with include/exclude backtracking; each branch decision consumes
// one step of the session budget. Sets already found keep their value when
// the budget runs out.
func FindDateSets(s *Session, calendar []model.Day, required int) DateSetResult {
	sorted := slices.Clone(calendar)
	slices.SortStableFunc(sorted, func(a, b model.Day) int { return cmp.Compare(a.Key, b.Key) })

	rec := &recorder{}
	for start := 0; start < len(sorted) && !s.Halted(); start++ {
		w := newWindow(sorted[start:], required)
		w.explore(s, rec, 0, 0)
	}
	res := DateSetResult{Discovered: len(rec.found), Aborted: s.Aborted()}
	if !s.Cancelled() {
		res.Sets = rec.minimal(s)
	}
	return res
}

type window struct {
	days     []model.Day
	suffix   []int
	required int
	chosen   []int
}

func newWindow(days []model.Day, required int) *window {
	suffix := make([]int, len(days)+1)
	for i := len(days) - 1; i >= 0; i-- {
		suffix[i] = suffix[i+1] + days[i].Capacity
	}
	return &window{days: days, suffix: suffix, required: required}
}

func (w *window) explore(s *Session, rec *recorder, pos, capSoFar int) {
	if !s.Step() {
		return
	}
	if capSoFar >= w.required {
		if len(w.chosen) > 0 {
			rec.add(w.days, w.chosen)
			s.recordFound(len(rec.found))
		}
		return
	}
	if pos >= len(w.days) || capSoFar+w.suffix[pos] < w.required {
		return
	}

	w.chosen = append(w.chosen, pos)
	w.explore(s, rec, pos+1, capSoFar+w.days[pos].Capacity)
	w.chosen = w.chosen[:len(w.chosen)-1]
	if s.Halted() {
		return
	}
	w.explore(s, rec, pos+1, capSoFar)
}

type recorded struct {
	keys []model.DateKey
	set  model.DateSet
}

// recorder keeps discovered sets in discovery order together with an index
// sorted by key sequence, used to reject duplicates by binary search.
type recorder struct {
	found []recorded
	index []int
}

func (r *recorder) add(days []model.Day, chosen []int) {
	keys := make([]model.DateKey, len(chosen))
	for i, idx := range chosen {
		keys[i] = days[idx].Key
	}
	pos, dup := slices.BinarySearchFunc(r.index, keys, func(i int, k []model.DateKey) int {
		return slices.Compare(r.found[i].keys, k)
	})
	if dup {
		return
	}

	picked := make([]model.Day, len(chosen))
	contiguous := true
	for i, idx := range chosen {
		picked[i] = days[idx]
		if i > 0 && idx != chosen[i-1]+1 {
			contiguous = false
		}
	}
	r.found = append(r.found, recorded{keys: keys, set: model.DateSet{Days: picked, Contiguous: contiguous}})
	r.index = slices.Insert(r.index, pos, len(r.found)-1)
}

// minimal drops every set that strictly contains another recorded set. It
// returns nil as soon as the session is cancelled.
func (r *recorder) minimal(s *Session) []model.DateSet {
	out := make([]model.DateSet, 0, len(r.found))
	for i, cand := range r.found {
		if s.Cancelled() {
			return nil
		}
		dominated := false
		for j, other := range r.found {
			if i != j && isStrictSubset(other.keys, cand.keys) {
				dominated = true
				break
			}
		}
		if !dominated {
			out = append(out, cand.set)
		}
	}
	return out
}

// isStrictSubset walks two ascending key sequences in lockstep.
func isStrictSubset(small, big []model.DateKey) bool {
	if len(small) >= len(big) {
		return false
	}
	i, j := 0, 0
	for i < len(small) && j < len(big) {
		switch {
		case small[i] == big[j]:
			i++
			j++
		case small[i] > big[j]:
			j++
		default:
			return false
		}
	}
	return i == len(small)
}
