package search

import (
	"gonum.org/v1/gonum/stat/combin"

	"github.com/kilianp07/sessionplan/core/model"
)

// collector accumulates candidates until the result cap is reached or the
// session is cancelled.
type collector struct {
	s   *Session
	max int
	out []model.Candidate
}

func newCollector(s *Session, maxResults int) *collector {
	return &collector{s: s, max: maxResults}
}

func (c *collector) full() bool { return c.max > 0 && len(c.out) >= c.max }

func (c *collector) done() bool { return c.full() || c.s.Cancelled() }

// AssignFixedGroup pairs every date set whose lead role is available with each
// size-combination of pool that can attend alongside it. Combinations are
// explored in lexicographic pool order.
func AssignFixedGroup(s *Session, sets []model.DateSet, lead, pool []string, size int, allowMaybe bool, maxResults int) []model.Candidate {
	c := newCollector(s, maxResults)
	c.fixedGroup(sets, lead, pool, size, allowMaybe)
	return c.out
}

func (c *collector) fixedGroup(sets []model.DateSet, lead, pool []string, size int, allowMaybe bool) {
	if size <= 0 || size > len(pool) {
		return
	}
	idx := make([]int, size)
	for _, set := range sets {
		if c.done() {
			return
		}
		leadOK, leadMaybe := CheckGroup(set.Days, lead, allowMaybe)
		if !leadOK {
			continue
		}
		gen := combin.NewCombinationGenerator(len(pool), size)
		for gen.Next() {
			if c.done() {
				return
			}
			gen.Combination(idx)
			group := make([]string, size)
			for i, j := range idx {
				group[i] = pool[j]
			}
			ok, groupMaybe := CheckGroup(set.Days, append(append([]string{}, lead...), group...), allowMaybe)
			if !ok {
				continue
			}
			c.out = append(c.out, model.Candidate{
				DateSet:   set,
				Lead:      append([]string(nil), lead...),
				Group:     group,
				UsesMaybe: leadMaybe || groupMaybe,
			})
		}
	}
}

// AssignSlots fills every role slot with a distinct participant for each date
// set whose lead role is available. Slots are tried in configured order and
// candidates in pool order.
func AssignSlots(s *Session, sets []model.DateSet, lead []string, slots []model.RoleSlot, allowMaybe bool, maxResults int) []model.Candidate {
	c := newCollector(s, maxResults)
	c.slots(sets, lead, slots, allowMaybe)
	return c.out
}

func (c *collector) slots(sets []model.DateSet, lead []string, slots []model.RoleSlot, allowMaybe bool) {
	for _, set := range sets {
		if c.done() {
			return
		}
		leadOK, leadMaybe := CheckGroup(set.Days, lead, allowMaybe)
		if !leadOK {
			continue
		}
		feasible, ok := feasiblePools(set.Days, slots, allowMaybe)
		if !ok {
			continue
		}
		b := &slotSearch{
			c:         c,
			set:       set,
			lead:      lead,
			slots:     slots,
			feasible:  feasible,
			leadMaybe: leadMaybe,
			allow:     allowMaybe,
			assigned:  make([]string, len(slots)),
			used:      make(map[string]bool, len(slots)),
		}
		b.assign(0)
	}
}

// feasiblePools narrows every slot pool to the participants who can attend
// all days. ok is false as soon as one slot has nobody left.
func feasiblePools(days []model.Day, slots []model.RoleSlot, allowMaybe bool) ([][]string, bool) {
	out := make([][]string, len(slots))
	for i, slot := range slots {
		for _, name := range slot.Pool {
			if canAttend(days, name, allowMaybe) {
				out[i] = append(out[i], name)
			}
		}
		if len(out[i]) == 0 {
			return nil, false
		}
	}
	return out, true
}

type slotSearch struct {
	c         *collector
	set       model.DateSet
	lead      []string
	slots     []model.RoleSlot
	feasible  [][]string
	leadMaybe bool
	allow     bool
	assigned  []string
	used      map[string]bool
}

func (b *slotSearch) assign(idx int) {
	if b.c.done() {
		return
	}
	if idx == len(b.slots) {
		b.complete()
		return
	}
	for _, name := range b.feasible[idx] {
		if b.c.done() {
			return
		}
		if b.used[name] {
			continue
		}
		b.used[name] = true
		b.assigned[idx] = name
		b.assign(idx + 1)
		delete(b.used, name)
	}
}

func (b *slotSearch) complete() {
	members := append(append([]string{}, b.lead...), b.assigned...)
	ok, groupMaybe := CheckGroup(b.set.Days, members, b.allow)
	if !ok {
		return
	}
	assignments := make([]model.SlotAssignment, len(b.slots))
	for i, slot := range b.slots {
		assignments[i] = model.SlotAssignment{Label: slot.Label, Name: b.assigned[i]}
	}
	b.c.out = append(b.c.out, model.Candidate{
		DateSet:   b.set,
		Lead:      append([]string(nil), b.lead...),
		Slots:     assignments,
		UsesMaybe: b.leadMaybe || groupMaybe,
	})
}
