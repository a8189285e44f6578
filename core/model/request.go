package model

import (
	"errors"
	"fmt"
	"slices"
)

// DefaultStepLimit bounds the date-set enumeration when a request does not
// override it.
const DefaultStepLimit = 150000

// ErrInvalidRequest is wrapped by every precondition violation reported by
// Request.Validate.
var ErrInvalidRequest = errors.New("invalid request")

// Variant identifies how supporting roles are assigned.
type Variant int

const (
	// FixedGroup picks GroupSize participants from a single pool.
	FixedGroup Variant = iota
	// MultiSlot assigns one distinct participant to each labelled slot.
	MultiSlot
)

func (v Variant) String() string {
	if v == MultiSlot {
		return "multi-slot"
	}
	return "fixed-group"
}

// Request is the complete input of one search.
type Request struct {
	Calendar []Day    `json:"calendar" yaml:"calendar"`
	Lead     []string `json:"lead" yaml:"lead"`

	Pool      []string   `json:"pool,omitempty" yaml:"pool,omitempty"`
	GroupSize int        `json:"group_size,omitempty" yaml:"group_size,omitempty"`
	Slots     []RoleSlot `json:"slots,omitempty" yaml:"slots,omitempty"`

	RequiredHours int  `json:"required_hours" yaml:"required_hours"`
	AllowMaybe    bool `json:"allow_maybe" yaml:"allow_maybe"`
	// MaxResults caps the number of candidates; 0 means unbounded.
	MaxResults int `json:"max_results" yaml:"max_results"`
	// StepLimit overrides DefaultStepLimit when positive.
	StepLimit int `json:"step_limit,omitempty" yaml:"step_limit,omitempty"`
	// Capacity, when set, overrides the capacity of every calendar day.
	Capacity *CapacityTable `json:"capacity,omitempty" yaml:"capacity,omitempty"`
	RankMode RankMode       `json:"rank_mode" yaml:"rank_mode"`
}

// Variant reports which role assignment variant the request uses.
func (r Request) Variant() Variant {
	if len(r.Slots) > 0 {
		return MultiSlot
	}
	return FixedGroup
}

// EffectiveStepLimit returns the step ceiling of the request.
func (r Request) EffectiveStepLimit() int {
	if r.StepLimit > 0 {
		return r.StepLimit
	}
	return DefaultStepLimit
}

// ResolvedCalendar returns the calendar with capacities filled in. An
// explicit Capacity table wins; otherwise days without a positive capacity
// take theirs from defaults.
func (r Request) ResolvedCalendar(defaults CapacityTable) []Day {
	if r.Capacity != nil {
		return ResolveCapacity(r.Calendar, *r.Capacity)
	}
	out := make([]Day, len(r.Calendar))
	for i, d := range r.Calendar {
		if d.Capacity <= 0 {
			d.Capacity = defaults.For(d.Class)
		}
		out[i] = d
	}
	return out
}

// Validate checks the preconditions the search engine relies on.
func (r Request) Validate() error {
	if r.RequiredHours <= 0 {
		return invalid("required_hours must be positive, got %d", r.RequiredHours)
	}
	if r.MaxResults < 0 {
		return invalid("max_results must not be negative")
	}
	if r.StepLimit < 0 {
		return invalid("step_limit must not be negative")
	}
	if len(r.Lead) == 0 {
		return invalid("lead role needs at least one participant")
	}
	if dup, ok := firstDuplicate(r.Lead); ok {
		return invalid("lead participant %q listed twice", dup)
	}
	if r.Capacity != nil && (r.Capacity.WeekdayHours < 0 || r.Capacity.HolidayHours < 0) {
		return invalid("capacity hours must not be negative")
	}
	seen := make(map[DateKey]bool, len(r.Calendar))
	for _, d := range r.Calendar {
		if seen[d.Key] {
			return invalid("date %s appears twice in the calendar", d.Key)
		}
		seen[d.Key] = true
		if d.Capacity < 0 {
			return invalid("date %s has negative capacity", d.Key)
		}
	}
	switch {
	case len(r.Slots) > 0 && (len(r.Pool) > 0 || r.GroupSize > 0):
		return invalid("pool/group_size and slots are mutually exclusive")
	case len(r.Slots) > 0:
		return r.validateSlots()
	default:
		return r.validateGroup()
	}
}

func (r Request) validateGroup() error {
	if len(r.Pool) == 0 {
		return invalid("either pool and group_size or slots must be configured")
	}
	if r.GroupSize < 1 || r.GroupSize > len(r.Pool) {
		return invalid("group_size must be between 1 and %d, got %d", len(r.Pool), r.GroupSize)
	}
	if dup, ok := firstDuplicate(r.Pool); ok {
		return invalid("pool participant %q listed twice", dup)
	}
	for _, name := range r.Pool {
		if slices.Contains(r.Lead, name) {
			return invalid("pool participant %q is also in the lead role", name)
		}
	}
	return nil
}

func (r Request) validateSlots() error {
	labels := make([]string, 0, len(r.Slots))
	for i, s := range r.Slots {
		if s.Label == "" {
			return invalid("slot %d has no label", i)
		}
		if len(s.Pool) == 0 {
			return invalid("slot %s has an empty pool", s.Label)
		}
		if dup, ok := firstDuplicate(s.Pool); ok {
			return invalid("slot %s lists %q twice", s.Label, dup)
		}
		for _, name := range s.Pool {
			if slices.Contains(r.Lead, name) {
				return invalid("slot %s candidate %q is also in the lead role", s.Label, name)
			}
		}
		labels = append(labels, s.Label)
	}
	if dup, ok := firstDuplicate(labels); ok {
		return invalid("slot label %q used twice", dup)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

func firstDuplicate(names []string) (string, bool) {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			return n, true
		}
		seen[n] = struct{}{}
	}
	return "", false
}
