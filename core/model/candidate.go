package model

// RoleSlot is a labelled role filled by exactly one participant drawn from
// its candidate pool.
type RoleSlot struct {
	Label string   `json:"label" yaml:"label"`
	Pool  []string `json:"pool" yaml:"pool"`
}

// SlotAssignment binds a slot label to its assignee.
type SlotAssignment struct {
	Label string `json:"label"`
	Name  string `json:"name"`
}

// Candidate is a date set together with a concrete role assignment.
type Candidate struct {
	DateSet DateSet  `json:"date_set"`
	Lead    []string `json:"lead"`
	// Group is set by the fixed-size group variant.
	Group []string `json:"group,omitempty"`
	// Slots is set by the multi-slot variant, in configured slot order.
	Slots     []SlotAssignment `json:"slots,omitempty"`
	UsesMaybe bool             `json:"uses_maybe"`
}

// Contiguous mirrors the contiguity flag of the date set.
func (c Candidate) Contiguous() bool { return c.DateSet.Contiguous }

// Members returns the lead role followed by every supporting participant.
func (c Candidate) Members() []string {
	out := make([]string, 0, len(c.Lead)+len(c.Group)+len(c.Slots))
	out = append(out, c.Lead...)
	out = append(out, c.Group...)
	for _, s := range c.Slots {
		out = append(out, s.Name)
	}
	return out
}
