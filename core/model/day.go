package model

import (
	"fmt"
	"strings"
)

// DateKey encodes a calendar day as month*100 + day. Keys order days
// strictly and identify them for deduplication.
type DateKey int

// NewDateKey builds the key for the given month and day.
func NewDateKey(month, day int) DateKey { return DateKey(month*100 + day) }

// Month returns the month component of the key.
func (k DateKey) Month() int { return int(k) / 100 }

// Day returns the day-of-month component of the key.
func (k DateKey) Day() int { return int(k) % 100 }

func (k DateKey) String() string { return fmt.Sprintf("%d/%d", k.Month(), k.Day()) }

// Classification tells whether a day counts as a weekday or a holiday. It is
// resolved by the caller before the search runs.
type Classification int

const (
	Weekday Classification = iota
	Holiday
)

// String returns a human-readable representation of the classification.
func (c Classification) String() string {
	switch c {
	case Weekday:
		return "weekday"
	case Holiday:
		return "holiday"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Classification) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Classification) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "weekday", "":
		*c = Weekday
	case "holiday", "weekend":
		*c = Holiday
	default:
		return fmt.Errorf("unknown classification %q", string(b))
	}
	return nil
}

// Symbol is the tri-state availability of a participant on a day.
type Symbol int

const (
	Unavailable Symbol = iota
	Maybe
	Available
)

// ParseSymbol normalizes the spreadsheet marks. Anything unrecognised,
// including the empty string, is unavailable.
func ParseSymbol(s string) Symbol {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "○", "◯", "o", "available", "yes":
		return Available
	case "△", "maybe":
		return Maybe
	default:
		return Unavailable
	}
}

func (s Symbol) String() string {
	switch s {
	case Available:
		return "available"
	case Maybe:
		return "maybe"
	default:
		return "unavailable"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Symbol) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Symbol) UnmarshalText(b []byte) error {
	*s = ParseSymbol(string(b))
	return nil
}

// Day is one calendar entry of the search input.
type Day struct {
	Key          DateKey           `json:"key" yaml:"key"`
	Label        string            `json:"label,omitempty" yaml:"label,omitempty"`
	Class        Classification    `json:"class" yaml:"class"`
	Capacity     int               `json:"capacity" yaml:"capacity"`
	Availability map[string]Symbol `json:"availability" yaml:"availability"`
}

// Symbol returns the availability of name on the day. Missing entries are
// unavailable.
func (d Day) Symbol(name string) Symbol {
	if d.Availability == nil {
		return Unavailable
	}
	return d.Availability[name]
}

// IsHoliday reports whether the day is classified as a holiday.
func (d Day) IsHoliday() bool { return d.Class == Holiday }

// CapacityTable maps each classification to the hours a day contributes.
type CapacityTable struct {
	WeekdayHours int `json:"weekday_hours" yaml:"weekday_hours"`
	HolidayHours int `json:"holiday_hours" yaml:"holiday_hours"`
}

// DefaultCapacity is the table used when a request does not override it.
var DefaultCapacity = CapacityTable{WeekdayHours: 3, HolidayHours: 15}

// For returns the capacity of the given classification.
func (t CapacityTable) For(c Classification) int {
	if c == Holiday {
		return t.HolidayHours
	}
	return t.WeekdayHours
}

// ResolveCapacity returns a copy of days with Capacity set from the table.
// Availability maps are shared with the input.
func ResolveCapacity(days []Day, table CapacityTable) []Day {
	out := make([]Day, len(days))
	for i, d := range days {
		d.Capacity = table.For(d.Class)
		out[i] = d
	}
	return out
}
