package model

import (
	"fmt"
	"strings"
)

// RankMode selects how the holiday ratio of a date set affects ranking.
type RankMode int

const (
	HolidayFirst RankMode = iota
	WeekdayFirst
	Balanced
)

func (m RankMode) String() string {
	switch m {
	case HolidayFirst:
		return "holiday-first"
	case WeekdayFirst:
		return "weekday-first"
	case Balanced:
		return "balanced"
	default:
		return "unknown"
	}
}

// ParseRankMode accepts the canonical names plus the legacy camel-case ones.
func ParseRankMode(s string) (RankMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "holiday-first", "holidayfirst":
		return HolidayFirst, nil
	case "weekday-first", "weekdayfirst":
		return WeekdayFirst, nil
	case "balanced", "mixed":
		return Balanced, nil
	default:
		return HolidayFirst, fmt.Errorf("unknown rank mode %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m RankMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *RankMode) UnmarshalText(b []byte) error {
	v, err := ParseRankMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
