package model

// DateSet is a group of days, ordered by strictly increasing date key, whose
// combined capacity meets the required hours of a search.
type DateSet struct {
	Days []Day `json:"days"`
	// Contiguous is true when no day of the enumeration window was skipped
	// between the first and the last chosen day. It tracks window positions,
	// not calendar adjacency.
	Contiguous bool `json:"contiguous"`
}

// Keys returns the date keys of the set in order.
func (s DateSet) Keys() []DateKey {
	keys := make([]DateKey, len(s.Days))
	for i, d := range s.Days {
		keys[i] = d.Key
	}
	return keys
}

// Capacity returns the summed capacity of the days.
func (s DateSet) Capacity() int {
	total := 0
	for _, d := range s.Days {
		total += d.Capacity
	}
	return total
}

// HolidayCount returns how many days are holidays.
func (s DateSet) HolidayCount() int {
	n := 0
	for _, d := range s.Days {
		if d.IsHoliday() {
			n++
		}
	}
	return n
}

// HolidayRatio returns the share of holiday days, 0 for an empty set.
func (s DateSet) HolidayRatio() float64 {
	if len(s.Days) == 0 {
		return 0
	}
	return float64(s.HolidayCount()) / float64(len(s.Days))
}

// First returns the first date key, 0 for an empty set.
func (s DateSet) First() DateKey {
	if len(s.Days) == 0 {
		return 0
	}
	return s.Days[0].Key
}

// Span returns last minus first date key.
func (s DateSet) Span() int {
	if len(s.Days) == 0 {
		return 0
	}
	return int(s.Days[len(s.Days)-1].Key - s.Days[0].Key)
}

// Kind summarizes the classification mix of the set.
func (s DateSet) Kind() string {
	h := s.HolidayCount()
	switch {
	case h > 0 && h == len(s.Days):
		return "holiday-only"
	case h == 0 && len(s.Days) > 0:
		return "weekday-only"
	default:
		return "mixed"
	}
}
