package search

import (
	"github.com/kilianp07/sessionplan/core/model"
)

func day(key int, class model.Classification, capacity int, avail map[string]model.Symbol) model.Day {
	return model.Day{Key: model.DateKey(key), Class: class, Capacity: capacity, Availability: avail}
}

func allAvailable(names ...string) map[string]model.Symbol {
	m := make(map[string]model.Symbol, len(names))
	for _, n := range names {
		m[n] = model.Available
	}
	return m
}

// workedCalendar is the three-day example: two short weekdays and one long
// holiday on which bob cannot attend.
func workedCalendar() []model.Day {
	return []model.Day{
		day(301, model.Weekday, 3, allAvailable("alice", "bob", "carol")),
		day(302, model.Weekday, 3, allAvailable("alice", "bob", "carol")),
		day(303, model.Holiday, 15, map[string]model.Symbol{"alice": model.Available, "carol": model.Available}),
	}
}

func keysOf(sets []model.DateSet) [][]model.DateKey {
	out := make([][]model.DateKey, len(sets))
	for i, s := range sets {
		out[i] = s.Keys()
	}
	return out
}
