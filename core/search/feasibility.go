package search

import "github.com/kilianp07/sessionplan/core/model"

// CheckGroup reports whether every member is available on every day. Maybe
// only counts when allowMaybe is set; usesMaybe tells whether it was relied
// upon. usesMaybe is always false when ok is false.
func CheckGroup(days []model.Day, members []string, allowMaybe bool) (ok, usesMaybe bool) {
	for _, d := range days {
		for _, name := range members {
			switch d.Symbol(name) {
			case model.Available:
			case model.Maybe:
				if !allowMaybe {
					return false, false
				}
				usesMaybe = true
			default:
				return false, false
			}
		}
	}
	return true, usesMaybe
}

func canAttend(days []model.Day, name string, allowMaybe bool) bool {
	ok, _ := CheckGroup(days, []string{name}, allowMaybe)
	return ok
}
