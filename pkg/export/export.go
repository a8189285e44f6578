// Package export writes ranked candidates for people and spreadsheets.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/kilianp07/sessionplan/core/model"
)

// WriteJSON writes the candidates to w as an indented JSON array.
func WriteJSON(w io.Writer, candidates []model.Candidate) error {
	if candidates == nil {
		candidates = []model.Candidate{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(candidates)
}

// Header is the CSV column layout written by WriteCSV.
var Header = []string{"rank", "dates", "kind", "holidays", "weekdays", "hours", "contiguous", "lead", "support", "uses_maybe"}

// WriteCSV writes one row per candidate in rank order.
func WriteCSV(w io.Writer, candidates []model.Candidate) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for i, c := range candidates {
		holidays := c.DateSet.HolidayCount()
		rec := []string{
			strconv.Itoa(i + 1),
			dates(c.DateSet),
			c.DateSet.Kind(),
			strconv.Itoa(holidays),
			strconv.Itoa(len(c.DateSet.Days) - holidays),
			strconv.Itoa(c.DateSet.Capacity()),
			strconv.FormatBool(c.Contiguous()),
			strings.Join(c.Lead, " "),
			support(c),
			strconv.FormatBool(c.UsesMaybe),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// dates prefers the day labels of the request and falls back to M/D.
func dates(s model.DateSet) string {
	parts := make([]string, len(s.Days))
	for i, d := range s.Days {
		if d.Label != "" {
			parts[i] = d.Label
		} else {
			parts[i] = d.Key.String()
		}
	}
	return strings.Join(parts, " ")
}

func support(c model.Candidate) string {
	if len(c.Slots) == 0 {
		return strings.Join(c.Group, " ")
	}
	parts := make([]string, len(c.Slots))
	for i, s := range c.Slots {
		parts[i] = s.Label + "=" + s.Name
	}
	return strings.Join(parts, " ")
}
