// Package runlog keeps a history of finished searches.
package runlog

import (
	"context"
	"slices"
	"time"

	"github.com/kilianp07/sessionplan/core/events"
	"github.com/kilianp07/sessionplan/core/model"
)

// Record captures the outcome of one search run.
type Record struct {
	Timestamp  time.Time       `json:"timestamp"`
	RequestID  string          `json:"request_id"`
	Variant    string          `json:"variant"`
	State      model.State     `json:"state"`
	Steps      int             `json:"steps"`
	Limit      int             `json:"limit"`
	DateSets   int             `json:"date_sets"`
	Candidates int             `json:"candidates"`
	Best       []model.DateKey `json:"best,omitempty"`
	Duration   time.Duration   `json:"duration"`
	Error      string          `json:"error,omitempty"`
}

// FromResult builds the record of a run that finished without fault.
func FromResult(e events.Result, at time.Time) Record {
	rec := Record{
		Timestamp:  at,
		RequestID:  e.RequestID,
		Variant:    e.Variant.String(),
		State:      e.State,
		Steps:      e.Steps,
		Limit:      e.Limit,
		DateSets:   e.DateSets,
		Candidates: len(e.Candidates),
		Duration:   e.Duration,
	}
	if len(e.Candidates) > 0 {
		rec.Best = e.Candidates[0].DateSet.Keys()
	}
	return rec
}

// FromFailure builds the record of a failed run.
func FromFailure(e events.Failure, at time.Time) Record {
	return Record{
		Timestamp: at,
		RequestID: e.RequestID,
		Variant:   e.Variant.String(),
		State:     model.StateFailed,
		Duration:  e.Duration,
		Error:     e.Message,
	}
}

// Query defines filters for retrieving records. Zero fields match
// everything.
type Query struct {
	RequestID string
	State     string
	Since     time.Time
	Until     time.Time
	// Limit keeps only the most recent records when positive.
	Limit int
}

func (q Query) matches(r Record) bool {
	if q.RequestID != "" && r.RequestID != q.RequestID {
		return false
	}
	if q.State != "" && r.State.String() != q.State {
		return false
	}
	if !q.Since.IsZero() && r.Timestamp.Before(q.Since) {
		return false
	}
	if !q.Until.IsZero() && r.Timestamp.After(q.Until) {
		return false
	}
	return true
}

// finish orders records by time and applies the limit.
func (q Query) finish(recs []Record) []Record {
	slices.SortStableFunc(recs, func(a, b Record) int { return a.Timestamp.Compare(b.Timestamp) })
	if q.Limit > 0 && len(recs) > q.Limit {
		recs = recs[len(recs)-q.Limit:]
	}
	return recs
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}
