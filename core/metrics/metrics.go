package metrics

import (
	"time"

	"github.com/kilianp07/sessionplan/core/model"
)

// SearchRunEvent summarizes one terminated search.
type SearchRunEvent struct {
	RequestID string
	Variant   model.Variant
	State     model.State
	Steps     int
	Limit     int
	DateSets  int
	// Candidates is the number of ranked candidates returned.
	Candidates int
	// MaybeCandidates counts the candidates relying on maybe-availability.
	MaybeCandidates int
	Duration        time.Duration
	Time            time.Time
}

// MetricsSink records search outcomes for observability purposes.
type MetricsSink interface {
	RecordSearchRun(ev SearchRunEvent) error
}

// SearchProgressEvent is a progress snapshot of the active search.
type SearchProgressEvent struct {
	RequestID    string
	Steps        int
	Limit        int
	DateSetCount int
	Time         time.Time
}

// ProgressRecorder records progress snapshots.
type ProgressRecorder interface {
	RecordSearchProgress(ev SearchProgressEvent) error
}

// ActiveRecorder tracks whether a search is currently running.
type ActiveRecorder interface {
	RecordActive(requestID string, running bool) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordSearchRun(SearchRunEvent) error           { return nil }
func (NopSink) RecordSearchProgress(SearchProgressEvent) error { return nil }
func (NopSink) RecordActive(string, bool) error                { return nil }

// Outcome returns the label used for the state of a terminated run.
func Outcome(s model.State) string {
	if !s.Terminal() {
		return "unknown"
	}
	return s.String()
}
