package metrics

import "errors"

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordSearchRun forwards the event to all sinks. Every sink is called even
// when one fails; the errors are joined.
func (m *MultiSink) RecordSearchRun(ev SearchRunEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordSearchRun(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordSearchProgress forwards progress to the sinks that support it.
func (m *MultiSink) RecordSearchProgress(ev SearchProgressEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(ProgressRecorder); ok {
			if err := rec.RecordSearchProgress(ev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// RecordActive forwards the running flag to the sinks that support it.
func (m *MultiSink) RecordActive(requestID string, running bool) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(ActiveRecorder); ok {
			if err := rec.RecordActive(requestID, running); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink that holds resources.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
