package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/sessionplan/core/metrics"
)

// PromSink records search runs in Prometheus metrics.
type PromSink struct {
	runs       *prometheus.CounterVec
	steps      *prometheus.HistogramVec
	duration   *prometheus.HistogramVec
	candidates *prometheus.HistogramVec
	progress   prometheus.Gauge
	active     prometheus.Gauge
}

// NewPromSink registers search metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{}
	var err error
	if s.runs, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "search_runs_total",
		Help: "Total number of terminated searches",
	}, []string{"outcome", "variant"})); err != nil {
		return nil, err
	}
	if s.steps, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "search_steps",
		Help:    "Backtracking steps consumed per search",
		Buckets: prometheus.ExponentialBuckets(100, 4, 8),
	}, []string{"outcome"})); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "search_duration_seconds",
		Help:    "Wall time of a search from start to terminal state",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})); err != nil {
		return nil, err
	}
	if s.candidates, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "search_candidates",
		Help:    "Ranked candidates returned per search",
		Buckets: []float64{0, 1, 5, 10, 50, 100, 500},
	}, []string{"variant"})); err != nil {
		return nil, err
	}
	if s.progress, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "search_progress_ratio",
		Help: "Share of the step budget consumed by the active search",
	})); err != nil {
		return nil, err
	}
	if s.active, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "search_active",
		Help: "1 while a search is running",
	})); err != nil {
		return nil, err
	}
	return s, nil
}

// register adds c to reg, reusing the collector already registered under the
// same descriptor.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordSearchRun updates the run counters and distributions.
func (s *PromSink) RecordSearchRun(ev coremetrics.SearchRunEvent) error {
	outcome := coremetrics.Outcome(ev.State)
	s.runs.WithLabelValues(outcome, ev.Variant.String()).Inc()
	s.steps.WithLabelValues(outcome).Observe(float64(ev.Steps))
	s.duration.WithLabelValues(outcome).Observe(ev.Duration.Seconds())
	s.candidates.WithLabelValues(ev.Variant.String()).Observe(float64(ev.Candidates))
	return nil
}

// RecordSearchProgress sets the budget ratio gauge.
func (s *PromSink) RecordSearchProgress(ev coremetrics.SearchProgressEvent) error {
	if ev.Limit > 0 {
		s.progress.Set(float64(ev.Steps) / float64(ev.Limit))
	}
	return nil
}

// RecordActive flips the active gauge. The progress gauge resets when a run
// ends.
func (s *PromSink) RecordActive(_ string, running bool) error {
	if running {
		s.active.Set(1)
		return nil
	}
	s.active.Set(0)
	s.progress.Set(0)
	return nil
}
