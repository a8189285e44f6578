// Package metrics defines the sinks that observe search runs. Sinks such as
// the Prometheus and InfluxDB implementations in infra/metrics record run
// outcomes and progress, and can be combined with NewMultiSink. The factory
// helpers return a MultiSink automatically when multiple sinks are configured.
package metrics
