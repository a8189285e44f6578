// Package infra holds the adapters around the search core: the zerolog
// logger, the Prometheus and InfluxDB metrics sinks, Sentry reporting and
// the MQTT transport. They depend on the interfaces of the core packages,
// never the other way round.
package infra
