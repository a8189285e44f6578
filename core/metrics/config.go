package metrics

import (
	"fmt"

	"github.com/kilianp07/sessionplan/core/factory"
)

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks" yaml:"sinks"`
	// PrometheusPort is the listen address of the /metrics endpoint, e.g.
	// ":9090". Empty disables the endpoint.
	PrometheusPort string `json:"prometheus_port" yaml:"prometheus_port"`
}

// Validate checks that every sink names a registered type.
func (c Config) Validate() error {
	for i, s := range c.Sinks {
		if s.Type == "" {
			return fmt.Errorf("metrics sink %d: type is required", i)
		}
		if !sinkRegistry.Has(s.Type) {
			return fmt.Errorf("metrics sink %d: unknown type %s", i, s.Type)
		}
	}
	return nil
}
