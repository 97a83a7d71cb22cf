package metrics

import "github.com/kilianp07/washroute/core/factory"

// Config defines settings for metrics sinks. PrometheusPort enables the
// /metrics HTTP endpoint when set.
type Config struct {
	Sinks          []factory.ModuleConfig `json:"sinks" yaml:"sinks"`
	PrometheusPort string                 `json:"prometheus_port" yaml:"prometheus_port"`
}
