// Package infra groups the adapters behind the core interfaces: zerolog
// logging, Prometheus and InfluxDB metrics sinks and the MQTT transport.
package infra
