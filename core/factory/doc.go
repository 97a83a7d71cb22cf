// Package factory builds pluggable modules, such as metrics sinks, from a
// type name plus a map of raw settings:
//
//	sinks:
//	  - type: influx
//	    conf: {url: "http://influx:8086", bucket: washroute}
//
// A factory decodes conf with Decode and returns the implementation.
package factory
