// Package metrics holds the Prometheus collectors for the bb84 server.
//
// A nil *Collector is valid and records nothing, so components can be built
// in tests without a registry.
package metrics
