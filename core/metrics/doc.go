// Package metrics defines the sink interfaces used to observe a washroute
// session. Every sink records plan scoring passes; sinks may also implement
// the optional recorder interfaces (collisions, transfers, strikes, order
// stats, plan selections), which callers discover by type assertion.
// Sinks are built from configuration through a factory registry and are
// combined in a MultiSink when several are configured.
package metrics
