// Package metrics exposes Prometheus instrumentation for availability
// enrichment and the HTTP API.
//
// Collector implements enrichment.Recorder. Labels are limited to small
// fixed sets (hit/miss, success/failure, registered route patterns) to keep
// cardinality bounded. All collectors are safe for concurrent use.
package metrics
