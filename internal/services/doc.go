// Package services defines shared utilities consumed by the enrichment
// pipeline and its external integrations.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper so callers can classify
//     upstream failures (not found, transient, timeout) without parsing
//     strings.
//   - Context helpers that stamp request correlation identifiers for logging.
//
// The HTTP API and CLI use the markers to pick status codes and exit
// messages; the enrichment layer itself never inspects them.
package services
