// Package config loads, normalizes, and validates watchfilter configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TMDB_API_KEY and WATCHFILTER_REGION. The Config type centralizes every knob
// the CLI and HTTP API need: upstream credentials, cache TTL, enrichment
// window size, and log routing.
//
// Always obtain settings through this package so downstream code receives
// sanitized values and clear validation errors.
package config
