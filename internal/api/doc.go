// Package api defines wire-format types and the workflows shared by the CLI
// and the HTTP server.
//
// # Key Types
//
// Service: search, filter, single-item availability, channel listing, and
// cache inspection over one availability cache and enricher.
//
// FilterRequest/FilterResponse: a catalog search narrowed to items offered
// on a channel, optionally restricted to some tiers.
//
// AvailabilityResponse, ChannelsResponse, CacheStatus: read-only views.
//
// # Design Notes
//
// DTOs use camelCase JSON tags. Availability payloads reuse the
// availability package types so the tier and channel shapes match across
// every surface. Errors keep their services markers so transports can map
// them to status codes.
package api
