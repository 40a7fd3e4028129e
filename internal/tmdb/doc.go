// Package tmdb provides the minimal TMDB API client used for catalog search
// and watch provider lookups.
//
// It authenticates requests and exposes movie, TV, and multi search with an
// optional year filter, per-title watch providers, and the regional provider
// directory. Requests can be rate limited with a token bucket so batch
// lookups stay under TMDB's request allowance. Failures are tagged with the
// services error markers (not found, transient, timeout, upstream,
// validation) so callers can classify them without parsing messages.
//
// AvailabilityFetcher adapts watch providers into availability.TierSet for
// one region, dropping every upstream field the filter does not need.
package tmdb
