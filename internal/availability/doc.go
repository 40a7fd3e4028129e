// Package availability defines the value types that describe where a media
// item can be watched and the pure predicate that filters on them.
//
// An ItemIdentity (id plus kind) keys every lookup. A TierSet groups the
// channels an item is offered on by access tier (subscription, rental,
// purchase), preserving the ranking the upstream catalog returned. A
// Criterion selects which items survive a filter; Matches evaluates it
// without any I/O.
//
// Nothing in this package fetches, caches, or logs. Those concerns live in
// availcache and enrichment.
package availability
