// Package availcache provides the process-local cache that maps item
// identities to their most recently fetched availability.
//
// Entries are stamped when stored and treated as misses once they are older
// than the configured TTL (five minutes by default). Stale entries are not
// evicted; the next successful fetch for the same key overwrites them. The
// cache is never written to disk and owns no network logic: the enrichment
// package decides when to fetch and calls Put with the result.
//
// A Cache is safe for concurrent use. Construct one per process and pass it
// to the enricher explicitly.
package availcache
