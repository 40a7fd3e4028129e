// Package enrichment resolves availability for lists of media items and
// filters them by channel.
//
// An Enricher consults the availability cache first and sends the misses to
// a Fetcher in bounded windows (see fanout). Each item resolves on its own:
// a failed lookup becomes a LookupError for that key and never disturbs its
// siblings. A Pipeline sits on top and turns (items, criterion) into the
// order-preserving sub-sequence of items that pass the criterion. Items whose
// availability is unknown never pass a channel criterion.
package enrichment
