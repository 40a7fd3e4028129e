package enrichment

import (
	"context"
	"time"

	"watchfilter/internal/availability"
)

// Fetcher looks up availability for one item. Implementations must be safe
// for concurrent use; calls are idempotent and may be retried.
type Fetcher interface {
	Fetch(ctx context.Context, id availability.ItemIdentity) (availability.TierSet, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, id availability.ItemIdentity) (availability.TierSet, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, id availability.ItemIdentity) (availability.TierSet, error) {
	return f(ctx, id)
}

// Cache is the subset of availcache.Cache the enricher needs.
type Cache interface {
	Get(key availability.ItemIdentity) (availability.TierSet, bool)
	Put(key availability.ItemIdentity, value availability.TierSet)
}

// Recorder observes enrichment activity, typically for metrics.
type Recorder interface {
	CacheLookup(hit bool)
	FetchStarted()
	FetchFinished(elapsed time.Duration, err error)
}

type nopRecorder struct{}

func (nopRecorder) CacheLookup(bool) {}
func (nopRecorder) FetchStarted() {}
func (nopRecorder) FetchFinished(time.Duration, error) {}
