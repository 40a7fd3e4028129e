package testsupport

import (
	"context"
	"sync"
	"time"

	"watchfilter/internal/availability"
)

// FakeFetcher is a scripted availability fetcher that records how it was
// called. Unknown identities resolve to an empty TierSet.
type FakeFetcher struct {
	mu       sync.Mutex
	results  map[availability.ItemIdentity]availability.TierSet
	failures map[availability.ItemIdentity]error
	delay    time.Duration
	calls    map[availability.ItemIdentity]int
	order    []availability.ItemIdentity
	inflight int
	peak     int

	// OnFetch, when set, runs at the start of every call.
	OnFetch func(ctx context.Context, id availability.ItemIdentity)
}

// NewFakeFetcher returns an empty FakeFetcher.
func NewFakeFetcher() *FakeFetcher {
	return &FakeFetcher{
		results:  make(map[availability.ItemIdentity]availability.TierSet),
		failures: make(map[availability.ItemIdentity]error),
		calls:    make(map[availability.ItemIdentity]int),
	}
}

// Set scripts a successful result for id.
func (f *FakeFetcher) Set(id availability.ItemIdentity, ts availability.TierSet) *FakeFetcher {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[id] = ts
	delete(f.failures, id)
	return f
}

// Fail scripts a failure for id.
func (f *FakeFetcher) Fail(id availability.ItemIdentity, err error) *FakeFetcher {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[id] = err
	return f
}

// WithDelay makes every call block for d or until its context is done.
func (f *FakeFetcher) WithDelay(d time.Duration) *FakeFetcher {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delay = d
	return f
}

// Fetch implements the enrichment fetcher contract.
func (f *FakeFetcher) Fetch(ctx context.Context, id availability.ItemIdentity) (availability.TierSet, error) {
	if f.OnFetch != nil {
		f.OnFetch(ctx, id)
	}

	f.mu.Lock()
	f.calls[id]++
	f.order = append(f.order, id)
	f.inflight++
	if f.inflight > f.peak {
		f.peak = f.inflight
	}
	delay := f.delay
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inflight--
		f.mu.Unlock()
	}()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return availability.TierSet{}, ctx.Err()
		case <-timer.C:
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failures[id]; ok {
		return availability.TierSet{}, err
	}
	return f.results[id].Clone(), nil
}

// Calls reports how many times id was fetched.
func (f *FakeFetcher) Calls(id availability.ItemIdentity) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}

// TotalCalls reports the number of fetches across all identities.
func (f *FakeFetcher) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.order)
}

// PeakConcurrency reports the highest number of simultaneous calls seen.
func (f *FakeFetcher) PeakConcurrency() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.peak
}
