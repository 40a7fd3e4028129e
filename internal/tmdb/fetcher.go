package tmdb

import (
	"context"
	"fmt"
	"strings"

	"watchfilter/internal/availability"
	"watchfilter/internal/services"
)

// AvailabilityFetcher resolves availability for one region from TMDB watch
// providers. It satisfies enrichment.Fetcher.
type AvailabilityFetcher struct {
	source WatchProviderSource
	region string
}

// NewAvailabilityFetcher returns a fetcher for region. An empty region uses
// US.
func NewAvailabilityFetcher(source WatchProviderSource, region string) *AvailabilityFetcher {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = "US"
	}
	return &AvailabilityFetcher{source: source, region: region}
}

// Region reports the region the fetcher reads.
func (f *AvailabilityFetcher) Region() string { return f.region }

// Fetch returns the TierSet for id. A title with no listing in the region
// resolves to an empty TierSet rather than an error.
func (f *AvailabilityFetcher) Fetch(ctx context.Context, id availability.ItemIdentity) (availability.TierSet, error) {
	payload, err := f.source.GetWatchProviders(ctx, id)
	if err != nil {
		return availability.TierSet{}, err
	}
	block, ok := payload.Region(f.region)
	if !ok {
		return availability.TierSet{}, nil
	}
	return TierSetFromRegion(block)
}

// TierSetFromRegion maps flatrate, rent and buy onto the three tiers,
// keeping TMDB's order. Other offer types are dropped.
func TierSetFromRegion(block RegionProviders) (availability.TierSet, error) {
	var ts availability.TierSet
	var err error
	if ts.Subscription, err = toChannels("flatrate", block.Flatrate); err != nil {
		return availability.TierSet{}, err
	}
	if ts.Rental, err = toChannels("rent", block.Rent); err != nil {
		return availability.TierSet{}, err
	}
	if ts.Purchase, err = toChannels("buy", block.Buy); err != nil {
		return availability.TierSet{}, err
	}
	return ts, nil
}

func toChannels(offer string, providers []Provider) ([]availability.Channel, error) {
	if len(providers) == 0 {
		return nil, nil
	}
	out := make([]availability.Channel, 0, len(providers))
	for i, provider := range providers {
		if provider.ID <= 0 {
			message := fmt.Sprintf("%s entry %d has no provider id", offer, i)
			return nil, services.Wrap(services.ErrValidation, component, "watch providers", message, nil)
		}
		out = append(out, provider.Channel())
	}
	return out, nil
}
