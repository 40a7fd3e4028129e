package api

import (
	"time"

	"watchfilter/internal/availability"
)

// FilterRequest describes a search narrowed by availability. Channel is a
// numeric provider id or a name; empty disables filtering.
type FilterRequest struct {
	Query   string   `json:"query"`
	Kind    string   `json:"kind,omitempty"`
	Year    int      `json:"year,omitempty"`
	Channel string   `json:"channel,omitempty"`
	Tiers   []string `json:"tiers,omitempty"`
}

// ItemView is a catalog item with its availability when it was resolved.
type ItemView struct {
	ID           int64                 `json:"id"`
	Kind         string                `json:"kind"`
	Title        string                `json:"title"`
	Year         int                   `json:"year,omitempty"`
	Overview     string                `json:"overview,omitempty"`
	Availability *availability.TierSet `json:"availability,omitempty"`
}

// FilterResponse is the result of a filtered search.
type FilterResponse struct {
	Query     string                `json:"query"`
	Criterion string                `json:"criterion"`
	Channel   *availability.Channel `json:"channel,omitempty"`
	Region    string                `json:"region"`
	Total     int                   `json:"total"`
	Matched   int                   `json:"matched"`
	Items     []ItemView            `json:"items"`
}

// AvailabilityResponse reports where one item can be watched.
type AvailabilityResponse struct {
	ID           int64                `json:"id"`
	Kind         string               `json:"kind"`
	Region       string               `json:"region"`
	Cached       bool                 `json:"cached"`
	Availability availability.TierSet `json:"availability"`
}

// ChannelsResponse lists channels for a region.
type ChannelsResponse struct {
	Region   string                 `json:"region"`
	Channels []availability.Channel `json:"channels"`
}

// CacheEntry summarizes one cached item.
type CacheEntry struct {
	ID        int64  `json:"id"`
	Kind      string `json:"kind"`
	FetchedAt string `json:"fetchedAt"`
	Fresh     bool   `json:"fresh"`
	Channels  int    `json:"channels"`
}

// CacheStatus reports availability cache counters.
type CacheStatus struct {
	Entries    int          `json:"entries"`
	Hits       uint64       `json:"hits"`
	Misses     uint64       `json:"misses"`
	Stale      uint64       `json:"stale"`
	TTLSeconds float64      `json:"ttlSeconds"`
	Items      []CacheEntry `json:"items,omitempty"`
}

const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}

func itemView(item availability.Item, ts *availability.TierSet) ItemView {
	return ItemView{
		ID:           item.ID,
		Kind:         item.Kind.String(),
		Title:        item.Title,
		Year:         item.Year,
		Overview:     item.Overview,
		Availability: ts,
	}
}
