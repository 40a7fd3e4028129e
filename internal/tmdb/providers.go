package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"watchfilter/internal/availability"
	"watchfilter/internal/services"
)

// ImageBaseURL prefixes TMDB logo paths.
const ImageBaseURL = "https://image.tmdb.org/t/p/w92"

// Provider is one watch provider entry.
type Provider struct {
	ID              int64  `json:"provider_id"`
	Name            string `json:"provider_name"`
	LogoPath        string `json:"logo_path"`
	DisplayPriority int    `json:"display_priority"`
}

// Channel converts p into an availability.Channel.
func (p Provider) Channel() availability.Channel {
	return availability.Channel{
		ID:      p.ID,
		Name:    strings.TrimSpace(p.Name),
		IconRef: IconURL(p.LogoPath),
	}
}

// IconURL returns the absolute logo URL for a TMDB logo path.
func IconURL(logoPath string) string {
	logoPath = strings.TrimSpace(logoPath)
	if logoPath == "" {
		return ""
	}
	if !strings.HasPrefix(logoPath, "/") {
		logoPath = "/" + logoPath
	}
	return ImageBaseURL + logoPath
}

// RegionProviders lists providers for one region, grouped by how TMDB
// offers the title.
type RegionProviders struct {
	Link     string     `json:"link"`
	Flatrate []Provider `json:"flatrate"`
	Rent     []Provider `json:"rent"`
	Buy      []Provider `json:"buy"`
	Free     []Provider `json:"free"`
	Ads      []Provider `json:"ads"`
}

// WatchProviders models the /{kind}/{id}/watch/providers payload.
type WatchProviders struct {
	ID      int64                      `json:"id"`
	Results map[string]RegionProviders `json:"results"`
}

// Region returns the block for region, matched case-insensitively.
func (w *WatchProviders) Region(region string) (RegionProviders, bool) {
	if w == nil {
		return RegionProviders{}, false
	}
	if block, ok := w.Results[region]; ok {
		return block, true
	}
	for code, block := range w.Results {
		if strings.EqualFold(code, region) {
			return block, true
		}
	}
	return RegionProviders{}, false
}

// WatchProviderSource fetches per-title watch providers.
type WatchProviderSource interface {
	GetWatchProviders(ctx context.Context, id availability.ItemIdentity) (*WatchProviders, error)
}

// GetWatchProviders fetches watch providers for a movie or TV show.
func (c *Client) GetWatchProviders(ctx context.Context, id availability.ItemIdentity) (*WatchProviders, error) {
	if err := id.Validate(); err != nil {
		return nil, services.Wrap(services.ErrValidation, component, "watch providers", "invalid item", err)
	}
	path := fmt.Sprintf("/%s/%d/watch/providers", id.Kind, id.ID)
	var payload WatchProviders
	if err := c.getJSON(ctx, "watch providers", path, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ProviderList models the /watch/providers/{kind} payload.
type ProviderList struct {
	Results []Provider `json:"results"`
}

// ListProviders returns the providers TMDB knows for kind in the client's
// region, ordered by display priority.
func (c *Client) ListProviders(ctx context.Context, kind availability.Kind) ([]Provider, error) {
	if !kind.Valid() {
		return nil, services.Wrap(services.ErrValidation, component, "list providers", fmt.Sprintf("unknown kind %q", string(kind)), nil)
	}
	params := url.Values{}
	params.Set("watch_region", c.region)
	var payload ProviderList
	if err := c.getJSON(ctx, "list providers", "/watch/providers/"+string(kind), params, &payload); err != nil {
		return nil, err
	}
	providers := payload.Results
	sort.SliceStable(providers, func(i, j int) bool {
		return providers[i].DisplayPriority < providers[j].DisplayPriority
	})
	return providers, nil
}
