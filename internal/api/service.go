package api

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"watchfilter/internal/availability"
	"watchfilter/internal/availcache"
	"watchfilter/internal/enrichment"
	"watchfilter/internal/logging"
	"watchfilter/internal/services"
	"watchfilter/internal/tmdb"
)

// Catalog searches for titles.
type Catalog interface {
	Search(ctx context.Context, query string, opts tmdb.SearchOptions) (*tmdb.Response, error)
}

// ChannelDirectory resolves and lists channels.
type ChannelDirectory interface {
	Resolve(ctx context.Context, kind availability.Kind, ref string) (availability.Channel, error)
	Search(ctx context.Context, kind availability.Kind, query string) ([]availability.Channel, error)
}

// AvailabilityResolver resolves availability for one or many items.
type AvailabilityResolver interface {
	enrichment.Resolver
	Resolve(ctx context.Context, id availability.ItemIdentity) (enrichment.Resolution, error)
}

// CacheInspector exposes availability cache counters and contents.
type CacheInspector interface {
	Stats() availcache.Stats
	Entries() []availcache.Entry
}

// Options wires a Service.
type Options struct {
	Catalog  Catalog
	Channels ChannelDirectory
	Resolver AvailabilityResolver
	Cache    CacheInspector
	Region   string
	Logger   *slog.Logger
}

// Service implements the workflows behind the CLI and HTTP API.
type Service struct {
	catalog  Catalog
	channels ChannelDirectory
	resolver AvailabilityResolver
	cache    CacheInspector
	pipeline *enrichment.Pipeline
	region   string
	logger   *slog.Logger
	now      func() time.Time
}

// NewService validates opts and builds a Service.
func NewService(opts Options) (*Service, error) {
	switch {
	case opts.Catalog == nil:
		return nil, services.Wrap(services.ErrConfiguration, "api", "new service", "catalog required", nil)
	case opts.Channels == nil:
		return nil, services.Wrap(services.ErrConfiguration, "api", "new service", "channel directory required", nil)
	case opts.Resolver == nil:
		return nil, services.Wrap(services.ErrConfiguration, "api", "new service", "availability resolver required", nil)
	}
	logger := logging.NewComponentLogger(opts.Logger, "api")
	return &Service{
		catalog:  opts.Catalog,
		channels: opts.Channels,
		resolver: opts.Resolver,
		cache:    opts.Cache,
		pipeline: enrichment.NewPipeline(opts.Resolver, opts.Logger),
		region:   strings.ToUpper(strings.TrimSpace(opts.Region)),
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Filter searches the catalog and keeps the items offered on the requested
// channel. Items that passed a channel filter carry their availability.
func (s *Service) Filter(ctx context.Context, req FilterRequest) (*FilterResponse, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, services.Wrap(services.ErrValidation, "api", "filter", "query must not be empty", nil)
	}
	if req.Year < 0 {
		return nil, services.Wrap(services.ErrValidation, "api", "filter", "year must not be negative", nil)
	}
	kind, err := parseOptionalKind(req.Kind)
	if err != nil {
		return nil, err
	}
	criterion, channel, err := s.criterion(ctx, kind, req.Channel, req.Tiers)
	if err != nil {
		return nil, err
	}

	results, err := s.catalog.Search(ctx, query, tmdb.SearchOptions{Year: req.Year, Kind: kind})
	if err != nil {
		return nil, err
	}
	defaultKind := kind
	if defaultKind == "" {
		defaultKind = availability.KindMovie
	}
	items := results.Items(defaultKind)

	kept, resolved, err := s.pipeline.FilterResolved(ctx, items, criterion)
	if err != nil {
		return nil, err
	}
	views := make([]ItemView, 0, len(kept))
	for _, item := range kept {
		var ts *availability.TierSet
		if res, ok := resolved[item.ItemIdentity]; ok && res.Err == nil {
			value := res.TierSet
			ts = &value
		}
		views = append(views, itemView(item, ts))
	}

	return &FilterResponse{
		Query:     query,
		Criterion: criterion.String(),
		Channel:   channel,
		Region:    s.region,
		Total:     len(items),
		Matched:   len(kept),
		Items:     views,
	}, nil
}

func (s *Service) criterion(ctx context.Context, kind availability.Kind, ref string, tierNames []string) (availability.Criterion, *availability.Channel, error) {
	tiers := make([]availability.Tier, 0, len(tierNames))
	for _, name := range tierNames {
		if strings.TrimSpace(name) == "" {
			continue
		}
		tier, err := availability.ParseTier(name)
		if err != nil {
			return availability.Criterion{}, nil, services.Wrap(services.ErrValidation, "api", "filter", "invalid tier", err)
		}
		tiers = append(tiers, tier)
	}

	if strings.TrimSpace(ref) == "" {
		if len(tiers) > 0 {
			return availability.Criterion{}, nil, services.Wrap(services.ErrValidation, "api", "filter", "tiers require a channel", nil)
		}
		return availability.None(), nil, nil
	}

	channel, err := s.channels.Resolve(ctx, kind, ref)
	if err != nil {
		return availability.Criterion{}, nil, err
	}
	logging.WithContext(ctx, s.logger).Debug("channel resolved",
		logging.String("reference", ref),
		logging.ChannelID(channel.ID),
		logging.String("name", channel.Name),
	)
	return availability.ChannelInTiers(channel.ID, tiers...), &channel, nil
}

// Availability resolves where a single item can be watched.
func (s *Service) Availability(ctx context.Context, kindValue string, id int64) (*AvailabilityResponse, error) {
	kind, err := availability.ParseKind(kindValue)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "api", "availability", "invalid kind", err)
	}
	identity := availability.ItemIdentity{ID: id, Kind: kind}
	if err := identity.Validate(); err != nil {
		return nil, services.Wrap(services.ErrValidation, "api", "availability", "invalid item", err)
	}
	res, err := s.resolver.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}
	return &AvailabilityResponse{
		ID:           identity.ID,
		Kind:         identity.Kind.String(),
		Region:       s.region,
		Cached:       res.Cached,
		Availability: res.TierSet,
	}, nil
}

// Channels lists channels for kind, fuzzily narrowed by query when set.
func (s *Service) Channels(ctx context.Context, kindValue, query string) (*ChannelsResponse, error) {
	kind, err := parseOptionalKind(kindValue)
	if err != nil {
		return nil, err
	}
	channels, err := s.channels.Search(ctx, kind, query)
	if err != nil {
		return nil, err
	}
	if channels == nil {
		channels = []availability.Channel{}
	}
	return &ChannelsResponse{Region: s.region, Channels: channels}, nil
}

// CacheStatus reports availability cache counters and, when withItems is
// set, a summary of each entry newest first.
func (s *Service) CacheStatus(withItems bool) CacheStatus {
	if s.cache == nil {
		return CacheStatus{}
	}
	stats := s.cache.Stats()
	status := CacheStatus{
		Entries:    stats.Entries,
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Stale:      stats.Stale,
		TTLSeconds: stats.TTL.Seconds(),
	}
	if !withItems {
		return status
	}
	now := s.now()
	for _, entry := range s.cache.Entries() {
		status.Items = append(status.Items, CacheEntry{
			ID:        entry.Key.ID,
			Kind:      entry.Key.Kind.String(),
			FetchedAt: formatTime(entry.FetchedAt),
			Fresh:     now.Sub(entry.FetchedAt) < stats.TTL,
			Channels:  len(entry.Value.Subscription) + len(entry.Value.Rental) + len(entry.Value.Purchase),
		})
	}
	return status
}

func parseOptionalKind(value string) (availability.Kind, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	kind, err := availability.ParseKind(value)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "api", "parse kind", "invalid kind", err)
	}
	return kind, nil
}
