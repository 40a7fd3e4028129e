package api

import (
	"log/slog"

	"watchfilter/internal/availcache"
	"watchfilter/internal/channels"
	"watchfilter/internal/config"
	"watchfilter/internal/enrichment"
	"watchfilter/internal/metrics"
	"watchfilter/internal/services"
	"watchfilter/internal/tmdb"
)

// Runtime holds the components built from a configuration. Metrics is nil
// when metrics are disabled.
type Runtime struct {
	Service  *Service
	Client   *tmdb.Client
	Cache    *availcache.Cache
	Enricher *enrichment.Enricher
	Channels *channels.Directory
	Metrics  *metrics.Collector
}

// NewRuntime wires the TMDB client, cache, enricher, channel directory, and
// Service from cfg.
func NewRuntime(cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "api", "runtime", "config required", nil)
	}
	client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language,
		tmdb.WithRegion(cfg.TMDB.Region),
		tmdb.WithRateLimit(cfg.TMDB.RequestsPerSecond, cfg.TMDB.Burst),
		tmdb.WithHTTPClient(newHTTPClient(cfg)),
		tmdb.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	cache := availcache.New(cfg.CacheTTL(), availcache.WithLogger(logger))
	var collector *metrics.Collector
	if cfg.API.Metrics {
		collector = metrics.New(cache.Len)
	}

	opts := []enrichment.Option{
		enrichment.WithWindowSize(cfg.Enrichment.WindowSize),
		enrichment.WithFetchTimeout(cfg.FetchTimeout()),
		enrichment.WithLogger(logger),
	}
	if collector != nil {
		opts = append(opts, enrichment.WithRecorder(collector))
	}
	enricher := enrichment.NewEnricher(cache, tmdb.NewAvailabilityFetcher(client, cfg.TMDB.Region), opts...)
	directory := channels.NewDirectory(client, cfg.CacheTTL(), channels.WithLogger(logger))

	svc, err := NewService(Options{
		Catalog:  client,
		Channels: directory,
		Resolver: enricher,
		Cache:    cache,
		Region:   cfg.TMDB.Region,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}
	return &Runtime{
		Service:  svc,
		Client:   client,
		Cache:    cache,
		Enricher: enricher,
		Channels: directory,
		Metrics:  collector,
	}, nil
}
