package config

import (
	"errors"
	"fmt"
	"net/url"

	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateEnrichment(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTMDB() error {
	if c.TMDB.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("tmdb.api_key is required. Set %s env var or edit %s (create with 'watchfilter config init')", envTMDBAPIKey, defaultPath)
	}
	parsed, err := url.Parse(c.TMDB.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("tmdb.base_url %q must be an absolute URL", c.TMDB.BaseURL)
	}
	if c.TMDB.Language != "" {
		if _, err := language.Parse(c.TMDB.Language); err != nil {
			return fmt.Errorf("tmdb.language %q is not a valid BCP 47 tag: %w", c.TMDB.Language, err)
		}
	}
	if _, err := language.ParseRegion(c.TMDB.Region); err != nil {
		return fmt.Errorf("tmdb.region %q is not a valid ISO 3166-1 region: %w", c.TMDB.Region, err)
	}
	if c.TMDB.RequestTimeoutSeconds <= 0 {
		return errors.New("tmdb.request_timeout_seconds must be positive")
	}
	if c.TMDB.RequestsPerSecond < 0 {
		return errors.New("tmdb.requests_per_second must not be negative")
	}
	if c.TMDB.RequestsPerSecond > 0 && c.TMDB.Burst <= 0 {
		return errors.New("tmdb.burst must be positive when requests_per_second is set")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.TTLSeconds <= 0 {
		return errors.New("cache.ttl_seconds must be positive")
	}
	return nil
}

func (c *Config) validateEnrichment() error {
	if c.Enrichment.WindowSize <= 0 {
		return errors.New("enrichment.window_size must be positive")
	}
	if c.Enrichment.FetchTimeoutSeconds < 0 {
		return errors.New("enrichment.fetch_timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be debug, info, warn, or error", c.Logging.Level)
	}
	return nil
}
