package testsupport

import (
	"path/filepath"
	"testing"

	"watchfilter/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a validated-shape config seeded with a unique temp log
// directory per test. It defaults common fields and applies any provided
// options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.TMDB.APIKey = "test"
	cfgVal.TMDB.RequestsPerSecond = 0
	cfgVal.TMDB.Burst = 0
	cfgVal.Logging.Dir = filepath.Join(base, "logs")
	cfgVal.API.Bind = "127.0.0.1:0"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithTMDBKey sets the TMDB API key on the test config.
func WithTMDBKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.TMDB.APIKey = key
	}
}

// WithTMDBBaseURL points the TMDB client at a test server.
func WithTMDBBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.TMDB.BaseURL = url
	}
}

// WithWindowSize overrides the enrichment window.
func WithWindowSize(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Enrichment.WindowSize = n
	}
}

// WithCacheTTLSeconds overrides the availability cache TTL.
func WithCacheTTLSeconds(seconds int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.TTLSeconds = seconds
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Logging.Dir)
}
