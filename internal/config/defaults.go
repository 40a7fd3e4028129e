package config

const (
	defaultConfigPath       = "~/.config/watchfilter/config.toml"
	projectConfigName       = "watchfilter.toml"
	defaultTMDBBaseURL      = "https://api.themoviedb.org/3"
	defaultTMDBLanguage     = "en-US"
	defaultTMDBRegion       = "US"
	defaultTMDBTimeout      = 10
	defaultTMDBRPS          = 20
	defaultTMDBBurst        = 10
	defaultCacheTTLSeconds  = 300
	defaultEnrichmentWindow = 5
	defaultAPIBind          = "127.0.0.1:7655"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	envTMDBAPIKey           = "TMDB_API_KEY"
	envRegion               = "WATCHFILTER_REGION"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		TMDB: TMDB{
			BaseURL:               defaultTMDBBaseURL,
			Language:              defaultTMDBLanguage,
			Region:                defaultTMDBRegion,
			RequestTimeoutSeconds: defaultTMDBTimeout,
			RequestsPerSecond:     defaultTMDBRPS,
			Burst:                 defaultTMDBBurst,
		},
		Cache: Cache{
			TTLSeconds: defaultCacheTTLSeconds,
		},
		Enrichment: Enrichment{
			WindowSize: defaultEnrichmentWindow,
		},
		API: API{
			Bind:    defaultAPIBind,
			Metrics: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
