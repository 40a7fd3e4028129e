package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// TMDB contains configuration for The Movie Database API.
type TMDB struct {
	APIKey                string  `toml:"api_key"`
	BaseURL               string  `toml:"base_url"`
	Language              string  `toml:"language"`
	Region                string  `toml:"region"`
	RequestTimeoutSeconds int     `toml:"request_timeout_seconds"`
	RequestsPerSecond     float64 `toml:"requests_per_second"`
	Burst                 int     `toml:"burst"`
}

// Cache contains configuration for the in-memory availability cache.
type Cache struct {
	TTLSeconds int `toml:"ttl_seconds"`
}

// Enrichment contains configuration for batch availability lookups.
type Enrichment struct {
	// WindowSize is the number of lookups in flight at once.
	WindowSize int `toml:"window_size"`
	// FetchTimeoutSeconds bounds each lookup. Zero leaves timing to the
	// TMDB client's request timeout.
	FetchTimeoutSeconds int `toml:"fetch_timeout_seconds"`
}

// API contains configuration for the HTTP server.
type API struct {
	Bind    string `toml:"bind"`
	Metrics bool   `toml:"metrics"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// Config encapsulates all configuration values for watchfilter.
//
// Configuration sections by subsystem:
//   - TMDB: catalog search and watch provider lookups
//   - Cache: availability cache TTL
//   - Enrichment: lookup window size and per-lookup timeout
//   - API: HTTP bind address and metrics exposure
//   - Logging: log format, level, and optional file directory
type Config struct {
	TMDB       TMDB       `toml:"tmdb"`
	Cache      Cache      `toml:"cache"`
	Enrichment Enrichment `toml:"enrichment"`
	API        API        `toml:"api"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned
// config has defaults applied and paths expanded. The string result is the
// resolved path and the bool reports whether a file existed there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if strings.TrimSpace(path) != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// CacheTTL returns the availability cache TTL.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// FetchTimeout returns the per-lookup timeout, or zero for none.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Enrichment.FetchTimeoutSeconds) * time.Second
}

// RequestTimeout returns the TMDB HTTP client timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.TMDB.RequestTimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
