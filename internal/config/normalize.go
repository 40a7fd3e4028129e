package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeTMDB()
	c.normalizeAPI()
	return c.normalizeLogging()
}

func (c *Config) normalizeTMDB() {
	c.TMDB.APIKey = strings.TrimSpace(c.TMDB.APIKey)
	if c.TMDB.APIKey == "" {
		if value, ok := os.LookupEnv(envTMDBAPIKey); ok {
			c.TMDB.APIKey = strings.TrimSpace(value)
		}
	}
	if value, ok := os.LookupEnv(envRegion); ok && strings.TrimSpace(value) != "" {
		c.TMDB.Region = value
	}
	c.TMDB.BaseURL = strings.TrimRight(strings.TrimSpace(c.TMDB.BaseURL), "/")
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)
	c.TMDB.Region = strings.ToUpper(strings.TrimSpace(c.TMDB.Region))
	if c.TMDB.Region == "" {
		c.TMDB.Region = defaultTMDBRegion
	}
}

func (c *Config) normalizeAPI() {
	c.API.Bind = strings.TrimSpace(c.API.Bind)
	if c.API.Bind == "" {
		c.API.Bind = defaultAPIBind
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.Dir) == "" {
		c.Logging.Dir = ""
		return nil
	}
	dir, err := expandPath(strings.TrimSpace(c.Logging.Dir))
	if err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	c.Logging.Dir = dir
	return nil
}
