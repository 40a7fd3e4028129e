package api

import (
	"net/http"
	"time"

	"watchfilter/internal/config"
)

// newHTTPClient sizes the connection pool to the enrichment window so a
// full window can reuse idle connections.
func newHTTPClient(cfg *config.Config) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.Enrichment.WindowSize > transport.MaxIdleConnsPerHost {
		transport.MaxIdleConnsPerHost = cfg.Enrichment.WindowSize
	}
	timeout := cfg.RequestTimeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}
