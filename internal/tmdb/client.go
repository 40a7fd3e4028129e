package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"watchfilter/internal/availability"
	"watchfilter/internal/logging"
	"watchfilter/internal/services"
)

const component = "tmdb"

// Result represents a single TMDB search match.
type Result struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	MediaType    string  `json:"media_type"`
	Popularity   float64 `json:"popularity"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int64   `json:"vote_count"`
}

// Response models the TMDB paginated search response.
type Response struct {
	Page         int      `json:"page"`
	Results      []Result `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// Searcher defines the TMDB search operations used by the filter surfaces.
type Searcher interface {
	Search(ctx context.Context, query string, opts SearchOptions) (*Response, error)
}

// Client provides access to the TMDB API.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	region     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

var (
	_ Searcher            = (*Client)(nil)
	_ WatchProviderSource = (*Client)(nil)
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRegion sets the ISO 3166-1 region used for provider listings.
func WithRegion(region string) Option {
	return func(c *Client) {
		if region = strings.ToUpper(strings.TrimSpace(region)); region != "" {
			c.region = region
		}
	}
}

// WithRateLimit throttles outgoing requests to rps with the given burst.
// A non-positive rps disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a TMDB client.
func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, component, "new client", "tmdb api key required", nil)
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, component, "new client", "tmdb base url required", nil)
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   strings.TrimSpace(language),
		region:     "US",
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	client.logger = logging.NewComponentLogger(client.logger, component)
	return client, nil
}

// Region reports the region used for provider listings.
func (c *Client) Region() string { return c.region }

// SearchOptions contains optional parameters for TMDB search.
type SearchOptions struct {
	Year int `json:"year,omitempty"`
	// Kind selects the movie or TV endpoint. Empty searches both.
	Kind availability.Kind `json:"kind,omitempty"`
}

// Search dispatches to the movie, TV, or multi endpoint based on opts.Kind.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) (*Response, error) {
	switch opts.Kind {
	case availability.KindMovie:
		return c.SearchMovie(ctx, query, opts)
	case availability.KindSeries:
		return c.SearchTV(ctx, query, opts)
	default:
		return c.SearchMulti(ctx, query, opts)
	}
}

// SearchMovie performs a TMDB movie search.
func (c *Client) SearchMovie(ctx context.Context, query string, opts SearchOptions) (*Response, error) {
	params, err := searchParams(query)
	if err != nil {
		return nil, err
	}
	if opts.Year > 0 {
		params.Set("primary_release_year", strconv.Itoa(opts.Year))
	}
	var payload Response
	if err := c.getJSON(ctx, "movie search", "/search/movie", params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// SearchTV performs a TMDB TV search.
func (c *Client) SearchTV(ctx context.Context, query string, opts SearchOptions) (*Response, error) {
	params, err := searchParams(query)
	if err != nil {
		return nil, err
	}
	if opts.Year > 0 {
		params.Set("first_air_date_year", strconv.Itoa(opts.Year))
	}
	var payload Response
	if err := c.getJSON(ctx, "tv search", "/search/tv", params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// SearchMulti performs a TMDB multi search across media types.
func (c *Client) SearchMulti(ctx context.Context, query string, opts SearchOptions) (*Response, error) {
	params, err := searchParams(query)
	if err != nil {
		return nil, err
	}
	if opts.Year > 0 {
		params.Set("year", strconv.Itoa(opts.Year))
	}
	var payload Response
	if err := c.getJSON(ctx, "multi search", "/search/multi", params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func searchParams(query string) (url.Values, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, services.Wrap(services.ErrValidation, component, "search", "query must not be empty", nil)
	}
	params := url.Values{}
	params.Set("query", query)
	return params, nil
}

// getJSON issues an authenticated GET and decodes a 200 response into out.
func (c *Client) getJSON(ctx context.Context, operation, path string, params url.Values, out any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, component, operation, "parse tmdb url", err)
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	endpoint.RawQuery = params.Encode()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return fmt.Errorf("tmdb %s: wait for rate limiter: %w", operation, ctxErr)
			}
			return services.Wrap(services.ErrTimeout, component, operation, "rate limit wait exceeds deadline", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return services.Wrap(services.ErrValidation, component, operation, "build request", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return classifyTransportError(ctx, operation, latency, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("tmdb request completed",
		logging.String("operation", operation),
		logging.String("path", path),
		logging.Int("status", resp.StatusCode),
		logging.Duration("latency", latency),
	)

	if resp.StatusCode != http.StatusOK {
		message := fmt.Sprintf("tmdb returned %d (latency=%v)", resp.StatusCode, latency)
		return services.Wrap(statusMarker(resp.StatusCode), component, operation, message, nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrValidation, component, operation, "decode tmdb response", err)
	}
	return nil
}

func statusMarker(status int) error {
	switch {
	case status == http.StatusNotFound:
		return services.ErrNotFound
	case status == http.StatusTooManyRequests, status >= http.StatusInternalServerError:
		return services.ErrTransient
	default:
		return services.ErrUpstream
	}
}

func classifyTransportError(ctx context.Context, operation string, latency time.Duration, err error) error {
	message := fmt.Sprintf("execute request (latency=%v)", latency)
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return fmt.Errorf("tmdb %s: %s: %w", operation, message, err)
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return services.Wrap(services.ErrTimeout, component, operation, message, err)
	}
	return services.Wrap(services.ErrTransient, component, operation, message, err)
}
