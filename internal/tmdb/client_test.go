package tmdb_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"watchfilter/internal/availability"
	"watchfilter/internal/services"
	"watchfilter/internal/tmdb"
)

func newClient(t *testing.T, handler http.HandlerFunc, opts ...tmdb.Option) *tmdb.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "en-US", opts...)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := tmdb.New("", "https://example.com", "en-US")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error when api key missing, got %v", err)
	}
}

func TestSearchMovieSuccess(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("api_key") != "key" || q.Get("language") != "en-US" {
			t.Errorf("expected api_key and language query parameters, got %q", r.URL.RawQuery)
		}
		if q.Get("primary_release_year") != "1999" {
			t.Errorf("expected year filter, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":1,"results":[{"id":603,"title":"The Matrix","release_date":"1999-03-30"}]}`))
	})

	resp, err := client.Search(context.Background(), "The Matrix", tmdb.SearchOptions{Year: 1999, Kind: availability.KindMovie})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Title != "The Matrix" {
		t.Fatalf("unexpected response: %#v", resp)
	}
}

func TestSearchDispatchesByKind(t *testing.T) {
	var paths []string
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = w.Write([]byte(`{"results":[]}`))
	})

	for _, kind := range []availability.Kind{availability.KindSeries, ""} {
		if _, err := client.Search(context.Background(), "show", tmdb.SearchOptions{Kind: kind}); err != nil {
			t.Fatalf("Search(%q): %v", kind, err)
		}
	}
	if len(paths) != 2 || paths[0] != "/search/tv" || paths[1] != "/search/multi" {
		t.Fatalf("unexpected paths %v", paths)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	client, err := tmdb.New("key", "https://example.com", "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.SearchMovie(context.Background(), "  ", tmdb.SearchOptions{}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for empty query, got %v", err)
	}
}

func TestStatusCodesAreClassified(t *testing.T) {
	cases := []struct {
		status int
		marker error
	}{
		{http.StatusNotFound, services.ErrNotFound},
		{http.StatusTooManyRequests, services.ErrTransient},
		{http.StatusBadGateway, services.ErrTransient},
		{http.StatusUnauthorized, services.ErrUpstream},
	}
	for _, tc := range cases {
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(`{"status_code":7}`))
		})
		_, err := client.SearchMulti(context.Background(), "x", tmdb.SearchOptions{})
		if !errors.Is(err, tc.marker) {
			t.Fatalf("status %d: expected %v, got %v", tc.status, tc.marker, err)
		}
	}
}

func TestMalformedPayloadIsValidationError(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": "nope"`))
	})
	_, err := client.SearchMulti(context.Background(), "x", tmdb.SearchOptions{})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeadlineIsTimeout(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.SearchMulti(ctx, "slow", tmdb.SearchOptions{})
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timeout marker, got %v", err)
	}
	if !services.Retryable(err) {
		t.Fatal("expected timeout to be retryable")
	}
}

func TestRateLimitThrottlesRequests(t *testing.T) {
	var hits atomic.Int64
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"results":[]}`))
	}, tmdb.WithRateLimit(1, 1))

	if _, err := client.SearchMulti(context.Background(), "a", tmdb.SearchOptions{}); err != nil {
		t.Fatalf("first request: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := client.SearchMulti(ctx, "b", tmdb.SearchOptions{})
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected limiter to refuse a wait past the deadline, got %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected one request to reach the server, got %d", hits.Load())
	}
}

func TestResponseItems(t *testing.T) {
	resp := &tmdb.Response{Results: []tmdb.Result{
		{ID: 603, Title: "The Matrix", MediaType: "movie", ReleaseDate: "1999-03-30"},
		{ID: 1399, Name: "Game of Thrones", MediaType: "tv", FirstAirDate: "2011-04-17"},
		{ID: 6384, Name: "Keanu Reeves", MediaType: "person"},
		{ID: 77, Title: "Memento"},
	}}

	items := resp.Items(availability.KindMovie)
	if len(items) != 3 {
		t.Fatalf("expected people to be skipped, got %d items", len(items))
	}
	if items[0].Kind != availability.KindMovie || items[0].Year != 1999 {
		t.Fatalf("unexpected first item %+v", items[0])
	}
	if items[1].Kind != availability.KindSeries || items[1].Title != "Game of Thrones" || items[1].Year != 2011 {
		t.Fatalf("unexpected series item %+v", items[1])
	}
	if items[2].ID != 77 || items[2].Kind != availability.KindMovie || items[2].Year != 0 {
		t.Fatalf("expected default kind for untyped result, got %+v", items[2])
	}
}
