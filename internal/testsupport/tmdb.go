package testsupport

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// TMDBServer is a canned TMDB API. Every search returns the Matrix trilogy.
// In the US region 603 streams on Netflix, 604 rents on Apple TV, and 605
// fails with a server error.
type TMDBServer struct {
	*httptest.Server

	mu    sync.Mutex
	paths map[string]int
}

const (
	tmdbSearchBody = `{"page":1,"total_pages":1,"total_results":3,"results":[
		{"id":603,"title":"The Matrix","media_type":"movie","release_date":"1999-03-30","popularity":80.1},
		{"id":604,"title":"The Matrix Reloaded","media_type":"movie","release_date":"2003-05-15","popularity":40.2},
		{"id":605,"title":"The Matrix Revolutions","media_type":"movie","release_date":"2003-11-05","popularity":35.7}
	]}`
	tmdbProviders603 = `{"id":603,"results":{"US":{"flatrate":[{"provider_id":8,"provider_name":"Netflix","logo_path":"/netflix.jpg","display_priority":0}]}}}`
	tmdbProviders604 = `{"id":604,"results":{"US":{"rent":[{"provider_id":2,"provider_name":"Apple TV","logo_path":"/apple.jpg","display_priority":4}],"buy":[{"provider_id":2,"provider_name":"Apple TV","logo_path":"/apple.jpg","display_priority":4}]}}}`
	tmdbProviderList = `{"results":[
		{"provider_id":8,"provider_name":"Netflix","logo_path":"/netflix.jpg","display_priority":0},
		{"provider_id":2,"provider_name":"Apple TV","logo_path":"/apple.jpg","display_priority":4},
		{"provider_id":337,"provider_name":"Disney Plus","logo_path":"/disney.jpg","display_priority":2}
	]}`
)

// NewTMDBServer starts a TMDBServer and registers its shutdown.
func NewTMDBServer(t testing.TB) *TMDBServer {
	t.Helper()
	s := &TMDBServer{paths: make(map[string]int)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Hits reports how many requests reached path.
func (s *TMDBServer) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paths[path]
}

func (s *TMDBServer) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.paths[r.URL.Path]++
	s.mu.Unlock()

	if r.URL.Query().Get("api_key") == "" {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status_code":7,"status_message":"Invalid API key"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch path := r.URL.Path; {
	case strings.HasPrefix(path, "/search/"):
		_, _ = w.Write([]byte(tmdbSearchBody))
	case path == "/movie/603/watch/providers":
		_, _ = w.Write([]byte(tmdbProviders603))
	case path == "/movie/604/watch/providers":
		_, _ = w.Write([]byte(tmdbProviders604))
	case path == "/movie/605/watch/providers":
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"status_code":11}`))
	case strings.HasSuffix(path, "/watch/providers"):
		_, _ = w.Write([]byte(`{"results":{}}`))
	case path == "/watch/providers/movie", path == "/watch/providers/tv":
		_, _ = w.Write([]byte(tmdbProviderList))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status_code":34,"status_message":"The resource you requested could not be found."}`))
	}
}
