package availability

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind distinguishes movies from series. The same numeric id can refer to a
// different title under each kind.
type Kind string

const (
	KindMovie  Kind = "movie"
	KindSeries Kind = "tv"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindMovie || k == KindSeries
}

func (k Kind) String() string { return string(k) }

// Label returns a human-friendly name for display.
func (k Kind) Label() string {
	switch k {
	case KindMovie:
		return "Movie"
	case KindSeries:
		return "Series"
	default:
		return "Unknown"
	}
}

// ParseKind accepts the spellings users and the TMDB API use for each kind.
func ParseKind(value string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "movie", "movies", "film":
		return KindMovie, nil
	case "tv", "series", "show", "shows":
		return KindSeries, nil
	default:
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidIdentity, value)
	}
}

// ItemIdentity is the composite cache key for a media item.
type ItemIdentity struct {
	ID   int64 `json:"id"`
	Kind Kind  `json:"kind"`
}

// Validate rejects identities that must never reach the cache or fetcher.
func (id ItemIdentity) Validate() error {
	if id.ID <= 0 {
		return fmt.Errorf("%w: id must be positive, got %d", ErrInvalidIdentity, id.ID)
	}
	if !id.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidIdentity, string(id.Kind))
	}
	return nil
}

func (id ItemIdentity) String() string {
	return string(id.Kind) + ":" + strconv.FormatInt(id.ID, 10)
}

// Identity lets an ItemIdentity satisfy Identified on its own, so bare key
// slices can flow through the generic filter.
func (id ItemIdentity) Identity() ItemIdentity { return id }

// Identified is implemented by anything that carries an ItemIdentity.
type Identified interface {
	Identity() ItemIdentity
}

// Item is a catalog entry as the host application lists it.
type Item struct {
	ItemIdentity
	Title      string  `json:"title"`
	Year       int     `json:"year,omitempty"`
	Overview   string  `json:"overview,omitempty"`
	Popularity float64 `json:"popularity,omitempty"`
}

// Identities extracts the keys of items in order.
func Identities[T Identified](items []T) []ItemIdentity {
	out := make([]ItemIdentity, len(items))
	for i, item := range items {
		out[i] = item.Identity()
	}
	return out
}
