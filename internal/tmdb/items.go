package tmdb

import (
	"strconv"
	"strings"

	"watchfilter/internal/availability"
)

// Items converts search results into catalog items in TMDB's ranking order.
// Results of unknown media type take defaultKind; people are skipped.
func (r *Response) Items(defaultKind availability.Kind) []availability.Item {
	if r == nil {
		return nil
	}
	items := make([]availability.Item, 0, len(r.Results))
	for _, result := range r.Results {
		kind, ok := resultKind(result.MediaType, defaultKind)
		if !ok || result.ID <= 0 {
			continue
		}
		items = append(items, availability.Item{
			ItemIdentity: availability.ItemIdentity{ID: result.ID, Kind: kind},
			Title:        result.DisplayTitle(),
			Year:         result.Year(),
			Overview:     strings.TrimSpace(result.Overview),
			Popularity:   result.Popularity,
		})
	}
	return items
}

// DisplayTitle prefers the movie title and falls back to the series name.
func (r Result) DisplayTitle() string {
	if title := strings.TrimSpace(r.Title); title != "" {
		return title
	}
	return strings.TrimSpace(r.Name)
}

// Year extracts the release or first-air year, or zero when unknown.
func (r Result) Year() int {
	date := r.ReleaseDate
	if date == "" {
		date = r.FirstAirDate
	}
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

func resultKind(mediaType string, fallback availability.Kind) (availability.Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(mediaType)) {
	case "movie":
		return availability.KindMovie, true
	case "tv":
		return availability.KindSeries, true
	case "":
		return fallback, fallback.Valid()
	default:
		return "", false
	}
}
