package channels_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"watchfilter/internal/availability"
	"watchfilter/internal/channels"
	"watchfilter/internal/services"
	"watchfilter/internal/tmdb"
)

type fakeLister struct {
	mu        sync.Mutex
	providers map[availability.Kind][]tmdb.Provider
	calls     map[availability.Kind]int
	err       error
}

func (f *fakeLister) ListProviders(_ context.Context, kind availability.Kind) ([]tmdb.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[availability.Kind]int)
	}
	f.calls[kind]++
	if f.err != nil {
		return nil, f.err
	}
	return append([]tmdb.Provider(nil), f.providers[kind]...), nil
}

func newLister() *fakeLister {
	return &fakeLister{providers: map[availability.Kind][]tmdb.Provider{
		availability.KindMovie: {
			{ID: 8, Name: "Netflix"},
			{ID: 175, Name: "Netflix Kids"},
			{ID: 2, Name: "Apple TV"},
			{ID: 350, Name: "Apple TV Plus"},
			{ID: 337, Name: "Disney Plus"},
		},
		availability.KindSeries: {
			{ID: 8, Name: "Netflix"},
			{ID: 15, Name: "Hulu"},
			{ID: 386, Name: "Peacock"},
			{ID: 387, Name: "Peacock Premium"},
		},
	}}
}

func TestListMergesKindsWithoutDuplicates(t *testing.T) {
	dir := channels.NewDirectory(newLister(), time.Minute)

	got, err := dir.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 8 {
		t.Fatalf("expected 8 merged channels, got %d: %+v", len(got), got)
	}
	if got[0].ID != 8 || got[5].ID != 15 {
		t.Fatalf("expected movie providers first, got %+v", got)
	}
}

func TestListMemoizesWithinTTL(t *testing.T) {
	lister := newLister()
	now := time.Unix(1_700_000_000, 0)
	dir := channels.NewDirectory(lister, time.Minute, channels.WithClock(func() time.Time { return now }))

	for range 3 {
		if _, err := dir.List(context.Background(), availability.KindMovie); err != nil {
			t.Fatalf("List: %v", err)
		}
	}
	if lister.calls[availability.KindMovie] != 1 {
		t.Fatalf("expected one upstream call, got %d", lister.calls[availability.KindMovie])
	}

	now = now.Add(time.Minute)
	if _, err := dir.List(context.Background(), availability.KindMovie); err != nil {
		t.Fatalf("List: %v", err)
	}
	if lister.calls[availability.KindMovie] != 2 {
		t.Fatalf("expected refresh after ttl, got %d calls", lister.calls[availability.KindMovie])
	}

	dir.Invalidate()
	if _, err := dir.List(context.Background(), availability.KindMovie); err != nil {
		t.Fatalf("List: %v", err)
	}
	if lister.calls[availability.KindMovie] != 3 {
		t.Fatalf("expected refresh after invalidate, got %d calls", lister.calls[availability.KindMovie])
	}
}

func TestResolveByID(t *testing.T) {
	dir := channels.NewDirectory(newLister(), time.Minute)

	ch, err := dir.Resolve(context.Background(), availability.KindMovie, "337")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ch.Name != "Disney Plus" {
		t.Fatalf("unexpected channel %+v", ch)
	}

	unknown, err := dir.Resolve(context.Background(), availability.KindMovie, "9999")
	if err != nil || unknown.ID != 9999 || unknown.Name != "" {
		t.Fatalf("expected bare id for unlisted channel, got %+v, %v", unknown, err)
	}

	if _, err := dir.Resolve(context.Background(), availability.KindMovie, "0"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for zero id, got %v", err)
	}
}

func TestResolveByIDSurvivesListingFailure(t *testing.T) {
	lister := newLister()
	lister.err = services.Wrap(services.ErrTransient, "tmdb", "list providers", "boom", nil)
	dir := channels.NewDirectory(lister, time.Minute)

	ch, err := dir.Resolve(context.Background(), availability.KindMovie, "8")
	if err != nil || ch.ID != 8 {
		t.Fatalf("expected numeric reference to resolve without listing, got %+v, %v", ch, err)
	}
	if _, err := dir.Resolve(context.Background(), availability.KindMovie, "netflix"); !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected listing error for name lookup, got %v", err)
	}
}

func TestResolveByName(t *testing.T) {
	dir := channels.NewDirectory(newLister(), time.Minute)
	cases := map[string]int64{
		"netflix":  8,
		"NETFLIX":  8,
		"disney":   337,
		"apple":    2,
		"peacock":  386,
		"hulu":     15,
		"apple tv": 2,
	}
	for ref, want := range cases {
		ch, err := dir.Resolve(context.Background(), "", ref)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", ref, err)
		}
		if ch.ID != want {
			t.Fatalf("Resolve(%q)=%d want %d", ref, ch.ID, want)
		}
	}
}

func TestResolveAmbiguousAndMissing(t *testing.T) {
	lister := &fakeLister{providers: map[availability.Kind][]tmdb.Provider{
		availability.KindMovie: {{ID: 1, Name: "Max East"}, {ID: 2, Name: "Max West"}},
	}}
	dir := channels.NewDirectory(lister, time.Minute)

	_, err := dir.Resolve(context.Background(), availability.KindMovie, "max")
	if !errors.Is(err, channels.ErrAmbiguous) || !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ambiguous error, got %v", err)
	}

	_, err = dir.Resolve(context.Background(), availability.KindMovie, "crunchyroll")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSearchRanksMatches(t *testing.T) {
	dir := channels.NewDirectory(newLister(), time.Minute)

	got, err := dir.Search(context.Background(), availability.KindMovie, "netflix")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 || got[0].ID != 8 || got[1].ID != 175 {
		t.Fatalf("unexpected ranking %+v", got)
	}

	all, err := dir.Search(context.Background(), availability.KindMovie, " ")
	if err != nil || len(all) != 5 {
		t.Fatalf("expected full listing for empty query, got %d, %v", len(all), err)
	}
}
