package channels

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/sync/singleflight"

	"watchfilter/internal/availability"
	"watchfilter/internal/logging"
	"watchfilter/internal/services"
	"watchfilter/internal/tmdb"
)

// DefaultTTL bounds how long a provider listing is reused.
const DefaultTTL = 5 * time.Minute

// ErrAmbiguous marks a name that matches more than one channel equally well.
var ErrAmbiguous = errors.New("ambiguous channel")

// ProviderLister lists watch providers for a kind.
type ProviderLister interface {
	ListProviders(ctx context.Context, kind availability.Kind) ([]tmdb.Provider, error)
}

type snapshot struct {
	channels  []availability.Channel
	fetchedAt time.Time
}

// Directory caches provider listings and resolves channel references.
type Directory struct {
	lister ProviderLister
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger

	group singleflight.Group
	mu    sync.Mutex
	cache map[availability.Kind]snapshot
}

// Option configures a Directory.
type Option func(*Directory)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(d *Directory) {
		if now != nil {
			d.now = now
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Directory) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDirectory returns a Directory backed by lister. A non-positive ttl uses
// DefaultTTL.
func NewDirectory(lister ProviderLister, ttl time.Duration, opts ...Option) *Directory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	d := &Directory{
		lister: lister,
		ttl:    ttl,
		now:    time.Now,
		logger: logging.NewNop(),
		cache:  make(map[availability.Kind]snapshot),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = logging.NewComponentLogger(d.logger, "channels")
	return d
}

// List returns the channels for kind in provider priority order. An empty
// kind merges movie and TV providers, movie first, without duplicates.
func (d *Directory) List(ctx context.Context, kind availability.Kind) ([]availability.Channel, error) {
	if kind != "" {
		return d.listKind(ctx, kind)
	}
	movies, err := d.listKind(ctx, availability.KindMovie)
	if err != nil {
		return nil, err
	}
	series, err := d.listKind(ctx, availability.KindSeries)
	if err != nil {
		return nil, err
	}
	seen := make(map[int64]struct{}, len(movies)+len(series))
	merged := make([]availability.Channel, 0, len(movies)+len(series))
	for _, ch := range append(movies, series...) {
		if _, dup := seen[ch.ID]; dup {
			continue
		}
		seen[ch.ID] = struct{}{}
		merged = append(merged, ch)
	}
	return merged, nil
}

func (d *Directory) listKind(ctx context.Context, kind availability.Kind) ([]availability.Channel, error) {
	if !kind.Valid() {
		return nil, services.Wrap(services.ErrValidation, "channels", "list", fmt.Sprintf("unknown kind %q", string(kind)), nil)
	}

	d.mu.Lock()
	snap, ok := d.cache[kind]
	d.mu.Unlock()
	if ok && d.now().Sub(snap.fetchedAt) < d.ttl {
		return cloneChannels(snap.channels), nil
	}

	value, err, _ := d.group.Do(string(kind), func() (any, error) {
		providers, err := d.lister.ListProviders(ctx, kind)
		if err != nil {
			return nil, err
		}
		channels := make([]availability.Channel, 0, len(providers))
		for _, provider := range providers {
			if provider.ID > 0 {
				channels = append(channels, provider.Channel())
			}
		}
		d.mu.Lock()
		d.cache[kind] = snapshot{channels: channels, fetchedAt: d.now()}
		d.mu.Unlock()
		d.logger.Debug("provider listing refreshed",
			logging.String("kind", kind.String()),
			logging.Int("channels", len(channels)),
		)
		return channels, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneChannels(value.([]availability.Channel)), nil
}

// Search returns channels whose names fuzzily match query, best match first.
// An empty query returns the full listing.
func (d *Directory) Search(ctx context.Context, kind availability.Kind, query string) ([]availability.Channel, error) {
	channels, err := d.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return channels, nil
	}
	ranks := rank(query, channels)
	out := make([]availability.Channel, len(ranks))
	for i, r := range ranks {
		out[i] = channels[r.OriginalIndex]
	}
	return out, nil
}

// Resolve turns ref into a channel. A numeric ref is accepted even when the
// regional listing does not contain it.
func (d *Directory) Resolve(ctx context.Context, kind availability.Kind, ref string) (availability.Channel, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return availability.Channel{}, services.Wrap(services.ErrValidation, "channels", "resolve", "channel reference must not be empty", nil)
	}

	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		if id <= 0 {
			return availability.Channel{}, services.Wrap(services.ErrValidation, "channels", "resolve", fmt.Sprintf("channel id must be positive, got %d", id), nil)
		}
		channels, err := d.List(ctx, kind)
		if err != nil {
			logging.WarnWithContext(d.logger, "provider listing unavailable", "channel_listing_failed",
				logging.ChannelID(id),
				logging.Error(err),
				logging.String(logging.FieldImpact, "channel name will not be shown"),
			)
			return availability.Channel{ID: id}, nil
		}
		for _, ch := range channels {
			if ch.ID == id {
				return ch, nil
			}
		}
		return availability.Channel{ID: id}, nil
	}

	channels, err := d.List(ctx, kind)
	if err != nil {
		return availability.Channel{}, err
	}
	for _, ch := range channels {
		if strings.EqualFold(ch.Name, ref) {
			return ch, nil
		}
	}

	ranks := rank(ref, channels)
	switch {
	case len(ranks) == 0:
		return availability.Channel{}, services.Wrap(services.ErrNotFound, "channels", "resolve", fmt.Sprintf("no channel matches %q", ref), nil)
	case len(ranks) == 1 || ranks[0].Distance < ranks[1].Distance:
		return channels[ranks[0].OriginalIndex], nil
	}

	names := make([]string, 0, len(ranks))
	for _, r := range ranks {
		if r.Distance == ranks[0].Distance {
			names = append(names, channels[r.OriginalIndex].Name)
		}
	}
	return availability.Channel{}, fmt.Errorf("%w: %w: %q matches %s", services.ErrValidation, ErrAmbiguous, ref, strings.Join(names, ", "))
}

// Invalidate drops every memoized listing.
func (d *Directory) Invalidate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	clear(d.cache)
}

func rank(query string, channels []availability.Channel) fuzzy.Ranks {
	names := make([]string, len(channels))
	for i, ch := range channels {
		names[i] = ch.Name
	}
	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.Stable(ranks)
	return ranks
}

func cloneChannels(in []availability.Channel) []availability.Channel {
	out := make([]availability.Channel, len(in))
	copy(out, in)
	return out
}
