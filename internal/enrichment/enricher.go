package enrichment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"watchfilter/internal/availability"
	"watchfilter/internal/fanout"
	"watchfilter/internal/logging"
)

// DefaultWindowSize is the number of fetches in flight at once.
const DefaultWindowSize = fanout.DefaultWindow

// Resolution is the outcome for one identity. Exactly one of TierSet or Err
// is meaningful: when Err is non-nil it is a *availability.LookupError.
type Resolution struct {
	TierSet availability.TierSet
	Err     error
	Cached  bool
}

// Results maps every requested identity to its resolution.
type Results map[availability.ItemIdentity]Resolution

// Failed returns the identities whose lookup failed.
func (r Results) Failed() []availability.ItemIdentity {
	var out []availability.ItemIdentity
	for id, res := range r {
		if res.Err != nil {
			out = append(out, id)
		}
	}
	return out
}

// Enricher resolves availability through a cache and a Fetcher.
type Enricher struct {
	cache        Cache
	fetcher      Fetcher
	window       int
	fetchTimeout time.Duration
	logger       *slog.Logger
	recorder     Recorder
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithWindowSize sets how many fetches run concurrently. Values below one
// keep the default.
func WithWindowSize(n int) Option {
	return func(e *Enricher) {
		if n > 0 {
			e.window = n
		}
	}
}

// WithFetchTimeout bounds every individual fetch. Zero disables the bound.
func WithFetchTimeout(d time.Duration) Option {
	return func(e *Enricher) {
		if d >= 0 {
			e.fetchTimeout = d
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Enricher) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(recorder Recorder) Option {
	return func(e *Enricher) {
		if recorder != nil {
			e.recorder = recorder
		}
	}
}

// NewEnricher wires cache and fetcher together.
func NewEnricher(cache Cache, fetcher Fetcher, opts ...Option) *Enricher {
	e := &Enricher{
		cache:    cache,
		fetcher:  fetcher,
		window:   DefaultWindowSize,
		logger:   logging.NewNop(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.NewComponentLogger(e.logger, "enrichment")
	return e
}

// WindowSize reports the configured concurrency window.
func (e *Enricher) WindowSize() int { return e.window }

// ResolveAll returns a resolution for every distinct identity in ids. It never
// fails as a whole; per-item failures are recorded in the result.
func (e *Enricher) ResolveAll(ctx context.Context, ids []availability.ItemIdentity) Results {
	logger := logging.WithContext(ctx, e.logger)
	started := time.Now()
	results := make(Results, len(ids))
	pending := make([]availability.ItemIdentity, 0, len(ids))

	for _, id := range ids {
		if _, seen := results[id]; seen {
			continue
		}
		if err := id.Validate(); err != nil {
			logging.ErrorWithContext(logger, "rejected invalid item identity", "invalid_identity",
				logging.Item(id),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "caller passed an item without a positive id and known kind"),
			)
			results[id] = Resolution{Err: availability.NewLookupError(id, err)}
			continue
		}
		if ts, ok := e.cache.Get(id); ok {
			e.recorder.CacheLookup(true)
			results[id] = Resolution{TierSet: ts, Cached: true}
			continue
		}
		e.recorder.CacheLookup(false)
		results[id] = Resolution{}
		pending = append(pending, id)
	}

	if len(pending) > 0 {
		opts := fanout.Options{
			Window: e.window,
			OnWindow: func(w fanout.Window) {
				logger.Debug("fetch window started",
					logging.Int("window", w.Index),
					logging.Int("size", w.Size),
					logging.Int("remaining", len(pending)-w.Start),
				)
			},
		}
		outcomes := fanout.Map(ctx, pending, opts, e.fetch)
		for i, id := range pending {
			if err := outcomes[i].Err; err != nil {
				results[id] = Resolution{Err: availability.NewLookupError(id, err)}
				continue
			}
			results[id] = Resolution{TierSet: outcomes[i].Value}
		}
	}

	cached, failed := 0, 0
	for _, res := range results {
		switch {
		case res.Err != nil:
			failed++
		case res.Cached:
			cached++
		}
	}
	logger.Debug("availability resolved",
		logging.Int("items", len(results)),
		logging.Int("cached", cached),
		logging.Int("fetched", len(pending)),
		logging.Int("failed", failed),
		logging.Duration("elapsed", time.Since(started)),
	)
	return results
}

// Resolve resolves a single identity.
func (e *Enricher) Resolve(ctx context.Context, id availability.ItemIdentity) (Resolution, error) {
	res := e.ResolveAll(ctx, []availability.ItemIdentity{id})[id]
	return res, res.Err
}

// fetch runs detached from the caller's cancellation so a started lookup
// still lands in the cache; request values and the fetch timeout still apply.
func (e *Enricher) fetch(ctx context.Context, id availability.ItemIdentity) (ts availability.TierSet, err error) {
	ctx = context.WithoutCancel(ctx)
	if e.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.fetchTimeout)
		defer cancel()
	}

	e.recorder.FetchStarted()
	started := time.Now()
	defer func() {
		if recovered := recover(); recovered != nil {
			err = &fanout.PanicError{Value: recovered}
		}
		e.recorder.FetchFinished(time.Since(started), err)
		if err != nil {
			e.logFailure(ctx, id, err)
		}
	}()

	ts, err = e.fetcher.Fetch(ctx, id)
	if err != nil {
		return availability.TierSet{}, err
	}
	e.cache.Put(id, ts)
	return ts, nil
}

func (e *Enricher) logFailure(ctx context.Context, id availability.ItemIdentity, err error) {
	logger := logging.WithContext(ctx, e.logger)
	if errors.Is(err, context.Canceled) {
		logger.Debug("availability lookup canceled", logging.Item(id))
		return
	}
	logging.WarnWithContext(logger, "availability lookup failed", "lookup_failed",
		logging.Item(id),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check TMDB connectivity and API key"),
		logging.String(logging.FieldImpact, "item excluded from filtered results"),
	)
}
