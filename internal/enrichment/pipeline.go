package enrichment

import (
	"context"
	"log/slog"

	"watchfilter/internal/availability"
	"watchfilter/internal/logging"
)

// Resolver resolves availability for a batch of identities.
type Resolver interface {
	ResolveAll(ctx context.Context, ids []availability.ItemIdentity) Results
}

// Included applies c to a resolution. A failed lookup only passes None.
func Included(res Resolution, c availability.Criterion) bool {
	if c.IsNone() {
		return true
	}
	if res.Err != nil {
		return false
	}
	return availability.Matches(res.TierSet, c)
}

// Pipeline filters item lists by availability.
type Pipeline struct {
	resolver Resolver
	logger   *slog.Logger
}

// NewPipeline builds a Pipeline on top of resolver, usually an *Enricher.
func NewPipeline(resolver Resolver, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		resolver: resolver,
		logger:   logging.NewComponentLogger(logger, "filter"),
	}
}

// Filter returns the items that pass c, in their original order.
func (p *Pipeline) Filter(ctx context.Context, items []availability.Item, c availability.Criterion) ([]availability.Item, error) {
	return FilterItems(ctx, p, items, c)
}

// FilterResolved is Filter that also returns the resolutions the decision
// was made on, so callers can show availability without resolving again.
// Results is nil for the None criterion.
func (p *Pipeline) FilterResolved(ctx context.Context, items []availability.Item, c availability.Criterion) ([]availability.Item, Results, error) {
	return FilterItemsResolved(ctx, p, items, c)
}

// FilterItems is Filter for any item type that carries an identity. With the
// None criterion items is returned as is and nothing is resolved. An invalid
// criterion fails before any lookup. Lookup failures are never returned as
// errors; when ctx ends first the partial result is returned with ctx.Err().
func FilterItems[T availability.Identified](ctx context.Context, p *Pipeline, items []T, c availability.Criterion) ([]T, error) {
	kept, _, err := FilterItemsResolved(ctx, p, items, c)
	return kept, err
}

// FilterItemsResolved is FilterItems plus the resolutions behind it.
func FilterItemsResolved[T availability.Identified](ctx context.Context, p *Pipeline, items []T, c availability.Criterion) ([]T, Results, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}
	if c.IsNone() {
		return items, nil, nil
	}

	logger := logging.WithContext(ctx, p.logger)
	results := p.resolver.ResolveAll(ctx, availability.Identities(items))

	kept := make([]T, 0, len(items))
	for _, item := range items {
		res, ok := results[item.Identity()]
		if ok && Included(res, c) {
			kept = append(kept, item)
		}
	}

	logger.Info("filtered items by availability",
		logging.String(logging.FieldCriterion, c.String()),
		logging.Int("input", len(items)),
		logging.Int("matched", len(kept)),
		logging.Int("unresolved", len(results.Failed())),
	)

	if err := ctx.Err(); err != nil {
		return kept, results, err
	}
	return kept, results, nil
}
