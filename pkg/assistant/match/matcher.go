// Package match runs expanded search terms against the product catalog.
package match

import (
	"context"
	"fmt"
	"time"

	"storefront-be/internal/entity"
	"storefront-be/internal/pkg/logger"
	"storefront-be/internal/repository/specification"
	"storefront-be/internal/repository/unitofwork"
	"storefront-be/pkg/assistant"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const moduleName = "CatalogMatcher"

var tracer = otel.Tracer("storefront-be/pkg/assistant/match")

// CatalogSearcher finds live products whose title or description contains
// term, case-insensitively. limit <= 0 means no cap.
type CatalogSearcher interface {
	Search(ctx context.Context, term string, discountOnly bool, limit int) ([]*entity.Product, error)
}

// StoreSearcher queries the product repository through a unit of work.
type StoreSearcher struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewStoreSearcher(uowFactory unitofwork.RepositoryFactory) *StoreSearcher {
	return &StoreSearcher{uowFactory: uowFactory}
}

func (s *StoreSearcher) Search(ctx context.Context, term string, discountOnly bool, limit int) ([]*entity.Product, error) {
	specs := []specification.Specification{
		specification.NotSoftDeleted{},
		specification.ProductTextMatch{Term: term},
	}
	if discountOnly {
		specs = append(specs, specification.HasDiscount{})
	}
	specs = append(specs,
		specification.WithCatalogRefs{},
		specification.Limit{N: limit},
	)
	return s.uowFactory.NewUnitOfWork(ctx).ProductRepository().FindAll(ctx, specs...)
}

type Options struct {
	// PerTermLimit caps rows fetched per term. Zero leaves queries unbounded.
	PerTermLimit int
	// QueryTimeout bounds each catalog round trip. Zero disables the bound.
	QueryTimeout time.Duration
}

type Matcher struct {
	searcher CatalogSearcher
	opts     Options
	logger   logger.ILogger
}

func NewMatcher(searcher CatalogSearcher, opts Options, logger logger.ILogger) *Matcher {
	return &Matcher{
		searcher: searcher,
		opts:     opts,
		logger:   logger,
	}
}

// Match unions the per-term results into one set. Any store failure aborts
// the whole match with an error wrapping assistant.ErrStoreUnavailable.
func (m *Matcher) Match(ctx context.Context, terms []string, discountOnly bool) (*MatchSet, error) {
	ctx, span := tracer.Start(ctx, "match.Match")
	defer span.End()
	span.SetAttributes(
		attribute.Int("match.terms", len(terms)),
		attribute.Bool("match.discount_only", discountOnly),
	)

	set := NewMatchSet()
	for _, term := range terms {
		products, err := m.search(ctx, term, discountOnly)
		if err != nil {
			span.RecordError(err)
			m.logger.Error(moduleName, "Catalog query failed", map[string]interface{}{
				"term":          term,
				"discount_only": discountOnly,
				"error":         err,
			})
			return nil, fmt.Errorf("%w: search %q: %v", assistant.ErrStoreUnavailable, term, err)
		}
		for _, p := range products {
			set.Add(p)
		}
	}

	span.SetAttributes(attribute.Int("match.results", set.Len()))
	return set, nil
}

func (m *Matcher) search(ctx context.Context, term string, discountOnly bool) ([]*entity.Product, error) {
	if m.opts.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.opts.QueryTimeout)
		defer cancel()
	}
	return m.searcher.Search(ctx, term, discountOnly, m.opts.PerTermLimit)
}

// MatchBoth runs the unrestricted and the discount-only match concurrently.
// The first failure cancels the other run.
func (m *Matcher) MatchBoth(ctx context.Context, terms []string) (general, discounted *MatchSet, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		general, err = m.Match(gctx, terms, false)
		return err
	})
	g.Go(func() error {
		var err error
		discounted, err = m.Match(gctx, terms, true)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return general, discounted, nil
}
