package match

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"storefront-be/internal/entity"
	"storefront-be/internal/pkg/logger"
	"storefront-be/internal/repository/memory"
	"storefront-be/pkg/assistant"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog(t *testing.T, products ...*entity.Product) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	repo := memory.NewRepositoryFactory(store).NewUnitOfWork(ctx).ProductRepository()
	for _, p := range products {
		require.NoError(t, repo.Create(ctx, p))
	}
	return store
}

func newStoreMatcher(store *memory.Store, opts Options) *Matcher {
	return NewMatcher(NewStoreSearcher(memory.NewRepositoryFactory(store)), opts, logger.NewNopLogger())
}

func TestMatchSetDeduplicatesByID(t *testing.T) {
	id := uuid.New()
	set := NewMatchSet()

	assert.True(t, set.Add(&entity.Product{Id: id, Title: "first"}))
	assert.False(t, set.Add(&entity.Product{Id: id, Title: "same id, new content"}))
	assert.True(t, set.Add(&entity.Product{Id: uuid.New(), Title: "first"}))
	assert.False(t, set.Add(nil))

	assert.Equal(t, 2, set.Len())
	assert.Equal(t, "first", set.First().Title)
	assert.True(t, set.Contains(id))
}

func TestNilMatchSetIsEmpty(t *testing.T) {
	var set *MatchSet
	assert.Equal(t, 0, set.Len())
	assert.Nil(t, set.First())
	assert.NotNil(t, set.Items())
}

func TestMatchSameItemViaTwoTermsOnce(t *testing.T) {
	store := newCatalog(t, &entity.Product{
		Title:       "Bluetooth Headphones",
		Description: "Wireless audio with deep bass",
	})
	m := newStoreMatcher(store, Options{})

	set, err := m.Match(context.Background(), []string{"headphones", "audio", "bluetooth"}, false)

	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())
	assert.Equal(t, 3, store.ProductQueries())
}

func TestDiscountMatchIsSubsetOfGeneral(t *testing.T) {
	store := newCatalog(t,
		&entity.Product{Title: "Bluetooth Headphones", Description: "audio", DiscountPercentage: 15},
		&entity.Product{Title: "Studio Headphones", Description: "audio"},
		&entity.Product{Title: "Power Bank", Description: "battery pack", DiscountPercentage: 5},
		&entity.Product{Title: "Old Headphones", Description: "audio", DiscountPercentage: 50, IsDeleted: true},
	)
	m := newStoreMatcher(store, Options{})
	terms := []string{"headphones", "battery", "audio"}

	general, discounted, err := m.MatchBoth(context.Background(), terms)
	require.NoError(t, err)

	assert.Equal(t, 3, general.Len())
	assert.Equal(t, 2, discounted.Len())
	for _, p := range discounted.Items() {
		assert.True(t, general.Contains(p.Id), p.Title)
		assert.True(t, p.HasDiscount())
		assert.False(t, p.IsDeleted)
	}
}

func TestMatchNoTerms(t *testing.T) {
	m := newStoreMatcher(newCatalog(t), Options{})

	general, discounted, err := m.MatchBoth(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, 0, general.Len())
	assert.Equal(t, 0, discounted.Len())
}

func TestMatchPerTermLimit(t *testing.T) {
	store := newCatalog(t,
		&entity.Product{Title: "Watch A"},
		&entity.Product{Title: "Watch B"},
		&entity.Product{Title: "Watch C"},
	)
	m := newStoreMatcher(store, Options{PerTermLimit: 2})

	set, err := m.Match(context.Background(), []string{"watch"}, false)

	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())
}

func TestMatchStoreFailureIsStoreUnavailable(t *testing.T) {
	store := newCatalog(t, &entity.Product{Title: "Watch"})
	store.FailProducts(errors.New("dial tcp: connection refused"))
	m := newStoreMatcher(store, Options{})

	_, _, err := m.MatchBoth(context.Background(), []string{"watch"})

	assert.ErrorIs(t, err, assistant.ErrStoreUnavailable)
}

type slowSearcher struct {
	calls atomic.Int32
}

func (s *slowSearcher) Search(ctx context.Context, term string, discountOnly bool, limit int) ([]*entity.Product, error) {
	s.calls.Add(1)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(time.Second):
		return nil, nil
	}
}

func TestMatchQueryTimeout(t *testing.T) {
	searcher := &slowSearcher{}
	m := NewMatcher(searcher, Options{QueryTimeout: 10 * time.Millisecond}, logger.NewNopLogger())

	start := time.Now()
	_, err := m.Match(context.Background(), []string{"watch", "charger"}, false)

	assert.ErrorIs(t, err, assistant.ErrStoreUnavailable)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, int32(1), searcher.calls.Load())
}
