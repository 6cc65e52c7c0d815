package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"storefront-be/internal/entity"
	"storefront-be/internal/repository/specification"

	"github.com/google/uuid"
)

// productQuery is the in-memory reading of the product specifications.
type productQuery struct {
	filters  []func(*entity.Product) bool
	withRefs bool
	limit    int
	offset   int
	order    *specification.OrderBy
}

func compileProductQuery(specs []specification.Specification) (*productQuery, error) {
	q := &productQuery{}
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.NotSoftDeleted:
			q.filters = append(q.filters, func(p *entity.Product) bool { return !p.IsDeleted })
		case specification.ProductTextMatch:
			term := strings.ToLower(s.Term)
			q.filters = append(q.filters, func(p *entity.Product) bool {
				return strings.Contains(strings.ToLower(p.Title), term) ||
					strings.Contains(strings.ToLower(p.Description), term)
			})
		case specification.HasDiscount:
			q.filters = append(q.filters, func(p *entity.Product) bool { return p.DiscountPercentage > 0 })
		case specification.ByID:
			q.filters = append(q.filters, func(p *entity.Product) bool { return p.Id == s.ID })
		case specification.ByIDs:
			ids := make(map[uuid.UUID]struct{}, len(s.IDs))
			for _, id := range s.IDs {
				ids[id] = struct{}{}
			}
			q.filters = append(q.filters, func(p *entity.Product) bool { _, ok := ids[p.Id]; return ok })
		case specification.ByCategoryID:
			q.filters = append(q.filters, func(p *entity.Product) bool { return p.CategoryId == s.CategoryID })
		case specification.ByBrandID:
			q.filters = append(q.filters, func(p *entity.Product) bool { return p.BrandId == s.BrandID })
		case specification.WithCatalogRefs:
			q.withRefs = true
		case specification.Limit:
			q.limit = s.N
		case specification.Pagination:
			q.limit, q.offset = s.Limit, s.Offset
		case specification.OrderBy:
			order := s
			q.order = &order
		default:
			return nil, fmt.Errorf("memory store: unsupported product specification %T", spec)
		}
	}
	return q, nil
}

func (q *productQuery) match(p *entity.Product) bool {
	for _, f := range q.filters {
		if !f(p) {
			return false
		}
	}
	return true
}

func sortProducts(products []*entity.Product, order *specification.OrderBy) {
	if order == nil {
		return
	}
	less := func(a, b *entity.Product) bool {
		switch order.Field {
		case "title":
			return a.Title < b.Title
		case "price":
			return a.Price < b.Price
		case "discount_percentage":
			return a.DiscountPercentage < b.DiscountPercentage
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(products, func(i, j int) bool {
		if order.Desc {
			return less(products[j], products[i])
		}
		return less(products[i], products[j])
	})
}

type productRepository struct {
	store *Store
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if product.Id == uuid.Nil {
		product.Id = uuid.New()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	r.store.products = append(r.store.products, cloneProduct(product, false, nil, nil))
	return nil
}

func (r *productRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q, err := compileProductQuery(specs)
	if err != nil {
		return nil, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.productQueries++
	if r.store.productErr != nil {
		return nil, r.store.productErr
	}

	out := make([]*entity.Product, 0)
	for _, p := range r.store.products {
		if q.match(p) {
			out = append(out, cloneProduct(p, q.withRefs, r.store.categories, r.store.brands))
		}
	}
	sortProducts(out, q.order)

	if q.offset > 0 {
		if q.offset >= len(out) {
			return []*entity.Product{}, nil
		}
		out = out[q.offset:]
	}
	if q.limit > 0 && len(out) > q.limit {
		out = out[:q.limit]
	}
	return out, nil
}

func (r *productRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error) {
	all, err := r.FindAll(ctx, append(specs, specification.Limit{N: 1})...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *productRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	filters := make([]specification.Specification, 0, len(specs))
	for _, s := range specs {
		switch s.(type) {
		case specification.Limit, specification.Pagination, specification.OrderBy:
			continue
		}
		filters = append(filters, s)
	}
	all, err := r.FindAll(ctx, filters...)
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}

type categoryRepository struct {
	store *Store
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if category.Id == uuid.Nil {
		category.Id = uuid.New()
	}
	cp := *category
	r.store.categories = append(r.store.categories, &cp)
	return nil
}

func (r *categoryRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Category, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *categoryRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*entity.Category, 0, len(r.store.categories))
	for _, c := range r.store.categories {
		if byIDMatches(specs, c.Id) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type brandRepository struct {
	store *Store
}

func (r *brandRepository) Create(ctx context.Context, brand *entity.Brand) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if brand.Id == uuid.Nil {
		brand.Id = uuid.New()
	}
	cp := *brand
	r.store.brands = append(r.store.brands, &cp)
	return nil
}

func (r *brandRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Brand, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *brandRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Brand, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*entity.Brand, 0, len(r.store.brands))
	for _, b := range r.store.brands {
		if byIDMatches(specs, b.Id) {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// byIDMatches honours ByID and ignores ordering specs.
func byIDMatches(specs []specification.Specification, id uuid.UUID) bool {
	for _, spec := range specs {
		if s, ok := spec.(specification.ByID); ok && s.ID != id {
			return false
		}
	}
	return true
}

type conversationRepository struct {
	store *Store
}

func (r *conversationRepository) Create(ctx context.Context, conversation *entity.Conversation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.conversationErr != nil {
		return r.store.conversationErr
	}
	if conversation.Id == uuid.Nil {
		conversation.Id = uuid.New()
	}
	if conversation.CreatedAt.IsZero() {
		conversation.CreatedAt = time.Now()
	}
	r.store.conversations = append(r.store.conversations, cloneConversation(conversation))
	return nil
}

func (r *conversationRepository) Update(ctx context.Context, conversation *entity.Conversation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.conversationErr != nil {
		return r.store.conversationErr
	}
	for i, c := range r.store.conversations {
		if c.Id == conversation.Id {
			r.store.conversations[i] = cloneConversation(conversation)
			return nil
		}
	}
	return fmt.Errorf("memory store: conversation %s not found", conversation.Id)
}

func (r *conversationRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	matches, err := r.find(specs)
	if err != nil || len(matches) == 0 {
		return nil, err
	}
	return matches[0], nil
}

func (r *conversationRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	matches, err := r.find(specs)
	return int64(len(matches)), err
}

func (r *conversationRepository) find(specs []specification.Specification) ([]*entity.Conversation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if r.store.conversationErr != nil {
		return nil, r.store.conversationErr
	}

	var userId *string
	var id *uuid.UUID
	latestFirst := false
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByUserID:
			u := s.UserID
			userId = &u
		case specification.ByID:
			i := s.ID
			id = &i
		case specification.LatestFirst:
			latestFirst = true
		default:
			return nil, fmt.Errorf("memory store: unsupported conversation specification %T", spec)
		}
	}

	out := make([]*entity.Conversation, 0)
	for _, c := range r.store.conversations {
		if userId != nil && c.UserId != *userId {
			continue
		}
		if id != nil && c.Id != *id {
			continue
		}
		out = append(out, cloneConversation(c))
	}
	if latestFirst {
		// Insertion order breaks CreatedAt ties, newest insert first.
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out, nil
}
