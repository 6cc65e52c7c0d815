package match

import (
	"storefront-be/internal/entity"

	"github.com/google/uuid"
)

// MatchSet collects catalog products for one turn, deduplicated by id.
// Items keep first-seen order so replies are stable across runs.
type MatchSet struct {
	index map[uuid.UUID]struct{}
	items []*entity.Product
}

func NewMatchSet() *MatchSet {
	return &MatchSet{index: make(map[uuid.UUID]struct{})}
}

// Add inserts p unless a product with the same id is already present.
// It reports whether p was inserted.
func (s *MatchSet) Add(p *entity.Product) bool {
	if p == nil {
		return false
	}
	if _, ok := s.index[p.Id]; ok {
		return false
	}
	s.index[p.Id] = struct{}{}
	s.items = append(s.items, p)
	return true
}

func (s *MatchSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

func (s *MatchSet) Contains(id uuid.UUID) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[id]
	return ok
}

// Items returns the products in insertion order. Never nil.
func (s *MatchSet) Items() []*entity.Product {
	if s == nil {
		return []*entity.Product{}
	}
	out := make([]*entity.Product, len(s.items))
	copy(out, s.items)
	return out
}

// First returns the earliest inserted product, or nil when empty.
func (s *MatchSet) First() *entity.Product {
	if s.Len() == 0 {
		return nil
	}
	return s.items[0]
}
