package memory

import (
	"sync"

	"storefront-be/internal/entity"
)

// Store is a process-local catalog and conversation store. It backs the
// development server when no database is configured and the service tests.
type Store struct {
	mu            sync.RWMutex
	products      []*entity.Product
	categories    []*entity.Category
	brands        []*entity.Brand
	conversations []*entity.Conversation

	productErr      error
	conversationErr error
	productQueries  int
}

func NewStore() *Store {
	return &Store{}
}

// FailProducts makes every product read fail with err until reset with nil.
func (s *Store) FailProducts(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.productErr = err
}

// FailConversations makes every conversation read/write fail with err.
func (s *Store) FailConversations(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversationErr = err
}

// ProductQueries counts product FindAll/FindOne calls.
func (s *Store) ProductQueries() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.productQueries
}

// Conversations returns copies of every stored conversation in insertion order.
func (s *Store) Conversations() []*entity.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Conversation, len(s.conversations))
	for i, c := range s.conversations {
		out[i] = cloneConversation(c)
	}
	return out
}

func cloneProduct(p *entity.Product, withRefs bool, categories []*entity.Category, brands []*entity.Brand) *entity.Product {
	cp := *p
	cp.Images = append([]string(nil), p.Images...)
	cp.Category = nil
	cp.Brand = nil
	if withRefs {
		for _, c := range categories {
			if c.Id == p.CategoryId {
				cc := *c
				cp.Category = &cc
			}
		}
		for _, b := range brands {
			if b.Id == p.BrandId {
				bb := *b
				cp.Brand = &bb
			}
		}
	}
	return &cp
}

func cloneConversation(c *entity.Conversation) *entity.Conversation {
	cp := *c
	cp.Messages = append([]entity.ConversationMessage(nil), c.Messages...)
	return &cp
}
