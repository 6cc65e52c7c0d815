package memory

import (
	"context"

	"storefront-be/internal/repository/contract"
	"storefront-be/internal/repository/unitofwork"
)

type RepositoryFactory struct {
	store *Store
}

func NewRepositoryFactory(store *Store) *RepositoryFactory {
	return &RepositoryFactory{store: store}
}

var _ unitofwork.RepositoryFactory = (*RepositoryFactory)(nil)

func (f *RepositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{store: f.store}
}

// unitOfWork applies writes immediately; Begin/Commit/Rollback only track state.
type unitOfWork struct {
	store  *Store
	active bool
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	u.active = true
	return nil
}

func (u *unitOfWork) Commit() error {
	u.active = false
	return nil
}

func (u *unitOfWork) Rollback() error {
	u.active = false
	return nil
}

func (u *unitOfWork) ProductRepository() contract.ProductRepository {
	return &productRepository{store: u.store}
}

func (u *unitOfWork) CategoryRepository() contract.CategoryRepository {
	return &categoryRepository{store: u.store}
}

func (u *unitOfWork) BrandRepository() contract.BrandRepository {
	return &brandRepository{store: u.store}
}

func (u *unitOfWork) ConversationRepository() contract.ConversationRepository {
	return &conversationRepository{store: u.store}
}
