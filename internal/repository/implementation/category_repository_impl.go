package implementation

import (
	"context"
	"errors"

	"storefront-be/internal/entity"
	"storefront-be/internal/mapper"
	"storefront-be/internal/model"
	"storefront-be/internal/repository/contract"
	"storefront-be/internal/repository/specification"

	"gorm.io/gorm"
)

type CategoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CatalogMapper
}

func NewCategoryRepository(db *gorm.DB) contract.CategoryRepository {
	return &CategoryRepositoryImpl{db: db, mapper: mapper.NewCatalogMapper()}
}

func (r *CategoryRepositoryImpl) Create(ctx context.Context, category *entity.Category) error {
	m := r.mapper.CategoryToModel(category)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*category = *r.mapper.CategoryToEntity(m)
	return nil
}

func (r *CategoryRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Category, error) {
	var m model.Category
	if err := applySpecifications(r.db.WithContext(ctx), specs...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.CategoryToEntity(&m), nil
}

func (r *CategoryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Category, error) {
	var models []*model.Category
	if err := applySpecifications(r.db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.Category, len(models))
	for i, m := range models {
		out[i] = r.mapper.CategoryToEntity(m)
	}
	return out, nil
}

type BrandRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CatalogMapper
}

func NewBrandRepository(db *gorm.DB) contract.BrandRepository {
	return &BrandRepositoryImpl{db: db, mapper: mapper.NewCatalogMapper()}
}

func (r *BrandRepositoryImpl) Create(ctx context.Context, brand *entity.Brand) error {
	m := r.mapper.BrandToModel(brand)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*brand = *r.mapper.BrandToEntity(m)
	return nil
}

func (r *BrandRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Brand, error) {
	var m model.Brand
	if err := applySpecifications(r.db.WithContext(ctx), specs...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.BrandToEntity(&m), nil
}

func (r *BrandRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Brand, error) {
	var models []*model.Brand
	if err := applySpecifications(r.db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.Brand, len(models))
	for i, m := range models {
		out[i] = r.mapper.BrandToEntity(m)
	}
	return out, nil
}
