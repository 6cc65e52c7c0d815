package mapper

import (
	"time"

	"storefront-be/internal/entity"
	"storefront-be/internal/model"
)

type CatalogMapper struct{}

func NewCatalogMapper() *CatalogMapper {
	return &CatalogMapper{}
}

func (m *CatalogMapper) ProductToEntity(p *model.Product) *entity.Product {
	if p == nil {
		return nil
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	images := make([]string, len(p.Images))
	copy(images, p.Images)

	return &entity.Product{
		Id:                 p.Id,
		Title:              p.Title,
		Description:        p.Description,
		Price:              p.Price,
		DiscountPercentage: p.DiscountPercentage,
		StockQuantity:      p.StockQuantity,
		Thumbnail:          p.Thumbnail,
		Images:             images,
		IsDeleted:          p.IsDeleted,
		CategoryId:         p.CategoryId,
		BrandId:            p.BrandId,
		Category:           m.CategoryToEntity(p.Category),
		Brand:              m.BrandToEntity(p.Brand),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          updatedAt,
	}
}

func (m *CatalogMapper) ProductsToEntities(models []*model.Product) []*entity.Product {
	entities := make([]*entity.Product, len(models))
	for i, p := range models {
		entities[i] = m.ProductToEntity(p)
	}
	return entities
}

func (m *CatalogMapper) ProductToModel(p *entity.Product) *model.Product {
	if p == nil {
		return nil
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.Product{
		Id:                 p.Id,
		Title:              p.Title,
		Description:        p.Description,
		Price:              p.Price,
		DiscountPercentage: p.DiscountPercentage,
		StockQuantity:      p.StockQuantity,
		Thumbnail:          p.Thumbnail,
		Images:             p.Images,
		IsDeleted:          p.IsDeleted,
		CategoryId:         p.CategoryId,
		BrandId:            p.BrandId,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          updatedAt,
	}
}

func (m *CatalogMapper) CategoryToEntity(c *model.Category) *entity.Category {
	if c == nil {
		return nil
	}
	return &entity.Category{Id: c.Id, Name: c.Name, CreatedAt: c.CreatedAt}
}

func (m *CatalogMapper) CategoryToModel(c *entity.Category) *model.Category {
	if c == nil {
		return nil
	}
	return &model.Category{Id: c.Id, Name: c.Name, CreatedAt: c.CreatedAt}
}

func (m *CatalogMapper) BrandToEntity(b *model.Brand) *entity.Brand {
	if b == nil {
		return nil
	}
	return &entity.Brand{Id: b.Id, Name: b.Name, CreatedAt: b.CreatedAt}
}

func (m *CatalogMapper) BrandToModel(b *entity.Brand) *model.Brand {
	if b == nil {
		return nil
	}
	return &model.Brand{Id: b.Id, Name: b.Name, CreatedAt: b.CreatedAt}
}
