package service

import (
	"context"
	"strings"

	"storefront-be/internal/dto"
	"storefront-be/internal/entity"
	"storefront-be/internal/repository/specification"
	"storefront-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const defaultPageSize = 20

type ICatalogService interface {
	ListProducts(ctx context.Context, req *dto.ListProductsRequest) (*dto.ListProductsResponse, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	ListCategories(ctx context.Context) ([]dto.NamedRefResponse, error)
	ListBrands(ctx context.Context) ([]dto.NamedRefResponse, error)
}

type catalogService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewCatalogService(uowFactory unitofwork.RepositoryFactory) ICatalogService {
	return &catalogService{uowFactory: uowFactory}
}

func (s *catalogService) ListProducts(ctx context.Context, req *dto.ListProductsRequest) (*dto.ListProductsResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	filters := []specification.Specification{specification.NotSoftDeleted{}}
	if q := strings.TrimSpace(req.Q); q != "" {
		filters = append(filters, specification.ProductTextMatch{Term: q})
	}
	if id, err := uuid.Parse(req.CategoryId); err == nil {
		filters = append(filters, specification.ByCategoryID{CategoryID: id})
	}
	if id, err := uuid.Parse(req.BrandId); err == nil {
		filters = append(filters, specification.ByBrandID{BrandID: id})
	}

	repo := s.uowFactory.NewUnitOfWork(ctx).ProductRepository()
	total, err := repo.Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	specs := append(filters,
		specification.WithCatalogRefs{},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: req.Page * limit},
	)
	products, err := repo.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	return &dto.ListProductsResponse{
		Items: toProductResponses(products),
		Total: total,
		Page:  req.Page,
		Limit: limit,
	}, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	product, err := s.uowFactory.NewUnitOfWork(ctx).ProductRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.NotSoftDeleted{},
		specification.WithCatalogRefs{},
	)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	res := toProductResponse(product)
	return &res, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]dto.NamedRefResponse, error) {
	categories, err := s.uowFactory.NewUnitOfWork(ctx).CategoryRepository().FindAll(ctx,
		specification.OrderBy{Field: "name"},
	)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NamedRefResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, dto.NamedRefResponse{Id: c.Id, Name: c.Name})
	}
	return out, nil
}

func (s *catalogService) ListBrands(ctx context.Context) ([]dto.NamedRefResponse, error) {
	brands, err := s.uowFactory.NewUnitOfWork(ctx).BrandRepository().FindAll(ctx,
		specification.OrderBy{Field: "name"},
	)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NamedRefResponse, 0, len(brands))
	for _, b := range brands {
		out = append(out, dto.NamedRefResponse{Id: b.Id, Name: b.Name})
	}
	return out, nil
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	res := dto.ProductResponse{
		Id:                 p.Id,
		Title:              p.Title,
		Description:        p.Description,
		Price:              p.Price,
		DiscountPercentage: p.DiscountPercentage,
		StockQuantity:      p.StockQuantity,
		Thumbnail:          p.Thumbnail,
		Images:             p.Images,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
	if res.Images == nil {
		res.Images = []string{}
	}
	if p.Category != nil {
		res.Category = &dto.NamedRefResponse{Id: p.Category.Id, Name: p.Category.Name}
	}
	if p.Brand != nil {
		res.Brand = &dto.NamedRefResponse{Id: p.Brand.Id, Name: p.Brand.Name}
	}
	return res
}

func toProductResponses(products []*entity.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}
