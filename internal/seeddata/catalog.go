// Package seeddata holds the demo catalog loaded by cmd/seed and by the
// in-memory store when no database is configured.
package seeddata

import (
	"context"

	"storefront-be/internal/entity"
	"storefront-be/internal/repository/unitofwork"
)

type Item struct {
	Title       string
	Description string
	Price       float64
	Discount    float64
	Stock       int
	Category    string
	Brand       string
}

var Catalog = []Item{
	{"Bluetooth Headphones", "Over-ear wireless headphones with 30h battery and noise cancelling", 79.99, 15, 40, "Audio", "Sonora"},
	{"Wireless Earbuds", "Compact earbuds with charging case", 49.99, 0, 120, "Audio", "Sonora"},
	{"Portable Speaker", "Waterproof bluetooth speaker for outdoor audio", 59.00, 10, 35, "Audio", "Sonora"},
	{"Smart Watch", "Fitness tracking smartwatch with heart rate monitor", 199.00, 0, 25, "Wearables", "Pulse"},
	{"Fitness Band", "Slim wearable step counter", 39.50, 20, 80, "Wearables", "Pulse"},
	{"Power Bank 20000mAh", "Fast-charging battery pack with two USB-C ports", 35.00, 0, 60, "Accessories", "Voltix"},
	{"USB-C Charger", "65W wall charger for laptops and phones", 29.99, 5, 150, "Accessories", "Voltix"},
	{"Laptop Sleeve", "Padded sleeve for 14 inch laptops", 19.99, 0, 45, "Accessories", "Carryall"},
}

// Load writes Catalog through the repositories in one unit of work.
func Load(ctx context.Context, uowFactory unitofwork.RepositoryFactory) error {
	uow := uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	categories := map[string]*entity.Category{}
	brands := map[string]*entity.Brand{}
	for _, item := range Catalog {
		category, ok := categories[item.Category]
		if !ok {
			category = &entity.Category{Name: item.Category}
			if err := uow.CategoryRepository().Create(ctx, category); err != nil {
				return err
			}
			categories[item.Category] = category
		}
		brand, ok := brands[item.Brand]
		if !ok {
			brand = &entity.Brand{Name: item.Brand}
			if err := uow.BrandRepository().Create(ctx, brand); err != nil {
				return err
			}
			brands[item.Brand] = brand
		}

		if err := uow.ProductRepository().Create(ctx, &entity.Product{
			Title:              item.Title,
			Description:        item.Description,
			Price:              item.Price,
			DiscountPercentage: item.Discount,
			StockQuantity:      item.Stock,
			Images:             []string{},
			CategoryId:         category.Id,
			BrandId:            brand.Id,
		}); err != nil {
			return err
		}
	}
	return uow.Commit()
}
