package entity

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	Id                 uuid.UUID
	Title              string
	Description        string
	Price              float64
	DiscountPercentage float64
	StockQuantity      int
	Thumbnail          string
	Images             []string
	IsDeleted          bool
	CategoryId         uuid.UUID
	BrandId            uuid.UUID
	Category           *Category
	Brand              *Brand
	CreatedAt          time.Time
	UpdatedAt          *time.Time
}

// HasDiscount reports whether the product carries an active discount.
func (p *Product) HasDiscount() bool {
	return p.DiscountPercentage > 0
}

type Category struct {
	Id        uuid.UUID
	Name      string
	CreatedAt time.Time
}

type Brand struct {
	Id        uuid.UUID
	Name      string
	CreatedAt time.Time
}
